package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(apiKey, opts...)

	return &ClaudeClient{
		client: client,
		model:  model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.GenerateWithImages(ctx, prompt, nil)
}

func (c *ClaudeClient) GenerateWithImages(ctx context.Context, prompt string, images []Image) (string, error) {
	content := make([]anthropic.MessageContent, 0, len(images)+1)
	for _, img := range images {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, img.MIME, img.Data),
		))
	}
	content = append(content, anthropic.NewTextMessageContent(prompt))

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: content,
			},
		},
		MaxTokens: 4000,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}
