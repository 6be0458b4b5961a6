package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIClient(apiKey string, model string, baseURL string, temperature float32) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.GenerateWithImages(ctx, prompt, nil)
}

// GenerateWithImages sends the prompt plus inline page images as a vision
// request and asks for a JSON object response so the extraction output stays
// machine-parseable.
func (c *OpenAIClient) GenerateWithImages(ctx context.Context, prompt string, images []Image) (string, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	for _, img := range images {
		url := fmt.Sprintf("data:%s;base64,%s", img.MIME, base64.StdEncoding.EncodeToString(img.Data))
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an intelligent OCR cleanup and data extraction assistant.",
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("no response choices")
}
