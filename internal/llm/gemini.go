package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.GenerateWithImages(ctx, prompt, nil)
}

func (c *GeminiClient) GenerateWithImages(ctx context.Context, prompt string, images []Image) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	for _, img := range images {
		// genai wants the bare subtype, e.g. "png" rather than "image/png".
		format := strings.TrimPrefix(img.MIME, "image/")
		parts = append(parts, genai.ImageData(format, img.Data))
	}

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no response candidates or content")
}
