package extraction

import (
	"context"

	"github.com/agenthands/invoiceguard/internal/llm"
)

type MockLLMClient struct {
	Response   string
	Err        error
	LastPrompt string
	LastImages []llm.Image
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLMClient) GenerateWithImages(ctx context.Context, prompt string, images []llm.Image) (string, error) {
	m.LastPrompt = prompt
	m.LastImages = images
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
