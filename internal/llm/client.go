package llm

import (
	"context"
)

// Image is an inline image attachment for vision-capable providers.
type Image struct {
	MIME string
	Data []byte
}

// Client generates text from a prompt, optionally grounded on page images.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithImages(ctx context.Context, prompt string, images []Image) (string, error)
}
