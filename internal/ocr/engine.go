// Package ocr turns uploaded invoice documents into text and per-page images
// for downstream LLM field extraction.
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine performs text recognition on a single encoded image.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Tesseract is the default Engine, backed by the gosseract client. A fresh
// client is created per call; the client is not safe for concurrent use.
type Tesseract struct {
	Languages []string

	clientFactory func() *gosseract.Client
}

func NewTesseract(languages []string) *Tesseract {
	return &Tesseract{
		Languages:     languages,
		clientFactory: gosseract.NewClient,
	}
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(t.Languages) > 0 {
		if err := c.SetLanguage(t.Languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
