// Package extraction asks an LLM to turn OCR output into structured invoice
// records, defending against the unstructured responses LLMs produce.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenthands/invoiceguard/internal/core/model"
	"github.com/agenthands/invoiceguard/internal/llm"
)

type Extractor struct {
	LLM    llm.Client
	Prompt string
}

// NewExtractor builds an extractor; an empty prompt selects
// DefaultInvoicePrompt.
func NewExtractor(client llm.Client, prompt string) *Extractor {
	if prompt == "" {
		prompt = DefaultInvoicePrompt
	}
	return &Extractor{
		LLM:    client,
		Prompt: prompt,
	}
}

// ExtractInvoice prompts the LLM with the OCR text and page images and parses
// the response into an InvoiceRecord keyed by fileName. A transport error or
// unparseable response yields an ExtractionFailure instead; the raw output is
// preserved so an operator can inspect what the model actually said.
func (e *Extractor) ExtractInvoice(ctx context.Context, fileName, ocrText string, images []llm.Image) (*model.InvoiceRecord, *model.ExtractionFailure) {
	prompt := fmt.Sprintf(e.Prompt, ocrText)

	var response string
	var err error
	if len(images) > 0 {
		response, err = e.LLM.GenerateWithImages(ctx, prompt, images)
	} else {
		response, err = e.LLM.Generate(ctx, prompt)
	}
	if err != nil {
		return nil, &model.ExtractionFailure{
			FileName: fileName,
			Error:    fmt.Sprintf("LLM request failed: %v", err),
		}
	}

	record, err := parseInvoiceJSON(response)
	if err != nil {
		return nil, &model.ExtractionFailure{
			FileName:  fileName,
			Error:     "LLM returned unstructured text",
			RawOutput: response,
		}
	}

	record.FileName = fileName
	return record, nil
}

// parseInvoiceJSON trims everything outside the outermost JSON object before
// unmarshaling, which handles markdown fences and chatter around the payload.
func parseInvoiceJSON(response string) (*model.InvoiceRecord, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var record model.InvoiceRecord
	if err := json.Unmarshal([]byte(response[start:end+1]), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice record: %w", err)
	}

	return &record, nil
}
