package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/agenthands/invoiceguard/internal/core/model"
	"github.com/agenthands/invoiceguard/internal/llm"
	"github.com/agenthands/invoiceguard/internal/ocr"
)

// MockProcessor serves canned OCR results keyed by path.
type MockProcessor struct {
	mu      sync.Mutex
	Results map[string]*ocr.ProcessResult
	Errs    map[string]error
	Calls   []string
}

func (m *MockProcessor) ProcessFile(ctx context.Context, path string) (*ocr.ProcessResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, path)
	m.mu.Unlock()

	if err, ok := m.Errs[path]; ok {
		return nil, err
	}
	if res, ok := m.Results[path]; ok {
		return res, nil
	}
	return nil, fmt.Errorf("no mock result for %s", path)
}

// MockExtractor serves canned records keyed by file name.
type MockExtractor struct {
	Records  map[string]*model.InvoiceRecord
	Failures map[string]*model.ExtractionFailure
}

func (m *MockExtractor) ExtractInvoice(ctx context.Context, fileName, ocrText string, images []llm.Image) (*model.InvoiceRecord, *model.ExtractionFailure) {
	if failure, ok := m.Failures[fileName]; ok {
		return nil, failure
	}
	if rec, ok := m.Records[fileName]; ok {
		return rec, nil
	}
	return nil, &model.ExtractionFailure{FileName: fileName, Error: "no mock record"}
}
