// Package core wires OCR, LLM extraction and the red-flag correlation engine
// into a batch analyzer.
package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/agenthands/invoiceguard/internal/config"
	"github.com/agenthands/invoiceguard/internal/core/model"
	"github.com/agenthands/invoiceguard/internal/core/redflag"
	"github.com/agenthands/invoiceguard/internal/extraction"
	"github.com/agenthands/invoiceguard/internal/llm"
	"github.com/agenthands/invoiceguard/internal/logger"
	"github.com/agenthands/invoiceguard/internal/ocr"
	"github.com/agenthands/invoiceguard/internal/storage"
)

// DefaultWorkers bounds the per-document extraction pool.
const DefaultWorkers = 7

// DocumentProcessor turns a stored document into OCR text plus page images.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, path string) (*ocr.ProcessResult, error)
}

// InvoiceExtractor turns OCR output into a structured record or a failure.
type InvoiceExtractor interface {
	ExtractInvoice(ctx context.Context, fileName, ocrText string, images []llm.Image) (*model.InvoiceRecord, *model.ExtractionFailure)
}

// Document is one uploaded file queued for analysis.
type Document struct {
	FileName string
	Path     string
}

// BatchResult is the outcome of one analysis run. Records carry the flag
// annotations; Failures list documents excluded from correlation because
// their extraction failed.
type BatchResult struct {
	Records  []model.FlaggedInvoiceRecord `json:"records"`
	Failures []model.ExtractionFailure    `json:"failures"`
}

// Analyzer runs the full pipeline: parallel per-document extraction, then the
// single-threaded correlation pass once the whole batch is in memory.
type Analyzer struct {
	Processor DocumentProcessor
	Extractor InvoiceExtractor
	Workers   int
	Options   redflag.Options
}

func NewAnalyzer(processor DocumentProcessor, extractor InvoiceExtractor, workers int, opts redflag.Options) *Analyzer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if opts == (redflag.Options{}) {
		opts = redflag.DefaultOptions()
	}
	return &Analyzer{
		Processor: processor,
		Extractor: extractor,
		Workers:   workers,
		Options:   opts,
	}
}

// AnalyzeBatch extracts every document concurrently, then classifies the
// batch. Extraction tasks complete in any order, but results are slotted by
// input position so classification always sees the batch in upload order —
// the correlation pass is order-dependent by design. A failed document
// becomes a failure entry and never blocks the rest of the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, docs []Document) (*BatchResult, error) {
	records := make([]*model.InvoiceRecord, len(docs))
	failures := make([]*model.ExtractionFailure, len(docs))

	sem := make(chan struct{}, a.Workers)
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			records[i], failures[i] = a.extractOne(ctx, doc)
		}(i, doc)
	}
	wg.Wait()

	result := &BatchResult{}
	var valid []*model.InvoiceRecord
	for i := range docs {
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
			continue
		}
		valid = append(valid, records[i])
	}

	result.Records = redflag.DetectWithOptions(valid, a.Options)
	logger.Info(ctx, "batch analyzed",
		"documents", len(docs),
		"flagged", len(result.Records),
		"failures", len(result.Failures))
	return result, nil
}

// extractOne runs OCR and LLM extraction for a single document. Derived page
// images are deleted once the document has been extracted.
func (a *Analyzer) extractOne(ctx context.Context, doc Document) (*model.InvoiceRecord, *model.ExtractionFailure) {
	ctx = context.WithValue(ctx, logger.FileNameKey, doc.FileName)

	processed, err := a.Processor.ProcessFile(ctx, doc.Path)
	if err != nil {
		logger.Warn(ctx, "ocr failed", "error", err)
		return nil, &model.ExtractionFailure{
			FileName: doc.FileName,
			Error:    "OCR failed: " + err.Error(),
		}
	}
	defer storage.CleanupImages(processed.Derived)

	record, failure := a.Extractor.ExtractInvoice(ctx, doc.FileName, processed.Text, loadImages(processed.PageImages))
	if failure != nil {
		logger.Warn(ctx, "extraction failed", "error", failure.Error)
		return nil, failure
	}

	logger.Debug(ctx, "document extracted", "vendor", record.VendorName)
	return record, nil
}

// loadImages reads page images from disk for vision prompting. Unreadable
// pages are skipped; extraction still has the OCR text to work from.
func loadImages(paths []string) []llm.Image {
	var images []llm.Image
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		mime := "image/png"
		switch strings.ToLower(filepath.Ext(p)) {
		case ".jpg", ".jpeg":
			mime = "image/jpeg"
		}
		images = append(images, llm.Image{MIME: mime, Data: data})
	}
	return images
}

// NewDefaultAnalyzer assembles the production pipeline: Tesseract OCR plus
// the configured LLM client.
func NewDefaultAnalyzer(cfg *config.Config, client llm.Client) *Analyzer {
	engine := ocr.NewTesseract(cfg.OCR.Languages)
	return NewAnalyzer(
		ocr.NewProcessor(engine, cfg.OCR.DPI, cfg.OCR.EnhanceEnabled(), cfg.Storage.PagesDir),
		extraction.NewExtractor(client, cfg.Extraction.Invoice),
		cfg.Concurrency.ExtractWorkers,
		redflag.Options{
			VendorMatchThreshold: cfg.Analysis.VendorMatchThreshold,
			FormatGroupThreshold: cfg.Analysis.FormatGroupThreshold,
			DriftFloor:           cfg.Analysis.DriftFloor,
		},
	)
}
