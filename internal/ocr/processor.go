package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// ProcessResult carries everything the extraction step needs from one
// document.
type ProcessResult struct {
	// Text is the full OCR text, with page markers for multi-page PDFs.
	Text string
	// PageImages are paths handed to vision-capable LLMs. For plain image
	// uploads this is the upload itself.
	PageImages []string
	// Derived are files created during processing (rendered PDF pages) that
	// must be deleted once the document has been extracted.
	Derived []string
}

// Processor converts a document into OCR text plus page images. PDFs are
// rasterized page by page; JPEG/PNG uploads are recognized directly.
type Processor struct {
	Engine   Engine
	DPI      int
	Enhance  bool
	PagesDir string
}

func NewProcessor(engine Engine, dpi int, enhance bool, pagesDir string) *Processor {
	if dpi <= 0 {
		dpi = 300
	}
	return &Processor{
		Engine:   engine,
		DPI:      dpi,
		Enhance:  enhance,
		PagesDir: pagesDir,
	}
}

// ProcessFile runs OCR over a PDF or image file. Failures are per-document:
// the caller records them and moves on, they never abort a batch.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*ProcessResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return p.processPDF(ctx, path)
	case ".jpg", ".jpeg", ".png":
		return p.processImage(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func (p *Processor) processPDF(ctx context.Context, path string) (*ProcessResult, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if err := os.MkdirAll(p.PagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pages dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result := &ProcessResult{}
	var text strings.Builder

	for n := 0; n < doc.NumPage(); n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(n, float64(p.DPI))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n+1, err)
		}

		pagePath := filepath.Join(p.PagesDir, fmt.Sprintf("%s_page_%d.png", base, n+1))
		if err := imaging.Save(img, pagePath); err != nil {
			return nil, fmt.Errorf("save page %d: %w", n+1, err)
		}
		result.PageImages = append(result.PageImages, pagePath)
		result.Derived = append(result.Derived, pagePath)

		pageText, err := p.recognize(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", n+1, err)
		}
		fmt.Fprintf(&text, "\n\n--- Page %d ---\n\n%s", n+1, pageText)
	}

	result.Text = strings.TrimSpace(text.String())
	return result, nil
}

func (p *Processor) processImage(ctx context.Context, path string) (*ProcessResult, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	text, err := p.recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("ocr image: %w", err)
	}

	return &ProcessResult{
		Text:       strings.TrimSpace(text),
		PageImages: []string{path},
	}, nil
}

// recognize optionally enhances the image for OCR and feeds it to the engine
// as PNG bytes. Enhancement is for recognition only; the images handed to the
// LLM stay untouched.
func (p *Processor) recognize(ctx context.Context, img image.Image) (string, error) {
	if p.Enhance {
		img = enhanceForOCR(img)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return p.Engine.Recognize(ctx, buf.Bytes())
}

// enhanceForOCR applies grayscale, contrast and sharpening to make scanned
// text more readable for the recognizer.
func enhanceForOCR(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	return imaging.AdjustBrightness(img, 10)
}
