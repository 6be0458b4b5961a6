//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/invoiceguard/internal/config"
	"github.com/agenthands/invoiceguard/internal/core"
	"github.com/agenthands/invoiceguard/internal/llm"
)

// TestFullPipeline runs real OCR and a real LLM against a local directory of
// invoice files. Requires a Tesseract install and LLM credentials.
//
//	INVOICE_DIR=testdata/invoices LLM_PROVIDER=ollama go test -tags integration ./test/integration/
func TestFullPipeline(t *testing.T) {
	_ = godotenv.Load("../../.env")

	dir := os.Getenv("INVOICE_DIR")
	if dir == "" {
		t.Skip("Skipping integration test: INVOICE_DIR not set")
	}

	cfg := config.Default()
	cfg.ApplyEnv()
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "http://localhost:11434"
	}
	cfg.Storage.PagesDir = t.TempDir()

	ctx := context.Background()
	client, err := llm.NewClient(ctx, cfg.LLM)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var docs []core.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".jpg", ".jpeg", ".png":
			docs = append(docs, core.Document{
				FileName: entry.Name(),
				Path:     filepath.Join(dir, entry.Name()),
			})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].FileName < docs[j].FileName })
	require.NotEmpty(t, docs, "no invoice files in %s", dir)

	analyzer := core.NewDefaultAnalyzer(cfg, client)
	result, err := analyzer.AnalyzeBatch(ctx, docs)
	require.NoError(t, err)

	t.Logf("records=%d failures=%d", len(result.Records), len(result.Failures))
	for _, failure := range result.Failures {
		t.Logf("FAILED %s: %s", failure.FileName, failure.Error)
	}

	assert.Equal(t, len(docs), len(result.Records)+len(result.Failures))
	for _, rec := range result.Records {
		assert.NotEmpty(t, rec.FlagType, "%s has no flag", rec.FileName)
		assert.NotEmpty(t, rec.FlagReason, "%s has no reason", rec.FileName)
		assert.NotEmpty(t, rec.CanonicalVendor, "%s has no canonical vendor", rec.FileName)
	}
}
