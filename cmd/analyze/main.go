// Command analyze runs the pipeline against a local directory of invoices and
// writes the flagged batch as CSV, without going through the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/agenthands/invoiceguard/internal/config"
	"github.com/agenthands/invoiceguard/internal/core"
	"github.com/agenthands/invoiceguard/internal/llm"
	"github.com/agenthands/invoiceguard/internal/logger"
	"github.com/agenthands/invoiceguard/internal/report"
)

var supportedExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func main() {
	dir := flag.String("dir", "", "directory of invoice files to analyze")
	cfgPath := flag.String("config", "config/config.toml", "path to config file")
	out := flag.String("out", "", "CSV output path (default stdout)")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", *cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	docs, err := collectDocuments(*dir)
	if err != nil {
		log.Fatalf("Failed to list %s: %v", *dir, err)
	}
	if len(docs) == 0 {
		log.Fatalf("No supported invoice files in %s", *dir)
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	analyzer := core.NewDefaultAnalyzer(cfg, client)
	result, err := analyzer.AnalyzeBatch(ctx, docs)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "FAILED %s: %s\n", failure.FileName, failure.Error)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := report.WriteCSV(w, result.Records); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}
}

// collectDocuments lists supported files in dir, sorted by name so repeated
// runs classify the batch in the same order.
func collectDocuments(dir string) ([]core.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []core.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !supportedExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		docs = append(docs, core.Document{
			FileName: entry.Name(),
			Path:     filepath.Join(dir, entry.Name()),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].FileName < docs[j].FileName })
	return docs, nil
}
