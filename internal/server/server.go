package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/invoiceguard/internal/config"
	"github.com/agenthands/invoiceguard/internal/core"
	"github.com/agenthands/invoiceguard/internal/core/model"
	"github.com/agenthands/invoiceguard/internal/llm"
	"github.com/agenthands/invoiceguard/internal/logger"
	"github.com/agenthands/invoiceguard/internal/report"
	"github.com/agenthands/invoiceguard/internal/storage"
)

type Server struct {
	Analyzer  *core.Analyzer
	UploadDir string
}

// New assembles the production server from the configuration.
func New(cfg *config.Config) (*Server, error) {
	client, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("initialize llm client: %w", err)
	}

	return &Server{
		Analyzer:  core.NewDefaultAnalyzer(cfg, client),
		UploadDir: cfg.Storage.UploadDir,
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/analyze", s.Analyze)
	r.POST("/export/csv", s.ExportCSV)
	r.POST("/export/xlsx", s.ExportXLSX)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Analyze accepts a multipart batch under the "files" field, stores each
// upload under a sanitized batch-prefixed path, runs the full pipeline and
// returns the flagged records plus per-document failures.
func (s *Server) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart request"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	batchID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.BatchIDKey, batchID)

	docs := make([]core.Document, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot read upload %s", fh.Filename)})
			return
		}
		path, err := storage.SaveUpload(s.UploadDir, fh.Filename, f, batchID)
		f.Close()
		if err != nil {
			logger.Error(ctx, "failed to store upload", "file", fh.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
			return
		}
		docs = append(docs, core.Document{FileName: fh.Filename, Path: path})
	}

	result, err := s.Analyzer.AnalyzeBatch(ctx, docs)
	if err != nil {
		logger.Error(ctx, "batch analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze batch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id": batchID,
		"records":  result.Records,
		"failures": result.Failures,
	})
}

// ExportCSV renders a previously returned record set as a CSV download. The
// server keeps no batch state, so the client sends the records back.
func (s *Server) ExportCSV(c *gin.Context) {
	var records []model.FlaggedInvoiceRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid records payload"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="red_flags.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := report.WriteCSV(c.Writer, records); err != nil {
		logger.Error(c.Request.Context(), "csv export failed", "error", err)
	}
}

func (s *Server) ExportXLSX(c *gin.Context) {
	var records []model.FlaggedInvoiceRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid records payload"})
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, records); err != nil {
		logger.Error(c.Request.Context(), "xlsx export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="red_flags.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
