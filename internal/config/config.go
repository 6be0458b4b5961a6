package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float32 `toml:"temperature"`
}

type OCRConfig struct {
	Languages []string `toml:"languages"`
	DPI       int      `toml:"dpi"`
	// Enhance is a pointer so an explicit `enhance = false` in the config
	// file is distinguishable from the field being unset.
	Enhance *bool `toml:"enhance"`
}

// EnhanceEnabled reports whether pre-OCR image enhancement is on. Unset means
// enabled, matching Default.
func (c OCRConfig) EnhanceEnabled() bool {
	return c.Enhance == nil || *c.Enhance
}

type ExtractionPrompts struct {
	Invoice string `toml:"invoice"`
}

// AnalysisConfig is the single source of truth for the similarity thresholds.
// The core packages take them as explicit arguments; nothing reads this
// struct below the server layer.
type AnalysisConfig struct {
	VendorMatchThreshold int     `toml:"vendor_match_threshold"`
	FormatGroupThreshold float64 `toml:"format_group_threshold"`
	DriftFloor           float64 `toml:"drift_floor"`
}

type ConcurrencyConfig struct {
	ExtractWorkers int `toml:"extract_workers"`
}

type StorageConfig struct {
	UploadDir string `toml:"upload_dir"`
	PagesDir  string `toml:"pages_dir"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	OCR         OCRConfig         `toml:"ocr"`
	Extraction  ExtractionPrompts `toml:"extraction"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Storage     StorageConfig     `toml:"storage"`
	Log         LogConfig         `toml:"log"`
}

// Default returns the configuration used when no file or field is provided.
func Default() *Config {
	enhance := true
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.1,
		},
		OCR: OCRConfig{
			Languages: []string{"eng"},
			DPI:       300,
			Enhance:   &enhance,
		},
		Analysis: AnalysisConfig{
			VendorMatchThreshold: 90,
			FormatGroupThreshold: 0.9,
			DriftFloor:           0.4,
		},
		Concurrency: ConcurrencyConfig{
			ExtractWorkers: 7,
		},
		Storage: StorageConfig{
			UploadDir: "data/uploads",
			PagesDir:  "data/uploads/pages",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = def.LLM.Model
	}
	if len(c.OCR.Languages) == 0 {
		c.OCR.Languages = def.OCR.Languages
	}
	if c.OCR.DPI == 0 {
		c.OCR.DPI = def.OCR.DPI
	}
	if c.OCR.Enhance == nil {
		c.OCR.Enhance = def.OCR.Enhance
	}
	if c.Analysis.VendorMatchThreshold == 0 {
		c.Analysis.VendorMatchThreshold = def.Analysis.VendorMatchThreshold
	}
	if c.Analysis.FormatGroupThreshold == 0 {
		c.Analysis.FormatGroupThreshold = def.Analysis.FormatGroupThreshold
	}
	if c.Analysis.DriftFloor == 0 {
		c.Analysis.DriftFloor = def.Analysis.DriftFloor
	}
	if c.Concurrency.ExtractWorkers == 0 {
		c.Concurrency.ExtractWorkers = def.Concurrency.ExtractWorkers
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = def.Storage.UploadDir
	}
	if c.Storage.PagesDir == "" {
		c.Storage.PagesDir = def.Storage.PagesDir
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// ApplyEnv overrides LLM settings from the environment, mirroring the server
// bootstrap convention.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
}
