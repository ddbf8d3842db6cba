package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
)

// Config is the top-level statement-analyzer configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       logger.Options  `yaml:"log"`
	Extractor ExtractorConfig `yaml:"extractor"`
}

// ServerConfig controls the upload endpoint.
type ServerConfig struct {
	Addr        string `yaml:"addr" env:"STATEMENT_ADDR"`
	MaxUploadMB int    `yaml:"max_upload_mb" env:"STATEMENT_MAX_UPLOAD_MB"`
}

// ExtractorConfig tunes PDF table detection.
type ExtractorConfig struct {
	ColumnGap    float64 `yaml:"column_gap" env:"STATEMENT_COLUMN_GAP"`
	RowTolerance float64 `yaml:"row_tolerance" env:"STATEMENT_ROW_TOLERANCE"`
	MinColumns   int     `yaml:"min_columns" env:"STATEMENT_MIN_COLUMNS"`
}

// TableOptions converts the section into extractor options.
func (c ExtractorConfig) TableOptions() extractor.TableOptions {
	return extractor.TableOptions{
		ColumnGap:    c.ColumnGap,
		RowTolerance: c.RowTolerance,
		MinColumns:   c.MinColumns,
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (c ServerConfig) MaxUploadBytes() int {
	return c.MaxUploadMB << 20
}

// Default returns a Config that works without a file.
func Default() *Config {
	opts := extractor.DefaultTableOptions()
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
		Log: logger.Options{
			Level:  "info",
			Format: "console",
		},
		Extractor: ExtractorConfig{
			ColumnGap:    opts.ColumnGap,
			RowTolerance: opts.RowTolerance,
			MinColumns:   opts.MinColumns,
		},
	}
}

// Load starts from Default, overlays the YAML file at path when path is not
// empty, then applies STATEMENT_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Extractor.ColumnGap < 0 || c.Extractor.RowTolerance < 0 {
		return fmt.Errorf("extractor tolerances must not be negative")
	}
	return nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
