// Package config resolves the auditor's settings: contract locations,
// extraction provider and pipeline, pacing knobs and cost estimation
// inputs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Micos01/analise-locacao/internal/common"
)

// Config is the resolved application configuration. Values come from the
// config file, LOCAUDIT_-prefixed environment variables and flags, with
// provider API keys also honored from their conventional variable names.
type Config struct {
	InputDir     string
	DatabasePath string
	ReportPath   string

	Provider       string // "gemini" or "openrouter"
	Model          string
	APIKey         string
	LlamaParseKey  string
	Pipeline       string // "vision" or "text"
	RequestTimeout time.Duration

	BatchSize  int
	Cooldown   time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Workers    int

	// Cost estimation inputs for the estimate command.
	CostPerImageUSD float64
	ExchangeRate    float64
}

// Load resolves the configuration from viper's current state.
func Load() Config {
	cfg := Config{
		InputDir:        ExpandPath(viper.GetString("input_dir")),
		DatabasePath:    ExpandPath(viper.GetString("database.path")),
		ReportPath:      ExpandPath(viper.GetString("report.path")),
		Provider:        viper.GetString("extraction.provider"),
		Model:           viper.GetString("extraction.model"),
		APIKey:          viper.GetString("extraction.api_key"),
		LlamaParseKey:   viper.GetString("extraction.llamaparse_key"),
		Pipeline:        viper.GetString("extraction.pipeline"),
		RequestTimeout:  viper.GetDuration("extraction.timeout"),
		BatchSize:       viper.GetInt("pacing.batch_size"),
		Cooldown:        viper.GetDuration("pacing.cooldown"),
		MaxRetries:      viper.GetInt("pacing.max_retries"),
		RetryDelay:      viper.GetDuration("pacing.retry_delay"),
		Workers:         viper.GetInt("pacing.workers"),
		CostPerImageUSD: viper.GetFloat64("estimate.cost_per_image_usd"),
		ExchangeRate:    viper.GetFloat64("estimate.exchange_rate"),
	}

	applyDefaults(&cfg)

	// Provider keys are commonly exported under their own names.
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "gemini":
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openrouter":
			cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
		}
	}
	if cfg.LlamaParseKey == "" {
		cfg.LlamaParseKey = os.Getenv("LLAMA_CLOUD_API_KEY")
	}

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "locaudit.db"
	}
	if cfg.ReportPath == "" {
		cfg.ReportPath = "auditoria.xlsx"
	}
	if cfg.Provider == "" {
		cfg.Provider = "gemini"
	}
	if cfg.Pipeline == "" {
		cfg.Pipeline = "vision"
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 4
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.CostPerImageUSD == 0 {
		cfg.CostPerImageUSD = 0.0025
	}
	if cfg.ExchangeRate == 0 {
		cfg.ExchangeRate = 6.0
	}
}

// ExpandPath resolves ~ and $VAR references in the configured contract
// and database paths, so entries like ~/contratos work from the config
// file.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// Validate checks the configuration for an audit run. Errors here are
// fatal at startup; nothing should fail mid-batch over a missing key.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input_dir is required", common.ErrMissingConfig)
	}
	if info, err := os.Stat(c.InputDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: input_dir %s is not a directory", common.ErrInvalidConfig, c.InputDir)
	}

	switch c.Provider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("%w: unknown provider %q (want gemini or openrouter)", common.ErrInvalidConfig, c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: no API key for provider %s", common.ErrMissingConfig, c.Provider)
	}

	switch c.Pipeline {
	case "vision":
	case "text":
		if c.LlamaParseKey == "" {
			return fmt.Errorf("%w: text pipeline requires a LlamaParse key", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown pipeline %q (want vision or text)", common.ErrInvalidConfig, c.Pipeline)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}
