package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micos01/analise-locacao/internal/common"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		InputDir:     t.TempDir(),
		DatabasePath: "test.db",
		ReportPath:   "out.xlsx",
		Provider:     "gemini",
		APIKey:       "test-key",
		Pipeline:     "vision",
		Workers:      1,
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Load()
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "vision", cfg.Pipeline)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.Cooldown)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "locaudit.db", cfg.DatabasePath)
}

func TestLoadReadsViperValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("input_dir", "/contratos")
	viper.Set("extraction.provider", "openrouter")
	viper.Set("pacing.batch_size", 10)
	viper.Set("pacing.cooldown", "30s")

	cfg := Load()
	assert.Equal(t, "/contratos", cfg.InputDir)
	assert.Equal(t, "openrouter", cfg.Provider)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Cooldown)
}

func TestLoadFallsBackToProviderEnvKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("extraction.provider", "gemini")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg := Load()
	assert.Equal(t, "from-env", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig(t).Validate())
	})

	t.Run("missing input dir", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.InputDir = ""
		assert.True(t, errors.Is(cfg.Validate(), common.ErrMissingConfig))
	})

	t.Run("input dir is a file", func(t *testing.T) {
		cfg := validConfig(t)
		file := filepath.Join(t.TempDir(), "f.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		cfg.InputDir = file
		assert.True(t, errors.Is(cfg.Validate(), common.ErrInvalidConfig))
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Provider = "mistral"
		assert.True(t, errors.Is(cfg.Validate(), common.ErrInvalidConfig))
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.APIKey = ""
		assert.True(t, errors.Is(cfg.Validate(), common.ErrMissingConfig))
	})

	t.Run("text pipeline needs llamaparse key", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Pipeline = "text"
		assert.True(t, errors.Is(cfg.Validate(), common.ErrMissingConfig))

		cfg.LlamaParseKey = "lp-key"
		assert.NoError(t, cfg.Validate())
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "contratos"), ExpandPath("~/contratos"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))

	t.Setenv("CONTRACT_DIR", "/srv/contratos")
	assert.Equal(t, "/srv/contratos/2025", ExpandPath("$CONTRACT_DIR/2025"))
}
