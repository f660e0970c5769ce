package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Micos01/analise-locacao/internal/common"
	"github.com/Micos01/analise-locacao/internal/config"
	"github.com/Micos01/analise-locacao/internal/extract"
	"github.com/Micos01/analise-locacao/internal/llm"
	"github.com/Micos01/analise-locacao/internal/service"
	"github.com/Micos01/analise-locacao/internal/storage"
)

// openStore opens the audit database and brings it to the current schema.
func openStore(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open the audit database at %s", cfg.DatabasePath), err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("could not bring the audit database up to date", err)
	}
	return store, nil
}

// buildExtractor assembles the configured extraction pipeline.
func buildExtractor(cfg config.Config, logger *slog.Logger) (service.Extractor, error) {
	client, err := llm.NewClient(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not set up the %s client, check the API key and model settings", cfg.Provider), err)
	}

	switch cfg.Pipeline {
	case "vision":
		renderer, err := extract.NewPopplerRenderer()
		if err != nil {
			return nil, err
		}
		return extract.NewVisionExtractor(renderer, client, logger), nil
	case "text":
		converter, err := extract.NewLlamaParseConverter(cfg.LlamaParseKey)
		if err != nil {
			return nil, err
		}
		return extract.NewTextExtractor(converter, client, logger), nil
	default:
		return nil, fmt.Errorf("unknown pipeline %q", cfg.Pipeline)
	}
}
