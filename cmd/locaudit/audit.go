package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Micos01/analise-locacao/internal/config"
	"github.com/Micos01/analise-locacao/internal/decision"
	"github.com/Micos01/analise-locacao/internal/engine"
	"github.com/Micos01/analise-locacao/internal/extract"
	"github.com/Micos01/analise-locacao/internal/fees"
	"github.com/Micos01/analise-locacao/internal/service"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit every contract in the input directory",
		Long: `Scans the input directory, extracts facts from each contract through the
configured pipeline and stores one audit record per document. Documents
with a persisted raw extraction are re-decided without a new model call.`,
		RunE: runAudit,
	}

	cmd.Flags().StringP("input", "i", "", "directory of contract files (overrides config)")
	cmd.Flags().Int("workers", 0, "concurrent documents (overrides config)")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	if input, _ := cmd.Flags().GetString("input"); input != "" {
		cfg.InputDir = config.ExpandPath(input)
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := slog.Default()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	extractor, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}

	orch := engine.New(
		store,
		extract.NewDirectorySource(cfg.InputDir),
		extractor,
		decision.New(fees.Default()),
		engine.Config{
			BatchSize: cfg.BatchSize,
			Cooldown:  cfg.Cooldown,
			Retry: service.RetryOptions{
				MaxAttempts:  cfg.MaxRetries,
				InitialDelay: cfg.RetryDelay,
			},
			Workers:      cfg.Workers,
			ShowProgress: !noProgress,
		},
		logger,
	)

	start := time.Now()
	stats, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("audit run failed: %w", err)
	}

	fmt.Printf("\nAudited %d of %d documents in %s\n",
		stats.Audited, stats.Documents, time.Since(start).Round(time.Second))
	fmt.Printf("  extraction calls: %d (resumed: %d)\n", stats.CallsMade, stats.Resumed)
	if stats.Failed > 0 {
		fmt.Printf("  failed: %d (see 'locaudit failures')\n", stats.Failed)
	}
	return nil
}
