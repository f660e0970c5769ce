package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Micos01/analise-locacao/internal/config"
	"github.com/Micos01/analise-locacao/internal/extract"
)

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the extraction cost of a batch before running it",
		Long: `Counts the pages of every contract in the input directory, applies the
page sampling policy and projects the vision pipeline cost in USD and BRL.
No model calls are made.`,
		RunE: runEstimate,
	}

	cmd.Flags().StringP("input", "i", "", "directory of contract files (overrides config)")

	return cmd
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	if input, _ := cmd.Flags().GetString("input"); input != "" {
		cfg.InputDir = config.ExpandPath(input)
	}
	if cfg.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}

	ctx := cmd.Context()

	renderer, err := extract.NewPopplerRenderer()
	if err != nil {
		return err
	}

	docs, err := extract.NewDirectorySource(cfg.InputDir).List(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	var totalPages, totalImages, skipped int
	for _, doc := range docs {
		pages, err := renderer.CountPages(ctx, doc.Path)
		if err != nil {
			slog.Warn("could not count pages, skipping",
				"document", doc.Name, "error", err)
			skipped++
			continue
		}
		totalPages += pages
		totalImages += len(extract.SelectPages(pages))
	}

	costUSD := float64(totalImages) * cfg.CostPerImageUSD
	costBRL := costUSD * cfg.ExchangeRate

	fmt.Printf("Documents:       %d", len(docs))
	if skipped > 0 {
		fmt.Printf(" (%d unreadable)", skipped)
	}
	fmt.Println()
	fmt.Printf("Total pages:     %d\n", totalPages)
	fmt.Printf("Images to send:  %d\n", totalImages)
	fmt.Printf("Estimated cost:  USD %.2f (BRL %.2f at %.2f)\n",
		costUSD, costBRL, cfg.ExchangeRate)
	return nil
}
