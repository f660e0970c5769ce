package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Micos01/analise-locacao/internal/config"
	"github.com/Micos01/analise-locacao/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export stored audit records to a spreadsheet",
		Long: `Reads every stored audit record and writes the audit spreadsheet, sorted
by registration fee so the most expensive pending registrations come first.`,
		RunE: runReport,
	}

	cmd.Flags().StringP("output", "o", "", "spreadsheet path (overrides config)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.ReportPath = config.ExpandPath(output)
	}

	ctx := cmd.Context()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListAuditRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No audit records yet; run 'locaudit audit' first.")
		return nil
	}

	if err := report.NewExcelWriter(cfg.ReportPath).Write(ctx, records); err != nil {
		return err
	}

	fmt.Printf("Wrote %d records to %s\n", len(records), cfg.ReportPath)
	return nil
}
