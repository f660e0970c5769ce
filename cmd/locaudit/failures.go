package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Micos01/analise-locacao/internal/config"
)

func failuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "failures",
		Short: "List documents that failed during audit runs",
		RunE:  runFailures,
	}
}

func runFailures(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	failures, err := store.ListFailures(ctx)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		fmt.Println("No failures recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tDOCUMENT\tSTAGE\tERROR")
	for _, f := range failures {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			f.OccurredAt.Format("2006-01-02 15:04"), f.DocumentID, f.Stage, f.Message)
	}
	return w.Flush()
}
