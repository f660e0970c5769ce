package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Micos01/analise-locacao/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the audit database to the current schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Printf("Database %s is up to date.\n", cfg.DatabasePath)
			return nil
		},
	}
}
