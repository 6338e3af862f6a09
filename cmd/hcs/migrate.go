package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
	"github.com/hcsdev/hcs-manager/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Apply any pending schema migrations. Normally this happens on every
command; running it explicitly is useful after importing an old backup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			cmd.Println(cli.ProfitStyle.Render(
				fmt.Sprintf("✓ Schema is at version %d (expected %d)", version, storage.ExpectedSchemaVersion)))
			return nil
		},
	}
}
