package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/backup"
	"github.com/hcsdev/hcs-manager/internal/cli"
)

func importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported backup",
		Long: `Replace the inventory database, and the sales history when the file
carries one, from an export file. Older database-only exports (a bare
byte array) are accepted and leave the history untouched.

The current contents are overwritten, so this wants --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("import overwrites the current data, confirm with --force")
			}

			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			_, store, log, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := backup.NewManager(store, log).Import(ctx, data); err != nil {
				return err
			}

			count, err := store.CountItems(ctx)
			if err != nil {
				return err
			}
			cmd.Println(cli.ProfitStyle.Render(
				fmt.Sprintf("✓ Imported %s (%d items in inventory)", args[0], count)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm overwriting the current data")
	return cmd
}
