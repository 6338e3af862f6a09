package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
)

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <sale-id>...",
		Short: "Move sold items back into the inventory",
		Long: `Undo a sale: move the named sale records back into the inventory.

Restored items keep their name, type, buy price, purchase date and
link, but get a fresh inventory id and a cleared sell price. Sale ids
that no longer exist are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, _, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := eng.Restore(ctx, args)
			if err != nil {
				return err
			}

			if len(result.Restored) > 0 {
				cmd.Println(cli.ProfitStyle.Render(
					fmt.Sprintf("✓ Restored %d items to inventory", len(result.Restored))))
			}
			if len(result.Missing) > 0 {
				cmd.Println(cli.WarningStyle.Render(
					fmt.Sprintf("Not found in history: %v", result.Missing)))
			}
			return nil
		},
	}
}
