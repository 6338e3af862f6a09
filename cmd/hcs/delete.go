package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
)

func deleteCmd() *cobra.Command {
	var fromHistory bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete items or sale records",
		Long: `Permanently delete inventory items, or with --history, sale records.

Deleting is not selling: nothing is written to the history, the rows
are just gone. There is no undo.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, _, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if fromHistory {
				removed, err := eng.DeleteHistory(ctx, args)
				if err != nil {
					return err
				}
				cmd.Println(cli.ProfitStyle.Render(
					fmt.Sprintf("✓ Deleted %d sale records", removed)))
				return nil
			}

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			removed, err := eng.DeleteInventory(ctx, ids)
			if err != nil {
				return err
			}
			cmd.Println(cli.ProfitStyle.Render(
				fmt.Sprintf("✓ Deleted %d inventory items", removed)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromHistory, "history", false, "delete sale records instead of inventory items")

	return cmd
}
