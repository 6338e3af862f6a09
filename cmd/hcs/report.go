package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/analytics"
	"github.com/hcsdev/hcs-manager/internal/cli"
)

func reportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the analytics report as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, log, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			items, err := store.ListItems(ctx)
			if err != nil {
				return err
			}
			history, err := log.All()
			if err != nil {
				return err
			}

			snapshot := analytics.Compute(items, history)

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			if err := analytics.WriteCSV(out, snapshot, history); err != nil {
				return err
			}
			if output != "" {
				cmd.Println(cli.ProfitStyle.Render("✓ Report written to " + output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
