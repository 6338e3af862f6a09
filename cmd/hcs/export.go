package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/backup"
	"github.com/hcsdev/hcs-manager/internal/cli"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database and sales history to one file",
		Long: `Write a single JSON file containing the full inventory database and
the sales history. The file can be imported again on any machine.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, log, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := backup.NewManager(store, log).Export(ctx)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("hcs-backup-%s.json", time.Now().Format("2006-01-02"))
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			cmd.Println(cli.ProfitStyle.Render("✓ Exported to " + output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default hcs-backup-<date>.json)")
	return cmd
}
