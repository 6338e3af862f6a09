package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/analytics"
	"github.com/hcsdev/hcs-manager/internal/cli"
)

func analyticsCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show financial metrics for the whole collection",
		Long: `Compute profit, ROI, margin and breakdowns from the inventory and
the sales history.

Balance is conservative: unsold inventory counts as cost, not as value
you could get back. ROI divides realized profit by everything you have
ever put in.`,
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

			s := analytics.Compute(items, history)

			var b strings.Builder
			fmt.Fprintf(&b, "%s\n\n", cli.TitleStyle.Render("Collection analytics"))
			fmt.Fprintf(&b, "Balance            %s\n", cli.SignedMoney(s.Balance))
			fmt.Fprintf(&b, "Inventory value    %s  (%d items)\n", cli.Money(s.InventoryValue), s.InventoryCount)
			fmt.Fprintf(&b, "Revenue            %s  (%d sales)\n", cli.Money(s.Revenue), s.SalesCount)
			fmt.Fprintf(&b, "Profit             %s\n", cli.SignedMoney(s.Profit))
			fmt.Fprintf(&b, "Total invested     %s\n", cli.Money(s.TotalInvested))
			fmt.Fprintf(&b, "ROI                %s\n", cli.Percent(s.ROI))
			fmt.Fprintf(&b, "Avg profit margin  %s\n", cli.Percent(s.AvgProfitMargin))

			if types := s.Types(); len(types) > 0 {
				fmt.Fprintf(&b, "\n%s\n", cli.SubtitleStyle.Render("By type"))
				for _, typ := range types {
					fmt.Fprintf(&b, "%-10s profit %11s   holding %d\n",
						typ, cli.SignedMoney(s.ProfitByType[typ]), s.InventoryByType[typ])
				}
			}

			if months := s.Months(); len(months) > 0 {
				fmt.Fprintf(&b, "\n%s\n", cli.SubtitleStyle.Render("By month"))
				for _, month := range months {
					fmt.Fprintf(&b, "%s  %s\n", month, cli.SignedMoney(s.SalesByMonth[month]))
				}
			}

			if top := analytics.TopItems(history, topN); len(top) > 0 {
				fmt.Fprintf(&b, "\n%s\n", cli.SubtitleStyle.Render(fmt.Sprintf("Top %d sales", topN)))
				for i, r := range top {
					fmt.Fprintf(&b, "%2d. %-36s %s\n", i+1, truncate(r.Name, 36), cli.SignedMoney(r.Profit()))
				}
			}

			cmd.Println(cli.BoxStyle.Render(b.String()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 5, "how many top sales to show")
	return cmd
}
