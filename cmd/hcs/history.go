package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
	"github.com/hcsdev/hcs-manager/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Work with the sales history",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyClearCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var (
		grouped   bool
		search    string
		typ       string
		profit    string
		startDate string
		endDate   string
		page      int
		pageSize  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List completed sales, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := buildFilter(search, typ, profit, "", "", startDate, endDate)
			if err != nil {
				return err
			}

			log, err := initHistory()
			if err != nil {
				return err
			}
			records, err := log.All()
			if err != nil {
				return err
			}
			records = filter.FilterSales(model.Reversed(records))

			if len(records) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No sales recorded."))
				return nil
			}

			view := model.ViewState{Filter: *filter, Page: page, PageSize: pageSize}
			if grouped {
				printGroupedSales(cmd, records, view)
			} else {
				printSales(cmd, records, view)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&grouped, "grouped", "g", false, "collapse identical name/buy/sell rows")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or type substring")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "filter by exact item type")
	cmd.Flags().StringVar(&profit, "profit", "", "filter by outcome (positive, negative)")
	cmd.Flags().StringVar(&startDate, "from", "", "earliest sale date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "to", "", "latest sale date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "records per page (0 shows all)")

	return cmd
}

func historyClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every sale record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("refusing to clear the sales history without --force")
			}

			eng, _, _, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			cmd.Println(cli.ProfitStyle.Render("✓ Sales history cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm clearing the history")
	return cmd
}

func printSales(cmd *cobra.Command, records []model.SaleRecord, view model.ViewState) {
	start, end := view.Bounds(len(records))

	cmd.Println(cli.TableHeaderStyle.Render(
		fmt.Sprintf("%-38s %-36s %10s %10s %11s %12s", "ID", "NAME", "BUY", "SELL", "PROFIT", "SOLD")))
	for _, r := range records[start:end] {
		cmd.Printf("%-38s %-36s %10s %10s %11s %12s\n",
			r.ID, truncate(r.Name, 36), cli.Money(r.BuyPrice), cli.Money(r.SellPrice),
			cli.SignedMoney(r.Profit()), model.FormatDate(r.SaleDate))
	}
	printPageFooter(cmd, view, start, end, len(records))
}

func printGroupedSales(cmd *cobra.Command, records []model.SaleRecord, view model.ViewState) {
	groups := model.GroupSales(records)
	start, end := view.Bounds(len(groups))

	cmd.Println(cli.TableHeaderStyle.Render(
		fmt.Sprintf("%-36s %4s %10s %10s %11s %12s", "NAME", "QTY", "BUY", "SELL", "PROFIT", "LAST SOLD")))
	for _, g := range groups[start:end] {
		cmd.Printf("%-36s %4d %10s %10s %11s %12s\n",
			truncate(g.Name, 36), g.Quantity, cli.Money(g.BuyPrice), cli.Money(g.SellPrice),
			cli.SignedMoney(g.TotalProfit), model.FormatDate(g.SaleDate))
	}
	printPageFooter(cmd, view, start, end, len(groups))
}
