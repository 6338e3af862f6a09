package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
	"github.com/hcsdev/hcs-manager/internal/model"
)

func listCmd() *cobra.Command {
	var (
		grouped   bool
		search    string
		typ       string
		minPrice  string
		maxPrice  string
		page      int
		pageSize  int
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Long: `List the current inventory, optionally filtered and grouped.

Grouped view collapses rows with the same name and buy price into a
single line with a quantity, the way repeated case purchases usually
read.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter, err := buildFilter(search, typ, "", minPrice, maxPrice, startDate, endDate)
			if err != nil {
				return err
			}

			_, store, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			items, err := store.ListItems(ctx)
			if err != nil {
				return err
			}
			items = filter.FilterItems(items)

			if len(items) == 0 {
				cmd.Println(cli.SubtleStyle.Render("Inventory is empty."))
				return nil
			}

			if grouped {
				printGroupedItems(cmd, items, model.ViewState{Filter: *filter, Page: page, PageSize: pageSize})
			} else {
				printItems(cmd, items, model.ViewState{Filter: *filter, Page: page, PageSize: pageSize})
			}

			total := decimal.Zero
			for _, it := range items {
				total = total.Add(it.BuyPrice)
			}
			cmd.Println(cli.SubtleStyle.Render(
				fmt.Sprintf("%d items, cost basis %s", len(items), cli.Money(total))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&grouped, "grouped", "g", false, "collapse identical name/price rows")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or type substring")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "filter by exact item type")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "minimum buy price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum buy price")
	cmd.Flags().StringVar(&startDate, "from", "", "earliest purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "to", "", "latest purchase date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "items per page (0 shows all)")

	return cmd
}

func buildFilter(search, typ, profit, minPrice, maxPrice, startDate, endDate string) (*model.Filter, error) {
	filter := &model.Filter{Search: search, Type: typ, Profit: profit}

	if minPrice != "" {
		p, err := parsePrice(minPrice)
		if err != nil {
			return nil, err
		}
		filter.MinPrice = &p
	}
	if maxPrice != "" {
		p, err := parsePrice(maxPrice)
		if err != nil {
			return nil, err
		}
		filter.MaxPrice = &p
	}

	var err error
	if filter.StartDate, err = parseDateFlag(startDate); err != nil {
		return nil, err
	}
	if filter.EndDate, err = parseDateFlag(endDate); err != nil {
		return nil, err
	}
	return filter, nil
}

func printItems(cmd *cobra.Command, items []model.Item, view model.ViewState) {
	start, end := view.Bounds(len(items))

	cmd.Println(cli.TableHeaderStyle.Render(
		fmt.Sprintf("%-6s %-42s %-8s %10s %12s", "ID", "NAME", "TYPE", "PRICE", "PURCHASED")))
	for _, it := range items[start:end] {
		cmd.Printf("%-6d %-42s %-8s %10s %12s\n",
			it.ID, truncate(it.Name, 42), it.Type, cli.Money(it.BuyPrice), model.FormatDate(it.PurchaseDate))
	}
	printPageFooter(cmd, view, start, end, len(items))
}

func printGroupedItems(cmd *cobra.Command, items []model.Item, view model.ViewState) {
	groups := model.GroupItems(items)
	start, end := view.Bounds(len(groups))

	cmd.Println(cli.TableHeaderStyle.Render(
		fmt.Sprintf("%-42s %-8s %4s %10s %12s", "NAME", "TYPE", "QTY", "TOTAL", "PURCHASED")))
	for _, g := range groups[start:end] {
		cmd.Printf("%-42s %-8s %4d %10s %12s\n",
			truncate(g.Name, 42), g.Type, g.Quantity, cli.Money(g.TotalValue), model.FormatDate(g.PurchaseDate))
	}
	printPageFooter(cmd, view, start, end, len(groups))
}

func printPageFooter(cmd *cobra.Command, view model.ViewState, start, end, total int) {
	if view.PageSize > 0 && total > view.PageSize {
		cmd.Println(cli.SubtleStyle.Render(
			fmt.Sprintf("showing %d-%d of %d", start+1, end, total)))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
