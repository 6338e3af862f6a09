package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
	"github.com/hcsdev/hcs-manager/internal/engine"
)

func sellCmd() *cobra.Command {
	var (
		price        string
		perNamePrice []string
		date         string
		byName       string
		quantity     int
		buyPrice     string
	)

	cmd := &cobra.Command{
		Use:   "sell [id]...",
		Short: "Sell inventory items",
		Long: `Move one or more inventory items into the sales history.

A single --price applies to every id. For mixed batches, repeat
--price-for to give each item name its own price. Ids that no longer
exist are skipped, not errors.

Instead of ids, --name with --quantity sells part of a grouped row:
the first N held units of that name (narrowed by --bought-at when the
name is held at several prices).`,
		Example: `  hcs sell 12 --price 55
  hcs sell 12 13 14 --price-for "AK-47 | Redline=15" --price-for "AWP | Asiimov=50"
  hcs sell --name "Fracture Case" --quantity 10 --price 0.45`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			saleDate, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			if byName != "" {
				if len(args) > 0 {
					return fmt.Errorf("--name and explicit ids are mutually exclusive")
				}
				if price == "" {
					return fmt.Errorf("--name requires --price")
				}
				p, err := parsePrice(price)
				if err != nil {
					return err
				}
				params := engine.GroupSellParams{
					Name:     byName,
					Quantity: quantity,
					Price:    p,
					SaleDate: saleDate,
				}
				if buyPrice != "" {
					bp, err := parsePrice(buyPrice)
					if err != nil {
						return err
					}
					params.BuyPrice = &bp
				}

				eng, _, _, cleanup, err := initEngine(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				result, err := eng.SellFromGroup(ctx, params)
				if err != nil {
					return err
				}
				cmd.Println(cli.ProfitStyle.Render(
					fmt.Sprintf("✓ Sold %d× %s, profit %s",
						len(result.Sold), byName, cli.SignedMoney(result.TotalProfit))))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("give item ids, or --name with --quantity")
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			params := engine.SellParams{IDs: ids, SaleDate: saleDate}

			if len(perNamePrice) > 0 {
				params.PricesByName = make(map[string]decimal.Decimal, len(perNamePrice))
				for _, pair := range perNamePrice {
					name, value, ok := strings.Cut(pair, "=")
					if !ok {
						return fmt.Errorf("invalid --price-for %q, expected name=price", pair)
					}
					p, err := parsePrice(value)
					if err != nil {
						return err
					}
					params.PricesByName[name] = p
				}
			} else if price != "" {
				if params.Price, err = parsePrice(price); err != nil {
					return err
				}
			} else {
				return fmt.Errorf("either --price or --price-for is required")
			}

			eng, _, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := eng.Sell(ctx, params)
			if err != nil {
				return err
			}

			if len(result.Sold) == 0 {
				cmd.Println(cli.WarningStyle.Render("Nothing sold: none of the given ids exist."))
				return nil
			}

			cmd.Println(cli.ProfitStyle.Render(
				fmt.Sprintf("✓ Sold %d items, profit %s", len(result.Sold), cli.SignedMoney(result.TotalProfit))))
			if len(result.SkippedIDs) > 0 {
				cmd.Println(cli.WarningStyle.Render(
					fmt.Sprintf("Skipped missing ids: %v", result.SkippedIDs)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&price, "price", "p", "", "sell price applied to every id")
	cmd.Flags().StringArrayVar(&perNamePrice, "price-for", nil, "per-name sell price as name=price (repeatable)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "sale date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&byName, "name", "", "sell by item name instead of ids")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "how many units to sell with --name")
	cmd.Flags().StringVar(&buyPrice, "bought-at", "", "with --name, only sell units bought at this price")

	return cmd
}
