package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
	"github.com/hcsdev/hcs-manager/internal/engine"
	"github.com/hcsdev/hcs-manager/internal/market"
)

func addCmd() *cobra.Command {
	var (
		typ      string
		price    string
		quantity int
		date     string
		link     string
		fetch    bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add items to the inventory",
		Long: `Add one or more identical items to the inventory.

With --fetch and a Steam Market link, the canonical name and current
lowest price are looked up and used for any field you left out.`,
		Example: `  hcs add "AK-47 | Redline (Field-Tested)" --price 12.50 --quantity 2
  hcs add --link "https://steamcommunity.com/market/listings/730/..." --fetch --date 2026-08-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			buyPrice := decimal.Zero
			if price != "" {
				var err error
				if buyPrice, err = parsePrice(price); err != nil {
					return err
				}
			}

			if fetch {
				if link == "" {
					return fmt.Errorf("--fetch requires --link")
				}
				quote, err := market.NewClient().Lookup(ctx, link)
				if err != nil {
					return fmt.Errorf("steam lookup failed: %w", err)
				}
				if name == "" {
					name = quote.Name
				}
				if price == "" {
					buyPrice = quote.LowestPrice
				}
				cmd.Println(cli.SubtleStyle.Render(
					fmt.Sprintf("Fetched %q, lowest price %s", quote.Name, cli.Money(quote.LowestPrice))))
			}

			purchaseDate, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			eng, _, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			added, err := eng.Add(ctx, engine.AddParams{
				Name:         name,
				Type:         typ,
				BuyPrice:     buyPrice,
				Quantity:     quantity,
				PurchaseDate: purchaseDate,
				SteamLink:    link,
			})
			if err != nil {
				return err
			}

			cmd.Println(cli.ProfitStyle.Render(
				fmt.Sprintf("✓ Added %d× %s at %s", len(added), added[0].Name, cli.Money(added[0].BuyPrice))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "item type (Knife, Skin, Case, Gloves, Agent, Sticker, Other; autodetected if omitted)")
	cmd.Flags().StringVarP(&price, "price", "p", "", "buy price per unit")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "number of identical units")
	cmd.Flags().StringVarP(&date, "date", "d", "", "purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&link, "link", "l", "", "Steam Market listing URL")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "fetch name and price from the Steam Market link")

	return cmd
}
