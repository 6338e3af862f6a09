package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hcsdev/hcs-manager/internal/cli"
	"github.com/hcsdev/hcs-manager/internal/market"
)

func infoCmd() *cobra.Command {
	var paid string

	cmd := &cobra.Command{
		Use:     "info <steam-market-url>",
		Short:   "Look up current market data for a listing",
		Example: `  hcs info "https://steamcommunity.com/market/listings/730/AK-47%20%7C%20Redline%20%28Field-Tested%29" --paid 10.20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := market.NewClient().Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmd.Println(cli.TitleStyle.Render(quote.Name))
			cmd.Printf("Lowest price  %s\n", cli.Money(quote.LowestPrice))
			if !quote.MedianPrice.IsZero() {
				cmd.Printf("Median price  %s\n", cli.Money(quote.MedianPrice))
			}
			if quote.Volume != "" {
				cmd.Printf("Volume (24h)  %s\n", quote.Volume)
			}
			if paid != "" {
				buy, err := parsePrice(paid)
				if err != nil {
					return err
				}
				cmd.Printf("If sold now   %s\n", cli.SignedMoney(quote.LowestPrice.Sub(buy)))
			}
			if quote.ImageURL != "" {
				cmd.Println(cli.SubtleStyle.Render(fmt.Sprintf("Image: %s", quote.ImageURL)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paid, "paid", "", "your buy price, to show the potential profit")
	return cmd
}
