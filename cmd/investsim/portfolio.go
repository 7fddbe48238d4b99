package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/feed"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show a profile's balance and open positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, _ := cmd.Flags().GetString("profile")
		live, _ := cmd.Flags().GetBool("live")
		if profileID == "" {
			return fmt.Errorf("--profile is required")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()

		prof, err := s.Profile(ctx, profileID)
		if err != nil {
			return err
		}
		positions, err := s.Positions(ctx, profileID)
		if err != nil {
			return err
		}

		fmt.Printf("%s: balance %.2f %s\n\n", prof.FullName(), prof.FiatBalance, cfg.Account.Currency)

		client := feed.NewClient(cfg.Feed.BaseURL)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ASSET\tSYMBOL\tQTY\tAVG COST\tPRICE\tP/L")
		for _, pos := range positions {
			price, pl := "-", "-"
			if live {
				// Quote failures only degrade the display.
				if a, err := client.Asset(ctx, pos.AssetID); err == nil {
					price = fmt.Sprintf("%.2f", a.PriceUSD)
					pl = fmt.Sprintf("%+.2f", (a.PriceUSD-pos.AvgCost)*pos.Quantity)
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%g\t%.2f\t%s\t%s\n",
				pos.Name, pos.Symbol, pos.Quantity, pos.AvgCost, price, pl)
		}
		return w.Flush()
	},
}

func init() {
	portfolioCmd.Flags().String("profile", "", "profile id")
	portfolioCmd.Flags().Bool("live", false, "fetch live prices for valuation")
}
