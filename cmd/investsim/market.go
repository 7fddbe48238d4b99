package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/feed"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "List the market's top assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client := feed.NewClient(cfg.Feed.BaseURL)
		assets, err := client.Assets(cmd.Context(), limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSYMBOL\tNAME\tPRICE\t24H")
		for _, a := range assets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%+.2f%%\n",
				a.ID, a.Symbol, a.Name, a.PriceUSD, a.ChangePercent24h)
		}
		return w.Flush()
	},
}

func init() {
	marketCmd.Flags().Int("limit", 20, "number of assets to list")
}
