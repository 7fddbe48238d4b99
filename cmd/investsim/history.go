package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a profile's trade history",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, _ := cmd.Flags().GetString("profile")
		day, _ := cmd.Flags().GetString("day")
		csvPath, _ := cmd.Flags().GetString("csv")
		if profileID == "" {
			return fmt.Errorf("--profile is required")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()

		var txs []portfolio.Transaction
		if day != "" {
			start, err := time.ParseInLocation("2006-01-02", day, time.Local)
			if err != nil {
				return fmt.Errorf("--day: %w", err)
			}
			txs, err = s.TransactionsBetween(ctx, profileID, start, start.Add(24*time.Hour))
			if err != nil {
				return err
			}
		} else {
			txs, err = s.Transactions(ctx, profileID)
			if err != nil {
				return err
			}
		}

		if csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := store.WriteTransactionsCSV(f, txs); err != nil {
				return err
			}
			fmt.Printf("wrote %d transactions to %s\n", len(txs), csvPath)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tSIDE\tSYMBOL\tQTY\tPRICE\tDEAL")
		for _, t := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%.2f\t%.2f\n",
				t.Time.Local().Format(time.RFC3339), t.Side, t.Symbol, t.Quantity, t.UnitPrice, t.DealValue)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().String("profile", "", "profile id")
	historyCmd.Flags().String("day", "", "only trades on this day (YYYY-MM-DD, local time)")
	historyCmd.Flags().String("csv", "", "write history to a CSV file instead of stdout")
}
