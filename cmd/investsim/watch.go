package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/feed"
)

var watchCmd = &cobra.Command{
	Use:   "watch [asset ...]",
	Short: "Stream live quotes for the configured (or given) assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		assets := args
		if len(assets) == 0 {
			assets = cfg.Feed.Assets
		}
		if len(assets) == 0 {
			return fmt.Errorf("no assets to watch; pass asset ids or configure feed.assets")
		}

		interval, err := cfg.Feed.ParseInterval()
		if err != nil {
			return err
		}

		logger := newLogger()
		defer logger.Sync()

		client := feed.NewClient(cfg.Feed.BaseURL)
		quotes := feed.NewQuoteStore()
		poller := feed.NewPoller(client, quotes, assets, interval, logger)

		poller.OnQuote(func(q feed.Quote) {
			fmt.Printf("%s  %-12s %.4f\n", q.Time.Local().Format(time.TimeOnly), q.AssetID, q.Price)
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}
