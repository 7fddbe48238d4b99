package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/investsim/feed"
	"github.com/rustyeddy/investsim/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the read-only dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		interval, err := cfg.Feed.ParseInterval()
		if err != nil {
			return err
		}

		logger := newLogger()
		defer logger.Sync()

		client := feed.NewClient(cfg.Feed.BaseURL)
		quotes := feed.NewQuoteStore()
		poller := feed.NewPoller(client, quotes, cfg.Feed.Assets, interval, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			// Poller failures are already logged; it only returns on cancel.
			_ = poller.Run(ctx)
		}()

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: server.NewRouter(server.NewHandler(s, quotes), logger),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.Info("dashboard listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
