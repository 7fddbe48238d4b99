package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/auth"
	"github.com/rustyeddy/investsim/feed"
	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/profile"
	"github.com/rustyeddy/investsim/trade"
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy an asset at the latest quoted price",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, portfolio.Buy)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Sell an asset at the latest quoted price",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, portfolio.Sell)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{buyCmd, sellCmd} {
		cmd.Flags().String("profile", "", "profile id")
		cmd.Flags().String("asset", "", "asset id, e.g. bitcoin")
		cmd.Flags().Float64("qty", 0, "quantity to trade")
		cmd.Flags().String("pin", "", "sign-in PIN")
		cmd.Flags().String("trading-password", "", "trading password if configured")
	}
}

func runTrade(cmd *cobra.Command, side portfolio.Side) error {
	profileID, _ := cmd.Flags().GetString("profile")
	assetID, _ := cmd.Flags().GetString("asset")
	qty, _ := cmd.Flags().GetFloat64("qty")
	pin, _ := cmd.Flags().GetString("pin")
	tradingPassword, _ := cmd.Flags().GetString("trading-password")

	if profileID == "" || assetID == "" {
		return fmt.Errorf("--profile and --asset are required")
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

	if err := signIn(ctx, prof, pin); err != nil {
		return err
	}

	// Fetch the current quote once; the trade executes at this price.
	client := feed.NewClient(cfg.Feed.BaseURL)
	asset, err := client.Asset(ctx, assetID)
	if err != nil {
		return fmt.Errorf("cannot price trade: %w", err)
	}

	quotes := feed.NewQuoteStore()
	quotes.Set(feed.Quote{AssetID: asset.ID, Price: asset.PriceUSD})

	desk := trade.NewDesk(s, quotes, nil)
	req := trade.Request{
		ProfileID:       profileID,
		Asset:           portfolio.AssetRef{ID: asset.ID, Name: asset.Name, Symbol: asset.Symbol},
		Quantity:        qty,
		TradingPassword: tradingPassword,
	}

	var tx portfolio.Transaction
	if side == portfolio.Buy {
		tx, err = desk.Buy(ctx, req)
	} else {
		tx, err = desk.Sell(ctx, req)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %g %s @ %.2f (deal %.2f %s) id=%s\n",
		tx.Side, tx.Quantity, tx.Symbol, tx.UnitPrice, tx.DealValue, cfg.Account.Currency, tx.ID)
	return nil
}

// signIn verifies the caller against the profile's PIN when one is set.
func signIn(ctx context.Context, prof profile.Profile, pin string) error {
	authenticator := auth.PIN{
		Profile: prof,
		Prompt:  func() (string, error) { return pin, nil },
	}
	if !authenticator.Available() {
		return nil
	}

	res, err := authenticator.Authenticate(ctx)
	if err != nil {
		return err
	}
	if res != auth.Success {
		return fmt.Errorf("sign-in failed: %s", res)
	}
	return nil
}
