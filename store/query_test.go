package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/investsim/portfolio"
)

func commitAt(t *testing.T, s *SQLite, txID, assetID string, side portfolio.Side, balance float64, pos *portfolio.Position, at time.Time) {
	t.Helper()

	err := s.CommitTrade(context.Background(), TradeCommit{
		ProfileID:  "P1",
		NewBalance: balance,
		Position:   pos,
		Transaction: portfolio.Transaction{
			ID:        txID,
			AssetID:   assetID,
			Name:      assetID,
			Symbol:    assetID,
			Side:      side,
			UnitPrice: 10,
			Quantity:  1,
			DealValue: 10,
			Time:      at,
		},
	})
	require.NoError(t, err)
}

func TestPositionsOrdered(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	seedProfile(t, s, 1000)

	now := time.Now().UTC()
	eth := portfolio.Position{AssetID: "ethereum", Name: "Ethereum", Symbol: "ETH", Quantity: 1, AvgCost: 10}
	btc := portfolio.Position{AssetID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Quantity: 2, AvgCost: 20}

	commitAt(t, s, "T1", "ethereum", portfolio.Buy, 990, &eth, now)
	commitAt(t, s, "T2", "bitcoin", portfolio.Buy, 950, &btc, now)

	positions, err := s.Positions(context.Background(), "P1")
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, "bitcoin", positions[0].AssetID)
	assert.Equal(t, "ethereum", positions[1].AssetID)
}

func TestTransactionsOrderedByTime(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	seedProfile(t, s, 1000)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pos := portfolio.Position{AssetID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Quantity: 1, AvgCost: 10}

	commitAt(t, s, "T2", "bitcoin", portfolio.Sell, 990, &pos, base.Add(time.Hour))
	commitAt(t, s, "T1", "bitcoin", portfolio.Buy, 980, &pos, base)

	txs, err := s.Transactions(context.Background(), "P1")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "T1", txs[0].ID)
	assert.Equal(t, portfolio.Buy, txs[0].Side)
	assert.Equal(t, "T2", txs[1].ID)
	assert.Equal(t, portfolio.Sell, txs[1].Side)
}

func TestTransactionsBetween(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	seedProfile(t, s, 1000)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	pos := portfolio.Position{AssetID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Quantity: 1, AvgCost: 10}

	commitAt(t, s, "T1", "bitcoin", portfolio.Buy, 990, &pos, base.Add(-time.Hour))
	commitAt(t, s, "T2", "bitcoin", portfolio.Buy, 980, &pos, base.Add(time.Hour))
	commitAt(t, s, "T3", "bitcoin", portfolio.Buy, 970, &pos, base.Add(25*time.Hour))

	// [base, base+24h) picks only T2.
	txs, err := s.TransactionsBetween(context.Background(), "P1", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "T2", txs[0].ID)
}

func TestProfilesList(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	seedProfile(t, s, 1000)

	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "P1", profiles[0].ID)
}
