package trade

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/investsim/feed"
	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/profile"
	"github.com/rustyeddy/investsim/store"
)

type memStorage struct {
	mu        sync.Mutex
	profiles  map[string]profile.Profile
	positions map[string]portfolio.Position // key: profileID/assetID
	trades    []portfolio.Transaction
	commitErr error
}

func newMemStorage(p profile.Profile) *memStorage {
	return &memStorage{
		profiles:  map[string]profile.Profile{p.ID: p},
		positions: map[string]portfolio.Position{},
	}
}

func (m *memStorage) Profile(ctx context.Context, profileID string) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[profileID]
	if !ok {
		return profile.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStorage) Position(ctx context.Context, profileID, assetID string) (*portfolio.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[profileID+"/"+assetID]
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

func (m *memStorage) CommitTrade(ctx context.Context, c store.TradeCommit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr != nil {
		return m.commitErr
	}

	p := m.profiles[c.ProfileID]
	p.FiatBalance = c.NewBalance
	m.profiles[c.ProfileID] = p

	key := c.ProfileID + "/" + c.Transaction.AssetID
	if c.Position != nil {
		m.positions[key] = *c.Position
	} else {
		delete(m.positions, key)
	}

	m.trades = append(m.trades, c.Transaction)
	return nil
}

type recordedTrade struct {
	profileID string
	tx        portfolio.Transaction
}

type recordingListener struct {
	mu     sync.Mutex
	trades []recordedTrade
}

func (l *recordingListener) OnTradeExecuted(profileID string, tx portfolio.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = append(l.trades, recordedTrade{profileID, tx})
}

var btc = portfolio.AssetRef{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC"}

func newDesk(t *testing.T, balance float64, price float64) (*Desk, *memStorage) {
	t.Helper()

	storage := newMemStorage(profile.Profile{ID: "P1", FirstName: "Ada", LastName: "Lovelace", FiatBalance: balance})
	quotes := feed.NewQuoteStore()
	if price > 0 {
		quotes.Set(feed.Quote{AssetID: "bitcoin", Price: price})
	}
	return NewDesk(storage, quotes, nil), storage
}

func TestBuy(t *testing.T) {
	t.Parallel()

	d, storage := newDesk(t, 1000, 100)
	listener := &recordingListener{}
	d.SetListener(listener)

	tx, err := d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.False(t, tx.Time.IsZero())
	assert.Equal(t, portfolio.Buy, tx.Side)
	assert.InDelta(t, 200, tx.DealValue, 1e-9)

	p, _ := storage.Profile(context.Background(), "P1")
	assert.InDelta(t, 800, p.FiatBalance, 1e-9)

	pos, _ := storage.Position(context.Background(), "P1", "bitcoin")
	require.NotNil(t, pos)
	assert.InDelta(t, 2, pos.Quantity, 1e-9)
	assert.InDelta(t, 100, pos.AvgCost, 1e-9)

	listener.mu.Lock()
	defer listener.mu.Unlock()
	require.Len(t, listener.trades, 1)
	assert.Equal(t, "P1", listener.trades[0].profileID)
	assert.Equal(t, tx.ID, listener.trades[0].tx.ID)
}

func TestBuyRejectsExactBalance(t *testing.T) {
	t.Parallel()

	// 100 is not strictly greater than 50*2.
	d, storage := newDesk(t, 100, 50)

	_, err := d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 2})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	p, _ := storage.Profile(context.Background(), "P1")
	assert.InDelta(t, 100, p.FiatBalance, 1e-9, "rejected trade must not mutate anything")
	assert.Empty(t, storage.trades)
}

func TestBuyNoQuote(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, 1000, 0)

	_, err := d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1})
	assert.ErrorIs(t, err, feed.ErrNoQuote)
}

func TestBuyBadQuantity(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, 1000, 100)

	_, err := d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 0})
	assert.ErrorIs(t, err, ErrBadQuantity)

	_, err = d.Sell(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: -1})
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestTradingPasswordGate(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(func() profile.Profile {
		p := profile.Profile{ID: "P1", FirstName: "Ada", LastName: "Lovelace", FiatBalance: 1000}
		p.TradingPasswordHash = profile.HashPassword(p, "trade-pass")
		return p
	}())
	quotes := feed.NewQuoteStore()
	quotes.Set(feed.Quote{AssetID: "bitcoin", Price: 100})
	d := NewDesk(storage, quotes, nil)

	_, err := d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1})
	assert.ErrorIs(t, err, ErrTradingPassword)

	_, err = d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1, TradingPassword: "wrong"})
	assert.ErrorIs(t, err, ErrTradingPassword)

	_, err = d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1, TradingPassword: "trade-pass"})
	assert.NoError(t, err)
}

func TestSellPartialRepricesRemainder(t *testing.T) {
	t.Parallel()

	d, storage := newDesk(t, 0, 50)
	storage.positions["P1/bitcoin"] = portfolio.Position{
		AssetID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Quantity: 4, AvgCost: 150,
	}

	tx, err := d.Sell(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 2})
	require.NoError(t, err)
	assert.InDelta(t, 100, tx.DealValue, 1e-9)

	pos, _ := storage.Position(context.Background(), "P1", "bitcoin")
	require.NotNil(t, pos)
	assert.InDelta(t, 2, pos.Quantity, 1e-9)
	assert.InDelta(t, 250, pos.AvgCost, 1e-9)

	p, _ := storage.Profile(context.Background(), "P1")
	assert.InDelta(t, 100, p.FiatBalance, 1e-9)
}

func TestSellFullLiquidationDeletesPosition(t *testing.T) {
	t.Parallel()

	d, storage := newDesk(t, 0, 200)
	storage.positions["P1/bitcoin"] = portfolio.Position{
		AssetID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Quantity: 4, AvgCost: 150,
	}

	tx, err := d.Sell(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 4})
	require.NoError(t, err)
	assert.InDelta(t, 800, tx.DealValue, 1e-9)

	pos, _ := storage.Position(context.Background(), "P1", "bitcoin")
	assert.Nil(t, pos)

	p, _ := storage.Profile(context.Background(), "P1")
	assert.InDelta(t, 800, p.FiatBalance, 1e-9)
}

func TestSellWithoutPosition(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, 1000, 100)

	_, err := d.Sell(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1})
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestSellMoreThanHeld(t *testing.T) {
	t.Parallel()

	d, storage := newDesk(t, 0, 100)
	storage.positions["P1/bitcoin"] = portfolio.Position{AssetID: "bitcoin", Quantity: 2, AvgCost: 100}

	_, err := d.Sell(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 3})
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Empty(t, storage.trades)
}

func TestCommitFailurePropagates(t *testing.T) {
	t.Parallel()

	d, storage := newDesk(t, 1000, 100)
	storage.commitErr = errors.New("disk full")
	listener := &recordingListener{}
	d.SetListener(listener)

	_, err := d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1})
	require.Error(t, err)

	listener.mu.Lock()
	defer listener.mu.Unlock()
	assert.Empty(t, listener.trades, "failed trades must not be announced")
}

func TestConcurrentBuysSerializePerProfile(t *testing.T) {
	t.Parallel()

	d, storage := newDesk(t, 1000, 100)

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.Buy(context.Background(), Request{ProfileID: "P1", Asset: btc, Quantity: 1})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	// Each buy must have seen the balance left by the previous one.
	p, _ := storage.Profile(context.Background(), "P1")
	assert.InDelta(t, 600, p.FiatBalance, 1e-9)

	pos, _ := storage.Position(context.Background(), "P1", "bitcoin")
	require.NotNil(t, pos)
	assert.InDelta(t, 4, pos.Quantity, 1e-9)
}
