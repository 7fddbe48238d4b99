package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	prices map[string]float64
	fail   map[string]bool
	calls  int
}

func (f *fakeSource) Asset(ctx context.Context, assetID string) (Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[assetID] {
		return Asset{}, errors.New("network down")
	}
	p, ok := f.prices[assetID]
	if !ok {
		return Asset{}, errors.New("unknown asset")
	}
	return Asset{ID: assetID, Symbol: assetID, Name: assetID, PriceUSD: p}, nil
}

func TestPollerRefreshesQuotes(t *testing.T) {
	t.Parallel()

	src := &fakeSource{prices: map[string]float64{"bitcoin": 65000, "ethereum": 3400}}
	store := NewQuoteStore()
	p := NewPoller(src, store, []string{"bitcoin", "ethereum"}, 10*time.Millisecond, nil)

	var mu sync.Mutex
	var seen []Quote
	p.OnQuote(func(q Quote) {
		mu.Lock()
		seen = append(seen, q)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	q, err := store.Get("bitcoin")
	require.NoError(t, err)
	assert.InDelta(t, 65000, q.Price, 1e-9)

	q, err = store.Get("ethereum")
	require.NoError(t, err)
	assert.InDelta(t, 3400, q.Price, 1e-9)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, seen)
}

func TestPollerSkipsFailedTick(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		prices: map[string]float64{"bitcoin": 65000, "ethereum": 3400},
		fail:   map[string]bool{"bitcoin": true},
	}
	store := NewQuoteStore()
	p := NewPoller(src, store, []string{"bitcoin", "ethereum"}, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = p.Run(ctx)

	// bitcoin never produced a quote, ethereum still did.
	_, err := store.Get("bitcoin")
	assert.ErrorIs(t, err, ErrNoQuote)

	_, err = store.Get("ethereum")
	assert.NoError(t, err)
}

func TestPollerStopsOnCancel(t *testing.T) {
	t.Parallel()

	src := &fakeSource{prices: map[string]float64{"bitcoin": 65000}}
	p := NewPoller(src, NewQuoteStore(), []string{"bitcoin"}, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestQuoteStore(t *testing.T) {
	t.Parallel()

	store := NewQuoteStore()

	_, err := store.Get("bitcoin")
	assert.ErrorIs(t, err, ErrNoQuote)

	store.Set(Quote{AssetID: "bitcoin", Price: 1})
	store.Set(Quote{AssetID: "bitcoin", Price: 2})

	q, err := store.Get("bitcoin")
	require.NoError(t, err)
	assert.InDelta(t, 2, q.Price, 1e-9)
}
