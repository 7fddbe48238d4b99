package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval matches the refresh cadence of the price screens.
const DefaultInterval = 5 * time.Second

// AssetSource is the slice of Client the poller needs.
type AssetSource interface {
	Asset(ctx context.Context, assetID string) (Asset, error)
}

// QuoteFunc observes quotes as the poller refreshes them.
type QuoteFunc func(Quote)

// Poller refreshes quotes for a set of assets at a fixed interval. A failed
// fetch skips that tick and is retried on the next one; it is never treated
// as fatal. Cancelling the context stops the poller without affecting any
// trade already in flight.
type Poller struct {
	source   AssetSource
	store    *QuoteStore
	assets   []string
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	observers []QuoteFunc
}

func NewPoller(source AssetSource, store *QuoteStore, assets []string, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		source:   source,
		store:    store,
		assets:   assets,
		interval: interval,
		logger:   logger,
	}
}

// OnQuote registers an observer called for every refreshed quote.
func (p *Poller) OnQuote(fn QuoteFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	for _, assetID := range p.assets {
		if ctx.Err() != nil {
			return
		}

		a, err := p.source.Asset(ctx, assetID)
		if err != nil {
			// Skip this tick, retry on the next interval.
			p.logger.Debug("quote fetch failed",
				zap.String("asset", assetID),
				zap.Error(err))
			continue
		}

		q := Quote{AssetID: a.ID, Price: a.PriceUSD, Time: time.Now().UTC()}
		p.store.Set(q)
		p.notify(q)
	}
}

func (p *Poller) notify(q Quote) {
	p.mu.Lock()
	observers := make([]QuoteFunc, len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(q)
	}
}
