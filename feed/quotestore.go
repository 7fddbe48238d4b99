package feed

import (
	"errors"
	"sync"
	"time"
)

// ErrNoQuote is returned when no quote has been observed for an asset yet.
var ErrNoQuote = errors.New("no quote for asset")

// Quote is the latest observed price of an asset.
type Quote struct {
	AssetID string
	Price   float64
	Time    time.Time
}

// QuoteStore holds the most recent quote per asset.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

func (qs *QuoteStore) Set(q Quote) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.quotes[q.AssetID] = q
}

func (qs *QuoteStore) Get(assetID string) (Quote, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	q, ok := qs.quotes[assetID]
	if !ok {
		return Quote{}, ErrNoQuote
	}
	return q, nil
}
