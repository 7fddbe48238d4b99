// Package trade sequences trade execution: read state, validate, compute the
// ledger mutation, commit it atomically. Trades for one profile are strictly
// serialized so no trade ever computes against a stale read.
package trade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/investsim/feed"
	"github.com/rustyeddy/investsim/id"
	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/profile"
	"github.com/rustyeddy/investsim/store"
)

var (
	ErrBadQuantity          = errors.New("quantity must be positive")
	ErrInsufficientFunds    = errors.New("insufficient balance for buy")
	ErrInsufficientQuantity = errors.New("insufficient quantity for sell")
	ErrTradingPassword      = errors.New("trading password rejected")
	ErrNoPosition           = errors.New("no position for asset")
)

// Storage is the persistence collaborator the desk commits trades through.
type Storage interface {
	Profile(ctx context.Context, profileID string) (profile.Profile, error)
	Position(ctx context.Context, profileID, assetID string) (*portfolio.Position, error)
	CommitTrade(ctx context.Context, c store.TradeCommit) error
}

// Quotes supplies the price used at trade time: the most recently polled
// quote, never a blocking network fetch.
type Quotes interface {
	Get(assetID string) (feed.Quote, error)
}

// Listener observes executed trades. Called after the commit, outside the
// per-profile lock.
type Listener interface {
	OnTradeExecuted(profileID string, tx portfolio.Transaction)
}

// Request describes one trade intent.
type Request struct {
	ProfileID       string
	Asset           portfolio.AssetRef
	Quantity        float64
	TradingPassword string // ignored when the profile has none configured
}

// Desk executes trades against the ledger.
type Desk struct {
	storage Storage
	quotes  Quotes
	logger  *zap.Logger

	mu       sync.Mutex
	profiles map[string]*sync.Mutex
	listener Listener
}

func NewDesk(storage Storage, quotes Quotes, logger *zap.Logger) *Desk {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Desk{
		storage:  storage,
		quotes:   quotes,
		logger:   logger,
		profiles: make(map[string]*sync.Mutex),
	}
}

// SetListener registers an optional trade observer.
func (d *Desk) SetListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listener = l
}

// Buy executes a buy of req.Quantity units at the latest quoted price.
func (d *Desk) Buy(ctx context.Context, req Request) (portfolio.Transaction, error) {
	tx, err := d.execute(ctx, req, portfolio.Buy)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	return tx, nil
}

// Sell executes a sell of req.Quantity units at the latest quoted price.
func (d *Desk) Sell(ctx context.Context, req Request) (portfolio.Transaction, error) {
	tx, err := d.execute(ctx, req, portfolio.Sell)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	return tx, nil
}

func (d *Desk) execute(ctx context.Context, req Request, side portfolio.Side) (portfolio.Transaction, error) {
	if req.Quantity <= 0 {
		return portfolio.Transaction{}, ErrBadQuantity
	}

	lock := d.profileLock(req.ProfileID)
	lock.Lock()
	tx, err := d.executeLocked(ctx, req, side)
	lock.Unlock()
	if err != nil {
		return portfolio.Transaction{}, err
	}

	d.mu.Lock()
	listener := d.listener
	d.mu.Unlock()
	if listener != nil {
		listener.OnTradeExecuted(req.ProfileID, tx)
	}

	d.logger.Info("trade executed",
		zap.String("profile", req.ProfileID),
		zap.String("asset", tx.AssetID),
		zap.String("side", tx.Side.String()),
		zap.Float64("unit_price", tx.UnitPrice),
		zap.Float64("quantity", tx.Quantity),
		zap.Float64("deal_value", tx.DealValue))

	return tx, nil
}

// executeLocked runs the read-validate-compute-commit sequence under the
// profile's exclusive section.
func (d *Desk) executeLocked(ctx context.Context, req Request, side portfolio.Side) (portfolio.Transaction, error) {
	quote, err := d.quotes.Get(req.Asset.ID)
	if err != nil {
		return portfolio.Transaction{}, fmt.Errorf("price %q: %w", req.Asset.ID, err)
	}

	prof, err := d.storage.Profile(ctx, req.ProfileID)
	if err != nil {
		return portfolio.Transaction{}, err
	}

	if !profile.TradingPasswordSatisfied(prof, req.TradingPassword) {
		return portfolio.Transaction{}, ErrTradingPassword
	}

	pos, err := d.storage.Position(ctx, req.ProfileID, req.Asset.ID)
	if err != nil {
		return portfolio.Transaction{}, err
	}

	var commit store.TradeCommit
	var tx portfolio.Transaction

	switch side {
	case portfolio.Buy:
		if !portfolio.CanBuy(prof.FiatBalance, quote.Price, req.Quantity) {
			return portfolio.Transaction{}, ErrInsufficientFunds
		}
		var newPos portfolio.Position
		newPos, tx = portfolio.ApplyBuy(pos, req.Asset, quote.Price, req.Quantity)
		commit = store.TradeCommit{
			ProfileID:  req.ProfileID,
			NewBalance: prof.FiatBalance - tx.DealValue,
			Position:   &newPos,
		}

	case portfolio.Sell:
		if pos == nil {
			return portfolio.Transaction{}, ErrNoPosition
		}
		if !portfolio.CanSell(*pos, req.Quantity) {
			return portfolio.Transaction{}, ErrInsufficientQuantity
		}
		var newPos *portfolio.Position
		newPos, tx = portfolio.ApplySell(*pos, quote.Price, req.Quantity)
		commit = store.TradeCommit{
			ProfileID:  req.ProfileID,
			NewBalance: prof.FiatBalance + tx.DealValue,
			Position:   newPos,
		}

	default:
		return portfolio.Transaction{}, fmt.Errorf("unsupported side %v", side)
	}

	tx.ID = id.New()
	tx.Time = time.Now().UTC()
	commit.Transaction = tx

	if err := d.storage.CommitTrade(ctx, commit); err != nil {
		return portfolio.Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return tx, nil
}

func (d *Desk) profileLock(profileID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.profiles[profileID]
	if !ok {
		lock = &sync.Mutex{}
		d.profiles[profileID] = lock
	}
	return lock
}
