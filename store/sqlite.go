// Package store persists profiles, positions and the transaction ledger in
// SQLite. The three mutations of a trade (balance, position, transaction)
// always commit as one SQL transaction or not at all.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/profile"
)

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("profile not found")

type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateProfile inserts a new profile row.
func (s *SQLite) CreateProfile(ctx context.Context, p profile.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles
		(profile_id, first_name, last_name, biometry, fiat_balance, pin_hash, trading_password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.Biometry, p.FiatBalance, p.PINHash, p.TradingPasswordHash,
	)
	return err
}

// UpdateProfile rewrites all mutable profile fields except the balance, which
// only CommitTrade may change.
func (s *SQLite) UpdateProfile(ctx context.Context, p profile.Profile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET first_name = ?, last_name = ?, biometry = ?, pin_hash = ?, trading_password_hash = ?
		WHERE profile_id = ?`,
		p.FirstName, p.LastName, p.Biometry, p.PINHash, p.TradingPasswordHash, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update profile %q: %w", p.ID, ErrNotFound)
	}
	return nil
}

// Profile loads one profile by id.
func (s *SQLite) Profile(ctx context.Context, profileID string) (profile.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT profile_id, first_name, last_name, biometry, fiat_balance, pin_hash, trading_password_hash
		FROM profiles
		WHERE profile_id = ?`, profileID)

	var p profile.Profile
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Biometry, &p.FiatBalance, &p.PINHash, &p.TradingPasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile.Profile{}, fmt.Errorf("profile %q: %w", profileID, ErrNotFound)
		}
		return profile.Profile{}, err
	}
	return p, nil
}

// Balance returns the profile's fiat balance.
func (s *SQLite) Balance(ctx context.Context, profileID string) (float64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT fiat_balance FROM profiles WHERE profile_id = ?`, profileID)

	var balance float64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("balance of %q: %w", profileID, ErrNotFound)
		}
		return 0, err
	}
	return balance, nil
}

// Position loads the profile's position in one asset. A missing position is
// returned as (nil, nil): zero quantity means no row.
func (s *SQLite) Position(ctx context.Context, profileID, assetID string) (*portfolio.Position, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT asset_id, name, symbol, quantity, avg_cost
		FROM positions
		WHERE profile_id = ? AND asset_id = ?`, profileID, assetID)

	var pos portfolio.Position
	err := row.Scan(&pos.AssetID, &pos.Name, &pos.Symbol, &pos.Quantity, &pos.AvgCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pos, nil
}

// TradeCommit is the unit of work of one executed trade. Position nil means
// the position was fully liquidated; its asset id comes from the transaction.
type TradeCommit struct {
	ProfileID   string
	NewBalance  float64
	Position    *portfolio.Position
	Transaction portfolio.Transaction
}

// CommitTrade applies the balance update, the position upsert or delete, and
// the transaction insert as a single atomic unit. Any failure rolls back the
// whole trade.
func (s *SQLite) CommitTrade(ctx context.Context, c TradeCommit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit trade: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET fiat_balance = ? WHERE profile_id = ?`,
		c.NewBalance, c.ProfileID)
	if err != nil {
		return fmt.Errorf("commit trade: balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("commit trade: balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("commit trade: profile %q: %w", c.ProfileID, ErrNotFound)
	}

	if c.Position != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO positions (profile_id, asset_id, name, symbol, quantity, avg_cost)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (profile_id, asset_id) DO UPDATE SET
				name = excluded.name,
				symbol = excluded.symbol,
				quantity = excluded.quantity,
				avg_cost = excluded.avg_cost`,
			c.ProfileID, c.Position.AssetID, c.Position.Name, c.Position.Symbol,
			c.Position.Quantity, c.Position.AvgCost)
		if err != nil {
			return fmt.Errorf("commit trade: position: %w", err)
		}
	} else {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM positions WHERE profile_id = ? AND asset_id = ?`,
			c.ProfileID, c.Transaction.AssetID)
		if err != nil {
			return fmt.Errorf("commit trade: delete position: %w", err)
		}
	}

	t := c.Transaction
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions
		(transaction_id, profile_id, asset_id, name, symbol, side, unit_price, quantity, deal_value, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, c.ProfileID, t.AssetID, t.Name, t.Symbol, t.Side.String(),
		t.UnitPrice, t.Quantity, t.DealValue, t.Time)
	if err != nil {
		return fmt.Errorf("commit trade: transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trade: %w", err)
	}
	return nil
}
