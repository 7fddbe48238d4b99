package store

import (
	"context"
	"time"

	"github.com/rustyeddy/investsim/portfolio"
	"github.com/rustyeddy/investsim/profile"
)

// Profiles returns all profiles ordered by id.
func (s *SQLite) Profiles(ctx context.Context) ([]profile.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile_id, first_name, last_name, biometry, fiat_balance, pin_hash, trading_password_hash
		FROM profiles
		ORDER BY profile_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []profile.Profile
	for rows.Next() {
		var p profile.Profile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Biometry,
			&p.FiatBalance, &p.PINHash, &p.TradingPasswordHash); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Positions returns all of a profile's open positions ordered by asset.
func (s *SQLite) Positions(ctx context.Context, profileID string) ([]portfolio.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, name, symbol, quantity, avg_cost
		FROM positions
		WHERE profile_id = ?
		ORDER BY asset_id ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []portfolio.Position
	for rows.Next() {
		var pos portfolio.Position
		if err := rows.Scan(&pos.AssetID, &pos.Name, &pos.Symbol, &pos.Quantity, &pos.AvgCost); err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, rows.Err()
}

// Transactions returns the profile's full trade history, oldest first.
func (s *SQLite) Transactions(ctx context.Context, profileID string) ([]portfolio.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT transaction_id, asset_id, name, symbol, side, unit_price, quantity, deal_value, time
		FROM transactions
		WHERE profile_id = ?
		ORDER BY time ASC, transaction_id ASC`, profileID)
}

// TransactionsBetween returns trades executed within [start, end).
func (s *SQLite) TransactionsBetween(ctx context.Context, profileID string, start, end time.Time) ([]portfolio.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT transaction_id, asset_id, name, symbol, side, unit_price, quantity, deal_value, time
		FROM transactions
		WHERE profile_id = ? AND time >= ? AND time < ?
		ORDER BY time ASC, transaction_id ASC`, profileID, start, end)
}

func (s *SQLite) queryTransactions(ctx context.Context, query string, args ...any) ([]portfolio.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []portfolio.Transaction
	for rows.Next() {
		var t portfolio.Transaction
		var side string
		if err := rows.Scan(&t.ID, &t.AssetID, &t.Name, &t.Symbol, &side,
			&t.UnitPrice, &t.Quantity, &t.DealValue, &t.Time); err != nil {
			return nil, err
		}
		if t.Side, err = portfolio.ParseSide(side); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
