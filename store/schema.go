package store

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	profile_id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	biometry INTEGER NOT NULL DEFAULT 0,
	fiat_balance REAL NOT NULL,
	pin_hash TEXT NOT NULL DEFAULT '',
	trading_password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS positions (
	profile_id TEXT NOT NULL,
	asset_id TEXT NOT NULL,
	name TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity REAL NOT NULL,
	avg_cost REAL NOT NULL,
	PRIMARY KEY (profile_id, asset_id)
);

CREATE TABLE IF NOT EXISTS transactions (
	transaction_id TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL,
	asset_id TEXT NOT NULL,
	name TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	unit_price REAL NOT NULL,
	quantity REAL NOT NULL,
	deal_value REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_profile_time ON transactions(profile_id, time);
`
