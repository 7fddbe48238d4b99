// Package id generates the identifiers used for profiles and transactions.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string. ULIDs sort lexicographically by creation
// time, which keeps transaction history naturally ordered under a plain
// primary-key index.
func New() string {
	return ulid.Make().String()
}
