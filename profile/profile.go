// Package profile holds the user aggregate: identity, credentials and the
// fiat balance that buys draw on and sells credit.
package profile

// Profile is one simulated investor. FiatBalance is mutated only through the
// atomic trade commit, never directly.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Biometry  bool // biometric sign-in enabled

	FiatBalance float64

	PINHash             string
	TradingPasswordHash string // empty means no trading password configured
}

// FullName returns the display name used in greetings and exports.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
