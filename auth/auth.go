// Package auth abstracts the sign-in capability. Trade and sign-in flows only
// depend on the authentication outcome, never on the mechanism behind it.
package auth

import (
	"context"

	"github.com/rustyeddy/investsim/profile"
)

// Result is the outcome of an authentication attempt.
type Result int

const (
	Success Result = iota
	Failure
	Cancelled
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Authenticator is a sign-in capability such as a biometric prompt or a PIN
// entry. Available reports whether the capability can be used at all.
type Authenticator interface {
	Available() bool
	Authenticate(ctx context.Context) (Result, error)
}

// Static always returns a fixed outcome. Used in tests and headless runs
// where no interactive capability exists.
type Static struct {
	Present bool
	Outcome Result
}

func (s Static) Available() bool { return s.Present }

func (s Static) Authenticate(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Cancelled, err
	}
	return s.Outcome, nil
}

// PIN authenticates by prompting for the profile's PIN. Prompt returning an
// error counts as the user cancelling.
type PIN struct {
	Profile profile.Profile
	Prompt  func() (string, error)
}

func (a PIN) Available() bool { return a.Profile.PINHash != "" }

func (a PIN) Authenticate(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Cancelled, err
	}
	pin, err := a.Prompt()
	if err != nil {
		return Cancelled, err
	}
	if profile.VerifyPIN(a.Profile, pin) {
		return Success, nil
	}
	return Failure, nil
}
