package market

import "context"

// Provider fetches one quote at a time from an upstream source.
//
// Fetch must honour ctx and must not panic; every failure is reported as an
// Outcome failure with a short human readable reason.
type Provider interface {
	// Begin performs a one-time readiness check.
	Begin() bool
	// Fetch retrieves the current quote for symbol.
	Fetch(ctx context.Context, symbol string) Outcome
}
