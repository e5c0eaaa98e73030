package ticker

import "inkticker/pkg/quote"

// State is the application state. The Kernel owns and mutates it; features
// receive copies.
type State struct {
	Symbol    string
	Connected bool

	HasQuote bool
	Quote    quote.Quote

	// LastError is the most recent error text; empty when none is active.
	LastError string

	FetchIntervalMs uint32
	LastFetchAtMs   uint32
	LastSuccessAtMs uint32
	NextFetchDueMs  uint32
}
