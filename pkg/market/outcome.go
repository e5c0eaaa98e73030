package market

import (
	"fmt"

	"inkticker/pkg/quote"
)

// Outcome is the result of a single fetch attempt: a valid quote or a
// failure reason, never both.
type Outcome struct {
	quote  quote.Quote
	ok     bool
	reason string
}

// Success wraps q. A quote without a last price is turned into a failure so
// that a successful Outcome always carries a displayable record.
func Success(q quote.Quote) Outcome {
	if !q.Valid() {
		return Failure(quote.ErrInvalidLastPrice.Error())
	}
	return Outcome{quote: q, ok: true}
}

// Failure builds a failed Outcome.
func Failure(reason string) Outcome {
	if reason == "" {
		reason = "unknown error"
	}
	return Outcome{reason: reason}
}

// Failuref builds a failed Outcome from a format string.
func Failuref(format string, args ...any) Outcome {
	return Failure(fmt.Sprintf(format, args...))
}

// FromParse converts the result of quote.Parse into an Outcome.
func FromParse(q quote.Quote, err error) Outcome {
	if err != nil {
		return Failure(err.Error())
	}
	return Success(q)
}

// OK reports whether the fetch produced a quote.
func (o Outcome) OK() bool { return o.ok }

// Quote returns the fetched quote; the zero Quote for failures.
func (o Outcome) Quote() quote.Quote { return o.quote }

// Reason returns the failure reason; empty for successes.
func (o Outcome) Reason() string { return o.reason }
