package quote

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload indicates the payload has no quoted body.
	ErrMalformedPayload = errors.New("Malformed payload")
	// ErrTooFewFields indicates the body splits into fewer than MinFields fields.
	ErrTooFewFields = errors.New("Field count too small")
	// ErrInvalidLastPrice indicates the last price is empty or not numeric.
	ErrInvalidLastPrice = errors.New("Invalid last price")
)

// ParseError describes why a payload could not be turned into a Quote.
// It matches its Kind with errors.Is.
type ParseError struct {
	Kind   error
	Fields int // field count, set for ErrTooFewFields
}

func (e *ParseError) Error() string {
	if errors.Is(e.Kind, ErrTooFewFields) {
		return fmt.Sprintf("%s: %d", e.Kind.Error(), e.Fields)
	}
	return e.Kind.Error()
}

func (e *ParseError) Unwrap() error { return e.Kind }
