package quote

import "math"

// Quote is a snapshot of one instrument as reported by the upstream feed.
//
// Price-scale fields use NaN as the missing sentinel; see Missing and IsMissing.
type Quote struct {
	Symbol string // request symbol, as sent upstream
	Code   string // exchange code
	Name   string // printable display name, falls back to Code

	Last      float64
	PrevClose float64
	Open      float64
	High      float64
	Low       float64
	Change    float64
	ChangePct float64
	Volume    uint64
	Amount    float64 // in units of 10,000

	TimestampRaw     string
	TimestampDisplay string // YYYY-MM-DD HH:MM:SS when the raw form is long enough
}

// Missing returns the sentinel used for absent numeric fields.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Valid reports whether q carries a last price. Invalid quotes must never
// replace a displayed one.
func (q Quote) Valid() bool { return !IsMissing(q.Last) }

// ShortTime returns the HH:MM:SS part of the display timestamp, or the whole
// display string when it is shorter than a full timestamp.
func (q Quote) ShortTime() string {
	if len(q.TimestampDisplay) >= 19 {
		return q.TimestampDisplay[11:19]
	}
	return q.TimestampDisplay
}
