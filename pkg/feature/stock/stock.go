package stock

import (
	"fmt"
	"strconv"

	"inkticker/pkg/display"
	"inkticker/pkg/quote"
	"inkticker/pkg/ticker"
)

const (
	title      = "Ink Stock Ticker"
	rightWidth = 18
)

// Feature is the single-quote screen.
type Feature struct {
	dirty bool
}

var _ ticker.Feature = (*Feature)(nil)

// New returns a Feature that will draw on its first tick.
func New() *Feature {
	return &Feature{dirty: true}
}

func (f *Feature) ID() string { return "stock" }

func (f *Feature) OnEnter(ticker.State) { f.dirty = true }

func (f *Feature) OnTick(ticker.State, uint32) {}

func (f *Feature) NeedsRender() bool { return f.dirty }

func (f *Feature) MarkDirty() { f.dirty = true }

func (f *Feature) ClearDirty() { f.dirty = false }

// Render lays out st. Before the first quote it shows a waiting view with
// the active error; afterwards the last quote stays up with an ERR marker.
func (f *Feature) Render(s display.Surface, st ticker.State, nowMs uint32) {
	s.Clear()
	right := s.Width() - rightWidth
	if right < 0 {
		right = 0
	}

	s.Text(0, 0, title)
	if st.Connected {
		s.Text(s.Width()-7, 0, "Link:OK")
	} else {
		s.Text(s.Width()-7, 0, "Link:--")
	}
	s.HLine(1)

	if !st.HasQuote {
		s.Text(0, 3, "Waiting for quote...")
		if st.LastError != "" {
			s.Text(0, 5, "ERR:")
			s.Text(0, 6, st.LastError)
		}
		s.Text(0, s.Height()-1, "Symbol: "+st.Symbol)
		return
	}

	q := st.Quote
	code := q.Code
	if code == "" {
		code = q.Symbol
	}
	name := q.Name
	if name == "" {
		name = "-"
	}
	s.Text(0, 2, code+" "+name)
	s.Text(0, 4, number(q.Last))
	s.Text(0, 6, "chg "+signed(q.Change, "")+" ("+signed(q.ChangePct, "%")+")")
	s.Text(0, 7, "H "+number(q.High)+"  L "+number(q.Low))
	s.Text(0, 8, "Vol "+strconv.FormatUint(q.Volume, 10))

	if st.LastError != "" {
		s.Text(right, 6, "ERR")
		s.Text(0, 9, st.LastError)
	}
	s.Text(right, 7, fmt.Sprintf("next %ds", secondsLeft(st.NextFetchDueMs, nowMs)))
	s.Text(right, 8, "updt "+q.ShortTime())
}

// secondsLeft rounds the time until due up to whole seconds.
func secondsLeft(due, now uint32) uint32 {
	return (ticker.Remaining(due, now) + 999) / 1000
}

func number(v float64) string {
	if quote.IsMissing(v) {
		return "--"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func signed(v float64, suffix string) string {
	if quote.IsMissing(v) {
		return "--"
	}
	return fmt.Sprintf("%+.2f%s", v, suffix)
}
