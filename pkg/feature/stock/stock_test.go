package stock

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkticker/pkg/display"
	"inkticker/pkg/quote"
	"inkticker/pkg/ticker"
)

func draw(t *testing.T, f *Feature, st ticker.State, now uint32) []string {
	t.Helper()
	p := display.NewPanel(io.Discard, display.WithANSI(false))
	require.NoError(t, p.DrawFrame(func(s display.Surface) { f.Render(s, st, now) }, true))
	return p.Lines()
}

func TestFeature_DirtyFlag(t *testing.T) {
	f := New()
	assert.Equal(t, "stock", f.ID())
	assert.True(t, f.NeedsRender())
	f.ClearDirty()
	assert.False(t, f.NeedsRender())
	f.OnTick(ticker.State{}, 0)
	assert.False(t, f.NeedsRender(), "tick does not dirty the screen")
	f.OnEnter(ticker.State{})
	assert.True(t, f.NeedsRender())
	f.ClearDirty()
	f.MarkDirty()
	assert.True(t, f.NeedsRender())
}

func TestFeature_WaitingView(t *testing.T) {
	lines := draw(t, New(), ticker.State{Symbol: "sz000001", LastError: "WiFi connect timeout"}, 0)

	assert.Contains(t, lines[0], "Ink Stock Ticker")
	assert.Contains(t, lines[0], "Link:--")
	assert.Equal(t, "Waiting for quote...", lines[3])
	assert.Equal(t, "ERR:", lines[5])
	assert.Equal(t, "WiFi connect timeout", lines[6])
	assert.Equal(t, "Symbol: sz000001", lines[display.DefaultRows-1])
}

func TestFeature_WaitingViewWithoutError(t *testing.T) {
	lines := draw(t, New(), ticker.State{Symbol: "sh600000", Connected: true}, 0)
	assert.Contains(t, lines[0], "Link:OK")
	assert.Empty(t, lines[5])
	assert.Equal(t, "Symbol: sh600000", lines[display.DefaultRows-1])
}

func TestFeature_QuoteView(t *testing.T) {
	st := ticker.State{
		Symbol:    "sz000001",
		Connected: true,
		HasQuote:  true,
		Quote: quote.Quote{
			Symbol:           "sz000001",
			Code:             "000001",
			Name:             "PAYH",
			Last:             11.32,
			Change:           0.07,
			ChangePct:        0.62,
			High:             11.4,
			Low:              quote.Missing(),
			Volume:           1052364,
			TimestampDisplay: "2025-01-10 15:00:03",
		},
		NextFetchDueMs: 61000,
	}
	lines := draw(t, New(), st, 19500)

	assert.Equal(t, "000001 PAYH", lines[2])
	assert.Equal(t, "11.32", lines[4])
	assert.Equal(t, "chg +0.07 (+0.62%)", lines[6])
	assert.Contains(t, lines[7], "H 11.40  L --")
	assert.Contains(t, lines[7], "next 42s")
	assert.Contains(t, lines[8], "Vol 1052364")
	assert.Contains(t, lines[8], "updt 15:00:03")
	assert.NotContains(t, lines[6], "ERR")
	assert.Empty(t, lines[9])
}

func TestFeature_QuoteViewWithError(t *testing.T) {
	st := ticker.State{
		HasQuote:  true,
		LastError: "HTTP status 503",
		Quote: quote.Quote{
			Symbol:    "sz000001",
			Last:      9.5,
			Change:    -0.5,
			ChangePct: quote.Missing(),
			High:      10,
			Low:       9,
		},
		NextFetchDueMs: 1000,
	}
	lines := draw(t, New(), st, 5000)

	assert.Equal(t, "sz000001 -", lines[2], "code and name fall back")
	assert.Equal(t, "chg -0.50 (--)", lines[6][:14])
	assert.Contains(t, lines[6], "ERR")
	assert.Contains(t, lines[7], "next 0s", "overdue fetch shows zero")
	assert.Equal(t, "HTTP status 503", lines[9])
}

func TestSecondsLeft(t *testing.T) {
	assert.Equal(t, uint32(60), secondsLeft(61000, 1000))
	assert.Equal(t, uint32(1), secondsLeft(1001, 1000))
	assert.Equal(t, uint32(0), secondsLeft(1000, 1000))
	assert.Equal(t, uint32(0), secondsLeft(1000, 2000))
	assert.Equal(t, uint32(2), secondsLeft(1500, 4294967295), "due after wrap")
}
