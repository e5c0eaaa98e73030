package tencent

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkticker/pkg/quote"
)

// Replays a captured qt.gtimg.cn response to pin the positional field
// layout. Delete the cassette to re-record against the live endpoint.
func TestProvider_Fetch_Recorded(t *testing.T) {
	r, err := recorder.New(filepath.Join("testdata", "cassettes", "tencent_quote"))
	require.NoError(t, err, "recorder.New should not error")
	defer func() { _ = r.Stop() }()

	p := NewProvider(WithClientOptions(WithHTTPClient(&http.Client{Transport: r})))
	out := p.Fetch(context.Background(), "sz000001")
	require.True(t, out.OK(), "reason: %s", out.Reason())

	q := out.Quote()
	assert.Equal(t, "sz000001", q.Symbol)
	assert.Equal(t, "000001", q.Code)
	assert.Equal(t, "000001", q.Name, "GBK name is not printable ASCII")
	assert.InDelta(t, 11.32, q.Last, 1e-9)
	assert.InDelta(t, 11.25, q.PrevClose, 1e-9)
	assert.InDelta(t, 11.27, q.Open, 1e-9)
	assert.Equal(t, uint64(1052364), q.Volume)
	assert.InDelta(t, 0.07, q.Change, 1e-9)
	assert.InDelta(t, 0.62, q.ChangePct, 1e-9)
	assert.InDelta(t, 11.40, q.High, 1e-9)
	assert.InDelta(t, 11.20, q.Low, 1e-9)
	assert.InDelta(t, 119123, q.Amount, 1e-9)
	assert.Equal(t, "2025-01-10 15:00:03", q.TimestampDisplay)
	assert.False(t, quote.IsMissing(q.Amount))
}
