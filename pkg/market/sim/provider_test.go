package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkticker/pkg/market"
	"inkticker/pkg/quote"
)

func TestSimProvider_BasicFlow(t *testing.T) {
	p := New(WithBasePrice(20), WithStep(0.1), WithSeed(42))
	assert.True(t, p.Begin())
	ctx := context.Background()

	out := p.Fetch(ctx, "sz000001")
	require.True(t, out.OK(), "reason: %s", out.Reason())
	q := out.Quote()
	assert.Equal(t, "sz000001", q.Symbol)
	assert.Equal(t, "000001", q.Code)
	assert.Equal(t, "SIM SZ000001", q.Name)
	assert.InDelta(t, 20, q.Last, 0.1+1e-9)
	assert.InDelta(t, 20, q.PrevClose, 1e-9)
	assert.InDelta(t, q.Last-20, q.Change, 0.006)
	assert.Equal(t, "2025-01-10 09:30:00", q.TimestampDisplay)
	assert.Greater(t, q.Volume, uint64(0))
	assert.False(t, quote.IsMissing(q.Amount))

	next := p.Fetch(ctx, "sz000001").Quote()
	assert.Equal(t, "2025-01-10 09:31:00", next.TimestampDisplay)
	assert.Greater(t, next.Volume, q.Volume)
	assert.True(t, quote.DiffersForDisplay(q, next))
}

func TestSimProvider_Deterministic(t *testing.T) {
	a := New(WithSeed(7))
	b := New(WithSeed(7))
	for i := 0; i < 5; i++ {
		qa := a.Fetch(context.Background(), "sh600000").Quote()
		qb := b.Fetch(context.Background(), "sh600000").Quote()
		assert.False(t, quote.DiffersForDisplay(qa, qb), "step %d", i)
	}
}

func TestSimProvider_FrozenPrice(t *testing.T) {
	p := New(WithStep(0), WithBasePrice(5))
	for i := 0; i < 3; i++ {
		q := p.Fetch(context.Background(), "sz000002").Quote()
		assert.InDelta(t, 5, q.Last, 1e-9)
		assert.InDelta(t, 0, q.Change, 1e-9)
	}
}

func TestSimProvider_FailEvery(t *testing.T) {
	p := New(WithFailEvery(3))
	var failures []int
	for i := 1; i <= 6; i++ {
		if out := p.Fetch(context.Background(), "sz000001"); !out.OK() {
			assert.Equal(t, "HTTP status 503", out.Reason())
			failures = append(failures, i)
		}
	}
	assert.Equal(t, []int{3, 6}, failures)
}

func TestSimProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := New().Fetch(ctx, "sz000001")
	assert.False(t, out.OK())
}

func TestSimProvider_Registered(t *testing.T) {
	cfg := &market.Config{Providers: map[string]*market.ProviderConfig{
		"offline": {Type: "sim", BasePrice: 3.5, Seed: 9, FailEvery: 2},
	}}
	require.NoError(t, cfg.Validate())
	_, provider, err := cfg.BuildDefault()
	require.NoError(t, err)

	sp, ok := provider.(*Provider)
	require.True(t, ok)
	assert.InDelta(t, 3.5, sp.basePrice, 1e-9)
	assert.Equal(t, 2, sp.failEvery)
}
