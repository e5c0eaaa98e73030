package ticker

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/timex"

	"inkticker/pkg/display"
	"inkticker/pkg/market"
	"inkticker/pkg/netlink"
	"inkticker/pkg/quote"
)

// Error texts shown on screen.
const (
	ErrTextDisconnected   = "WiFi disconnected"
	ErrTextConnectTimeout = "WiFi connect timeout"
)

// Kernel runs the ticker: it keeps the link up, paces fetches, and decides
// when and how much of the display to redraw. It is single threaded; none
// of its methods may be called concurrently.
type Kernel struct {
	display  display.Display
	provider market.Provider
	feature  Feature
	link     netlink.Link
	clock    Clock
	metrics  Metrics
	settings Settings

	fullRefreshMs uint32
	retryMs       uint32

	state               State
	lastRetryAtMs       uint32
	lastFullRefreshAtMs uint32
	rendered            bool
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithClock replaces the monotonic clock.
func WithClock(c Clock) Option {
	return func(k *Kernel) {
		if c != nil {
			k.clock = c
		}
	}
}

// WithMetrics installs a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(k *Kernel) {
		if m != nil {
			k.metrics = m
		}
	}
}

// WithSettings overrides DefaultSettings. Unset fields keep their defaults.
func WithSettings(s Settings) Option {
	return func(k *Kernel) {
		k.settings = s.WithDefaults()
	}
}

// New wires a kernel.
func New(d display.Display, p market.Provider, f Feature, l netlink.Link, opts ...Option) *Kernel {
	k := &Kernel{
		display:  d,
		provider: p,
		feature:  f,
		link:     l,
		clock:    NewMonotonicClock(),
		metrics:  nopMetrics{},
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.fullRefreshMs = millis(k.settings.FullRefreshInterval)
	k.retryMs = millis(k.settings.RetryInterval)
	k.state = State{
		Symbol:          k.settings.Symbol,
		FetchIntervalMs: millis(k.settings.FetchInterval),
	}
	return k
}

// State returns a copy of the current application state.
func (k *Kernel) State() State {
	return k.state
}

// Begin brings the link up with a bounded wait, enters the feature, and
// performs one forced fetch and one render.
func (k *Kernel) Begin(ctx context.Context) {
	k.link.Connect(ctx)
	start := k.clock.NowMs()
	connectMs := millis(k.settings.ConnectTimeout)
	for !k.link.Connected() && !Elapsed(k.clock.NowMs(), start, connectMs) && ctx.Err() == nil {
		k.clock.Sleep(k.settings.ConnectPoll)
	}

	k.state.Connected = k.link.Connected()
	k.metrics.SetLinkUp(k.state.Connected)
	if k.state.Connected {
		logx.Info("ticker: link connected")
	} else {
		logx.Errorf("ticker: link connect timeout after %s, retrying in loop", k.settings.ConnectTimeout)
		k.state.LastError = ErrTextConnectTimeout
	}

	if !k.provider.Begin() {
		logx.Errorf("ticker: quote provider not ready, fetches will report errors")
	}
	k.feature.OnEnter(k.state)
	k.feature.MarkDirty()

	k.fetch(ctx, true)
	k.render(ctx, k.clock.NowMs())
}

// Step runs one loop iteration without the trailing yield.
func (k *Kernel) Step(ctx context.Context) {
	now := k.clock.NowMs()

	k.maintainLink(ctx, now)
	k.fetch(ctx, false)
	k.feature.OnTick(k.state, now)

	if !k.feature.NeedsRender() && Elapsed(now, k.lastFullRefreshAtMs, k.fullRefreshMs) {
		k.feature.MarkDirty()
	}

	k.render(ctx, now)
}

// Run calls Step until ctx is done, yielding between iterations. Begin must
// have been called first.
func (k *Kernel) Run(ctx context.Context) error {
	for {
		k.Step(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(k.settings.LoopYield):
		}
	}
}

func (k *Kernel) maintainLink(ctx context.Context, now uint32) {
	connected := k.link.Connected()
	if connected != k.state.Connected {
		k.state.Connected = connected
		k.metrics.SetLinkUp(connected)
		k.feature.MarkDirty()
		if connected {
			logx.Info("ticker: link reconnected")
			k.state.LastError = ""
		} else {
			logx.Error("ticker: link disconnected")
			k.state.LastError = ErrTextDisconnected
		}
	}

	if !k.state.Connected && Elapsed(now, k.lastRetryAtMs, k.retryMs) {
		k.lastRetryAtMs = now
		logx.WithContext(ctx).Debug("ticker: retrying link")
		k.link.Connect(ctx)
	}
}

func (k *Kernel) fetch(ctx context.Context, force bool) {
	now := k.clock.NowMs()
	if !force && !Elapsed(now, k.state.LastFetchAtMs, k.state.FetchIntervalMs) {
		return
	}

	// Recorded before the outcome so a slow or failed attempt waits a full
	// interval like any other.
	k.state.LastFetchAtMs = now
	k.state.NextFetchDueMs = now + k.state.FetchIntervalMs

	if !k.state.Connected {
		k.metrics.ObserveFetch(FetchOffline, 0)
		k.setError(ErrTextDisconnected)
		return
	}

	started := timex.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, k.settings.FetchTimeout)
	outcome := k.provider.Fetch(fetchCtx, k.state.Symbol)
	cancel()
	took := timex.Since(started)

	if !outcome.OK() {
		k.metrics.ObserveFetch(FetchError, took)
		if k.setError(outcome.Reason()) {
			logx.WithContext(ctx).Errorf("ticker: fetch %s failed: %s", k.state.Symbol, outcome.Reason())
		}
		return
	}

	k.metrics.ObserveFetch(FetchOK, took)
	q := outcome.Quote()
	changed := !k.state.HasQuote || quote.DiffersForDisplay(k.state.Quote, q)

	k.state.Quote = q
	k.state.HasQuote = true
	k.state.LastSuccessAtMs = now
	k.metrics.SetLastPrice(q.Symbol, q.Last)

	if changed || k.state.LastError != "" {
		k.feature.MarkDirty()
	}
	k.state.LastError = ""
	logx.WithContext(ctx).Infof("ticker: quote %s %.2f (%+.2f%%) changed=%t", q.Code, q.Last, q.ChangePct, changed)
}

// setError records msg and marks the feature dirty when the text changed.
func (k *Kernel) setError(msg string) bool {
	if k.state.LastError == msg {
		return false
	}
	k.state.LastError = msg
	k.feature.MarkDirty()
	return true
}

func (k *Kernel) render(ctx context.Context, now uint32) {
	if !k.feature.NeedsRender() {
		return
	}

	full := !k.rendered || Elapsed(now, k.lastFullRefreshAtMs, k.fullRefreshMs)
	st := k.state
	err := k.display.DrawFrame(func(s display.Surface) {
		k.feature.Render(s, st, now)
	}, full)
	if err != nil {
		logx.WithContext(ctx).Errorf("ticker: render %s: %v", k.feature.ID(), err)
	}
	k.metrics.ObserveRender(full)

	k.feature.ClearDirty()
	if full {
		k.lastFullRefreshAtMs = now
		k.rendered = true
	}
}
