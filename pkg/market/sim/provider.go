package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"inkticker/pkg/market"
	"inkticker/pkg/quote"
)

const (
	defaultBasePrice = 10.0
	defaultStep      = 0.05
	recordFields     = 50
)

// Provider is an offline quote source. It walks a price per symbol with a
// seeded generator, renders each step as an upstream-format record and runs
// it through quote.Parse, so output is deterministic for a given seed.
type Provider struct {
	mu sync.Mutex

	rng       *rand.Rand
	basePrice float64
	step      float64
	failEvery int
	start     time.Time

	fetches int
	symbols map[string]*symbolState
}

type symbolState struct {
	price  float64
	high   float64
	low    float64
	volume uint64
	ticks  int
}

// Option configures a simulated provider.
type Option func(*Provider)

// WithBasePrice sets the previous close every walk starts from.
func WithBasePrice(price float64) Option {
	return func(p *Provider) {
		if price > 0 {
			p.basePrice = price
		}
	}
}

// WithStep sets the maximum absolute price move per fetch. Zero freezes prices.
func WithStep(step float64) Option {
	return func(p *Provider) {
		if step >= 0 {
			p.step = step
		}
	}
}

// WithSeed seeds the generator.
func WithSeed(seed int64) Option {
	return func(p *Provider) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

// WithFailEvery makes every n-th fetch fail with a transport error.
func WithFailEvery(n int) Option {
	return func(p *Provider) {
		if n >= 0 {
			p.failEvery = n
		}
	}
}

// WithStart sets the source timestamp of the first record.
func WithStart(t time.Time) Option {
	return func(p *Provider) {
		p.start = t
	}
}

// New constructs a simulated provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		rng:       rand.New(rand.NewSource(1)),
		basePrice: defaultBasePrice,
		step:      defaultStep,
		start:     time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC),
		symbols:   make(map[string]*symbolState),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func init() {
	market.RegisterProvider("sim", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []Option{WithFailEvery(cfg.FailEvery)}
		if cfg.BasePrice > 0 {
			opts = append(opts, WithBasePrice(cfg.BasePrice))
		}
		if cfg.Step > 0 {
			opts = append(opts, WithStep(cfg.Step))
		}
		if cfg.Seed != 0 {
			opts = append(opts, WithSeed(cfg.Seed))
		}
		return New(opts...), nil
	})
}

// Begin implements market.Provider.
func (p *Provider) Begin() bool { return true }

// Fetch implements market.Provider.
func (p *Provider) Fetch(ctx context.Context, symbol string) market.Outcome {
	if err := ctx.Err(); err != nil {
		return market.Failure("HTTP timeout")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fetches++
	if p.failEvery > 0 && p.fetches%p.failEvery == 0 {
		return market.Failuref("HTTP status %d", 503)
	}
	return market.FromParse(quote.Parse(symbol, p.next(symbol)))
}

// next advances the walk for symbol and returns the rendered record.
func (p *Provider) next(symbol string) string {
	st, ok := p.symbols[symbol]
	if !ok {
		st = &symbolState{price: p.basePrice, high: p.basePrice, low: p.basePrice}
		p.symbols[symbol] = st
	}
	st.ticks++
	move := (p.rng.Float64()*2 - 1) * p.step
	st.price = math.Max(0.01, round2(st.price+move))
	st.high = math.Max(st.high, st.price)
	st.low = math.Min(st.low, st.price)
	st.volume += uint64(100 * (1 + p.rng.Intn(50)))

	ts := p.start.Add(time.Duration(st.ticks-1) * time.Minute)
	change := st.price - p.basePrice

	fields := make([]string, recordFields)
	fields[0] = "51"
	fields[1] = "SIM " + strings.ToUpper(symbol)
	fields[2] = code(symbol)
	fields[3] = money(st.price)
	fields[4] = money(p.basePrice)
	fields[5] = money(p.basePrice)
	fields[6] = strconv.FormatUint(st.volume, 10)
	fields[30] = ts.Format("20060102150405")
	fields[31] = money(change)
	fields[32] = money(change / p.basePrice * 100)
	fields[33] = money(st.high)
	fields[34] = money(st.low)
	fields[37] = strconv.FormatFloat(float64(st.volume)*st.price/10000, 'f', 0, 64)
	return fmt.Sprintf("v_%s=\"%s\";", symbol, strings.Join(fields, "~"))
}

// code strips a two letter exchange prefix such as sz or sh.
func code(symbol string) string {
	if len(symbol) > 2 && strings.Trim(symbol[:2], "abcdefghijklmnopqrstuvwxyz") == "" {
		return symbol[2:]
	}
	return symbol
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
