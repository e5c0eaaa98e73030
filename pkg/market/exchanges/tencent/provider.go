package tencent

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"inkticker/pkg/market"
	"inkticker/pkg/quote"
)

const defaultProviderTimeout = 8 * time.Second

// Provider exposes the Tencent quote endpoint as a market.Provider.
type Provider struct {
	client     *Client
	timeout    time.Duration
	providerID string
}

type providerConfig struct {
	timeout      time.Duration
	clientConfig []Option
}

// ProviderOption customises the Tencent provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the per-fetch deadline.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientConfig = append(cfg.clientConfig, options...)
	}
}

// NewProvider constructs a Tencent quote provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{timeout: defaultProviderTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Provider{
		client:     NewClient(cfg.clientConfig...),
		timeout:    cfg.timeout,
		providerID: "tencent",
	}
}

func init() {
	market.RegisterProvider("tencent", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{
			WithBaseURL(cfg.BaseURL),
			WithCharset(cfg.Charset),
			WithUserAgent(cfg.UserAgent),
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.MaxRetries > 0 {
			clientOptions = append(clientOptions, WithMaxRetries(cfg.MaxRetries))
		}
		opts = append(opts, WithClientOptions(clientOptions...))
		provider := NewProvider(opts...)
		provider.providerID = name
		return provider, nil
	})
}

// Begin reports whether the configured endpoint is a usable absolute URL.
func (p *Provider) Begin() bool {
	u, err := url.Parse(p.client.BaseURL())
	if err != nil || u.Scheme == "" || u.Host == "" {
		logx.Errorf("tencent provider %s: unusable base url %q", p.providerID, p.client.BaseURL())
		return false
	}
	return true
}

// Fetch implements market.Provider.
func (p *Provider) Fetch(ctx context.Context, symbol string) market.Outcome {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	payload, err := p.client.FetchPayload(ctx, symbol)
	if err != nil {
		logx.WithContext(ctx).Errorf("tencent provider %s: fetch %s: %v", p.providerID, symbol, err)
		return market.Failure(failureReason(err))
	}
	return market.FromParse(quote.Parse(symbol, payload))
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// failureReason maps client errors to the short text shown on screen.
func failureReason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "HTTP timeout"
	case errors.Is(err, ErrBeginFailed):
		return ErrBeginFailed.Error()
	case errors.Is(err, quote.ErrMalformedPayload):
		return quote.ErrMalformedPayload.Error()
	default:
		return ErrRequestFailed.Error()
	}
}
