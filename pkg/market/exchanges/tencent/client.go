package tencent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"

	"inkticker/pkg/quote"
)

const (
	defaultBaseURL     = "http://qt.gtimg.cn/q="
	defaultHTTPTimeout = 8 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (ESP32)"
	defaultCharset     = "gbk"

	retryBackoff = 150 * time.Millisecond
	// A single-symbol record is well under 1 KiB.
	maxBodyBytes = 64 << 10
)

var (
	// ErrBeginFailed indicates the request could not be constructed.
	ErrBeginFailed = errors.New("HTTP begin failed")
	// ErrRequestFailed indicates a transport level failure.
	ErrRequestFailed = errors.New("HTTP request failed")
)

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status %d", e.Code)
}

// Client retrieves raw quote payloads from the Tencent quote endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	charset    string
	maxRetries int
	httpClient *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the quote endpoint prefix; the symbol is appended to it.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCharset selects the response body encoding: gbk (default), gb18030 or utf-8.
func WithCharset(charset string) Option {
	return func(c *Client) {
		if charset != "" {
			c.charset = charset
		}
	}
}

// WithMaxRetries adjusts the retry budget. The default is a single attempt.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// NewClient constructs a Tencent quote client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		charset:    defaultCharset,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the endpoint prefix in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// QuoteURL returns the request URL for symbol.
func (c *Client) QuoteURL(symbol string) string {
	return c.baseURL + symbol
}

// FetchPayload requests the quote record for symbol and returns the body
// decoded to UTF-8. Decoding happens before any field splitting because GBK
// trail bytes may equal '~'.
func (c *Client) FetchPayload(ctx context.Context, symbol string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		body, err := c.get(ctx, symbol)
		if err == nil {
			return c.decode(body)
		}
		if !retryable(err) || ctx.Err() != nil {
			return "", err
		}
		lastErr = err
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrRequestFailed, ctx.Err())
			case <-time.After(retryBackoff * time.Duration(attempt+1)):
			}
		}
	}
	return "", lastErr
}

func (c *Client) get(ctx context.Context, symbol string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QuoteURL(symbol), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBeginFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrRequestFailed, err)
	}
	return body, nil
}

func (c *Client) decode(body []byte) (string, error) {
	var enc encoding.Encoding
	switch c.charset {
	case "utf-8", "utf8":
		return string(body), nil
	case "gb18030":
		enc = simplifiedchinese.GB18030
	default:
		enc = simplifiedchinese.GBK
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", quote.ErrMalformedPayload, c.charset, err)
	}
	return string(out), nil
}

// retryable reports whether a later attempt may succeed: transport failures
// and 5xx responses.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return errors.Is(err, ErrRequestFailed)
}
