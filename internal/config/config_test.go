package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkticker/pkg/ticker"

	_ "inkticker/pkg/market/exchanges/tencent"
	_ "inkticker/pkg/market/sim"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Minimal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ticker.yaml", "Env: dev\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.False(t, cfg.IsTestEnv())
	assert.Equal(t, ticker.DefaultSymbol, cfg.Symbol)
	assert.Equal(t, ticker.DefaultSettings(), cfg.Settings())
	assert.Equal(t, "qt.gtimg.cn:80", cfg.Link.ProbeAddress)
	assert.Equal(t, 48, cfg.Display.Columns)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, path, cfg.MainPath())
	assert.Equal(t, dir, cfg.BaseDir())

	mc := cfg.MarketConfig()
	assert.Equal(t, "tencent", mc.Default)
	require.NoError(t, mc.Validate())
}

func TestLoad_WithSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "market.yaml", `
default: offline
providers:
  offline:
    type: sim
    base_price: 12.5
`)
	path := writeFile(t, dir, "ticker.yaml", `
Env: prod
Symbol: ${TICKER_SYMBOL}
Ticker:
  FetchInterval: 30s
  FullRefreshInterval: 10m
  FetchTimeout: 5s
Link:
  AlwaysUp: true
Display:
  Columns: 60
  Rows: 12
  PlainText: true
Metrics:
  Addr: 127.0.0.1:9108
Market:
  File: market.yaml
`)
	t.Setenv("TICKER_SYMBOL", "sh600000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sh600000", cfg.Symbol)

	s := cfg.Settings()
	assert.Equal(t, "sh600000", s.Symbol)
	assert.Equal(t, 30*time.Second, s.FetchInterval)
	assert.Equal(t, 10*time.Minute, s.FullRefreshInterval)
	assert.Equal(t, 5*time.Second, s.FetchTimeout)
	assert.Equal(t, ticker.DefaultRetryInterval, s.RetryInterval)

	assert.True(t, cfg.Link.AlwaysUp)
	assert.Equal(t, 60, cfg.Display.Columns)
	assert.True(t, cfg.Display.PlainText)
	assert.Equal(t, "127.0.0.1:9108", cfg.Metrics.Addr)

	require.NotNil(t, cfg.Market.Value)
	assert.Equal(t, filepath.Join(dir, "market.yaml"), cfg.Market.File)
	assert.Equal(t, "offline", cfg.MarketConfig().Default)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "env", body: "Env: staging\n"},
		{name: "symbol", body: "Symbol: \"sz 01\"\n"},
		{name: "timeout beyond interval", body: "Ticker:\n  FetchInterval: 5s\n  FetchTimeout: 8s\n"},
		{name: "display too small", body: "Display:\n  Columns: 10\n"},
		{name: "probe address", body: "Link:\n  ProbeAddress: localhost\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), "ticker.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingMarketFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ticker.yaml", "Market:\n  File: nope.yaml\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load market config")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsTestEnv())
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ticker.DefaultSettings(), cfg.Settings())
	assert.Equal(t, 10, cfg.Display.Rows)
}

func TestLoad_ShippedConfig(t *testing.T) {
	t.Setenv("TICKER_ENV", "dev")
	t.Setenv("TENCENT_QUOTE_URL", "")

	cfg, err := Load(filepath.Join("..", "..", "etc", "ticker.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ticker.DefaultSettings(), cfg.Settings())

	mc := cfg.MarketConfig()
	assert.Equal(t, "tencent", mc.Default)
	assert.Contains(t, mc.Providers, "sim")
	name, _, err := mc.BuildDefault()
	require.NoError(t, err)
	assert.Equal(t, "tencent", name)
}
