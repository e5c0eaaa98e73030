package svc_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkticker/internal/config"
	"inkticker/internal/svc"
	marketpkg "inkticker/pkg/market"
	"inkticker/pkg/market/sim"
	"inkticker/pkg/netlink"
)

func TestNewServiceContext_Defaults(t *testing.T) {
	cfg := config.Default()
	sc, err := svc.NewServiceContext(*cfg, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "tencent", sc.MarketName)
	assert.NotNil(t, sc.MarketProvider)
	assert.IsType(t, &netlink.ProbeLink{}, sc.Link)
	assert.NotNil(t, sc.Kernel)
	assert.Equal(t, "sz000001", sc.Kernel.State().Symbol)
}

// Runs the real object graph against the simulated provider.
func TestNewServiceContext_SimulatedTicker(t *testing.T) {
	cfg := config.Default()
	cfg.Link.AlwaysUp = true
	cfg.Display.PlainText = true
	cfg.Market.Value = &marketpkg.Config{
		Default: "offline",
		Providers: map[string]*marketpkg.ProviderConfig{
			"offline": {Type: "sim", BasePrice: 12.5, Seed: 3},
		},
	}

	var out bytes.Buffer
	sc, err := svc.NewServiceContext(*cfg, &out)
	require.NoError(t, err)
	assert.IsType(t, &sim.Provider{}, sc.MarketProvider)

	sc.Kernel.Begin(context.Background())
	st := sc.Kernel.State()
	require.True(t, st.HasQuote, "error: %s", st.LastError)
	assert.Equal(t, "000001", st.Quote.Code)

	lines := sc.Panel.Lines()
	assert.Equal(t, "000001 SIM SZ000001", lines[2])
	assert.Contains(t, out.String(), "Ink Stock Ticker")
	assert.Equal(t, 1, sc.Panel.Stats().Full)

	families, err := sc.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["inkticker_fetch_total"])
	assert.True(t, names["inkticker_render_total"])
}

func TestNewServiceContext_BadMarket(t *testing.T) {
	cfg := config.Default()
	cfg.Market.Value = &marketpkg.Config{Providers: map[string]*marketpkg.ProviderConfig{
		"a": {Type: "sim"},
		"b": {Type: "sim"},
	}}
	_, err := svc.NewServiceContext(*cfg, &bytes.Buffer{})
	assert.Error(t, err)
}
