package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"inkticker/pkg/confkit"
	"inkticker/pkg/display"
	marketpkg "inkticker/pkg/market"
	"inkticker/pkg/ticker"
)

// TickerConf holds kernel timing. Zero values fall back to ticker defaults.
type TickerConf struct {
	FetchInterval       time.Duration `json:",default=60s"`
	FullRefreshInterval time.Duration `json:",default=5m"`
	ConnectTimeout      time.Duration `json:",default=15s"`
	ConnectPoll         time.Duration `json:",default=250ms"`
	RetryInterval       time.Duration `json:",default=5s"`
	FetchTimeout        time.Duration `json:",default=8s"`
	LoopYield           time.Duration `json:",default=30ms"`
}

type LinkConf struct {
	// ProbeAddress is dialled to decide whether the network is up.
	ProbeAddress  string        `json:",default=qt.gtimg.cn:80"`
	ProbeInterval time.Duration `json:",default=1s"`
	DialTimeout   time.Duration `json:",default=2s"`
	// AlwaysUp skips probing and reports the link as connected.
	AlwaysUp bool `json:",optional"`
}

type DisplayConf struct {
	Columns   int  `json:",default=48"`
	Rows      int  `json:",default=10"`
	PlainText bool `json:",optional"`
}

type MetricsConf struct {
	// Addr enables the Prometheus endpoint, e.g. 127.0.0.1:9108.
	Addr string `json:",optional"`
	Path string `json:",default=/metrics"`
}

type Config struct {
	// Env indicates the running environment: test | dev | prod
	Env     string       `json:",default=test"`
	Log     logx.LogConf `json:",optional"`
	Symbol  string       `json:",default=sz000001"`
	Ticker  TickerConf   `json:",optional"`
	Link    LinkConf     `json:",optional"`
	Display DisplayConf  `json:",optional"`
	Metrics MetricsConf  `json:",optional"`

	Market confkit.Section[marketpkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{Env: "test"}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	cfg, err := confkit.LoadFile[Config](absPath, true)
	if err != nil {
		return nil, err
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Market.Hydrate(cfg.baseDir, marketpkg.LoadConfig); err != nil {
		return nil, fmt.Errorf("load market config: %w", err)
	}
	return cfg, nil
}

// applyDefaults covers sections omitted from the file.
func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Symbol) == "" {
		c.Symbol = ticker.DefaultSymbol
	}
	s := c.Settings()
	c.Ticker = TickerConf{
		FetchInterval:       s.FetchInterval,
		FullRefreshInterval: s.FullRefreshInterval,
		ConnectTimeout:      s.ConnectTimeout,
		ConnectPoll:         s.ConnectPoll,
		RetryInterval:       s.RetryInterval,
		FetchTimeout:        s.FetchTimeout,
		LoopYield:           s.LoopYield,
	}
	if c.Link.ProbeAddress == "" {
		c.Link.ProbeAddress = "qt.gtimg.cn:80"
	}
	if c.Link.ProbeInterval <= 0 {
		c.Link.ProbeInterval = time.Second
	}
	if c.Link.DialTimeout <= 0 {
		c.Link.DialTimeout = 2 * time.Second
	}
	if c.Display.Columns <= 0 {
		c.Display.Columns = display.DefaultColumns
	}
	if c.Display.Rows <= 0 {
		c.Display.Rows = display.DefaultRows
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if strings.ContainsAny(c.Symbol, " \t\"~") {
		return fmt.Errorf("config: invalid symbol %q", c.Symbol)
	}
	if c.Ticker.FetchTimeout > c.Ticker.FetchInterval {
		return errors.New("config: ticker.fetchTimeout must not exceed ticker.fetchInterval")
	}
	if c.Display.Columns < 24 || c.Display.Rows < 10 {
		return errors.New("config: display must be at least 24x10")
	}
	if !c.Link.AlwaysUp && !strings.Contains(c.Link.ProbeAddress, ":") {
		return fmt.Errorf("config: link.probeAddress %q must be host:port", c.Link.ProbeAddress)
	}
	return nil
}

// Settings converts the ticker section into kernel settings.
func (c *Config) Settings() ticker.Settings {
	return ticker.Settings{
		Symbol:              c.Symbol,
		FetchInterval:       c.Ticker.FetchInterval,
		FullRefreshInterval: c.Ticker.FullRefreshInterval,
		ConnectTimeout:      c.Ticker.ConnectTimeout,
		ConnectPoll:         c.Ticker.ConnectPoll,
		RetryInterval:       c.Ticker.RetryInterval,
		FetchTimeout:        c.Ticker.FetchTimeout,
		LoopYield:           c.Ticker.LoopYield,
	}.WithDefaults()
}

// MarketConfig returns the hydrated market section, or a single Tencent
// provider with built-in defaults when none is configured.
func (c *Config) MarketConfig() *marketpkg.Config {
	if c.Market.Value != nil {
		return c.Market.Value
	}
	return &marketpkg.Config{
		Default: "tencent",
		Providers: map[string]*marketpkg.ProviderConfig{
			"tencent": {Type: "tencent"},
		},
	}
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
