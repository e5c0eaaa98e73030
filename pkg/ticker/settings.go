package ticker

import "time"

const (
	DefaultSymbol              = "sz000001"
	DefaultFetchInterval       = 60 * time.Second
	DefaultFullRefreshInterval = 5 * time.Minute
	DefaultConnectTimeout      = 15 * time.Second
	DefaultConnectPoll         = 250 * time.Millisecond
	DefaultRetryInterval       = 5 * time.Second
	DefaultFetchTimeout        = 8 * time.Second
	DefaultLoopYield           = 30 * time.Millisecond
)

// Settings are the kernel's operating parameters.
type Settings struct {
	Symbol              string
	FetchInterval       time.Duration
	FullRefreshInterval time.Duration
	ConnectTimeout      time.Duration
	ConnectPoll         time.Duration
	RetryInterval       time.Duration
	FetchTimeout        time.Duration
	LoopYield           time.Duration
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Symbol:              DefaultSymbol,
		FetchInterval:       DefaultFetchInterval,
		FullRefreshInterval: DefaultFullRefreshInterval,
		ConnectTimeout:      DefaultConnectTimeout,
		ConnectPoll:         DefaultConnectPoll,
		RetryInterval:       DefaultRetryInterval,
		FetchTimeout:        DefaultFetchTimeout,
		LoopYield:           DefaultLoopYield,
	}
}

// WithDefaults fills empty or non-positive fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Symbol == "" {
		s.Symbol = d.Symbol
	}
	s.FetchInterval = durationOrDefault(s.FetchInterval, d.FetchInterval)
	s.FullRefreshInterval = durationOrDefault(s.FullRefreshInterval, d.FullRefreshInterval)
	s.ConnectTimeout = durationOrDefault(s.ConnectTimeout, d.ConnectTimeout)
	s.ConnectPoll = durationOrDefault(s.ConnectPoll, d.ConnectPoll)
	s.RetryInterval = durationOrDefault(s.RetryInterval, d.RetryInterval)
	s.FetchTimeout = durationOrDefault(s.FetchTimeout, d.FetchTimeout)
	s.LoopYield = durationOrDefault(s.LoopYield, d.LoopYield)
	return s
}

func durationOrDefault(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
