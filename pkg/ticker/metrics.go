package ticker

import "time"

// Fetch results reported to Metrics.
const (
	FetchOK      = "ok"
	FetchError   = "error"
	FetchOffline = "offline"
)

// Metrics receives kernel events. Implementations must be cheap; they run
// on the loop.
type Metrics interface {
	ObserveFetch(result string, took time.Duration)
	ObserveRender(full bool)
	SetLinkUp(up bool)
	SetLastPrice(symbol string, price float64)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(string, time.Duration) {}
func (nopMetrics) ObserveRender(bool)                 {}
func (nopMetrics) SetLinkUp(bool)                     {}
func (nopMetrics) SetLastPrice(string, float64)       {}
