package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"inkticker/pkg/ticker"
)

const namespace = "inkticker"

// Recorder exports kernel events as Prometheus metrics.
type Recorder struct {
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	renders       *prometheus.CounterVec
	linkUp        prometheus.Gauge
	lastPrice     *prometheus.GaugeVec
}

var _ ticker.Metrics = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Quote fetch attempts by result (ok, error, offline).",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of quote fetches that reached the provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Display refreshes by mode (full, partial).",
		}, []string{"mode"}),
		linkUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "link_up",
			Help:      "1 when the network link is connected.",
		}),
		lastPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_price",
			Help:      "Last price of the most recent successful fetch.",
		}, []string{"symbol"}),
	}
	for _, c := range []prometheus.Collector{r.fetches, r.fetchDuration, r.renders, r.linkUp, r.lastPrice} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveFetch(result string, took time.Duration) {
	r.fetches.WithLabelValues(result).Inc()
	if result != ticker.FetchOffline {
		r.fetchDuration.Observe(took.Seconds())
	}
}

func (r *Recorder) ObserveRender(full bool) {
	mode := "partial"
	if full {
		mode = "full"
	}
	r.renders.WithLabelValues(mode).Inc()
}

func (r *Recorder) SetLinkUp(up bool) {
	if up {
		r.linkUp.Set(1)
		return
	}
	r.linkUp.Set(0)
}

func (r *Recorder) SetLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
