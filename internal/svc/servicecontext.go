package svc

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"inkticker/internal/config"
	"inkticker/pkg/display"
	"inkticker/pkg/feature/stock"
	marketpkg "inkticker/pkg/market"
	_ "inkticker/pkg/market/exchanges/tencent"
	_ "inkticker/pkg/market/sim"
	"inkticker/pkg/metrics"
	"inkticker/pkg/netlink"
	"inkticker/pkg/ticker"
)

type ServiceContext struct {
	Config config.Config

	MarketConfig   *marketpkg.Config
	MarketName     string
	MarketProvider marketpkg.Provider

	Link    netlink.Link
	Panel   *display.Panel
	Feature *stock.Feature

	Registry *prometheus.Registry
	Metrics  *metrics.Recorder

	Kernel *ticker.Kernel
}

// NewServiceContext builds the ticker object graph. The panel draws to out.
func NewServiceContext(c config.Config, out io.Writer) (*ServiceContext, error) {
	svc := &ServiceContext{
		Config:       c,
		MarketConfig: c.MarketConfig(),
	}

	name, provider, err := svc.MarketConfig.BuildDefault()
	if err != nil {
		return nil, fmt.Errorf("build market provider: %w", err)
	}
	svc.MarketName, svc.MarketProvider = name, provider

	if c.Link.AlwaysUp {
		svc.Link = netlink.Static(true)
	} else {
		svc.Link = netlink.NewProbeLink(c.Link.ProbeAddress,
			netlink.WithInterval(c.Link.ProbeInterval),
			netlink.WithDialTimeout(c.Link.DialTimeout),
		)
	}

	svc.Panel = display.NewPanel(out,
		display.WithSize(c.Display.Columns, c.Display.Rows),
		display.WithANSI(!c.Display.PlainText),
	)
	svc.Feature = stock.New()

	svc.Registry = prometheus.NewRegistry()
	svc.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc.Metrics, err = metrics.NewRecorder(svc.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	svc.Kernel = ticker.New(svc.Panel, svc.MarketProvider, svc.Feature, svc.Link,
		ticker.WithSettings(c.Settings()),
		ticker.WithMetrics(svc.Metrics),
	)
	return svc, nil
}
