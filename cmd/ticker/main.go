package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"

	"inkticker/internal/cli"
	"inkticker/internal/config"
	"inkticker/internal/svc"
)

const shutdownTimeout = 5 * time.Second

var configFile = flag.String("f", "etc/ticker.yaml", "the config file")

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		logx.Must(err)
	}
	cli.SetupLogging(cfg.Log, os.Stderr)
	defer logx.Close()

	cli.LogConfigSummary(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.NewServiceContext(*cfg, os.Stdout)
	if err != nil {
		logx.Must(err)
	}
	logx.Infof("ticker: using market provider %s for %s", sc.MarketName, cfg.Symbol)

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsHandler(sc, cfg.Metrics.Path)}
		threading.GoSafe(func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logx.Errorf("metrics server: %v", err)
			}
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logx.Infof("metrics listening on %s%s", cfg.Metrics.Addr, cfg.Metrics.Path)
	}

	sc.Kernel.Begin(ctx)
	if err := sc.Kernel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logx.Errorf("ticker stopped: %v", err)
	}
	logx.Info("ticker: shutdown complete")
}

// loadConfig falls back to built-in defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logx.Infof("config %s not found, using defaults", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

func metricsHandler(sc *svc.ServiceContext, path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(sc.Registry, promhttp.HandlerOpts{}))
	return mux
}
