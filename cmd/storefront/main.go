package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

const service = "storefront"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	src := catalog.NewHTTPSource(cfg.CatalogURL, cfg.CatalogTimeout)
	src.Metrics = catalog.NewSourceMetrics(reg)

	s := &storefront.Server{
		Query: catalog.NewQuery(src),
		Log:   log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CatalogURL:     src.BaseURL,
		RateLimit:      cfg.RateLimit.RPS,
		RateBurst:      cfg.RateLimit.Burst,
	})

	log.Info("catalog source", zap.String("url", src.BaseURL), zap.Duration("timeout", cfg.CatalogTimeout))

	if err := kit.RunHTTPServer(context.Background(), cfg.Addr, h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
