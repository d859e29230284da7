package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Storefront/internal/datasource"
	"Storefront/pkg/kit"
)

const service = "catalog"

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

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := datasource.NewHandler(&datasource.Server{Store: store, Log: log}, datasource.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr, h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *Config, log *zap.Logger) (datasource.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.DataFile == "" {
			log.Info("using bundled catalog")
			return datasource.NewDefaultMemStore(), func() {}, nil
		}
		s, err := datasource.NewFileMemStore(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using catalog file", zap.String("path", cfg.DataFile))
		return s, func() {}, nil
	}

	pool, err := datasource.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	s := datasource.NewPostgresStore(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if cfg.Seed {
		products, err := datasource.DefaultProducts()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		seeded, err := s.SeedIfEmpty(ctx, products)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if seeded {
			log.Info("seeded empty database", zap.Int("products", len(products)))
		}
	}

	log.Info("using postgres store")
	return s, pool.Close, nil
}
