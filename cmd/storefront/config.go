package main

import (
	"os"
	"time"

	"Storefront/pkg/kit"
)

const defaultAddr = ":8080"

type Config struct {
	Addr            string        `default:":8080" usage:"Listen address"`
	LogLevel        string        `default:"info" usage:"Log level" flag:"log-level"`
	CatalogURL      string        `default:"http://localhost:8082" usage:"Base URL of the catalog data source" flag:"catalog-url"`
	CatalogTimeout  time.Duration `default:"3s" usage:"Timeout for one catalog fetch" flag:"catalog-timeout"`
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum graceful shutdown duration" flag:"shutdown-timeout"`
	RateLimit       RateLimitConfig
	Metrics         kit.MetricsConfig
}

// RateLimitConfig is a token bucket per client IP. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `default:"20" usage:"Requests per second per client"`
	Burst int     `default:"40" usage:"Burst size per client"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	err := kit.LoadConfig(&cfg, kit.ConfigOptions{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"storefront.yaml", "/etc/storefront/storefront.yaml"},
	})
	if err != nil {
		return nil, err
	}
	if port := os.Getenv("PORT"); port != "" && cfg.Addr == defaultAddr {
		cfg.Addr = ":" + port
	}
	return &cfg, nil
}
