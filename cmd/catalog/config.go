package main

import (
	"os"
	"time"

	"Storefront/pkg/kit"
)

const defaultAddr = ":8082"

type Config struct {
	Addr            string        `default:":8082" usage:"Listen address"`
	LogLevel        string        `default:"info" usage:"Log level" flag:"log-level"`
	DataFile        string        `usage:"JSON catalog served by the in-memory store; empty uses the bundled catalog" flag:"data-file"`
	DatabaseURL     string        `usage:"PostgreSQL URL; when set products are read from the database" flag:"database-url"`
	Seed            bool          `default:"true" usage:"Seed an empty database with the bundled catalog"`
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum graceful shutdown duration" flag:"shutdown-timeout"`
	Metrics         kit.MetricsConfig
}

func loadConfig() (*Config, error) {
	var cfg Config
	err := kit.LoadConfig(&cfg, kit.ConfigOptions{
		EnvPrefix: "CATALOG",
		Files:     []string{"catalog.yaml", "/etc/storefront/catalog.yaml"},
	})
	if err != nil {
		return nil, err
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// applyPlatformDefaults honors the bare PORT and DATABASE_URL that hosting
// platforms inject.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = ":" + port
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}
