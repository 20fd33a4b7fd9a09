// Package config provides configuration management for the QBench CLI.
//
// This file handles loading configuration from environment variables and .env files,
// and creating configured QBench SDK clients and catalogs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"qbench"
	"qbench/bench"
	"qbench/models"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvBaseURL   = "QBENCH_BASE_URL"
	EnvTimeout   = "QBENCH_TIMEOUT"
	EnvCatalog   = "QBENCH_CATALOG"
	EnvExtension = "QBENCH_EXTENSION"
	EnvChartCap  = "QBENCH_CHART_CAP"
)

// Config is the resolved CLI configuration
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	CatalogPath string
	Extension   string
	ChartCap    string
}

// Load reads .env (if present) and the QBENCH_* environment variables
func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		BaseURL:     os.Getenv(EnvBaseURL),
		CatalogPath: os.Getenv(EnvCatalog),
		Extension:   os.Getenv(EnvExtension),
		ChartCap:    os.Getenv(EnvChartCap),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = qbench.DefaultBaseURL
	}
	if cfg.Extension == "" {
		cfg.Extension = bench.DefaultExtension
	}

	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTimeout, raw, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// NewClient creates a QBench client for the configured service
func (c *Config) NewClient() *qbench.Client {
	return qbench.NewClient(qbench.WithBaseURL(c.BaseURL))
}

// LoadCatalog returns the catalog file if one is configured, or the built-in catalog
func (c *Config) LoadCatalog() (models.Catalog, error) {
	if c.CatalogPath == "" {
		return models.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.CatalogPath, err)
	}
	return models.ParseCatalog(data)
}

// CapPolicy returns the chart cap policy, defaulting to the built-in table
func (c *Config) CapPolicy() (bench.CapPolicy, error) {
	if strings.TrimSpace(c.ChartCap) == "" {
		return bench.DefaultCapPolicy, nil
	}
	return bench.ParseCapPolicy(c.ChartCap)
}
