package cmd

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"storefront.GO/catalog"
	"storefront.GO/config"
	"storefront.GO/search"
)

var (
	metricsOnce  sync.Once
	metricsReg   *prometheus.Registry
	fetchMetrics *catalog.Metrics
)

// MetricsRegistry holds the catalog fetch metrics of every controller built
// by NewController in this process.
func MetricsRegistry() *prometheus.Registry {
	metricsOnce.Do(func() {
		metricsReg = prometheus.NewRegistry()
		fetchMetrics = catalog.NewMetrics(metricsReg)
	})
	return metricsReg
}

// fetcherDeps opens the database and Redis only when the configuration
// needs them. Fetches are always instrumented on MetricsRegistry.
func fetcherDeps(cfg *config.Config, logger *slog.Logger) (catalog.Deps, error) {
	MetricsRegistry()
	deps := catalog.Deps{Logger: logger, Metrics: fetchMetrics}
	if cfg.Search.Backend == catalog.BackendDB {
		db, err := config.NewDB()
		if err != nil {
			return deps, fmt.Errorf("connect to DB: %w", err)
		}
		deps.DB = db
	}
	if cfg.Search.CacheTTL > 0 {
		config.InitRedis()
		deps.Redis = config.RedisClient
	}
	return deps, nil
}

// NewController wires a search controller to the configured catalog.
// Callers run it with Controller.Run.
func NewController(cfg *config.Config, logger *slog.Logger, opts ...search.Option) (*search.Controller, error) {
	deps, err := fetcherDeps(cfg, logger)
	if err != nil {
		return nil, err
	}
	f, err := catalog.NewFetcher(cfg, deps)
	if err != nil {
		return nil, err
	}
	base := []search.Option{
		search.WithLogger(logger),
		search.WithThreshold(cfg.Search.ScrollThreshold),
		search.WithPageSize(cfg.Search.PageSize),
		search.WithFetchTimeout(cfg.Search.FetchTimeout),
	}
	return search.New(f, append(base, opts...)...), nil
}
