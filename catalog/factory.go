package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront.GO/config"
	"storefront.GO/core/cache"
	"storefront.GO/search"
	catalogService "storefront.GO/service/catalog"
)

// Backend names accepted by SEARCH_BACKEND.
const (
	BackendGraphQL       = "graphql"
	BackendElasticsearch = "elasticsearch"
	BackendDB            = "db"
)

var ErrUnknownBackend = errors.New("catalog: unknown backend")

// Deps are the optional collaborators of NewFetcher.
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	HTTPClient *http.Client
	// Metrics enables fetch instrumentation when set.
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewFetcher builds the configured backend, cached when SEARCH_CACHE_TTL is
// positive and instrumented when deps.Metrics is set.
func NewFetcher(cfg *config.Config, deps Deps) (search.Fetcher, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sc := cfg.Search

	var f search.Fetcher
	switch sc.Backend {
	case BackendGraphQL, "":
		f = NewStorefrontClient(sc.Endpoint, WithStoreID(sc.StoreID), WithHTTPClient(deps.HTTPClient))
	case BackendElasticsearch:
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.Elasticsearch.Host},
			Transport: transport(deps.HTTPClient),
		})
		if err != nil {
			return nil, fmt.Errorf("elasticsearch client: %w", err)
		}
		f = NewElasticFetcher(client, ElasticIndex(cfg.Elasticsearch.IndexPrefix, sc.StoreID), cfg.MediaUrl)
	case BackendDB:
		if deps.DB == nil {
			return nil, fmt.Errorf("catalog: backend %q needs a database", sc.Backend)
		}
		f = NewLocalFetcher(catalogService.GetSearchService(deps.DB), sc.StoreID, cfg.MediaUrl)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, sc.Backend)
	}

	backend := sc.Backend
	if backend == "" {
		backend = BackendGraphQL
	}
	if sc.CacheTTL > 0 {
		var store PageStore
		if deps.Redis != nil {
			store = NewRedisPageStore(deps.Redis, cfg.AppName+":")
		} else {
			store = NewMemoryPageStore(cache.GetInstance())
		}
		scope := backend + ":" + strconv.FormatUint(uint64(sc.StoreID), 10)
		f = NewCachedFetcher(f, store, sc.CacheTTL, scope, logger)
	}
	if deps.Metrics != nil {
		f = Instrument(f, backend, deps.Metrics)
	}
	logger.Debug("catalog fetcher ready", "backend", backend, "cache_ttl", sc.CacheTTL, "store_id", sc.StoreID)
	return f, nil
}

func transport(c *http.Client) http.RoundTripper {
	if c == nil {
		return nil
	}
	return c.Transport
}

// compile-time checks
var (
	_ search.Fetcher = (*StorefrontClient)(nil)
	_ search.Fetcher = (*ElasticFetcher)(nil)
	_ search.Fetcher = (*LocalFetcher)(nil)
	_ search.Fetcher = (*CachedFetcher)(nil)
	_ PageStore      = (*RedisPageStore)(nil)
	_ PageStore      = (*MemoryPageStore)(nil)
)
