package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"storefront.GO/search"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"storefront"`
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	Debug    bool   `env:"DEBUG"`
	MediaUrl string `env:"MEDIA_URL" envDefault:"https://react-luma.cnxt.link/media/catalog/product/"`

	Log           LogConfig           `envPrefix:"LOG_"`
	Search        SearchConfig        `envPrefix:"SEARCH_"`
	Elasticsearch ElasticsearchConfig `envPrefix:"ELASTICSEARCH_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// SearchConfig drives the incremental search client.
type SearchConfig struct {
	// Backend selects the catalog fetcher: graphql, elasticsearch or db.
	Backend         string        `env:"BACKEND" envDefault:"graphql"`
	Endpoint        string        `env:"ENDPOINT" envDefault:"http://localhost:8080/graphql"`
	StoreID         uint16        `env:"STORE_ID" envDefault:"0"`
	PageSize        int           `env:"PAGE_SIZE" envDefault:"20"`
	ScrollThreshold float64       `env:"SCROLL_THRESHOLD" envDefault:"100"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"0s"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"0s"`
	SortOptionsFile string        `env:"SORT_OPTIONS_FILE"`
}

type ElasticsearchConfig struct {
	Host        string `env:"HOST" envDefault:"http://localhost:9200"`
	IndexPrefix string `env:"INDEX_PREFIX" envDefault:"storefront"`
}

// Load parses the environment into a fresh Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			slog.Error("invalid configuration, using defaults", "err", err)
			cfg = &Config{}
			_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
		}
		AppConfig = cfg
	})
}

// SortTable returns the configured sort options, or the built-in table when
// no file is configured.
func (c *Config) SortTable() (search.SortTable, error) {
	if c.Search.SortOptionsFile == "" {
		return search.DefaultSortTable(), nil
	}
	f, err := os.Open(c.Search.SortOptionsFile)
	if err != nil {
		return search.SortTable{}, err
	}
	defer f.Close()
	return search.LoadSortTable(f)
}
