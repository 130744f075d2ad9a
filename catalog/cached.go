package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront.GO/core/cache"
	"storefront.GO/search"
)

// PageStore keeps fetched pages between sessions.
type PageStore interface {
	GetPage(ctx context.Context, key string) (search.Page, bool, error)
	SetPage(ctx context.Context, key string, page search.Page, ttl time.Duration) error
}

// RedisPageStore stores pages as JSON strings.
type RedisPageStore struct {
	client *redis.Client
	prefix string
}

func NewRedisPageStore(client *redis.Client, prefix string) *RedisPageStore {
	return &RedisPageStore{client: client, prefix: prefix}
}

func (s *RedisPageStore) GetPage(ctx context.Context, key string) (search.Page, bool, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return search.Page{}, false, nil
	}
	if err != nil {
		return search.Page{}, false, err
	}
	var page search.Page
	if err := json.Unmarshal(b, &page); err != nil {
		return search.Page{}, false, err
	}
	return page, true, nil
}

func (s *RedisPageStore) SetPage(ctx context.Context, key string, page search.Page, ttl time.Duration) error {
	b, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, b, ttl).Err()
}

// PageTag tags every page held by a MemoryPageStore.
const PageTag = "search_page"

// MemoryPageStore keeps pages in a process-local cache.
type MemoryPageStore struct {
	cache *cache.Cache
}

func NewMemoryPageStore(c *cache.Cache) *MemoryPageStore {
	return &MemoryPageStore{cache: c}
}

func (s *MemoryPageStore) GetPage(_ context.Context, key string) (search.Page, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return search.Page{}, false, nil
	}
	page, ok := v.(search.Page)
	return page, ok, nil
}

func (s *MemoryPageStore) SetPage(_ context.Context, key string, page search.Page, ttl time.Duration) error {
	s.cache.Set(key, page, ttl, []string{PageTag})
	return nil
}

// Purge drops every cached page.
func (s *MemoryPageStore) Purge() {
	s.cache.DeleteByTag(PageTag)
}

// CachedFetcher serves repeated requests from a PageStore. Failed fetches
// are never stored, and store errors only cost a cache miss.
type CachedFetcher struct {
	next   search.Fetcher
	store  PageStore
	ttl    time.Duration
	scope  string
	logger *slog.Logger
}

// NewCachedFetcher wraps next. scope separates keys of different backends
// or stores sharing one PageStore.
func NewCachedFetcher(next search.Fetcher, store PageStore, ttl time.Duration, scope string, logger *slog.Logger) *CachedFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{next: next, store: store, ttl: ttl, scope: scope, logger: logger}
}

// PageKey identifies a page. Page numbers are left out: the cursor alone
// determines what comes next. Query and cursor are quoted so a separator
// inside them cannot collide with another request.
func PageKey(scope string, req search.Request) string {
	return cache.CompositeKey("page", scope, req.SortKey, req.Reverse, strconv.Quote(req.Query), req.First, strconv.Quote(req.Cursor))
}

func (f *CachedFetcher) FetchProducts(ctx context.Context, req search.Request) (search.Page, error) {
	key := PageKey(f.scope, req)
	page, ok, err := f.store.GetPage(ctx, key)
	if err != nil {
		f.logger.Warn("page cache read failed", "key", key, "err", err)
	} else if ok {
		return page, nil
	}

	page, err = f.next.FetchProducts(ctx, req)
	if err != nil {
		return page, err
	}
	if err := f.store.SetPage(ctx, key, page, f.ttl); err != nil {
		f.logger.Warn("page cache write failed", "key", key, "err", err)
	}
	return page, nil
}
