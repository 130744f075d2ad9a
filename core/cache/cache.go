package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a thread-safe in-memory key-value store with optional TTLs and tags.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to a set of keys (*sync.Map of key -> struct{})
	tagIndex sync.Map
	now      func() time.Time
}

var (
	once     sync.Once
	instance *Cache
)

// GetInstance returns the process-wide cache.
func GetInstance() *Cache {
	once.Do(func() {
		instance = NewCache()
	})
	return instance
}

// NewCache creates a new Cache instance.
func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt int64 // Unix nanoseconds; 0 means no expiration
}

// Set stores a value for a key with an optional TTL and tags. A zero ttl never expires.
func (c *Cache) Set(key, value interface{}, ttl time.Duration, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(ttl).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get returns (value, true) if key is present and not expired.
func (c *Cache) Get(key interface{}) (interface{}, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && c.now().UnixNano() > item.ExpiresAt {
		c.m.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// GetOrDefault returns the cached value for key, or defaultValue.
func (c *Cache) GetOrDefault(key, defaultValue interface{}) interface{} {
	if v, ok := c.Get(key); ok {
		return v
	}
	return defaultValue
}

// Delete removes a key from the cache.
func (c *Cache) Delete(key interface{}) {
	c.m.Delete(key)
}

// DeleteMany removes multiple keys from the cache.
func (c *Cache) DeleteMany(keys ...interface{}) {
	for _, key := range keys {
		c.m.Delete(key)
	}
}

// CompositeKey joins parts with "|".
func CompositeKey(keys ...interface{}) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "|")
}

// SetN stores a value under a composite key.
func (c *Cache) SetN(keys []interface{}, value interface{}, ttl time.Duration, tags []string) {
	c.Set(CompositeKey(keys...), value, ttl, tags)
}

// GetN retrieves a value for a composite key.
func (c *Cache) GetN(keys ...interface{}) (interface{}, bool) {
	return c.Get(CompositeKey(keys...))
}

func (c *Cache) DeleteN(keys ...interface{}) {
	c.Delete(CompositeKey(keys...))
}

// GetMany retrieves values for multiple keys. Missing or expired keys yield nil.
func (c *Cache) GetMany(keys ...interface{}) []interface{} {
	results := make([]interface{}, len(keys))
	for i, key := range keys {
		results[i], _ = c.Get(key)
	}
	return results
}

// TagKey assigns one or more tags to a cache key.
func (c *Cache) TagKey(key interface{}, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

// GetKeysByTag returns a slice of all keys assigned to a tag.
func (c *Cache) GetKeysByTag(tag string) []interface{} {
	var keys []interface{}
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ interface{}) bool {
			keys = append(keys, key)
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all cache entries assigned to a tag.
func (c *Cache) DeleteByTag(tag string) {
	if val, ok := c.tagIndex.LoadAndDelete(tag); ok {
		val.(*sync.Map).Range(func(key, _ interface{}) bool {
			c.Delete(key)
			return true
		})
	}
}
