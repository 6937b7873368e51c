// Package query serves backend reads through a shared cache with per-query
// staleness, request deduplication and stale-while-revalidate refreshes.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okito/dashboard/internal/platform/timeouts"
	dashboardstorage "github.com/okito/dashboard/internal/services/dashboard/storage"
)

// PersistTTL bounds how long a persisted payload may be served after a
// restart.
const PersistTTL = 24 * time.Hour

type entry struct {
	value     any
	hasValue  bool
	err       error
	updatedAt time.Time
	fetching  bool
}

// Cache holds query results for all users. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	base      context.Context
	persist   dashboardstorage.CacheStore
	firstLoad time.Duration
	now       func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithPersistence writes fetched payloads to store and restores them on a
// cold read.
func WithPersistence(store dashboardstorage.CacheStore) Option {
	return func(c *Cache) { c.persist = store }
}

// WithFirstLoad sets how long a read without data waits for the first fetch.
func WithFirstLoad(d time.Duration) Option {
	return func(c *Cache) { c.firstLoad = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache returns a cache whose background fetches stop when base is done.
func NewCache(base context.Context, opts ...Option) *Cache {
	if base == nil {
		base = context.Background()
	}
	c := &Cache{
		entries:   make(map[string]*entry),
		base:      base,
		firstLoad: timeouts.FirstLoad,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheKey scopes entries by user so one user's data never serves another.
func cacheKey(userID, scope string, parts ...string) string {
	return strings.Join(append([]string{userID, scope}, parts...), "|")
}

func (c *Cache) snapshot(key string) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return entry{}, false
	}
	return *e, true
}

func (c *Cache) seed(key string, value any, updatedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.hasValue {
		return
	}
	c.entries[key] = &entry{value: value, hasValue: true, updatedAt: updatedAt}
}

func (c *Cache) setFetching(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.fetching = true
}

// settle records a fetch outcome. Errors keep the last good value.
func (c *Cache) settle(key string, value any, err error) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.fetching = false
	e.err = err
	if err == nil {
		e.value = value
		e.hasValue = true
		e.updatedAt = c.now()
	}
	return e.updatedAt
}

// Invalidate drops every entry of a user and scope so the next read fetches.
func (c *Cache) Invalidate(userID, scope string) {
	base := cacheKey(userID, scope)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if (key == base || strings.HasPrefix(key, base+"|")) && !e.fetching {
			delete(c.entries, key)
		}
	}
}

// start joins or begins the fetch for key. The fetch runs detached from the
// caller's cancellation so a departing caller never aborts it.
func (c *Cache) start(ctx context.Context, key string, fetch func(context.Context) (any, error)) <-chan singleflight.Result {
	return c.group.DoChan(key, func() (any, error) {
		c.setFetching(key)
		fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		stop := context.AfterFunc(c.base, cancel)
		defer func() {
			stop()
			cancel()
		}()
		value, err := fetch(fetchCtx)
		c.settle(key, value, err)
		return value, err
	})
}
