package query

import (
	"context"
	"encoding/json"
	"log"
	"time"

	dashboardstorage "github.com/okito/dashboard/internal/services/dashboard/storage"
)

// Result is the read state of one query.
type Result[T any] struct {
	Data T
	// HasData reports whether Data holds a fetched or restored value.
	HasData bool
	// IsLoading is true while the first fetch runs and no data exists.
	IsLoading bool
	// IsFetching is true while any fetch for this query runs.
	IsFetching bool
	Err        error
	UpdatedAt  time.Time
}

// Query is one cached backend read bound to a user and its parameters.
type Query[T any] struct {
	cache     *Cache
	scope     string
	userID    string
	key       string
	staleTime time.Duration
	enabled   bool
	fetch     func(ctx context.Context) (T, error)
}

// New builds a query. A disabled query never calls fetch.
func New[T any](cache *Cache, scope, userID string, staleTime time.Duration, enabled bool, fetch func(context.Context) (T, error), params ...string) Query[T] {
	return Query[T]{
		cache:     cache,
		scope:     scope,
		userID:    userID,
		key:       cacheKey(userID, scope, params...),
		staleTime: staleTime,
		enabled:   enabled,
		fetch:     fetch,
	}
}

// Enabled reports whether the query may issue calls.
func (q Query[T]) Enabled() bool {
	return q.enabled
}

// Get returns cached data when fresh. Stale data is returned immediately
// while a refresh runs in the background. Without data it waits for the
// first fetch up to the cache's first-load window, then reports loading.
func (q Query[T]) Get(ctx context.Context) Result[T] {
	if !q.enabled || q.cache == nil {
		return Result[T]{}
	}
	snap, ok := q.cache.snapshot(q.key)
	if !ok || !snap.hasValue {
		if q.restore(ctx) {
			snap, ok = q.cache.snapshot(q.key)
		}
	}
	if ok && snap.hasValue {
		result := q.fromEntry(snap)
		if q.cache.now().Sub(snap.updatedAt) >= q.staleTime {
			q.cache.start(ctx, q.key, q.fetchAny)
			result.IsFetching = true
		}
		return result
	}

	ch := q.cache.start(ctx, q.key, q.fetchAny)
	timer := time.NewTimer(q.cache.firstLoad)
	defer timer.Stop()
	select {
	case res := <-ch:
		if res.Err != nil {
			return Result[T]{Err: res.Err}
		}
		data, _ := res.Val.(T)
		settled, _ := q.cache.snapshot(q.key)
		return Result[T]{Data: data, HasData: true, UpdatedAt: settled.updatedAt}
	case <-timer.C:
		return Result[T]{IsLoading: true, IsFetching: true}
	case <-ctx.Done():
		return Result[T]{IsLoading: true, IsFetching: true}
	}
}

// Refetch forces a fetch, sharing any one already in flight, and returns
// its outcome. The caller's context only bounds the wait.
func (q Query[T]) Refetch(ctx context.Context) (T, error) {
	var zero T
	if !q.enabled || q.cache == nil {
		return zero, nil
	}
	select {
	case res := <-q.cache.start(ctx, q.key, q.fetchAny):
		if res.Err != nil {
			return zero, res.Err
		}
		data, _ := res.Val.(T)
		return data, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (q Query[T]) fromEntry(e entry) Result[T] {
	data, _ := e.value.(T)
	return Result[T]{
		Data:       data,
		HasData:    e.hasValue,
		IsFetching: e.fetching,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
	}
}

func (q Query[T]) fetchAny(ctx context.Context) (any, error) {
	data, err := q.fetch(ctx)
	if err != nil {
		return nil, err
	}
	q.save(ctx, data)
	return data, nil
}

func (q Query[T]) save(ctx context.Context, data T) {
	store := q.cache.persist
	if store == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("query cache: encode %s: %v", q.scope, err)
		return
	}
	now := q.cache.now().UTC()
	if err := store.PutCacheEntry(ctx, dashboardstorage.CacheEntry{
		CacheKey:     q.key,
		Scope:        q.scope,
		UserID:       q.userID,
		PayloadBytes: payload,
		RefreshedAt:  now,
		ExpiresAt:    now.Add(PersistTTL),
	}); err != nil {
		log.Printf("query cache: persist %s: %v", q.scope, err)
	}
}

// restore seeds the memory cache from the persisted payload, if any.
func (q Query[T]) restore(ctx context.Context) bool {
	store := q.cache.persist
	if store == nil {
		return false
	}
	stored, ok, err := store.GetCacheEntry(ctx, q.key)
	if err != nil {
		log.Printf("query cache: restore %s: %v", q.scope, err)
		return false
	}
	if !ok {
		return false
	}
	if !stored.ExpiresAt.IsZero() && !q.cache.now().Before(stored.ExpiresAt) {
		return false
	}
	var data T
	if err := json.Unmarshal(stored.PayloadBytes, &data); err != nil {
		return false
	}
	q.cache.seed(q.key, data, stored.RefreshedAt)
	return true
}
