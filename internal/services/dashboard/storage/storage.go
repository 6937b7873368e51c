package storage

import (
	"context"
	"time"
)

// CacheEntry stores one query payload and its freshness metadata.
type CacheEntry struct {
	CacheKey     string
	Scope        string
	UserID       string
	PayloadBytes []byte
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// PreferenceStore persists serialized preference sets by key.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, key string) ([]byte, bool, error)
	PutPreferences(ctx context.Context, key string, blob []byte) error
}

// CacheStore persists derived query payloads.
type CacheStore interface {
	GetCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, cacheKey string) error
	DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error)
}

// Store is the dashboard persistence lifecycle.
type Store interface {
	PreferenceStore
	CacheStore
	Close() error
}
