package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okito/dashboard/internal/platform/storage/sqlitemigrate"
	dashboardstorage "github.com/okito/dashboard/internal/services/dashboard/storage"
	"github.com/okito/dashboard/internal/services/dashboard/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var errNotConfigured = errors.New("storage is not configured")

// Store provides SQLite-backed persistence for preferences and cached
// query payloads.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a dashboard SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetPreferences loads a serialized preference set by key.
func (s *Store) GetPreferences(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.sqlDB == nil {
		return nil, false, errNotConfigured
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("preference key is required")
	}
	var blob []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT blob_json FROM preferences WHERE pref_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get preferences: %w", err)
	}
	return blob, true, nil
}

// PutPreferences replaces the preference set stored under key.
func (s *Store) PutPreferences(ctx context.Context, key string, blob []byte) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("preference key is required")
	}
	if len(blob) == 0 {
		return fmt.Errorf("preference blob is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO preferences (pref_key, blob_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(pref_key) DO UPDATE SET
		    blob_json = excluded.blob_json,
		    updated_at = excluded.updated_at`,
		key,
		blob,
		timeToUnixMillis(s.clock()),
	)
	if err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	return nil
}

// GetCacheEntry loads a cache payload and metadata by key.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (dashboardstorage.CacheEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return dashboardstorage.CacheEntry{}, false, errNotConfigured
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return dashboardstorage.CacheEntry{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT cache_key, scope, user_id, payload_json, refreshed_at, expires_at
		 FROM cache_entries
		 WHERE cache_key = ?`,
		cacheKey,
	)
	var entry dashboardstorage.CacheEntry
	var refreshedAt, expiresAt int64
	if err := row.Scan(&entry.CacheKey, &entry.Scope, &entry.UserID, &entry.PayloadBytes, &refreshedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dashboardstorage.CacheEntry{}, false, nil
		}
		return dashboardstorage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)
	return entry, true, nil
}

// PutCacheEntry upserts a cache payload and metadata by key.
func (s *Store) PutCacheEntry(ctx context.Context, entry dashboardstorage.CacheEntry) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	entry.Scope = strings.TrimSpace(entry.Scope)
	if entry.Scope == "" {
		return fmt.Errorf("cache scope is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = s.clock()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cache_entries (cache_key, scope, user_id, payload_json, refreshed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    scope = excluded.scope,
		    user_id = excluded.user_id,
		    payload_json = excluded.payload_json,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		entry.Scope,
		strings.TrimSpace(entry.UserID),
		entry.PayloadBytes,
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a cache entry by key.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, cacheKey); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// DeleteExpiredCacheEntries drops entries whose expiry is set and has passed.
func (s *Store) DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, errNotConfigured
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cache_entries WHERE expires_at > 0 AND expires_at <= ?`,
		timeToUnixMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired cache entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired cache entries: %w", err)
	}
	return removed, nil
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ dashboardstorage.Store = (*Store)(nil)
