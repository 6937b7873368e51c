package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	dashboardstorage "github.com/okito/dashboard/internal/services/dashboard/storage"
	_ "modernc.org/sqlite"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("Open() error = nil, want error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	_, path := openTempStore(t)

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	for _, table := range []string{"preferences", "cache_entries", "schema_migrations"} {
		var name string
		if err := sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestReopenKeepsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := store.PutPreferences(ctx, "table-state-storage:user-1", []byte(`{"events":{"page":2}}`)); err != nil {
		t.Fatalf("PutPreferences() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	blob, ok, err := reopened.GetPreferences(ctx, "table-state-storage:user-1")
	if err != nil || !ok {
		t.Fatalf("GetPreferences() = %v, %v, want stored blob", ok, err)
	}
	if string(blob) != `{"events":{"page":2}}` {
		t.Fatalf("GetPreferences() = %s, want stored blob", blob)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	if _, ok, err := store.GetPreferences(ctx, "missing"); err != nil || ok {
		t.Fatalf("GetPreferences(missing) = %v, %v, want not found", ok, err)
	}
	if err := store.PutPreferences(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("PutPreferences() error = %v", err)
	}
	if err := store.PutPreferences(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("PutPreferences() overwrite error = %v", err)
	}
	blob, ok, err := store.GetPreferences(ctx, "k")
	if err != nil || !ok || string(blob) != `{"a":2}` {
		t.Fatalf("GetPreferences() = %s, %v, %v, want overwritten blob", blob, ok, err)
	}
	if err := store.PutPreferences(ctx, "", []byte("x")); err == nil {
		t.Fatal("PutPreferences(empty key) error = nil, want error")
	}
	if err := store.PutPreferences(ctx, "k", nil); err == nil {
		t.Fatal("PutPreferences(empty blob) error = nil, want error")
	}
}

func TestCacheEntryRoundTrip(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()
	refreshed := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	entry := dashboardstorage.CacheEntry{
		CacheKey:     "events|proj_1",
		Scope:        "events",
		UserID:       "user-1",
		PayloadBytes: []byte(`[]`),
		RefreshedAt:  refreshed,
		ExpiresAt:    refreshed.Add(time.Hour),
	}
	if err := store.PutCacheEntry(ctx, entry); err != nil {
		t.Fatalf("PutCacheEntry() error = %v", err)
	}
	got, ok, err := store.GetCacheEntry(ctx, "events|proj_1")
	if err != nil || !ok {
		t.Fatalf("GetCacheEntry() = %v, %v, want entry", ok, err)
	}
	if got.Scope != "events" || got.UserID != "user-1" || string(got.PayloadBytes) != "[]" {
		t.Fatalf("GetCacheEntry() = %+v, want %+v", got, entry)
	}
	if !got.RefreshedAt.Equal(refreshed) || !got.ExpiresAt.Equal(refreshed.Add(time.Hour)) {
		t.Fatalf("GetCacheEntry() times = %v/%v, want %v/%v", got.RefreshedAt, got.ExpiresAt, refreshed, refreshed.Add(time.Hour))
	}

	if err := store.DeleteCacheEntry(ctx, "events|proj_1"); err != nil {
		t.Fatalf("DeleteCacheEntry() error = %v", err)
	}
	if _, ok, _ := store.GetCacheEntry(ctx, "events|proj_1"); ok {
		t.Fatal("GetCacheEntry() after delete = found, want missing")
	}
}

func TestPutCacheEntryValidation(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	cases := []dashboardstorage.CacheEntry{
		{Scope: "events", PayloadBytes: []byte("x")},
		{CacheKey: "k", PayloadBytes: []byte("x")},
		{CacheKey: "k", Scope: "events"},
	}
	for _, entry := range cases {
		if err := store.PutCacheEntry(ctx, entry); err == nil {
			t.Fatalf("PutCacheEntry(%+v) error = nil, want error", entry)
		}
	}
}

func TestDeleteExpiredCacheEntries(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	entries := []dashboardstorage.CacheEntry{
		{CacheKey: "expired", Scope: "events", PayloadBytes: []byte("1"), ExpiresAt: now.Add(-time.Minute)},
		{CacheKey: "fresh", Scope: "events", PayloadBytes: []byte("2"), ExpiresAt: now.Add(time.Minute)},
		{CacheKey: "forever", Scope: "events", PayloadBytes: []byte("3")},
	}
	for _, entry := range entries {
		if err := store.PutCacheEntry(ctx, entry); err != nil {
			t.Fatalf("PutCacheEntry(%s) error = %v", entry.CacheKey, err)
		}
	}
	removed, err := store.DeleteExpiredCacheEntries(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredCacheEntries() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("DeleteExpiredCacheEntries() = %d, want 1", removed)
	}
	for _, key := range []string{"fresh", "forever"} {
		if _, ok, _ := store.GetCacheEntry(ctx, key); !ok {
			t.Fatalf("GetCacheEntry(%s) = missing, want kept", key)
		}
	}
}

func TestNilStoreReturnsErrors(t *testing.T) {
	var store *Store
	if _, _, err := store.GetPreferences(context.Background(), "k"); err == nil {
		t.Fatal("GetPreferences() on nil store error = nil, want error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() on nil store = %v, want nil", err)
	}
}
