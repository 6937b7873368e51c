package query

import (
	"context"
	"sync"
	"time"

	"github.com/okito/dashboard/internal/rpc"
	dashboardstorage "github.com/okito/dashboard/internal/services/dashboard/storage"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    map[string]int
	events   []rpc.Event
	err      error
	gate     chan struct{}
	started  chan struct{}
	finished chan error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:    map[string]int{},
		started:  make(chan struct{}, 16),
		finished: make(chan error, 16),
	}
}

func (f *fakeBackend) record(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls[method]++
	gate := f.gate
	err := f.err
	f.mu.Unlock()
	f.started <- struct{}{}
	if gate != nil {
		<-gate
	}
	f.finished <- ctx.Err()
	return err
}

func (f *fakeBackend) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) setEvents(events []rpc.Event, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = events
	f.err = err
}

func (f *fakeBackend) ListEvents(ctx context.Context, projectID string) ([]rpc.Event, error) {
	if err := f.record(ctx, "ListEvents:"+projectID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpc.Event(nil), f.events...), nil
}

func (f *fakeBackend) GetAnalytics(ctx context.Context, projectID, period string) (rpc.AnalyticsResult, error) {
	if err := f.record(ctx, "GetAnalytics:"+projectID+":"+period); err != nil {
		return rpc.AnalyticsResult{}, err
	}
	return rpc.AnalyticsResult{Period: period, PaymentCount: 3}, nil
}

func (f *fakeBackend) GetProjectDetails(ctx context.Context, id string) (rpc.ProjectDetails, error) {
	if err := f.record(ctx, "GetProjectDetails:"+id); err != nil {
		return rpc.ProjectDetails{}, err
	}
	return rpc.ProjectDetails{ID: id, Name: "Project " + id}, nil
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]rpc.Project, error) {
	if err := f.record(ctx, "ListProjects"); err != nil {
		return nil, err
	}
	return []rpc.Project{{ID: "proj_1", Name: "One"}}, nil
}

func (f *fakeBackend) ListAPITokens(ctx context.Context, projectID string) ([]rpc.APIToken, error) {
	if err := f.record(ctx, "ListAPITokens:"+projectID); err != nil {
		return nil, err
	}
	return []rpc.APIToken{{ID: "tok_1"}}, nil
}

func (f *fakeBackend) ListWebhooks(ctx context.Context, projectID string) ([]rpc.Webhook, error) {
	if err := f.record(ctx, "ListWebhooks:"+projectID); err != nil {
		return nil, err
	}
	return []rpc.Webhook{{ID: "wh_1"}}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memoryCacheStore struct {
	mu      sync.Mutex
	entries map[string]dashboardstorage.CacheEntry
}

func newMemoryCacheStore() *memoryCacheStore {
	return &memoryCacheStore{entries: map[string]dashboardstorage.CacheEntry{}}
}

func (m *memoryCacheStore) GetCacheEntry(_ context.Context, key string) (dashboardstorage.CacheEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *memoryCacheStore) PutCacheEntry(_ context.Context, e dashboardstorage.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.CacheKey] = e
	return nil
}

func (m *memoryCacheStore) DeleteCacheEntry(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCacheStore) DeleteExpiredCacheEntries(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (m *memoryCacheStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
