package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okito/dashboard/internal/platform/sessiontoken"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/okito/dashboard/internal/services/dashboard/query"
	dashboardsqlite "github.com/okito/dashboard/internal/services/dashboard/storage/sqlite"
)

const (
	testToken  = "valid-token"
	testUserID = "user-1"
	testOrigin = "http://example.com"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (sessiontoken.Claims, error) {
	if token != testToken {
		return sessiontoken.Claims{}, errors.New("token rejected")
	}
	return sessiontoken.Claims{Subject: testUserID, Name: "Ada", Email: "ada@example.com"}, nil
}

type fakeBackend struct {
	mu          sync.Mutex
	calls       map[string]int
	projects    []rpc.Project
	projectsErr error
	events      []rpc.Event
	eventsErr   error
	tokens      []rpc.APIToken
	webhooks    []rpc.Webhook
	nonce       rpc.WalletNonce
	confirmOK   bool
	confirmReq  rpc.ConfirmWalletRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:    map[string]int{},
		projects: []rpc.Project{{ID: "proj_1", Name: "Storefront"}, {ID: "proj_2", Name: "Marketplace"}},
		nonce:    rpc.WalletNonce{Message: "Sign in to Okito: abc", Timestamp: 1714550400000},
	}
}

func (f *fakeBackend) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *fakeBackend) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) ListEvents(_ context.Context, projectID string) ([]rpc.Event, error) {
	f.record("ListEvents:" + projectID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return append([]rpc.Event(nil), f.events...), nil
}

func (f *fakeBackend) GetAnalytics(_ context.Context, projectID, period string) (rpc.AnalyticsResult, error) {
	f.record("GetAnalytics:" + projectID + ":" + period)
	return rpc.AnalyticsResult{
		Period:       period,
		TotalVolume:  12_500_000,
		PaymentCount: 4,
		Series:       []rpc.AnalyticsPoint{{Date: "2026-05-01", Volume: 12_500_000, Count: 4}},
	}, nil
}

func (f *fakeBackend) GetProjectDetails(_ context.Context, id string) (rpc.ProjectDetails, error) {
	f.record("GetProjectDetails:" + id)
	return rpc.ProjectDetails{ID: id, Name: "Storefront", Environment: "test"}, nil
}

func (f *fakeBackend) ListProjects(context.Context) ([]rpc.Project, error) {
	f.record("ListProjects")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return append([]rpc.Project(nil), f.projects...), nil
}

func (f *fakeBackend) ListAPITokens(_ context.Context, projectID string) ([]rpc.APIToken, error) {
	f.record("ListAPITokens:" + projectID)
	return append([]rpc.APIToken(nil), f.tokens...), nil
}

func (f *fakeBackend) ListWebhooks(_ context.Context, projectID string) ([]rpc.Webhook, error) {
	f.record("ListWebhooks:" + projectID)
	return append([]rpc.Webhook(nil), f.webhooks...), nil
}

func (f *fakeBackend) GetWalletNonce(_ context.Context, publicKey string) (rpc.WalletNonce, error) {
	f.record("GetWalletNonce:" + publicKey)
	return f.nonce, nil
}

func (f *fakeBackend) ConfirmWallet(_ context.Context, req rpc.ConfirmWalletRequest) (bool, error) {
	f.record("ConfirmWallet")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmReq = req
	return f.confirmOK, nil
}

func newTestHandler(t *testing.T, backend *fakeBackend) http.Handler {
	t.Helper()
	store, err := dashboardsqlite.Open(filepath.Join(t.TempDir(), "dashboard.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cache := query.NewCache(context.Background(), query.WithFirstLoad(2*time.Second))
	handler, err := NewHandler(HandlerConfig{
		Backend:     backend,
		Cache:       cache,
		Preferences: store,
		Verifier:    fakeVerifier{},
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}

func authedRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if method != http.MethodGet {
		req.Header.Set("Origin", testOrigin)
	}
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: testToken})
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// forward copies response cookies onto the next request.
func forward(rec *httptest.ResponseRecorder, next *http.Request) {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			continue
		}
		next.AddCookie(cookie)
	}
}
