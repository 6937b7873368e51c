package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/okito/dashboard/internal/platform/walletkey"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/platform/flash"
	"github.com/okito/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/okito/dashboard/internal/services/dashboard/query"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
)

func TestHealthz(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	rec := serve(handler, httptest.NewRequest(http.MethodGet, routepath.Healthz, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "OK" {
		t.Fatalf("body = %q, want %q", got, "OK")
	}
}

func TestStaticAssetsServed(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRootRedirectsToHome(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.Home {
		t.Fatalf("Location = %q, want %q", got, routepath.Home)
	}
}

func TestDashboardWithoutSessionRedirectsToSignIn(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	for _, path := range []string{"/dashboard", routepath.Home, routepath.Events} {
		rec := serve(handler, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("GET %s status = %d, want %d", path, rec.Code, http.StatusFound)
		}
		if got := rec.Header().Get("Location"); got != routepath.SignIn {
			t.Fatalf("GET %s Location = %q, want %q", path, got, routepath.SignIn)
		}
	}
}

func TestInvalidSessionRedirectsToSignIn(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	req := httptest.NewRequest(http.MethodGet, routepath.Home, nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "forged"})
	rec := serve(handler, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.SignIn {
		t.Fatalf("Location = %q, want %q", got, routepath.SignIn)
	}
}

func TestHomeRendersProjectAndAnalytics(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodGet, routepath.Home+"?period=7d", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "Storefront", "12.500000", "2026-05-01"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
	if got := backend.callCount("GetAnalytics:proj_1:7d"); got != 1 {
		t.Fatalf("GetAnalytics calls = %d, want 1", got)
	}
}

func TestHomeFallsBackToDefaultPeriod(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodGet, routepath.Home+"?period=1y", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := backend.callCount("GetAnalytics:proj_1:30d"); got != 1 {
		t.Fatalf("GetAnalytics 30d calls = %d, want 1", got)
	}
}

func TestEventsPageRendersRows(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	backend.events = []rpc.Event{{
		ID:        "evt_1",
		SessionID: "sess_1",
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Type:      rpc.EventTypePayment,
		Metadata:  map[string]any{"order": "A-1"},
		Payment:   &rpc.PaymentInfo{Status: rpc.PaymentConfirmed, Amount: 1_500_000, Currency: rpc.CurrencyUSDC},
	}}
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodGet, routepath.Events, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "evt_1", "1.500000", "USDC", "payment"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestEventsPageHTMXRendersContentOnly(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	req := authedRequest(http.MethodGet, routepath.Events, nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(handler, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatalf("HTMX body contains full layout")
	}
	if !strings.Contains(body, "No events found") {
		t.Fatalf("body missing empty placeholder")
	}
}

func TestEventsPageWithoutProjects(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	backend.projects = nil
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodGet, routepath.Events, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Select a project to view events") {
		t.Fatalf("body missing no-project placeholder")
	}
	if got := backend.callCount("ListEvents:"); got != 0 {
		t.Fatalf("ListEvents calls without project = %d, want 0", got)
	}
}

func TestEventsRefreshWritesNotice(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodPost, routepath.EventsRefresh, url.Values{"return": {routepath.Events + "?q=usdc"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.Events+"?q=usdc" {
		t.Fatalf("Location = %q, want %q", got, routepath.Events+"?q=usdc")
	}
	if got := backend.callCount("ListEvents:proj_1"); got != 1 {
		t.Fatalf("ListEvents calls = %d, want 1", got)
	}

	next := authedRequest(http.MethodGet, routepath.Events, nil)
	forward(rec, next)
	page := serve(handler, next)
	if !strings.Contains(page.Body.String(), "Events refreshed") {
		t.Fatalf("page missing refresh notice")
	}
}

func TestEventsRefreshFailureKeepsRedirect(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	backend.eventsErr = errors.New("backend down")
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodPost, routepath.EventsRefresh, url.Values{"return": {"https://evil.example/"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.Events {
		t.Fatalf("Location = %q, want %q", got, routepath.Events)
	}
	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flash.CookieName && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected flash cookie on refresh failure")
	}
}

func TestCrossOriginPostRejected(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	req := authedRequest(http.MethodPost, routepath.Theme, url.Values{})
	req.Header.Set("Origin", "https://evil.example")
	rec := serve(handler, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestThemeToggle(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	rec := serve(handler, authedRequest(http.MethodPost, routepath.Theme, url.Values{"return": {routepath.Tokens}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	var theme string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == themeCookieName {
			theme = cookie.Value
		}
	}
	if theme != themeLight {
		t.Fatalf("theme cookie = %q, want %q", theme, themeLight)
	}
}

func TestTableSortPersistsAcrossRequests(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	backend.tokens = []rpc.APIToken{
		{ID: "tok_1", Prefix: "ok_live_a", Status: "revoked"},
		{ID: "tok_2", Prefix: "ok_live_b", Status: "active"},
	}
	handler := newTestHandler(t, backend)

	rec := serve(handler, authedRequest(http.MethodPost, routepath.TableSort("tokens"), url.Values{"field": {"status"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.Tokens {
		t.Fatalf("Location = %q, want %q", got, routepath.Tokens)
	}

	page := serve(handler, authedRequest(http.MethodGet, routepath.Tokens, nil))
	body := page.Body.String()
	if !strings.Contains(body, "Status ↑") {
		t.Fatalf("tokens page missing ascending status indicator")
	}
	if strings.Index(body, "ok_live_b") > strings.Index(body, "ok_live_a") {
		t.Fatalf("active token should sort before revoked token")
	}
}

func TestTableSortRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	tests := []struct {
		name string
		path string
		form url.Values
	}{
		{name: "unknown table", path: routepath.TableSort("ledger"), form: url.Values{"field": {"status"}}},
		{name: "unknown field", path: routepath.TableSort("tokens"), form: url.Values{"field": {"amount"}}},
		{name: "non numeric page", path: routepath.TablePage("tokens"), form: url.Values{"page": {"two"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(handler, authedRequest(http.MethodPost, tc.path, tc.form))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestTablePageRedirectsToTable(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, newFakeBackend())

	rec := serve(handler, authedRequest(http.MethodPost, routepath.TablePage("webhooks"), url.Values{"page": {"3"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.Webhooks {
		t.Fatalf("Location = %q, want %q", got, routepath.Webhooks)
	}
}

func TestSelectProject(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	handler := newTestHandler(t, backend)

	missing := serve(handler, authedRequest(http.MethodPost, routepath.Project, url.Values{"projectId": {"proj_9"}}))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unknown project status = %d, want %d", missing.Code, http.StatusNotFound)
	}
	empty := serve(handler, authedRequest(http.MethodPost, routepath.Project, url.Values{"projectId": {" "}}))
	if empty.Code != http.StatusBadRequest {
		t.Fatalf("empty project status = %d, want %d", empty.Code, http.StatusBadRequest)
	}

	rec := serve(handler, authedRequest(http.MethodPost, routepath.Project, url.Values{"projectId": {"proj_2"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != routepath.Home {
		t.Fatalf("Location = %q, want %q", got, routepath.Home)
	}

	serve(handler, authedRequest(http.MethodGet, routepath.Events, nil))
	if got := backend.callCount("ListEvents:proj_2"); got != 1 {
		t.Fatalf("ListEvents for selected project calls = %d, want 1", got)
	}
}

func TestOnboardingRedirects(t *testing.T) {
	t.Parallel()

	t.Run("existing projects go home", func(t *testing.T) {
		handler := newTestHandler(t, newFakeBackend())
		rec := serve(handler, authedRequest(http.MethodGet, routepath.Onboarding, nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
		}
		if got := rec.Header().Get("Location"); got != routepath.Home {
			t.Fatalf("Location = %q, want %q", got, routepath.Home)
		}
	})

	t.Run("backend failure goes to sign in", func(t *testing.T) {
		backend := newFakeBackend()
		backend.projectsErr = errors.New("unavailable")
		handler := newTestHandler(t, backend)
		rec := serve(handler, authedRequest(http.MethodGet, routepath.Onboarding, nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
		}
		if got := rec.Header().Get("Location"); got != routepath.SignIn {
			t.Fatalf("Location = %q, want %q", got, routepath.SignIn)
		}
	})

	t.Run("no projects renders onboarding", func(t *testing.T) {
		backend := newFakeBackend()
		backend.projects = nil
		handler := newTestHandler(t, backend)
		rec := serve(handler, authedRequest(http.MethodGet, routepath.Onboarding, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "Create your first project") {
			t.Fatalf("body missing onboarding title")
		}
	})
}

func jsonRequest(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", testOrigin)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: testToken})
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestWalletNonce(t *testing.T) {
	t.Parallel()
	signer, err := walletkey.GenerateKeySigner(nil)
	if err != nil {
		t.Fatalf("GenerateKeySigner() error = %v", err)
	}
	backend := newFakeBackend()
	handler := newTestHandler(t, backend)

	notConnected := serve(handler, jsonRequest(t, routepath.WalletNonce, map[string]any{"publicKey": ""}))
	if notConnected.Code != http.StatusBadRequest {
		t.Fatalf("empty key status = %d, want %d", notConnected.Code, http.StatusBadRequest)
	}
	if got := decodeBody(t, notConnected)["code"]; got != "WALLET_NOT_CONNECTED" {
		t.Fatalf("empty key code = %v, want WALLET_NOT_CONNECTED", got)
	}

	malformed := serve(handler, jsonRequest(t, routepath.WalletNonce, map[string]any{"publicKey": "not-base58-0OIl"}))
	if malformed.Code != http.StatusBadRequest {
		t.Fatalf("malformed key status = %d, want %d", malformed.Code, http.StatusBadRequest)
	}

	rec := serve(handler, jsonRequest(t, routepath.WalletNonce, map[string]any{"publicKey": signer.PublicKey()}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeBody(t, rec)
	if body["message"] != backend.nonce.Message {
		t.Fatalf("message = %v, want %q", body["message"], backend.nonce.Message)
	}
	if body["timestamp"] != float64(backend.nonce.Timestamp) {
		t.Fatalf("timestamp = %v, want %d", body["timestamp"], backend.nonce.Timestamp)
	}
}

func TestWalletConfirm(t *testing.T) {
	t.Parallel()
	signer, err := walletkey.GenerateKeySigner(nil)
	if err != nil {
		t.Fatalf("GenerateKeySigner() error = %v", err)
	}
	sig, err := signer.SignMessage(t.Context(), []byte("challenge"))
	if err != nil {
		t.Fatalf("SignMessage() error = %v", err)
	}
	payload := map[string]any{
		"publicKey": signer.PublicKey(),
		"signature": rpc.EncodeSignature(sig),
		"timestamp": 1714550400000,
	}

	t.Run("rejected", func(t *testing.T) {
		handler := newTestHandler(t, newFakeBackend())
		rec := serve(handler, jsonRequest(t, routepath.WalletConfirm, payload))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if got := decodeBody(t, rec)["code"]; got != "SIGNATURE_INVALID" {
			t.Fatalf("code = %v, want SIGNATURE_INVALID", got)
		}
	})

	t.Run("out of range signature byte", func(t *testing.T) {
		backend := newFakeBackend()
		handler := newTestHandler(t, backend)
		bad := map[string]any{"publicKey": signer.PublicKey(), "signature": []int{1, 256}, "timestamp": 1}
		rec := serve(handler, jsonRequest(t, routepath.WalletConfirm, bad))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if got := backend.callCount("ConfirmWallet"); got != 0 {
			t.Fatalf("ConfirmWallet calls = %d, want 0", got)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		backend := newFakeBackend()
		backend.confirmOK = true
		handler := newTestHandler(t, backend)

		serve(handler, authedRequest(http.MethodGet, routepath.Home, nil))
		rec := serve(handler, jsonRequest(t, routepath.WalletConfirm, payload))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got := decodeBody(t, rec)["success"]; got != true {
			t.Fatalf("success = %v, want true", got)
		}
		if got := backend.confirmReq.Timestamp; got != 1714550400000 {
			t.Fatalf("confirm timestamp = %d, want 1714550400000", got)
		}

		serve(handler, authedRequest(http.MethodGet, routepath.Home, nil))
		if got := backend.callCount("GetProjectDetails:proj_1"); got != 2 {
			t.Fatalf("GetProjectDetails calls = %d, want 2 after invalidation", got)
		}
	})
}

func TestActiveProjectFallsBackToFirst(t *testing.T) {
	t.Parallel()
	projects := []rpc.Project{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name    string
		stored  string
		hasData bool
		want    string
	}{
		{name: "stored present", stored: "b", hasData: true, want: "b"},
		{name: "stored missing", stored: "z", hasData: true, want: "a"},
		{name: "nothing stored", stored: "", hasData: true, want: "a"},
		{name: "no project data", stored: "z", hasData: false, want: "z"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := query.Result[[]rpc.Project]{Data: projects, HasData: tc.hasData}
			if got := activeProject(tc.stored, result); got != tc.want {
				t.Fatalf("activeProject(%q) = %q, want %q", tc.stored, got, tc.want)
			}
		})
	}
}

func TestSafeReturn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "/dashboard/events?q=x", want: "/dashboard/events?q=x"},
		{raw: "", want: "/fallback"},
		{raw: "//evil.example", want: "/fallback"},
		{raw: "https://evil.example/", want: "/fallback"},
		{raw: `/\evil`, want: "/fallback"},
	}
	for _, tc := range tests {
		if got := safeReturn(tc.raw, "/fallback"); got != tc.want {
			t.Fatalf("safeReturn(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
