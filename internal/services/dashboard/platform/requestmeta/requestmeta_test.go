package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsHTTPS(req, SchemePolicy{}) {
		t.Fatal("IsHTTPS() = true for plain request")
	}
	req.Header.Set("X-Forwarded-Proto", "https")
	if IsHTTPS(req, SchemePolicy{}) {
		t.Fatal("IsHTTPS() trusted X-Forwarded-Proto without policy")
	}
	if !IsHTTPS(req, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("IsHTTPS() = false with trusted forwarded proto")
	}
	tlsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	if !IsHTTPS(tlsReq, SchemePolicy{}) {
		t.Fatal("IsHTTPS() = false for TLS request")
	}
}

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		referer string
		want    bool
	}{
		{name: "matching origin", origin: "http://dash.local:8080", want: true},
		{name: "referer fallback", referer: "http://dash.local:8080/dashboard/events", want: true},
		{name: "other host", origin: "http://evil.local:8080", want: false},
		{name: "other port", origin: "http://dash.local:9090", want: false},
		{name: "other scheme", origin: "https://dash.local:8080", want: false},
		{name: "missing proof", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "http://dash.local:8080/dashboard/project", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			if got := SameOrigin(req, SchemePolicy{}); got != tt.want {
				t.Fatalf("SameOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}
