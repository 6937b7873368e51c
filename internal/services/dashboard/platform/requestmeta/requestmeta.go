// Package requestmeta resolves request scheme and origin for cookie and
// form-post decisions.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// X-Forwarded-Proto is only honored when TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether r should be treated as HTTPS.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return scheme(r, policy) == "https"
}

// SameOrigin reports whether the Origin header, or the Referer when Origin
// is absent, names the host that served r.
func SameOrigin(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	raw := strings.TrimSpace(r.Header.Get("Origin"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if raw == "" {
		return false
	}
	origin, err := url.Parse(raw)
	if err != nil || origin.Host == "" {
		return false
	}
	wantScheme := scheme(r, policy)
	if !strings.EqualFold(origin.Scheme, wantScheme) {
		return false
	}
	host, port := splitHost(r.Host)
	if host == "" {
		return false
	}
	if port == "" {
		port = defaultPort(wantScheme)
	}
	originPort := origin.Port()
	if originPort == "" {
		originPort = defaultPort(strings.ToLower(origin.Scheme))
	}
	return strings.EqualFold(origin.Hostname(), host) && originPort == port
}

func scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func splitHost(raw string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}
