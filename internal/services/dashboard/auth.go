package dashboard

import (
	"log"
	"net/http"
	"strings"

	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/platform/sessiontoken"
	"github.com/okito/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
)

// SessionVerifier validates the session token issued by the sign-in service.
type SessionVerifier interface {
	Verify(token string) (sessiontoken.Claims, error)
}

// requireSessionCookie is the edge gate: dashboard paths without a session
// cookie go to sign-in. The token itself is checked by requireSession.
func requireSessionCookie(next http.Handler, signInURL string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isGated(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := sessioncookie.Read(r); !ok {
			http.Redirect(w, r, signInURL, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isGated(path string) bool {
	return path == strings.TrimSuffix(routepath.DashboardPrefix, "/") ||
		strings.HasPrefix(path, routepath.DashboardPrefix)
}

// requireSession verifies the session token and stores the identity in the
// request context. Invalid or expired tokens go to sign-in.
func (h *handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessioncookie.Read(r)
		if !ok {
			http.Redirect(w, r, h.signInURL, http.StatusFound)
			return
		}
		claims, err := h.verifier.Verify(token)
		if err != nil {
			log.Printf("dashboard session rejected: %v", err)
			http.Redirect(w, r, h.signInURL, http.StatusFound)
			return
		}
		if strings.TrimSpace(claims.Subject) == "" {
			http.Redirect(w, r, h.signInURL, http.StatusFound)
			return
		}
		ctx := requestctx.WithSession(r.Context(), requestctx.Session{
			UserID: claims.Subject,
			Name:   claims.Name,
			Email:  claims.Email,
		})
		next(w, r.WithContext(ctx))
	}
}

func userIDOf(r *http.Request) string {
	return requestctx.UserIDFromContext(r.Context())
}
