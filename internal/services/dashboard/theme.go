package dashboard

import (
	"net/http"
	"time"

	"github.com/okito/dashboard/internal/services/dashboard/platform/requestmeta"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
)

// themeCookieName stores the color scheme. Dark is the default.
const themeCookieName = "okito_theme"

const (
	themeDark  = "dark"
	themeLight = "light"
)

func readTheme(r *http.Request) string {
	cookie, err := r.Cookie(themeCookieName)
	if err != nil || cookie.Value != themeLight {
		return themeDark
	}
	return themeLight
}

func (h *handler) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := themeLight
	if readTheme(r) == themeLight {
		next = themeDark
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    next,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   requestmeta.IsHTTPS(r, h.policy),
		SameSite: http.SameSiteLaxMode,
	})
	redirectBack(w, r, routepath.Home)
}
