// Package i18n holds the dashboard's localized copy and request language
// resolution.
package i18n

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "okito_lang"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.AmericanEnglish
}

// Catalog resolves message keys per language.
type Catalog struct {
	cat catalog.Catalog
}

// NewCatalog builds the catalog from the bundled message tables.
func NewCatalog() (*Catalog, error) {
	builder := catalog.NewBuilder(catalog.Fallback(Default()))
	for tag, messages := range bundled {
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := builder.SetString(tag, key, messages[key]); err != nil {
				return nil, fmt.Errorf("set %s message %q: %w", tag, key, err)
			}
		}
	}
	return &Catalog{cat: builder}, nil
}

// Printer returns a message printer for the supplied tag.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	if c == nil {
		return message.NewPrinter(tag)
	}
	return message.NewPrinter(tag, message.Catalog(c.cat))
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := ParseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return supportedTags[index], false
			}
		}
	}
	return Default(), false
}

// ParseTag reports the supported tag matching value exactly or by base
// language.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		if supported == tag {
			return supported, true
		}
	}
	for _, supported := range supportedTags {
		if supportedBase, _ := supported.Base(); supportedBase == base {
			return supported, true
		}
	}
	return language.Und, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
