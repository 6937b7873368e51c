// Package templates renders the dashboard pages. Pages are embedded
// html/template sets exposed as templ components so handlers serve them
// through templ.Handler.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/message"
)

//go:embed *.html
var files embed.FS

// Page names.
const (
	PageHome       = "home"
	PageEvents     = "events"
	PageTokens     = "tokens"
	PageWebhooks   = "webhooks"
	PageOnboarding = "onboarding"
)

var pageNames = []string{PageHome, PageEvents, PageTokens, PageWebhooks, PageOnboarding}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page with the shared layout and partials.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).
			Funcs(funcs(nil)).
			ParseFS(files, "layout.html", "partials.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Page renders the full document of page.
func (r *Renderer) Page(page string, printer *message.Printer, data any) templ.Component {
	return r.component(page, "layout", printer, data)
}

// Content renders only the main content of page, for HTMX swaps.
func (r *Renderer) Content(page string, printer *message.Printer, data any) templ.Component {
	return r.component(page, "content", printer, data)
}

func (r *Renderer) component(page, entry string, printer *message.Printer, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		base, ok := r.pages[page]
		if !ok {
			return fmt.Errorf("unknown page %q", page)
		}
		tmpl, err := base.Clone()
		if err != nil {
			return fmt.Errorf("clone %s page: %w", page, err)
		}
		if err := tmpl.Funcs(funcs(printer)).ExecuteTemplate(w, entry, data); err != nil {
			return fmt.Errorf("render %s page: %w", page, err)
		}
		return nil
	})
}

func funcs(printer *message.Printer) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, args ...any) string {
			if printer == nil {
				return key
			}
			return printer.Sprintf(key, args...)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"pageLink": pageLink,
	}
}
