package dashboard

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/platform/i18n"
	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/platform/flash"
	"github.com/okito/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/okito/dashboard/internal/services/dashboard/platform/requestmeta"
	"github.com/okito/dashboard/internal/services/dashboard/prefs"
	"github.com/okito/dashboard/internal/services/dashboard/query"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
	"github.com/okito/dashboard/internal/services/dashboard/static"
	"github.com/okito/dashboard/internal/services/dashboard/templates"
)

// HandlerConfig wires the dashboard HTTP surface.
type HandlerConfig struct {
	Backend     Backend
	Cache       *query.Cache
	Preferences prefs.BlobStore
	Verifier    SessionVerifier
	// SignInURL is where unauthenticated requests are sent.
	SignInURL    string
	SchemePolicy requestmeta.SchemePolicy
}

type handler struct {
	backend   Backend
	hooks     *query.Hooks
	prefs     *prefs.Registry
	renderer  *templates.Renderer
	catalog   *i18n.Catalog
	verifier  SessionVerifier
	signInURL string
	policy    requestmeta.SchemePolicy
}

// NewHandler builds the routed dashboard handler.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("query cache is required")
	}
	if cfg.Preferences == nil {
		return nil, errors.New("preference store is required")
	}
	if cfg.Verifier == nil {
		return nil, errors.New("session verifier is required")
	}
	signInURL := strings.TrimSpace(cfg.SignInURL)
	if signInURL == "" {
		signInURL = routepath.SignIn
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	catalog, err := i18n.NewCatalog()
	if err != nil {
		return nil, err
	}

	h := &handler{
		backend:   cfg.Backend,
		hooks:     query.NewHooks(cfg.Cache, cfg.Backend),
		prefs:     prefs.NewRegistry(cfg.Preferences),
		renderer:  renderer,
		catalog:   catalog,
		verifier:  cfg.Verifier,
		signInURL: signInURL,
		policy:    cfg.SchemePolicy,
	}

	mux := http.NewServeMux()
	h.registerRoutes(mux)
	return httpx.Chain(
		mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequireSameOrigin(cfg.SchemePolicy),
		func(next http.Handler) http.Handler { return requireSessionCookie(next, signInURL) },
	), nil
}

func (h *handler) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc(http.MethodGet+" "+routepath.Healthz, handleHealthz)
	mux.Handle(http.MethodGet+" "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(static.FS)))
	mux.HandleFunc(http.MethodGet+" /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routepath.Home, http.StatusFound)
	})
	mux.HandleFunc(http.MethodGet+" "+routepath.Onboarding, h.requireSession(h.handleOnboarding))

	mux.HandleFunc(http.MethodGet+" "+routepath.Home, h.requireSession(h.handleHome))
	mux.HandleFunc(http.MethodGet+" "+routepath.Events, h.requireSession(h.handleEvents))
	mux.HandleFunc(http.MethodPost+" "+routepath.EventsRefresh, h.requireSession(h.handleEventsRefresh))
	mux.HandleFunc(http.MethodGet+" "+routepath.Tokens, h.requireSession(h.handleTokens))
	mux.HandleFunc(http.MethodGet+" "+routepath.Webhooks, h.requireSession(h.handleWebhooks))
	mux.HandleFunc(http.MethodPost+" "+routepath.TableSortPath, h.requireSession(h.handleTableSort))
	mux.HandleFunc(http.MethodPost+" "+routepath.TablePagePath, h.requireSession(h.handleTablePage))
	mux.HandleFunc(http.MethodPost+" "+routepath.Project, h.requireSession(h.handleSelectProject))
	mux.HandleFunc(http.MethodPost+" "+routepath.Theme, h.requireSession(h.handleToggleTheme))
	mux.HandleFunc(http.MethodPost+" "+routepath.WalletNonce, h.requireSession(h.handleWalletNonce))
	mux.HandleFunc(http.MethodPost+" "+routepath.WalletConfirm, h.requireSession(h.handleWalletConfirm))
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// pageState is what every protected page resolves before rendering.
type pageState struct {
	page      templates.PageContext
	printer   *message.Printer
	prefs     *prefs.Store
	projectID string
}

// selection resolves the user's preference store and active project.
type selection struct {
	prefs     *prefs.Store
	projects  query.Result[[]rpc.Project]
	projectID string
}

func (h *handler) selection(ctx context.Context) (selection, error) {
	store, err := h.prefs.ForUser(ctx, requestctx.UserIDFromContext(ctx))
	if err != nil {
		return selection{}, err
	}
	projects := h.hooks.Projects(ctx).Get(ctx)
	return selection{
		prefs:     store,
		projects:  projects,
		projectID: activeProject(store.SelectedProjectID(), projects),
	}, nil
}

// activeProject keeps the stored project while it still exists, otherwise
// falls back to the first project. Without a project list the stored id is
// trusted.
func activeProject(stored string, projects query.Result[[]rpc.Project]) string {
	if !projects.HasData {
		return stored
	}
	for _, project := range projects.Data {
		if project.ID == stored {
			return stored
		}
	}
	if len(projects.Data) > 0 {
		return projects.Data[0].ID
	}
	return ""
}

func (h *handler) loadPage(w http.ResponseWriter, r *http.Request, title, nav string) (pageState, error) {
	ctx := r.Context()
	sel, err := h.selection(ctx)
	if err != nil {
		return pageState{}, err
	}
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	session, _ := requestctx.SessionFromContext(ctx)
	page := templates.PageContext{
		Lang:              tag.String(),
		Theme:             readTheme(r),
		Title:             title,
		ActiveNav:         nav,
		CurrentURL:        currentURL(r),
		User:              session,
		Projects:          sel.projects.Data,
		SelectedProjectID: sel.projectID,
		Languages:         languageOptions(r, tag),
	}
	if notice, ok := flash.ReadAndClear(w, r, h.policy); ok {
		page.Notice = &notice
	}
	return pageState{
		page:      page,
		printer:   h.catalog.Printer(tag),
		prefs:     sel.prefs,
		projectID: sel.projectID,
	}, nil
}

// render serves page, or only its content for HTMX requests.
func (h *handler) render(w http.ResponseWriter, r *http.Request, page string, printer *message.Printer, data any) {
	component := h.renderer.Page(page, printer, data)
	if httpx.IsHTMXRequest(r) {
		component = h.renderer.Content(page, printer, data)
	}
	templ.Handler(component, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		log.Printf("dashboard render %s %s: %v", r.Method, r.URL.Path, err)
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("dashboard %s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, http.StatusText(status), status)
}

// redirectBack sends the browser to the form's return path, or fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	httpx.WriteRedirect(w, r, safeReturn(r.FormValue("return"), fallback))
}

// safeReturn accepts only local absolute paths.
func safeReturn(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return fallback
	}
	return raw
}

// currentURL is the request path and query without the language switch.
func currentURL(r *http.Request) string {
	values := r.URL.Query()
	values.Del(i18n.LangParam)
	return routepath.WithQuery(r.URL.Path, values.Encode())
}

var languageLabels = map[language.Tag]string{
	language.AmericanEnglish:     "English",
	language.BrazilianPortuguese: "Português",
}

func languageOptions(r *http.Request, active language.Tag) []templates.LanguageOption {
	options := make([]templates.LanguageOption, 0, len(languageLabels))
	for _, tag := range i18n.Supported() {
		values := r.URL.Query()
		values.Set(i18n.LangParam, tag.String())
		options = append(options, templates.LanguageOption{
			Label:  languageLabels[tag],
			Href:   routepath.WithQuery(r.URL.Path, values.Encode()),
			Active: tag == active,
		})
	}
	return options
}
