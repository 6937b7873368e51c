package query

import (
	"context"
	"strings"
	"time"

	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/rpc"
)

// Staleness windows per query.
const (
	EventsStaleTime         = 30 * time.Second
	AnalyticsStaleTime      = 5 * time.Minute
	ProjectDetailsStaleTime = time.Minute
	ProjectsStaleTime       = time.Minute
	APITokensStaleTime      = 30 * time.Second
	WebhooksStaleTime       = 30 * time.Second
)

// Cache scopes.
const (
	ScopeEvents         = "events"
	ScopeAnalytics      = "analytics"
	ScopeProjectDetails = "project-details"
	ScopeProjects       = "projects"
	ScopeAPITokens      = "api-tokens"
	ScopeWebhooks       = "webhooks"
)

// Backend is the subset of the RPC client the hooks read from.
type Backend interface {
	ListEvents(ctx context.Context, projectID string) ([]rpc.Event, error)
	GetAnalytics(ctx context.Context, projectID, period string) (rpc.AnalyticsResult, error)
	GetProjectDetails(ctx context.Context, id string) (rpc.ProjectDetails, error)
	ListProjects(ctx context.Context) ([]rpc.Project, error)
	ListAPITokens(ctx context.Context, projectID string) ([]rpc.APIToken, error)
	ListWebhooks(ctx context.Context, projectID string) ([]rpc.Webhook, error)
}

// Hooks builds the dashboard's queries for the user on a request context.
type Hooks struct {
	cache   *Cache
	backend Backend
}

// NewHooks returns hooks reading from backend through cache.
func NewHooks(cache *Cache, backend Backend) *Hooks {
	return &Hooks{cache: cache, backend: backend}
}

// Cache returns the underlying cache.
func (h *Hooks) Cache() *Cache {
	return h.cache
}

func userOf(ctx context.Context) string {
	return requestctx.UserIDFromContext(ctx)
}

func present(id string) bool {
	return strings.TrimSpace(id) != ""
}

// Events lists the events of a project. Disabled without a project.
func (h *Hooks) Events(ctx context.Context, projectID string) Query[[]rpc.Event] {
	return New(h.cache, ScopeEvents, userOf(ctx), EventsStaleTime, present(projectID), func(ctx context.Context) ([]rpc.Event, error) {
		return h.backend.ListEvents(ctx, projectID)
	}, projectID)
}

// Analytics summarizes a project for a period. Disabled without a project.
func (h *Hooks) Analytics(ctx context.Context, projectID, period string) Query[rpc.AnalyticsResult] {
	return New(h.cache, ScopeAnalytics, userOf(ctx), AnalyticsStaleTime, present(projectID), func(ctx context.Context) (rpc.AnalyticsResult, error) {
		return h.backend.GetAnalytics(ctx, projectID, period)
	}, projectID, period)
}

// ProjectDetails describes a project. Disabled without an id.
func (h *Hooks) ProjectDetails(ctx context.Context, id string) Query[rpc.ProjectDetails] {
	return New(h.cache, ScopeProjectDetails, userOf(ctx), ProjectDetailsStaleTime, present(id), func(ctx context.Context) (rpc.ProjectDetails, error) {
		return h.backend.GetProjectDetails(ctx, id)
	}, id)
}

// Projects lists the user's projects.
func (h *Hooks) Projects(ctx context.Context) Query[[]rpc.Project] {
	return New(h.cache, ScopeProjects, userOf(ctx), ProjectsStaleTime, true, h.backend.ListProjects)
}

// APITokens lists the tokens of a project. Disabled without a project.
func (h *Hooks) APITokens(ctx context.Context, projectID string) Query[[]rpc.APIToken] {
	return New(h.cache, ScopeAPITokens, userOf(ctx), APITokensStaleTime, present(projectID), func(ctx context.Context) ([]rpc.APIToken, error) {
		return h.backend.ListAPITokens(ctx, projectID)
	}, projectID)
}

// Webhooks lists the webhooks of a project. Disabled without a project.
func (h *Hooks) Webhooks(ctx context.Context, projectID string) Query[[]rpc.Webhook] {
	return New(h.cache, ScopeWebhooks, userOf(ctx), WebhooksStaleTime, present(projectID), func(ctx context.Context) ([]rpc.Webhook, error) {
		return h.backend.ListWebhooks(ctx, projectID)
	}, projectID)
}
