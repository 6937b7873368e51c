package dashboard

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/services/dashboard/events"
	"github.com/okito/dashboard/internal/services/dashboard/platform/flash"
	"github.com/okito/dashboard/internal/services/dashboard/prefs"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
	"github.com/okito/dashboard/internal/services/dashboard/tables"
	"github.com/okito/dashboard/internal/services/dashboard/templates"
)

var tokenColumnLabels = map[prefs.SortField]string{
	prefs.SortEnvironment:  "tokens.col.environment",
	prefs.SortStatus:       "tokens.col.status",
	prefs.SortRequestCount: "tokens.col.requests",
	prefs.SortCreatedAt:    "tokens.col.created",
	prefs.SortLastUsedAt:   "tokens.col.last_used",
}

var webhookColumnLabels = map[prefs.SortField]string{
	prefs.SortURL:         "webhooks.col.url",
	prefs.SortDescription: "webhooks.col.description",
	prefs.SortStatus:      "webhooks.col.status",
	prefs.SortCreatedAt:   "webhooks.col.created",
	prefs.SortLastUsedAt:  "webhooks.col.last_used",
}

// tablePaths are the pages each table lives on.
var tablePaths = map[prefs.Table]string{
	prefs.TableTokens:   routepath.Tokens,
	prefs.TableWebhooks: routepath.Webhooks,
	prefs.TableEvents:   routepath.Events,
}

func sortColumns(table prefs.Table, fields []prefs.SortField, labels map[prefs.SortField]string, pref prefs.TablePreference, returnTo string) []templates.SortColumn {
	columns := make([]templates.SortColumn, 0, len(fields))
	for _, field := range fields {
		column := templates.SortColumn{
			Action:   routepath.TableSort(string(table)),
			ReturnTo: returnTo,
			Field:    string(field),
			LabelKey: labels[field],
			Active:   pref.SortField == field,
		}
		if column.Active {
			column.Indicator = "↑"
			if pref.SortDirection == prefs.SortDesc {
				column.Indicator = "↓"
			}
		}
		columns = append(columns, column)
	}
	return columns
}

func pagerFor[T any](table prefs.Table, page tables.Page[T], returnTo string) templates.PagerView {
	return templates.PagerView{
		Action:      routepath.TablePage(string(table)),
		ReturnTo:    returnTo,
		Number:      page.Number,
		TotalPages:  page.TotalPages,
		Numbers:     page.Numbers(),
		HasPrevious: page.HasPrevious(),
		HasNext:     page.HasNext(),
	}
}

// tableState resolves the body placeholder in the same order as events.
func tableState(projectID string, loading bool, err error, hasData bool, rows int) string {
	switch {
	case loading:
		return templates.StateLoading
	case err != nil && !hasData:
		return templates.StateError
	case projectID == "":
		return templates.StateNoProject
	case rows == 0:
		return templates.StateEmpty
	default:
		return templates.StateRows
	}
}

func lastUsed(pref string) string {
	if pref == events.Placeholder {
		return ""
	}
	return pref
}

func (h *handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.loadPage(w, r, "tokens.title", "tokens")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pref := st.prefs.Get(prefs.TableTokens)
	result := h.hooks.APITokens(ctx, st.projectID).Get(ctx)
	if result.Err != nil {
		log.Printf("dashboard list api tokens for project %s: %v", st.projectID, result.Err)
	}
	page := tables.Paginate(tables.SortTokens(result.Data, pref), pref.Page)

	view := templates.TokensView{
		Page:    st.page,
		State:   tableState(st.projectID, result.IsLoading, result.Err, result.HasData, len(page.Items)),
		Columns: sortColumns(prefs.TableTokens, tables.TokenColumns, tokenColumnLabels, pref, st.page.CurrentURL),
		Pager:   pagerFor(prefs.TableTokens, page, st.page.CurrentURL),
	}
	for _, token := range page.Items {
		view.Rows = append(view.Rows, templates.TokenRow{
			Prefix:      token.Prefix,
			Environment: token.Environment,
			Status:      token.Status,
			Requests:    token.RequestCount,
			CreatedAt:   events.FormatTime(token.CreatedAt),
			LastUsed:    lastUsed(events.FormatTime(token.LastUsedAt)),
		})
	}
	h.render(w, r, templates.PageTokens, st.printer, view)
}

func (h *handler) handleWebhooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.loadPage(w, r, "webhooks.title", "webhooks")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pref := st.prefs.Get(prefs.TableWebhooks)
	result := h.hooks.Webhooks(ctx, st.projectID).Get(ctx)
	if result.Err != nil {
		log.Printf("dashboard list webhooks for project %s: %v", st.projectID, result.Err)
	}
	page := tables.Paginate(tables.SortWebhooks(result.Data, pref), pref.Page)

	view := templates.WebhooksView{
		Page:    st.page,
		State:   tableState(st.projectID, result.IsLoading, result.Err, result.HasData, len(page.Items)),
		Columns: sortColumns(prefs.TableWebhooks, tables.WebhookColumns, webhookColumnLabels, pref, st.page.CurrentURL),
		Pager:   pagerFor(prefs.TableWebhooks, page, st.page.CurrentURL),
	}
	for _, webhook := range page.Items {
		view.Rows = append(view.Rows, templates.WebhookRow{
			URL:         webhook.URL,
			Description: webhook.Description,
			Status:      webhook.Status,
			CreatedAt:   events.FormatTime(webhook.CreatedAt),
			LastUsed:    lastUsed(events.FormatTime(webhook.LastUsedAt)),
		})
	}
	h.render(w, r, templates.PageWebhooks, st.printer, view)
}

// handleTableSort handles a header click. The table returns to page 1.
func (h *handler) handleTableSort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, err := prefs.ParseTable(r.PathValue("table"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	field, err := prefs.ParseSortField(r.FormValue("field"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	store, err := h.prefs.ForUser(ctx, userIDOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.finishTableChange(w, r, table, store.ToggleSort(ctx, table, field))
}

func (h *handler) handleTablePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, err := prefs.ParseTable(r.PathValue("table"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := strconv.Atoi(strings.TrimSpace(r.FormValue("page")))
	if err != nil {
		h.writeError(w, r, apperrors.WithMetadata(apperrors.CodePreferenceInvalid, "page must be a number", map[string]string{"Field": "page"}))
		return
	}
	store, err := h.prefs.ForUser(ctx, userIDOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.finishTableChange(w, r, table, store.SetPage(ctx, table, page))
}

// finishTableChange rejects invalid input and reports storage failures as
// a notice on the table page.
func (h *handler) finishTableChange(w http.ResponseWriter, r *http.Request, table prefs.Table, err error) {
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodePreferenceInvalid) {
			h.writeError(w, r, err)
			return
		}
		log.Printf("dashboard save %s table preferences: %v", table, err)
		flash.Write(w, r, flash.Error("table.preference_failed"), h.policy)
	}
	redirectBack(w, r, tablePaths[table])
}
