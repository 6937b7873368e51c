package dashboard

import (
	"log"
	"net/http"

	"github.com/okito/dashboard/internal/services/dashboard/events"
	"github.com/okito/dashboard/internal/services/dashboard/platform/flash"
	"github.com/okito/dashboard/internal/services/dashboard/prefs"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
	"github.com/okito/dashboard/internal/services/dashboard/templates"
)

func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.loadPage(w, r, "events.title", "events")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result := h.hooks.Events(ctx, st.projectID).Get(ctx)
	in := events.Input{
		ProjectID:  st.projectID,
		Events:     result.Data,
		IsLoading:  result.IsLoading,
		IsFetching: result.IsFetching,
		Query:      r.URL.Query().Get(events.ParamQuery),
		StoredPage: st.prefs.Get(prefs.TableEvents).Page,
		Params:     r.URL.Query(),
	}
	if result.Err != nil {
		log.Printf("dashboard list events for project %s: %v", st.projectID, result.Err)
		if !result.HasData {
			in.Err = result.Err
		}
		if st.page.Notice == nil {
			notice := flash.Error("events.load_failed")
			st.page.Notice = &notice
		}
	}
	view := events.Build(in)

	data := templates.EventsView{
		Page:  st.page,
		State: eventsState(view.State),
		View:  view,
		Pager: templates.PagerView{
			Action:      routepath.TablePage(string(prefs.TableEvents)),
			ReturnTo:    st.page.CurrentURL,
			Number:      view.Page.Number,
			TotalPages:  view.Page.TotalPages,
			Numbers:     view.Page.Numbers(),
			HasPrevious: view.Page.HasPrevious(),
			HasNext:     view.Page.HasNext(),
		},
	}
	for _, row := range view.Rows {
		data.Rows = append(data.Rows, templates.EventRow{
			Row:  row,
			Href: routepath.WithQuery(routepath.Events, row.ToggleQuery),
		})
	}
	if view.Detail != nil {
		data.CloseHref = routepath.WithQuery(routepath.Events, view.Detail.CloseQuery)
	}
	h.render(w, r, templates.PageEvents, st.printer, data)
}

func eventsState(state events.State) string {
	switch state {
	case events.StateLoading:
		return templates.StateLoading
	case events.StateError:
		return templates.StateError
	case events.StateNoProject:
		return templates.StateNoProject
	case events.StateEmpty:
		return templates.StateEmpty
	default:
		return templates.StateRows
	}
}

// handleEventsRefresh forces a fetch and reports the outcome as a notice.
func (h *handler) handleEventsRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel, err := h.selection(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if sel.projectID == "" {
		redirectBack(w, r, routepath.Events)
		return
	}
	if _, err := h.hooks.Events(ctx, sel.projectID).Refetch(ctx); err != nil {
		log.Printf("dashboard refresh events for project %s: %v", sel.projectID, err)
		flash.Write(w, r, flash.Error("events.refresh_failed"), h.policy)
	} else {
		flash.Write(w, r, flash.Success("events.refreshed"), h.policy)
	}
	redirectBack(w, r, routepath.Events)
}
