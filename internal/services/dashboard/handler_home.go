package dashboard

import (
	"net/http"
	"strings"

	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/events"
	"github.com/okito/dashboard/internal/services/dashboard/templates"
)

// periodParam selects the analytics window on the home page.
const periodParam = "period"

var analyticsPeriods = []string{rpc.Period7d, rpc.Period30d, rpc.Period90d}

func (h *handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.loadPage(w, r, "home.title", "home")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	period := strings.TrimSpace(r.URL.Query().Get(periodParam))
	if !rpc.ValidPeriod(period) {
		period = rpc.Period30d
	}
	view := templates.HomeView{
		Page:       st.page,
		HasProject: st.projectID != "",
		Period:     period,
		Periods:    analyticsPeriods,
	}
	if view.HasProject {
		details := h.hooks.ProjectDetails(ctx, st.projectID).Get(ctx)
		view.Details = details.Data
		view.CreatedAt = events.FormatTime(details.Data.CreatedAt)
		view.DetailsLoading = details.IsLoading
		view.DetailsError = details.Err != nil && !details.HasData

		analytics := h.hooks.Analytics(ctx, st.projectID, period).Get(ctx)
		view.Analytics = analytics.Data
		view.TotalVolume = events.FormatAmount(analytics.Data.TotalVolume)
		view.AnalyticsLoading = analytics.IsLoading
		view.AnalyticsError = analytics.Err != nil && !analytics.HasData
		for _, point := range analytics.Data.Series {
			view.Series = append(view.Series, templates.SeriesRow{
				Date:   point.Date,
				Volume: events.FormatAmount(point.Volume),
				Count:  point.Count,
			})
		}
	}
	h.render(w, r, templates.PageHome, st.printer, view)
}
