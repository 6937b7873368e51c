package dashboard

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/platform/flash"
	"github.com/okito/dashboard/internal/services/dashboard/routepath"
	"github.com/okito/dashboard/internal/services/dashboard/templates"
)

// handleSelectProject switches the active project. Ids missing from a
// known project list are rejected.
func (h *handler) handleSelectProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := strings.TrimSpace(r.FormValue("projectId"))
	if projectID == "" {
		h.writeError(w, r, apperrors.New(apperrors.CodeProjectIDRequired, "project id is required"))
		return
	}
	sel, err := h.selection(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if sel.projects.HasData && !containsProject(sel.projects.Data, projectID) {
		h.writeError(w, r, apperrors.New(apperrors.CodeNotFound, "project not found"))
		return
	}
	if err := sel.prefs.SelectProject(ctx, projectID); err != nil {
		log.Printf("dashboard select project %s: %v", projectID, err)
		flash.Write(w, r, flash.Error("project.select_failed"), h.policy)
	} else {
		flash.Write(w, r, flash.Success("project.selected"), h.policy)
	}
	redirectBack(w, r, routepath.Home)
}

func containsProject(projects []rpc.Project, id string) bool {
	for _, project := range projects {
		if project.ID == id {
			return true
		}
	}
	return false
}

// handleOnboarding sends users that already have projects to the
// dashboard. Failing to check sends them to sign-in.
func (h *handler) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projects, err := h.hooks.Projects(ctx).Refetch(ctx)
	if err != nil {
		log.Printf("dashboard onboarding project check: %v", err)
		http.Redirect(w, r, h.signInURL, http.StatusFound)
		return
	}
	if len(projects) > 0 {
		http.Redirect(w, r, routepath.Home, http.StatusFound)
		return
	}
	st, err := h.loadPage(w, r, "onboarding.title", "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	st.page.HideNav = true
	h.render(w, r, templates.PageOnboarding, st.printer, templates.OnboardingView{Page: st.page})
}
