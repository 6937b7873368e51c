package events

import (
	"net/url"
	"strings"

	"github.com/okito/dashboard/internal/rpc"
)

// State is the placeholder state of the table body.
type State int

const (
	StateLoading State = iota
	StateError
	StateNoProject
	StateEmpty
	StateRows
)

// Input is everything the events view is derived from.
type Input struct {
	ProjectID  string
	Events     []rpc.Event
	IsLoading  bool
	IsFetching bool
	Err        error
	Query      string
	StoredPage int
	// Params are the current URL query parameters.
	Params url.Values
}

// Row is one rendered table row.
type Row struct {
	Index           int
	ID              string
	SessionID       string
	TypeLabel       string
	Status          string
	StatusClass     string
	Amount          string
	Currency        string
	CreatedAt       string
	MetadataPreview string
	Open            bool
	// ToggleQuery is the URL query that toggles this row's detail panel.
	ToggleQuery string
}

// Detail is the open event panel.
type Detail struct {
	Found     bool
	ID        string
	SessionID string
	TypeLabel string
	Status    string
	Amount    string
	Currency  string
	CreatedAt string
	Metadata  string
	// CloseQuery is the URL query that closes the panel.
	CloseQuery string
}

// View is the derived events page.
type View struct {
	State      State
	Rows       []Row
	Page       Page
	Query      string
	IsFetching bool
	CanRefresh bool
	Detail     *Detail
}

// ShowPagination reports whether page links are rendered.
func (v View) ShowPagination() bool {
	return v.State == StateRows && v.Page.TotalPages > 1
}

// Build derives the view. Filtering and page clamping are recomputed on
// every call.
func Build(in Input) View {
	hasProject := strings.TrimSpace(in.ProjectID) != ""
	params := in.Params
	if params == nil {
		params = url.Values{}
	}

	filtered := Filter(in.Events, in.Query)
	page := Paginate(filtered, in.StoredPage)
	view := View{
		Page:       page,
		Query:      strings.TrimSpace(in.Query),
		IsFetching: in.IsFetching,
		CanRefresh: hasProject && !in.IsFetching && !in.IsLoading,
	}

	switch {
	case in.IsLoading:
		view.State = StateLoading
	case in.Err != nil:
		view.State = StateError
	case !hasProject:
		view.State = StateNoProject
	case len(page.Items) == 0:
		view.State = StateEmpty
	default:
		view.State = StateRows
	}

	openID := OpenEventID(params)
	if view.State == StateRows {
		view.Rows = make([]Row, 0, len(page.Items))
		for i, e := range page.Items {
			view.Rows = append(view.Rows, Row{
				Index:           page.Offset + i + 1,
				ID:              e.ID,
				SessionID:       e.SessionID,
				TypeLabel:       e.Type.Label(),
				Status:          FormatStatus(e.Payment),
				StatusClass:     StatusClass(e.Payment),
				Amount:          FormatPaymentAmount(e.Payment),
				Currency:        FormatCurrency(e.Payment),
				CreatedAt:       FormatTime(e.CreatedAt),
				MetadataPreview: MetadataPreview(e.Metadata),
				Open:            e.ID == openID,
				ToggleQuery:     ToggleEvent(params, e.ID).Encode(),
			})
		}
	}

	if openID != "" {
		view.Detail = buildDetail(in.Events, openID, params)
	}
	return view
}

func buildDetail(all []rpc.Event, id string, params url.Values) *Detail {
	detail := &Detail{ID: id, CloseQuery: CloseEvent(params).Encode()}
	for _, e := range all {
		if e.ID != id {
			continue
		}
		detail.Found = true
		detail.SessionID = e.SessionID
		detail.TypeLabel = e.Type.Label()
		detail.Status = FormatStatus(e.Payment)
		detail.Amount = FormatPaymentAmount(e.Payment)
		detail.Currency = FormatCurrency(e.Payment)
		detail.CreatedAt = FormatTime(e.CreatedAt)
		detail.Metadata = MetadataJSON(e.Metadata)
		break
	}
	return detail
}
