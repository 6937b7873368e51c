package templates

import (
	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/events"
	"github.com/okito/dashboard/internal/services/dashboard/platform/flash"
)

// Table body states shared by every table page.
const (
	StateLoading   = "loading"
	StateError     = "error"
	StateNoProject = "no_project"
	StateEmpty     = "empty"
	StateRows      = "rows"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Label  string
	Href   string
	Active bool
}

// PageContext is the layout data every page carries.
type PageContext struct {
	Lang  string
	Theme string
	// Title is a message key.
	Title             string
	ActiveNav         string
	CurrentURL        string
	HideNav           bool
	User              requestctx.Session
	Projects          []rpc.Project
	SelectedProjectID string
	Notice            *flash.Notice
	Languages         []LanguageOption
}

// PagerView drives the page links of a table.
type PagerView struct {
	Action      string
	ReturnTo    string
	Number      int
	TotalPages  int
	Numbers     []int
	HasPrevious bool
	HasNext     bool
}

// PageLink is one page button.
type PageLink struct {
	Action   string
	ReturnTo string
	Number   int
	Current  bool
	LabelKey string
}

func pageLink(p PagerView, number int, labelKey string) PageLink {
	return PageLink{
		Action:   p.Action,
		ReturnTo: p.ReturnTo,
		Number:   number,
		Current:  labelKey == "" && number == p.Number,
		LabelKey: labelKey,
	}
}

// SortColumn is a clickable table header.
type SortColumn struct {
	Action    string
	ReturnTo  string
	Field     string
	LabelKey  string
	Active    bool
	Indicator string
}

// SeriesRow is one analytics day.
type SeriesRow struct {
	Date   string
	Volume string
	Count  int
}

// HomeView is the overview page.
type HomeView struct {
	Page             PageContext
	HasProject       bool
	Details          rpc.ProjectDetails
	CreatedAt        string
	DetailsLoading   bool
	DetailsError     bool
	Analytics        rpc.AnalyticsResult
	TotalVolume      string
	Series           []SeriesRow
	Period           string
	Periods          []string
	AnalyticsLoading bool
	AnalyticsError   bool
}

// EventRow is an events table row with its toggle link.
type EventRow struct {
	events.Row
	Href string
}

// EventsView is the events page.
type EventsView struct {
	Page      PageContext
	State     string
	View      events.View
	Rows      []EventRow
	Pager     PagerView
	CloseHref string
}

// TokenRow is a formatted API token.
type TokenRow struct {
	Prefix      string
	Environment string
	Status      string
	Requests    int64
	CreatedAt   string
	// LastUsed is empty for tokens never used.
	LastUsed string
}

// TokensView is the API tokens page.
type TokensView struct {
	Page    PageContext
	State   string
	Columns []SortColumn
	Rows    []TokenRow
	Pager   PagerView
}

// WebhookRow is a formatted webhook.
type WebhookRow struct {
	URL         string
	Description string
	Status      string
	CreatedAt   string
	LastUsed    string
}

// WebhooksView is the webhooks page.
type WebhooksView struct {
	Page    PageContext
	State   string
	Columns []SortColumn
	Rows    []WebhookRow
	Pager   PagerView
}

// OnboardingView is the first-project page.
type OnboardingView struct {
	Page PageContext
}
