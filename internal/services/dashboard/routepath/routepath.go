// Package routepath names every dashboard URL in one place.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root       = "/"
	Healthz    = "/healthz"
	SignIn     = "/signin"
	Onboarding = "/onboarding"
)

const (
	StaticPrefix = "/static/"
)

const (
	DashboardPrefix = "/dashboard/"
	Home            = "/dashboard/home"
	Events          = "/dashboard/events"
	EventsRefresh   = "/dashboard/events/refresh"
	Tokens          = "/dashboard/tokens"
	Webhooks        = "/dashboard/webhooks"
	Project         = "/dashboard/project"
	Theme           = "/dashboard/theme"
)

const (
	TablesPrefix  = "/dashboard/tables/"
	TableSortPath = "/dashboard/tables/{table}/sort"
	TablePagePath = "/dashboard/tables/{table}/page"
)

const (
	WalletNonce   = "/dashboard/wallet/nonce"
	WalletConfirm = "/dashboard/wallet/confirm"
)

// TableSort is the sort endpoint of table.
func TableSort(table string) string {
	return TablesPrefix + escapeSegment(table) + "/sort"
}

// TablePage is the page endpoint of table.
func TablePage(table string) string {
	return TablesPrefix + escapeSegment(table) + "/page"
}

// WithQuery appends an encoded query string to path when non-empty.
func WithQuery(path string, rawQuery string) string {
	rawQuery = strings.TrimPrefix(strings.TrimSpace(rawQuery), "?")
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
