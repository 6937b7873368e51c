// Package tables sorts and pages the API token and webhook tables from
// their stored preferences.
package tables

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/prefs"
)

// PageSize is the number of rows per token or webhook page.
const PageSize = 10

// Page is one clamped page of a sorted table.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	Total      int
	Offset     int
}

// HasPrevious reports whether a previous page exists.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// Numbers lists every page number.
func (p Page[T]) Numbers() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Paginate slices items to the stored page clamped into [1, totalPages].
func Paginate[T any](items []T, storedPage int) Page[T] {
	total := len(items)
	totalPages := max(1, (total+PageSize-1)/PageSize)
	number := min(max(storedPage, 1), totalPages)
	offset := (number - 1) * PageSize
	end := min(offset+PageSize, total)
	return Page[T]{
		Items:      items[offset:end],
		Number:     number,
		TotalPages: totalPages,
		Total:      total,
		Offset:     offset,
	}
}

// TokenColumns are the sortable token columns.
var TokenColumns = []prefs.SortField{
	prefs.SortEnvironment,
	prefs.SortStatus,
	prefs.SortRequestCount,
	prefs.SortCreatedAt,
	prefs.SortLastUsedAt,
}

// WebhookColumns are the sortable webhook columns.
var WebhookColumns = []prefs.SortField{
	prefs.SortURL,
	prefs.SortDescription,
	prefs.SortStatus,
	prefs.SortCreatedAt,
	prefs.SortLastUsedAt,
}

// SortTokens returns a sorted copy of tokens. Fields tokens do not carry
// sort by creation time.
func SortTokens(tokens []rpc.APIToken, pref prefs.TablePreference) []rpc.APIToken {
	out := slices.Clone(tokens)
	compare := func(a, b rpc.APIToken) int {
		switch pref.SortField {
		case prefs.SortEnvironment:
			return compareText(a.Environment, b.Environment)
		case prefs.SortStatus:
			return compareText(a.Status, b.Status)
		case prefs.SortRequestCount:
			return cmp.Compare(a.RequestCount, b.RequestCount)
		case prefs.SortLastUsedAt:
			return compareTime(a.LastUsedAt, b.LastUsedAt)
		default:
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
	}
	slices.SortStableFunc(out, directed(compare, pref.SortDirection, func(a, b rpc.APIToken) int {
		return cmp.Compare(a.ID, b.ID)
	}))
	return out
}

// SortWebhooks returns a sorted copy of webhooks. Fields webhooks do not
// carry sort by creation time.
func SortWebhooks(webhooks []rpc.Webhook, pref prefs.TablePreference) []rpc.Webhook {
	out := slices.Clone(webhooks)
	compare := func(a, b rpc.Webhook) int {
		switch pref.SortField {
		case prefs.SortURL:
			return compareText(a.URL, b.URL)
		case prefs.SortDescription:
			return compareText(a.Description, b.Description)
		case prefs.SortStatus:
			return compareText(a.Status, b.Status)
		case prefs.SortLastUsedAt:
			return compareTime(a.LastUsedAt, b.LastUsedAt)
		default:
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
	}
	slices.SortStableFunc(out, directed(compare, pref.SortDirection, func(a, b rpc.Webhook) int {
		return cmp.Compare(a.ID, b.ID)
	}))
	return out
}

// directed applies dir to compare and breaks ties with tie, ascending.
func directed[T any](compare func(a, b T) int, dir prefs.SortDirection, tie func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		c := compare(a, b)
		if dir == prefs.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return tie(a, b)
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareTime orders zero times before any set time.
func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
