// Package events derives the events table view: search filtering, page
// clamping, placeholder state and the URL-driven detail selection.
package events

import (
	"strings"

	"github.com/okito/dashboard/internal/rpc"
)

// PageSize is the number of rows per events page.
const PageSize = 50

// Filter keeps events whose "<id> <sessionId> <type label>" contains the
// trimmed, case-insensitive query. Metadata and amounts are not searched.
func Filter(events []rpc.Event, query string) []rpc.Event {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return events
	}
	out := make([]rpc.Event, 0, len(events))
	for _, e := range events {
		haystack := strings.ToLower(e.ID + " " + e.SessionID + " " + e.Type.Label())
		if strings.Contains(haystack, needle) {
			out = append(out, e)
		}
	}
	return out
}

// Page is one page of filtered events.
type Page struct {
	Items []rpc.Event
	// Number is the effective page, clamped into [1, TotalPages].
	Number     int
	TotalPages int
	Total      int
	// Offset is the zero-based index of the first item.
	Offset int
}

// First returns the 1-based position of the first row, or 0 when empty.
func (p Page) First() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.Offset + 1
}

// Last returns the 1-based position of the last row.
func (p Page) Last() int {
	return p.Offset + len(p.Items)
}

// HasPrevious reports whether a previous page exists.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// Numbers lists every page number for the pagination links.
func (p Page) Numbers() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Paginate slices filtered to the stored page, clamped to what exists. The
// stored page itself is never rewritten.
func Paginate(filtered []rpc.Event, storedPage int) Page {
	total := len(filtered)
	totalPages := max(1, (total+PageSize-1)/PageSize)
	number := min(max(storedPage, 1), totalPages)
	offset := (number - 1) * PageSize
	end := min(offset+PageSize, total)
	return Page{
		Items:      filtered[offset:end],
		Number:     number,
		TotalPages: totalPages,
		Total:      total,
		Offset:     offset,
	}
}
