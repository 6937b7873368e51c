package events

import (
	"net/url"
	"strings"
)

// URL parameters owned by the events page.
const (
	ParamEventID = "eventId"
	ParamQuery   = "q"
)

// OpenEventID returns the event whose detail panel is open, if any.
func OpenEventID(values url.Values) string {
	return strings.TrimSpace(values.Get(ParamEventID))
}

// ToggleEvent returns a copy of values with the selection toggled: the open
// event closes, any other event opens. Other parameters are kept.
func ToggleEvent(values url.Values, id string) url.Values {
	next := cloneValues(values)
	id = strings.TrimSpace(id)
	if id == "" || OpenEventID(values) == id {
		next.Del(ParamEventID)
		return next
	}
	next.Set(ParamEventID, id)
	return next
}

// CloseEvent returns a copy of values without a selection.
func CloseEvent(values url.Values) url.Values {
	next := cloneValues(values)
	next.Del(ParamEventID)
	return next
}

func cloneValues(values url.Values) url.Values {
	next := make(url.Values, len(values))
	for key, vals := range values {
		next[key] = append([]string(nil), vals...)
	}
	return next
}
