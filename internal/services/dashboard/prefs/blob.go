package prefs

import (
	"encoding/json"
	"fmt"
)

// persistedState is the stored shape. Only these fields are written.
type persistedState struct {
	APITokenCurrentPage   int    `json:"apiTokenCurrentPage"`
	APITokenSortField     string `json:"apiTokenSortField"`
	APITokenSortDirection string `json:"apiTokenSortDirection"`
	WebhookCurrentPage    int    `json:"webhookCurrentPage"`
	WebhookSortField      string `json:"webhookSortField"`
	WebhookSortDirection  string `json:"webhookSortDirection"`
	EventCurrentPage      int    `json:"eventCurrentPage"`
	EventSortField        string `json:"eventSortField"`
	EventSortDirection    string `json:"eventSortDirection"`
	SelectedProjectID     string `json:"selectedProjectId,omitempty"`
}

func encodeState(st state) ([]byte, error) {
	tokens := st.tables[TableTokens]
	webhooks := st.tables[TableWebhooks]
	events := st.tables[TableEvents]
	blob, err := json.Marshal(persistedState{
		APITokenCurrentPage:   tokens.Page,
		APITokenSortField:     string(tokens.SortField),
		APITokenSortDirection: string(tokens.SortDirection),
		WebhookCurrentPage:    webhooks.Page,
		WebhookSortField:      string(webhooks.SortField),
		WebhookSortDirection:  string(webhooks.SortDirection),
		EventCurrentPage:      events.Page,
		EventSortField:        string(events.SortField),
		EventSortDirection:    string(events.SortDirection),
		SelectedProjectID:     st.selectedProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	return blob, nil
}

// decodeState never fails: each invalid or missing field keeps its default.
func decodeState(blob []byte) state {
	st := defaultState()
	var raw persistedState
	if err := json.Unmarshal(blob, &raw); err != nil {
		return st
	}
	st.tables[TableTokens] = mergePreference(raw.APITokenCurrentPage, raw.APITokenSortField, raw.APITokenSortDirection)
	st.tables[TableWebhooks] = mergePreference(raw.WebhookCurrentPage, raw.WebhookSortField, raw.WebhookSortDirection)
	st.tables[TableEvents] = mergePreference(raw.EventCurrentPage, raw.EventSortField, raw.EventSortDirection)
	st.selectedProjectID = raw.SelectedProjectID
	return st
}

func mergePreference(page int, field, dir string) TablePreference {
	pref := Default()
	if page >= 1 {
		pref.Page = page
	}
	if parsed, err := ParseSortField(field); err == nil {
		pref.SortField = parsed
	}
	if parsed, err := ParseSortDirection(dir); err == nil {
		pref.SortDirection = parsed
	}
	return pref
}
