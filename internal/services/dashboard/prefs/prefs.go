// Package prefs keeps per-table view preferences (page and sort order) and
// the selected project, persisting the full set on every change.
package prefs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
)

// StorageKey is the base key the preference set is stored under.
const StorageKey = "table-state-storage"

// KeyForUser scopes StorageKey to one signed-in user.
func KeyForUser(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return StorageKey
	}
	return StorageKey + ":" + userID
}

// Table identifies a preference-backed table.
type Table string

const (
	TableTokens   Table = "tokens"
	TableWebhooks Table = "webhooks"
	TableEvents   Table = "events"
)

// Tables lists every known table.
var Tables = []Table{TableTokens, TableWebhooks, TableEvents}

// ParseTable validates a table id.
func ParseTable(value string) (Table, error) {
	table := Table(strings.TrimSpace(value))
	switch table {
	case TableTokens, TableWebhooks, TableEvents:
		return table, nil
	}
	return "", invalid("table", value)
}

// SortField is a sortable column.
type SortField string

const (
	SortEnvironment  SortField = "environment"
	SortCreatedAt    SortField = "createdAt"
	SortLastUsedAt   SortField = "lastUsedAt"
	SortStatus       SortField = "status"
	SortRequestCount SortField = "requestCount"
	SortURL          SortField = "url"
	SortDescription  SortField = "description"
)

// ParseSortField validates a sort field.
func ParseSortField(value string) (SortField, error) {
	field := SortField(strings.TrimSpace(value))
	switch field {
	case SortEnvironment, SortCreatedAt, SortLastUsedAt, SortStatus, SortRequestCount, SortURL, SortDescription:
		return field, nil
	}
	return "", invalid("sortField", value)
}

// SortDirection orders a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection validates a sort direction.
func ParseSortDirection(value string) (SortDirection, error) {
	dir := SortDirection(strings.TrimSpace(value))
	switch dir {
	case SortAsc, SortDesc:
		return dir, nil
	}
	return "", invalid("sortDirection", value)
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// TablePreference is the view state of one table. Page is 1-based and is
// clamped to the available pages by readers, not here.
type TablePreference struct {
	Page          int
	SortField     SortField
	SortDirection SortDirection
}

// Default returns the preference used before any change.
func Default() TablePreference {
	return TablePreference{Page: 1, SortField: SortCreatedAt, SortDirection: SortDesc}
}

// BlobStore persists the serialized preference set.
type BlobStore interface {
	GetPreferences(ctx context.Context, key string) ([]byte, bool, error)
	PutPreferences(ctx context.Context, key string, blob []byte) error
}

type state struct {
	tables            map[Table]TablePreference
	selectedProjectID string
}

func defaultState() state {
	tables := make(map[Table]TablePreference, len(Tables))
	for _, table := range Tables {
		tables[table] = Default()
	}
	return state{tables: tables}
}

func (s state) clone() state {
	tables := make(map[Table]TablePreference, len(s.tables))
	for k, v := range s.tables {
		tables[k] = v
	}
	return state{tables: tables, selectedProjectID: s.selectedProjectID}
}

// Store holds one user's preferences. Every mutation writes the whole set
// before it becomes visible; a failed write leaves the previous state.
type Store struct {
	mu    sync.Mutex
	blobs BlobStore
	key   string
	state state
}

// New loads the preference set stored under key, or defaults when nothing
// is stored yet. Unreadable or partial blobs fall back to defaults per field.
func New(ctx context.Context, blobs BlobStore, key string) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("preference blob store is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("preference key is required")
	}
	st := defaultState()
	blob, ok, err := blobs.GetPreferences(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if ok {
		st = decodeState(blob)
	}
	return &Store{blobs: blobs, key: key, state: st}, nil
}

// Key returns the storage key of this store.
func (s *Store) Key() string {
	return s.key
}

// Get returns the preference of a table. Unknown tables get defaults.
func (s *Store) Get(table Table) TablePreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pref, ok := s.state.tables[table]; ok {
		return pref
	}
	return Default()
}

// SelectedProjectID returns the persisted project selection.
func (s *Store) SelectedProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.selectedProjectID
}

// SetPage stores the current page of a table.
func (s *Store) SetPage(ctx context.Context, table Table, page int) error {
	if page < 1 {
		return invalid("page", fmt.Sprint(page))
	}
	return s.update(ctx, table, func(p *TablePreference) { p.Page = page })
}

// SetSortField stores the sort field of a table without touching the page.
func (s *Store) SetSortField(ctx context.Context, table Table, field SortField) error {
	if _, err := ParseSortField(string(field)); err != nil {
		return err
	}
	return s.update(ctx, table, func(p *TablePreference) { p.SortField = field })
}

// SetSortDirection stores the sort direction of a table.
func (s *Store) SetSortDirection(ctx context.Context, table Table, dir SortDirection) error {
	if _, err := ParseSortDirection(string(dir)); err != nil {
		return err
	}
	return s.update(ctx, table, func(p *TablePreference) { p.SortDirection = dir })
}

// ToggleSort handles a header click: the active field flips direction, a new
// field starts ascending. Both reset the page to 1.
func (s *Store) ToggleSort(ctx context.Context, table Table, field SortField) error {
	if _, err := ParseSortField(string(field)); err != nil {
		return err
	}
	return s.update(ctx, table, func(p *TablePreference) {
		if p.SortField == field {
			p.SortDirection = p.SortDirection.Flip()
		} else {
			p.SortField = field
			p.SortDirection = SortAsc
		}
		p.Page = 1
	})
}

// SelectProject stores the selected project id. Empty clears the selection.
func (s *Store) SelectProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	next.selectedProjectID = strings.TrimSpace(projectID)
	return s.commit(ctx, next)
}

func (s *Store) update(ctx context.Context, table Table, mutate func(*TablePreference)) error {
	if _, err := ParseTable(string(table)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	pref := next.tables[table]
	mutate(&pref)
	next.tables[table] = pref
	return s.commit(ctx, next)
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next state) error {
	blob, err := encodeState(next)
	if err != nil {
		return err
	}
	if err := s.blobs.PutPreferences(ctx, s.key, blob); err != nil {
		return fmt.Errorf("persist preferences: %w", err)
	}
	s.state = next
	return nil
}

func invalid(field, value string) error {
	return apperrors.WithMetadata(
		apperrors.CodePreferenceInvalid,
		fmt.Sprintf("invalid %s %q", field, value),
		map[string]string{"Field": field},
	)
}
