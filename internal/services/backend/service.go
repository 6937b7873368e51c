package backend

import (
	"context"
	"crypto/rand"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/rpc"
)

// defaultNonceTTL bounds how long an issued wallet challenge can be confirmed.
const defaultNonceTTL = 5 * time.Minute

// projectRecord is one seeded project and the tables that hang off it.
type projectRecord struct {
	details  rpc.ProjectDetails
	events   []rpc.Event
	tokens   []rpc.APIToken
	webhooks []rpc.Webhook
}

// Service implements rpc.Backend over seeded in-memory data.
type Service struct {
	now      func() time.Time
	random   io.Reader
	nonceTTL time.Duration

	mu       sync.Mutex
	order    []string
	projects map[string]*projectRecord
	// emptyUsers see no projects, which drives the onboarding page.
	emptyUsers map[string]bool
	nonces     map[string]pendingNonce
	wallets    map[string]string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandom overrides the entropy source for nonces.
func WithRandom(r io.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.random = r
		}
	}
}

// WithNonceTTL sets how long an issued challenge stays valid.
func WithNonceTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.nonceTTL = ttl
		}
	}
}

// WithEmptyUser makes userID see an empty project list.
func WithEmptyUser(userID string) Option {
	return func(s *Service) {
		if userID = strings.TrimSpace(userID); userID != "" {
			s.emptyUsers[userID] = true
		}
	}
}

// New builds a service seeded by seed.
func New(seed Seed, opts ...Option) *Service {
	s := &Service{
		now:        time.Now,
		random:     rand.Reader,
		nonceTTL:   defaultNonceTTL,
		projects:   map[string]*projectRecord{},
		emptyUsers: map[string]bool{},
		nonces:     map[string]pendingNonce{},
		wallets:    map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, record := range seed.build(s.now().UTC()) {
		s.order = append(s.order, record.details.ID)
		s.projects[record.details.ID] = record
	}
	return s
}

func userOf(ctx context.Context) string {
	return requestctx.UserIDFromContext(ctx)
}

// project returns the record for id as visible to the calling user.
// Callers hold s.mu.
func (s *Service) project(ctx context.Context, id string) (*projectRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.CodeProjectIDRequired, "project id is required")
	}
	record, ok := s.projects[id]
	if !ok || s.emptyUsers[userOf(ctx)] {
		return nil, apperrors.New(apperrors.CodeNotFound, "project not found")
	}
	return record, nil
}

// ListEvents returns the events of a project, newest first.
func (s *Service) ListEvents(ctx context.Context, projectID string) ([]rpc.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(record.events), nil
}

// GetProjectDetails describes a project, including the caller's wallet.
func (s *Service) GetProjectDetails(ctx context.Context, id string) (rpc.ProjectDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.project(ctx, id)
	if err != nil {
		return rpc.ProjectDetails{}, err
	}
	details := record.details
	details.TokenCount = len(record.tokens)
	details.WebhookCount = len(record.webhooks)
	if address, ok := s.wallets[userOf(ctx)]; ok {
		details.WalletAddress = address
		details.WalletVerified = true
	}
	return details, nil
}

// ListProjects lists the projects the caller can switch between.
func (s *Service) ListProjects(ctx context.Context) ([]rpc.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emptyUsers[userOf(ctx)] {
		return []rpc.Project{}, nil
	}
	projects := make([]rpc.Project, 0, len(s.order))
	for _, id := range s.order {
		details := s.projects[id].details
		projects = append(projects, rpc.Project{ID: details.ID, Name: details.Name})
	}
	return projects, nil
}

// ListAPITokens lists the API tokens of a project.
func (s *Service) ListAPITokens(ctx context.Context, projectID string) ([]rpc.APIToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(record.tokens), nil
}

// ListWebhooks lists the webhooks of a project.
func (s *Service) ListWebhooks(ctx context.Context, projectID string) ([]rpc.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(record.webhooks), nil
}

var _ rpc.Backend = (*Service)(nil)
