package dashboard

import (
	"context"
	"log"
	"sync"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/query"
	"github.com/okito/dashboard/internal/services/dashboard/wallet"
	"google.golang.org/grpc"
)

// Backend is every RPC the dashboard reads from or relays to.
type Backend interface {
	query.Backend
	wallet.Backend
}

// errBackendUnavailable is returned while the backend connection is not up.
var errBackendUnavailable = apperrors.New(apperrors.CodeRPCUnavailable, "backend is not connected")

var _ rpc.Backend = (*backendClients)(nil)

// backendClients holds the backend connection, set once the first dial
// succeeds. Calls made before that fail as unavailable.
type backendClients struct {
	mu     sync.RWMutex
	conn   *grpc.ClientConn
	client *rpc.Client
}

func (b *backendClients) current() (*rpc.Client, error) {
	if b == nil {
		return nil, errBackendUnavailable
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.client == nil {
		return nil, errBackendUnavailable
	}
	return b.client, nil
}

// HasConnection reports whether a backend connection is set.
func (b *backendClients) HasConnection() bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.conn != nil
}

// SetConnection stores conn after the first successful dial.
func (b *backendClients) SetConnection(conn *grpc.ClientConn) {
	if b == nil || conn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		return
	}
	b.conn = conn
	b.client = rpc.NewClient(conn)
}

// Close releases the backend connection.
func (b *backendClients) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			log.Printf("close dashboard backend gRPC connection: %v", err)
		}
		b.conn = nil
		b.client = nil
	}
}

func (b *backendClients) ListEvents(ctx context.Context, projectID string) ([]rpc.Event, error) {
	client, err := b.current()
	if err != nil {
		return nil, err
	}
	return client.ListEvents(ctx, projectID)
}

func (b *backendClients) GetAnalytics(ctx context.Context, projectID, period string) (rpc.AnalyticsResult, error) {
	client, err := b.current()
	if err != nil {
		return rpc.AnalyticsResult{}, err
	}
	return client.GetAnalytics(ctx, projectID, period)
}

func (b *backendClients) GetProjectDetails(ctx context.Context, id string) (rpc.ProjectDetails, error) {
	client, err := b.current()
	if err != nil {
		return rpc.ProjectDetails{}, err
	}
	return client.GetProjectDetails(ctx, id)
}

func (b *backendClients) ListProjects(ctx context.Context) ([]rpc.Project, error) {
	client, err := b.current()
	if err != nil {
		return nil, err
	}
	return client.ListProjects(ctx)
}

func (b *backendClients) ListAPITokens(ctx context.Context, projectID string) ([]rpc.APIToken, error) {
	client, err := b.current()
	if err != nil {
		return nil, err
	}
	return client.ListAPITokens(ctx, projectID)
}

func (b *backendClients) ListWebhooks(ctx context.Context, projectID string) ([]rpc.Webhook, error) {
	client, err := b.current()
	if err != nil {
		return nil, err
	}
	return client.ListWebhooks(ctx, projectID)
}

func (b *backendClients) GetWalletNonce(ctx context.Context, publicKey string) (rpc.WalletNonce, error) {
	client, err := b.current()
	if err != nil {
		return rpc.WalletNonce{}, err
	}
	return client.GetWalletNonce(ctx, publicKey)
}

func (b *backendClients) ConfirmWallet(ctx context.Context, req rpc.ConfirmWalletRequest) (bool, error) {
	client, err := b.current()
	if err != nil {
		return false, err
	}
	return client.ConfirmWallet(ctx, req)
}
