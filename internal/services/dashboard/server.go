package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformgrpc "github.com/okito/dashboard/internal/platform/grpc"
	"github.com/okito/dashboard/internal/platform/sessiontoken"
	"github.com/okito/dashboard/internal/platform/timeouts"
	"github.com/okito/dashboard/internal/services/dashboard/platform/requestmeta"
	"github.com/okito/dashboard/internal/services/dashboard/query"
	dashboardsqlite "github.com/okito/dashboard/internal/services/dashboard/storage/sqlite"
	"google.golang.org/grpc"
)

// defaultGRPCRetryDelay sets the initial wait time between backend dial attempts.
const defaultGRPCRetryDelay = 500 * time.Millisecond

// maxGRPCRetryDelay caps the backoff between backend dial attempts.
const maxGRPCRetryDelay = 10 * time.Second

// cacheSweepInterval is how often expired persisted query payloads are removed.
const cacheSweepInterval = 10 * time.Minute

// Config defines the inputs for the dashboard process.
type Config struct {
	HTTPAddr        string
	BackendAddr     string
	DBPath          string
	GRPCDialTimeout time.Duration
	// SessionPublicKey is the base64 Ed25519 key that signs session tokens.
	SessionPublicKey string
	SessionIssuer    string
	SignInURL        string
	// TrustForwardedProto honors X-Forwarded-Proto behind a TLS proxy.
	TrustForwardedProto bool
}

// Server hosts the dashboard and owns its backend connection and store.
type Server struct {
	httpAddr    string
	backendAddr string
	clients     *backendClients
	httpServer  *http.Server
	store       *dashboardsqlite.Store
	cancel      context.CancelFunc
}

// NewServer builds a configured dashboard server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.BackendAddr) == "" {
		return nil, errors.New("backend address is required")
	}
	if config.GRPCDialTimeout <= 0 {
		config.GRPCDialTimeout = timeouts.GRPCDial
	}
	if strings.TrimSpace(config.DBPath) == "" {
		config.DBPath = filepath.Join("data", "dashboard.db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	verifier, err := sessiontoken.NewVerifier(config.SessionIssuer, config.SessionPublicKey)
	if err != nil {
		return nil, fmt.Errorf("session verifier: %w", err)
	}
	store, err := openDashboardStore(config.DBPath)
	if err != nil {
		return nil, err
	}

	serverCtx, cancel := context.WithCancel(ctx)
	clients := &backendClients{}
	conn, err := dialBackend(serverCtx, config)
	if err != nil {
		log.Printf("dashboard backend gRPC dial failed: %v", err)
		go connectBackendWithRetry(serverCtx, config, clients)
	} else {
		clients.SetConnection(conn)
	}

	cache := query.NewCache(serverCtx, query.WithPersistence(store))
	handler, err := NewHandler(HandlerConfig{
		Backend:      clients,
		Cache:        cache,
		Preferences:  store,
		Verifier:     verifier,
		SignInURL:    config.SignInURL,
		SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto},
	})
	if err != nil {
		cancel()
		clients.Close()
		_ = store.Close()
		return nil, err
	}
	go sweepExpiredCache(serverCtx, store)

	return &Server{
		httpAddr:    httpAddr,
		backendAddr: config.BackendAddr,
		clients:     clients,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			BaseContext:       func(net.Listener) context.Context { return serverCtx },
		},
		store:  store,
		cancel: cancel,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("dashboard server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("dashboard listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops background work and releases the backend connection and store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.clients != nil {
		s.clients.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close dashboard store: %v", err)
		}
	}
}

func openDashboardStore(path string) (*dashboardsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := dashboardsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dashboard sqlite store: %w", err)
	}
	return store, nil
}

// dialBackend connects to the payments backend and waits for it to report healthy.
func dialBackend(ctx context.Context, config Config) (*grpc.ClientConn, error) {
	addr := strings.TrimSpace(config.BackendAddr)
	logf := func(format string, args ...any) {
		log.Printf("dashboard backend %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(
		ctx,
		nil,
		addr,
		config.GRPCDialTimeout,
		logf,
		platformgrpc.DefaultClientDialOptions()...,
	)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) {
			if dialErr.Stage == platformgrpc.DialStageHealth {
				return nil, fmt.Errorf("dashboard backend health check failed for %s: %w", addr, dialErr.Err)
			}
			return nil, dialErr.Err
		}
		return nil, err
	}
	return conn, nil
}

// connectBackendWithRetry keeps dialing until a connection is established or context ends.
func connectBackendWithRetry(ctx context.Context, config Config, clients *backendClients) {
	if clients == nil {
		return
	}
	retryDelay := defaultGRPCRetryDelay
	for {
		if ctx.Err() != nil {
			return
		}
		if clients.HasConnection() {
			return
		}
		conn, err := dialBackend(ctx, config)
		if err == nil {
			clients.SetConnection(conn)
			log.Printf("dashboard backend gRPC connected to %s", config.BackendAddr)
			return
		}
		log.Printf("dashboard backend gRPC dial failed: %v", err)
		timer := time.NewTimer(retryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
		retryDelay = min(retryDelay*2, maxGRPCRetryDelay)
	}
}

// sweepExpiredCache periodically drops persisted payloads past their expiry.
func sweepExpiredCache(ctx context.Context, store *dashboardsqlite.Store) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.DeleteExpiredCacheEntries(ctx, now)
			if err != nil {
				log.Printf("dashboard cache sweep: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("dashboard cache sweep removed %d entries", removed)
			}
		}
	}
}
