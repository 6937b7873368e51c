package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	platformgrpc "github.com/okito/dashboard/internal/platform/grpc"
	"github.com/okito/dashboard/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the backend contract over gRPC.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer listens on addr and registers every contract service.
func NewServer(addr string, service rpc.Backend) (*Server, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("grpc address is required")
	}
	if service == nil {
		return nil, errors.New("backend service is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return newServer(listener, service), nil
}

func newServer(listener net.Listener, service rpc.Backend) *Server {
	grpcServer, healthServer := platformgrpc.NewServer()
	rpc.Register(grpcServer, service)
	for _, name := range []string{rpc.EventServiceName, rpc.AnalyticsServiceName, rpc.ProjectServiceName, rpc.UserServiceName} {
		healthServer.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	return &Server{listener: listener, grpcServer: grpcServer, health: healthServer}
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve blocks until the server stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("backend server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log.Printf("backend listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// Run creates and serves a backend until the context ends.
func Run(ctx context.Context, addr string, service rpc.Backend) error {
	server, err := NewServer(addr, service)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
