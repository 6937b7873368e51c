package grpc

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer builds a gRPC server with tracing and user metadata extraction,
// and registers a health service that starts out SERVING.
func NewServer(opts ...gogrpc.ServerOption) (*gogrpc.Server, *health.Server) {
	base := []gogrpc.ServerOption{
		gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
		gogrpc.ChainUnaryInterceptor(UserIDUnaryServerInterceptor()),
	}
	server := gogrpc.NewServer(append(base, opts...)...)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	return server, healthServer
}
