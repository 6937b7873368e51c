// Package grpc holds gRPC dial, health and server helpers shared by the
// dashboard and the development backend.
package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DialFunc opens a client connection. grpc.NewClient satisfies it.
type DialFunc func(target string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialStage names the step of DialWithHealth that failed.
type DialStage string

const (
	DialStageConnect DialStage = "connect"
	DialStageHealth  DialStage = "health"
)

// DialError reports which stage failed for which address.
type DialError struct {
	Stage DialStage
	Addr  string
	Err   error
}

func (e *DialError) Error() string {
	if e == nil {
		return "backend dial failed"
	}
	return fmt.Sprintf("backend %s %s: %v", e.Stage, e.Addr, e.Err)
}

func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DefaultClientDialOptions returns the dial options every backend client
// uses: plaintext transport, OTel stats and signed-in user propagation.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		gogrpc.WithChainUnaryInterceptor(UserIDUnaryClientInterceptor()),
	}
}

// DialWithHealth connects to addr and waits for its health service to report
// SERVING within timeout. A nil dial uses grpc.NewClient. The connection is
// closed when the health wait fails.
func DialWithHealth(ctx context.Context, dial DialFunc, addr string, timeout time.Duration, logf func(string, ...any), opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if dial == nil {
		dial = gogrpc.NewClient
	}
	conn, err := dial(addr, opts...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Addr: addr, Err: err}
	}

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := WaitForHealth(waitCtx, conn, "", logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageHealth, Addr: addr, Err: err}
	}
	return conn, nil
}
