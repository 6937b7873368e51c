package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthPolicy paces health probes while a backend starts.
type HealthPolicy struct {
	ProbeTimeout time.Duration
	FirstDelay   time.Duration
	MaxDelay     time.Duration
}

// DefaultHealthPolicy probes every 200ms at first and backs off to one second.
var DefaultHealthPolicy = HealthPolicy{
	ProbeTimeout: time.Second,
	FirstDelay:   200 * time.Millisecond,
	MaxDelay:     time.Second,
}

// WaitForHealth blocks until service reports SERVING on conn or ctx ends.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return errors.New("backend connection is not configured")
	}
	return DefaultHealthPolicy.Wait(ctx, grpc_health_v1.NewHealthClient(conn), service, logf)
}

// Wait polls client until service is SERVING.
func (p HealthPolicy) Wait(ctx context.Context, client grpc_health_v1.HealthClient, service string, logf func(string, ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	delay := max(p.FirstDelay, 10*time.Millisecond)
	for attempt := 1; ; attempt++ {
		status, err := p.probe(ctx, client, service)
		switch {
		case err != nil:
			logf("health probe %d: %v", attempt, err)
		case status == grpc_health_v1.HealthCheckResponse_SERVING:
			logf("health is SERVING after %d probe(s)", attempt)
			return nil
		default:
			logf("health probe %d: status %s", attempt, status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for backend health: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
		if p.MaxDelay > 0 {
			delay = min(delay, p.MaxDelay)
		}
	}
}

func (p HealthPolicy) probe(ctx context.Context, client grpc_health_v1.HealthClient, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	if p.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.ProbeTimeout)
		defer cancel()
	}
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
