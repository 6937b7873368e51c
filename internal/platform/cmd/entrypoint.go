// Package cmd holds the startup plumbing shared by every command.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/okito/dashboard/internal/platform/config"
	"github.com/okito/dashboard/internal/platform/otel"
)

// Service names reported as the OTel service.name.
const (
	ServiceDashboard    = "dashboard"
	ServiceBackend      = "devbackend"
	ServiceWalletVerify = "walletverify"
)

const telemetryShutdownTimeout = 5 * time.Second

// ParseConfig loads environment variables into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses args into fs. Nil args parse as empty.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// Load reads the environment into cfg, registers flags through bind using
// the environment values as defaults, then parses args so flags win.
func Load[T any](cfg *T, fs *flag.FlagSet, args []string, bind func(*flag.FlagSet, *T)) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	if bind != nil && fs != nil {
		bind(fs, cfg)
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry installs the tracer provider for service, runs run, and
// flushes spans before returning run's error.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return errors.New("service name is required")
	case run == nil:
		return errors.New("run function is required")
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer flushTelemetry(service, shutdown)
	return run(ctx)
}

func flushTelemetry(service string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("%s telemetry shutdown: %v", service, err)
	}
}
