// Package dashboard parses dashboard command flags and launches the service.
package dashboard

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/okito/dashboard/internal/platform/cmd"
	"github.com/okito/dashboard/internal/services/dashboard"
)

// Config holds dashboard command configuration.
type Config struct {
	HTTPAddr            string        `env:"OKITO_DASHBOARD_HTTP_ADDR" envDefault:":8080"`
	BackendAddr         string        `env:"OKITO_DASHBOARD_BACKEND_ADDR" envDefault:"localhost:9090"`
	DBPath              string        `env:"OKITO_DASHBOARD_DB_PATH" envDefault:"data/dashboard.db"`
	SessionPublicKey    string        `env:"OKITO_DASHBOARD_SESSION_PUBLIC_KEY"`
	SessionIssuer       string        `env:"OKITO_DASHBOARD_SESSION_ISSUER" envDefault:"okito"`
	SignInURL           string        `env:"OKITO_DASHBOARD_SIGNIN_URL" envDefault:"/signin"`
	TrustForwardedProto bool          `env:"OKITO_DASHBOARD_TRUST_FORWARDED_PROTO"`
	GRPCDialTimeout     time.Duration `env:"OKITO_DASHBOARD_GRPC_DIAL_TIMEOUT" envDefault:"2s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.Load(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendAddr, "backend-addr", cfg.BackendAddr, "payments backend gRPC address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the dashboard sqlite database")
	fs.StringVar(&cfg.SignInURL, "signin-url", cfg.SignInURL, "where unauthenticated users are sent")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "honor X-Forwarded-Proto from a TLS proxy")
}

// Run starts the dashboard HTTP server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, func(ctx context.Context) error {
		server, err := dashboard.NewServer(ctx, dashboard.Config{
			HTTPAddr:            cfg.HTTPAddr,
			BackendAddr:         cfg.BackendAddr,
			DBPath:              cfg.DBPath,
			GRPCDialTimeout:     cfg.GRPCDialTimeout,
			SessionPublicKey:    cfg.SessionPublicKey,
			SessionIssuer:       cfg.SessionIssuer,
			SignInURL:           cfg.SignInURL,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init dashboard server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve dashboard: %w", err)
		}
		return nil
	})
}
