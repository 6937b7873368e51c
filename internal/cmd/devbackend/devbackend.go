// Package devbackend parses development backend flags and launches it.
package devbackend

import (
	"context"
	"crypto/ed25519"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	entrypoint "github.com/okito/dashboard/internal/platform/cmd"
	"github.com/okito/dashboard/internal/platform/sessiontoken"
	"github.com/okito/dashboard/internal/services/backend"
)

// Config holds development backend configuration.
type Config struct {
	GRPCAddr          string `env:"OKITO_BACKEND_GRPC_ADDR" envDefault:"localhost:9090"`
	SeedEvents        int    `env:"OKITO_BACKEND_SEED_EVENTS" envDefault:"48"`
	SeedSource        uint64 `env:"OKITO_BACKEND_SEED_SOURCE" envDefault:"1"`
	SessionPrivateKey string `env:"OKITO_BACKEND_SESSION_PRIVATE_KEY"`
	SessionIssuer     string `env:"OKITO_BACKEND_SESSION_ISSUER" envDefault:"okito"`
	DevUser           string `env:"OKITO_BACKEND_DEV_USER" envDefault:"dev-user"`
	EmptyUser         string `env:"OKITO_BACKEND_EMPTY_USER"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.Load(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	if cfg.SeedEvents < 0 {
		return Config{}, fmt.Errorf("seed events must be >= 0, got %d", cfg.SeedEvents)
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC listen address")
	fs.IntVar(&cfg.SeedEvents, "seed-events", cfg.SeedEvents, "events seeded per project")
	fs.StringVar(&cfg.DevUser, "dev-user", cfg.DevUser, "user a development session token is issued for")
	fs.StringVar(&cfg.EmptyUser, "empty-user", cfg.EmptyUser, "user that sees no projects")
}

// Run starts the development backend.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBackend, func(ctx context.Context) error {
		if strings.TrimSpace(cfg.SessionPrivateKey) != "" {
			token, err := issueDevToken(cfg, time.Now)
			if err != nil {
				return err
			}
			log.Printf("development session for %s (cookie okito_session): %s", cfg.DevUser, token)
		}
		opts := []backend.Option{}
		if cfg.EmptyUser != "" {
			opts = append(opts, backend.WithEmptyUser(cfg.EmptyUser))
		}
		service := backend.New(backend.Seed{EventsPerProject: cfg.SeedEvents, Source: cfg.SeedSource}, opts...)
		return backend.Run(ctx, cfg.GRPCAddr, service)
	})
}

// issueDevToken signs a session for the development user. The key is a
// base64 Ed25519 seed or full private key.
func issueDevToken(cfg Config, now func() time.Time) (string, error) {
	raw, err := sessiontoken.DecodeKey(cfg.SessionPrivateKey)
	if err != nil {
		return "", fmt.Errorf("decode session private key: %w", err)
	}
	var key ed25519.PrivateKey
	switch len(raw) {
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(raw)
	case ed25519.PrivateKeySize:
		key = ed25519.PrivateKey(raw)
	default:
		return "", fmt.Errorf("session private key must be %d or %d bytes", ed25519.SeedSize, ed25519.PrivateKeySize)
	}
	issuer := &sessiontoken.Issuer{Name: cfg.SessionIssuer, Key: key, TTL: 7 * 24 * time.Hour, Now: now}
	return issuer.Issue(cfg.DevUser, "Developer", cfg.DevUser+"@okito.local")
}
