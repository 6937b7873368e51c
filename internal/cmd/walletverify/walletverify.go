// Package walletverify runs the wallet ownership handshake from the command
// line with a local key, against a backend.
package walletverify

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	entrypoint "github.com/okito/dashboard/internal/platform/cmd"
	platformgrpc "github.com/okito/dashboard/internal/platform/grpc"
	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/platform/timeouts"
	"github.com/okito/dashboard/internal/platform/walletkey"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/wallet"
)

// Config holds wallet verification command configuration.
type Config struct {
	BackendAddr string `env:"OKITO_WALLETVERIFY_BACKEND_ADDR" envDefault:"localhost:9090"`
	UserID      string `env:"OKITO_WALLETVERIFY_USER"`
	// Secret is the base58 keypair or seed of the wallet.
	Secret   string `env:"OKITO_WALLETVERIFY_SECRET"`
	Generate bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.Load(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.UserID) == "" {
		return Config{}, errors.New("user is required")
	}
	if !cfg.Generate && strings.TrimSpace(cfg.Secret) == "" {
		return Config{}, errors.New("OKITO_WALLETVERIFY_SECRET is required unless -generate is set")
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.BackendAddr, "backend-addr", cfg.BackendAddr, "payments backend gRPC address")
	fs.StringVar(&cfg.UserID, "user", cfg.UserID, "user the wallet is verified for")
	fs.BoolVar(&cfg.Generate, "generate", false, "generate a new wallet key instead of reading the secret")
}

// Run verifies the wallet and reports the outcome on out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWalletVerify, func(ctx context.Context) error {
		signer, err := loadSigner(cfg)
		if err != nil {
			return err
		}
		if cfg.Generate {
			fmt.Fprintf(out, "secret: %s\n", signer.Secret())
		}

		logf := func(format string, args ...any) {
			log.Printf("walletverify backend %s", fmt.Sprintf(format, args...))
		}
		conn, err := platformgrpc.DialWithHealth(ctx, nil, cfg.BackendAddr, timeouts.GRPCDial, logf, platformgrpc.DefaultClientDialOptions()...)
		if err != nil {
			return fmt.Errorf("dial backend: %w", err)
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Printf("close backend connection: %v", err)
			}
		}()

		return verify(requestctx.WithUserID(ctx, cfg.UserID), rpc.NewClient(conn), signer, out)
	})
}

func loadSigner(cfg Config) (*walletkey.KeySigner, error) {
	if cfg.Generate {
		return walletkey.GenerateKeySigner(rand.Reader)
	}
	return walletkey.ParseKeySigner(cfg.Secret)
}

// verify runs one handshake and prints the wallet, the challenge and the
// result.
func verify(ctx context.Context, backend wallet.Backend, signer *walletkey.KeySigner, out io.Writer) error {
	flow := wallet.NewFlow(backend)
	fmt.Fprintf(out, "wallet: %s\n", signer.PublicKey())
	err := flow.Verify(ctx, wallet.Connection{Connected: true, PublicKey: signer.PublicKey(), Signer: signer})
	if session := flow.Session(); session.Message != "" {
		fmt.Fprintf(out, "challenge issued at %s\n", time.UnixMilli(session.Timestamp).UTC().Format(time.RFC3339))
	}
	if err != nil {
		return fmt.Errorf("verify wallet: %w", err)
	}
	fmt.Fprintf(out, "status: %s\n", flow.State())
	return nil
}
