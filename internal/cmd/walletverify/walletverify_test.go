package walletverify

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/platform/walletkey"
	"github.com/okito/dashboard/internal/services/backend"
)

func TestParseConfigRequiresUser(t *testing.T) {
	fs := flag.NewFlagSet("walletverify", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-generate"}); err == nil {
		t.Fatal("expected error without user")
	}
}

func TestParseConfigRequiresSecretUnlessGenerating(t *testing.T) {
	fs := flag.NewFlagSet("walletverify", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-user", "user-1"}); err == nil {
		t.Fatal("expected error without secret")
	}

	t.Setenv("OKITO_WALLETVERIFY_SECRET", "secret")
	fs = flag.NewFlagSet("walletverify", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-user", "user-1", "-backend-addr", "flag-backend"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.BackendAddr != "flag-backend" || cfg.Secret != "secret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestVerifyAgainstBackend(t *testing.T) {
	signer, err := walletkey.GenerateKeySigner(nil)
	if err != nil {
		t.Fatalf("GenerateKeySigner() error = %v", err)
	}
	svc := backend.New(backend.Seed{})
	ctx := requestctx.WithUserID(context.Background(), "user-1")

	var out bytes.Buffer
	if err := verify(ctx, svc, signer, &out); err != nil {
		t.Fatalf("verify() error = %v", err)
	}
	for _, want := range []string{"wallet: " + signer.PublicKey(), "challenge issued at", "status: confirmed"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output %q missing %q", out.String(), want)
		}
	}
}

func TestLoadSignerParsesSecret(t *testing.T) {
	original, err := walletkey.GenerateKeySigner(nil)
	if err != nil {
		t.Fatalf("GenerateKeySigner() error = %v", err)
	}
	signer, err := loadSigner(Config{Secret: original.Secret()})
	if err != nil {
		t.Fatalf("loadSigner() error = %v", err)
	}
	if signer.PublicKey() != original.PublicKey() {
		t.Fatalf("PublicKey() = %q, want %q", signer.PublicKey(), original.PublicKey())
	}
}
