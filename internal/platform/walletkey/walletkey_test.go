package walletkey

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer, err := GenerateKeySigner(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeySigner() error = %v", err)
	}
	msg := []byte("Sign this message to verify your wallet: nonce-1")
	sig, err := signer.SignMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("SignMessage() error = %v", err)
	}
	if err := Verify(signer.PublicKey(), msg, sig); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if err := Verify(signer.PublicKey(), []byte("other"), sig); !apperrors.IsCode(err, apperrors.CodeSignatureInvalid) {
		t.Fatalf("Verify(other) error = %v, want %s", err, apperrors.CodeSignatureInvalid)
	}
	if err := Verify(signer.PublicKey(), msg, sig[:10]); !apperrors.IsCode(err, apperrors.CodeSignatureInvalid) {
		t.Fatalf("Verify(short) error = %v, want %s", err, apperrors.CodeSignatureInvalid)
	}
}

func TestParsePublicKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "empty", value: " "},
		{name: "not base58", value: "0OIl"},
		{name: "wrong size", value: base58.Encode([]byte("short"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParsePublicKey(tt.value); !apperrors.IsCode(err, apperrors.CodeWalletPublicKeyInvalid) {
				t.Fatalf("ParsePublicKey() error = %v, want %s", err, apperrors.CodeWalletPublicKeyInvalid)
			}
		})
	}
}

func TestParseKeySigner(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	fromPair, err := ParseKeySigner(base58.Encode(priv))
	if err != nil {
		t.Fatalf("ParseKeySigner(keypair) error = %v", err)
	}
	fromSeed, err := ParseKeySigner(base58.Encode(priv.Seed()))
	if err != nil {
		t.Fatalf("ParseKeySigner(seed) error = %v", err)
	}
	want := EncodePublicKey(pub)
	if fromPair.PublicKey() != want || fromSeed.PublicKey() != want {
		t.Fatalf("PublicKey() = %q/%q, want %q", fromPair.PublicKey(), fromSeed.PublicKey(), want)
	}
	decoded, err := base58.Decode(fromPair.Secret())
	if err != nil || !bytes.Equal(decoded, priv) {
		t.Fatalf("Secret() does not round trip: %v", err)
	}
	if _, err := ParseKeySigner(base58.Encode([]byte{1, 2, 3})); err == nil {
		t.Fatal("ParseKeySigner(short) error = nil, want error")
	}
}

func TestSignMessageHonorsContext(t *testing.T) {
	t.Parallel()

	signer, err := GenerateKeySigner(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeySigner() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := signer.SignMessage(ctx, []byte("m")); err == nil {
		t.Fatal("SignMessage() error = nil, want context error")
	}
}
