// Package walletkey handles Solana-style ed25519 wallet keys: base58 public
// keys, local signing and signature verification.
package walletkey

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mr-tron/base58"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
)

// ParsePublicKey decodes a base58 public key.
func ParsePublicKey(value string) (ed25519.PublicKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperrors.New(apperrors.CodeWalletPublicKeyInvalid, "public key is required")
	}
	raw, err := base58.Decode(value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeWalletPublicKeyInvalid, "public key is not base58", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, apperrors.New(apperrors.CodeWalletPublicKeyInvalid, fmt.Sprintf("public key must be %d bytes", ed25519.PublicKeySize))
	}
	return ed25519.PublicKey(raw), nil
}

// EncodePublicKey returns the base58 form of key.
func EncodePublicKey(key ed25519.PublicKey) string {
	return base58.Encode(key)
}

// Verify checks that sig signs message under the base58 public key.
func Verify(publicKey string, message, sig []byte) error {
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	if len(sig) != ed25519.SignatureSize {
		return apperrors.New(apperrors.CodeSignatureInvalid, fmt.Sprintf("signature must be %d bytes", ed25519.SignatureSize))
	}
	if !ed25519.Verify(key, message, sig) {
		return apperrors.New(apperrors.CodeSignatureInvalid, "signature does not match public key")
	}
	return nil
}

// KeySigner signs messages with a local ed25519 key.
type KeySigner struct {
	key ed25519.PrivateKey
}

// NewKeySigner wraps a private key.
func NewKeySigner(key ed25519.PrivateKey) (*KeySigner, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return &KeySigner{key: key}, nil
}

// GenerateKeySigner creates a signer with a fresh key read from rand.
func GenerateKeySigner(rand io.Reader) (*KeySigner, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("generate wallet key: %w", err)
	}
	return &KeySigner{key: priv}, nil
}

// ParseKeySigner decodes a base58 secret: either a 64-byte keypair as
// exported by Solana wallets or a 32-byte seed.
func ParseKeySigner(secret string) (*KeySigner, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("wallet secret is required")
	}
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode wallet secret: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return &KeySigner{key: ed25519.PrivateKey(raw)}, nil
	case ed25519.SeedSize:
		return &KeySigner{key: ed25519.NewKeyFromSeed(raw)}, nil
	default:
		return nil, fmt.Errorf("wallet secret must be %d or %d bytes", ed25519.PrivateKeySize, ed25519.SeedSize)
	}
}

// PublicKey returns the base58 public key.
func (s *KeySigner) PublicKey() string {
	return EncodePublicKey(s.key.Public().(ed25519.PublicKey))
}

// Secret returns the base58 64-byte keypair.
func (s *KeySigner) Secret() string {
	return base58.Encode(s.key)
}

// SignMessage signs message.
func (s *KeySigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ed25519.Sign(s.key, message), nil
}
