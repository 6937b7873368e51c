// Package sessiontoken verifies and issues the EdDSA session tokens handed
// out by the sign-in provider.
package sessiontoken

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
)

// Claims captures the validated identity carried by a session token.
type Claims struct {
	Issuer    string
	Subject   string
	Name      string
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Verifier validates session tokens against a provider public key.
type Verifier struct {
	Issuer string
	Key    ed25519.PublicKey
	Now    func() time.Time
}

// NewVerifier builds a verifier from a base64 encoded public key.
func NewVerifier(issuer, publicKey string) (*Verifier, error) {
	keyBytes, err := DecodeKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decode session public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("session public key must be %d bytes", ed25519.PublicKeySize)
	}
	return &Verifier{
		Issuer: strings.TrimSpace(issuer),
		Key:    ed25519.PublicKey(keyBytes),
		Now:    time.Now,
	}, nil
}

// Verify parses the token, checks the signature, expiry, and issuer, and
// requires a subject.
func (v *Verifier) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "session token is required")
	}
	if v == nil || len(v.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("session verifier is not configured")
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if v.Issuer != "" && parsed.Issuer != v.Issuer {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeUnauthenticated,
			"session issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "session exp is required")
	}
	current := now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(current) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "session is expired")
	}
	if parsed.NotBefore != nil && current.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "session not active yet")
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "session subject is required")
	}

	claims := Claims{
		Issuer:    parsed.Issuer,
		Subject:   parsed.Subject,
		Name:      parsed.Name,
		Email:     parsed.Email,
		ExpiresAt: exp,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// Issuer signs session tokens. Used by the development backend and tests.
type Issuer struct {
	Name string
	Key  ed25519.PrivateKey
	TTL  time.Duration
	Now  func() time.Time
}

// Issue signs a token for the given user.
func (i *Issuer) Issue(userID, name, email string) (string, error) {
	if i == nil || len(i.Key) != ed25519.PrivateKeySize {
		return "", errors.New("session issuer is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	ttl := i.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuedAt := now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Name,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Name:  name,
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(i.Key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeUnauthenticated, "session signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthenticated, "session alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthenticated, "session token is invalid")
}

// DecodeKey decodes raw or padded standard base64.
func DecodeKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
