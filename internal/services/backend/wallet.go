package backend

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/platform/walletkey"
	"github.com/okito/dashboard/internal/rpc"
)

// nonceBytes is the entropy carried by each challenge.
const nonceBytes = 16

// pendingNonce is an issued challenge awaiting its signature.
type pendingNonce struct {
	message   string
	timestamp int64
}

func nonceKey(userID, publicKey string) string {
	return userID + "|" + publicKey
}

// challengeMessage is the exact text the wallet signs.
func challengeMessage(publicKey, nonce string, timestamp int64) string {
	return fmt.Sprintf("Okito wants you to verify ownership of wallet %s.\n\nNonce: %s\nIssued At: %d", publicKey, nonce, timestamp)
}

// GetWalletNonce issues a challenge for publicKey. A new challenge replaces
// any pending one for the same user and key.
func (s *Service) GetWalletNonce(ctx context.Context, publicKey string) (rpc.WalletNonce, error) {
	publicKey = strings.TrimSpace(publicKey)
	if _, err := walletkey.ParsePublicKey(publicKey); err != nil {
		return rpc.WalletNonce{}, err
	}
	raw := make([]byte, nonceBytes)
	if _, err := io.ReadFull(s.random, raw); err != nil {
		return rpc.WalletNonce{}, fmt.Errorf("generate nonce: %w", err)
	}
	timestamp := s.now().UnixMilli()
	message := challengeMessage(publicKey, hex.EncodeToString(raw), timestamp)

	s.mu.Lock()
	s.nonces[nonceKey(userOf(ctx), publicKey)] = pendingNonce{message: message, timestamp: timestamp}
	s.mu.Unlock()
	return rpc.WalletNonce{Message: message, Timestamp: timestamp}, nil
}

// ConfirmWallet checks a signed challenge. The challenge is consumed by the
// first confirm attempt whatever its outcome. A signature that does not
// verify reports false; a missing, mismatched or expired challenge is an
// error.
func (s *Service) ConfirmWallet(ctx context.Context, req rpc.ConfirmWalletRequest) (bool, error) {
	publicKey := strings.TrimSpace(req.PublicKey)
	if _, err := walletkey.ParsePublicKey(publicKey); err != nil {
		return false, err
	}
	sig, err := rpc.DecodeSignature(req.Signature)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeSignatureInvalid, "signature is malformed", err)
	}

	userID := userOf(ctx)
	key := nonceKey(userID, publicKey)
	s.mu.Lock()
	pending, ok := s.nonces[key]
	delete(s.nonces, key)
	s.mu.Unlock()

	if !ok || pending.timestamp != req.Timestamp {
		return false, apperrors.New(apperrors.CodeNonceInvalid, "no matching challenge was issued")
	}
	if s.now().UnixMilli()-pending.timestamp > s.nonceTTL.Milliseconds() {
		return false, apperrors.New(apperrors.CodeNonceExpired, "challenge has expired")
	}
	if err := walletkey.Verify(publicKey, []byte(pending.message), sig); err != nil {
		return false, nil
	}

	s.mu.Lock()
	s.wallets[userID] = publicKey
	s.mu.Unlock()
	return true, nil
}
