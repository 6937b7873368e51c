// Package wallet runs the wallet ownership handshake: request a nonce, sign
// the returned message, confirm the signature.
package wallet

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/rpc"
)

// State is the progress of one verification.
type State int

const (
	StateIdle State = iota
	StateNonceRequested
	StateSigned
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNonceRequested:
		return "nonce_requested"
	case StateSigned:
		return "signed"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Precondition and signing failures. Compare with errors.Is.
var (
	ErrWalletNotConnected = apperrors.New(apperrors.CodeWalletNotConnected, "please connect your wallet first")
	ErrSigningUnsupported = apperrors.New(apperrors.CodeWalletSigningUnsupported, "your wallet does not support message signing, please use a compatible wallet")
	ErrSigningFailed      = apperrors.New(apperrors.CodeWalletSigningFailed, "message signing was cancelled or failed")
)

// Signer signs raw message bytes.
type Signer interface {
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

// Connection is the wallet as seen by the flow. A nil Signer means the
// wallet cannot sign messages.
type Connection struct {
	Connected bool
	PublicKey string
	Signer    Signer
}

// Backend issues and confirms challenges.
type Backend interface {
	GetWalletNonce(ctx context.Context, publicKey string) (rpc.WalletNonce, error)
	ConfirmWallet(ctx context.Context, req rpc.ConfirmWalletRequest) (bool, error)
}

// Flow verifies wallet ownership. It never retries; each Verify starts over
// with a fresh nonce.
type Flow struct {
	backend   Backend
	onSuccess func()
	onError   func(error)

	mu              sync.Mutex
	state           State
	nonceInFlight   bool
	confirmInFlight bool
	nonceErr        error
	confirmErr      error
	session         rpc.WalletNonce
}

// Option configures a Flow.
type Option func(*Flow)

// OnSuccess registers a callback run after a confirmed verification.
func OnSuccess(fn func()) Option {
	return func(f *Flow) { f.onSuccess = fn }
}

// OnError registers a callback run when confirmation fails.
func OnError(fn func(error)) Option {
	return func(f *Flow) { f.onError = fn }
}

// NewFlow returns an idle flow.
func NewFlow(backend Backend, opts ...Option) *Flow {
	f := &Flow{backend: backend}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Verify runs the full handshake for conn. Precondition failures return
// before any backend call and leave the flow idle.
func (f *Flow) Verify(ctx context.Context, conn Connection) error {
	publicKey := strings.TrimSpace(conn.PublicKey)
	if !conn.Connected || publicKey == "" {
		return ErrWalletNotConnected
	}
	if conn.Signer == nil {
		return ErrSigningUnsupported
	}

	f.mu.Lock()
	f.state = StateNonceRequested
	f.nonceInFlight = true
	f.nonceErr = nil
	f.confirmErr = nil
	f.session = rpc.WalletNonce{}
	f.mu.Unlock()

	nonce, err := f.backend.GetWalletNonce(ctx, publicKey)
	f.mu.Lock()
	f.nonceInFlight = false
	if err != nil {
		f.nonceErr = err
		f.state = StateFailed
		f.mu.Unlock()
		return err
	}
	f.session = nonce
	f.mu.Unlock()

	sig, err := conn.Signer.SignMessage(ctx, []byte(nonce.Message))
	if err != nil {
		f.setState(StateFailed)
		return apperrors.Wrap(apperrors.CodeWalletSigningFailed, ErrSigningFailed.Message, err)
	}

	f.mu.Lock()
	f.state = StateSigned
	f.confirmInFlight = true
	f.mu.Unlock()

	ok, err := f.backend.ConfirmWallet(ctx, rpc.ConfirmWalletRequest{
		PublicKey: publicKey,
		Signature: rpc.EncodeSignature(sig),
		Timestamp: nonce.Timestamp,
	})
	if err == nil && !ok {
		err = apperrors.New(apperrors.CodeSignatureInvalid, "wallet confirmation was rejected")
	}

	f.mu.Lock()
	f.confirmInFlight = false
	if err != nil {
		f.confirmErr = err
		f.state = StateFailed
	} else {
		f.state = StateConfirmed
	}
	f.mu.Unlock()

	if err != nil {
		if f.onError != nil {
			f.onError(err)
		}
		return err
	}
	if f.onSuccess != nil {
		f.onSuccess()
	}
	return nil
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// IsLoading reports whether the nonce or confirm call is in flight.
func (f *Flow) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonceInFlight || f.confirmInFlight
}

// IsSuccess reports whether the last verification was confirmed.
func (f *Flow) IsSuccess() bool {
	return f.State() == StateConfirmed
}

// Err returns the nonce error if any, else the confirm error.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nonceErr != nil {
		return f.nonceErr
	}
	return f.confirmErr
}

// Session returns the challenge issued by the last nonce step.
func (f *Flow) Session() rpc.WalletNonce {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}
