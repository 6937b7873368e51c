package dashboard

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/platform/walletkey"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/okito/dashboard/internal/services/dashboard/query"
	"github.com/okito/dashboard/internal/services/dashboard/wallet"
)

// maxWalletBody bounds the JSON bodies of the wallet endpoints.
const maxWalletBody = 16 << 10

type nonceRequest struct {
	PublicKey string `json:"publicKey"`
}

type nonceResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type confirmRequest struct {
	PublicKey string `json:"publicKey"`
	Signature []int  `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}

type confirmResponse struct {
	Success bool `json:"success"`
}

// handleWalletNonce relays the nonce step of the browser wallet handshake.
func (h *handler) handleWalletNonce(w http.ResponseWriter, r *http.Request) {
	var req nonceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	publicKey, err := walletPublicKey(req.PublicKey)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	nonce, err := h.backend.GetWalletNonce(r.Context(), publicKey)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, nonceResponse{Message: nonce.Message, Timestamp: nonce.Timestamp})
}

// handleWalletConfirm relays the signed challenge. A confirmed wallet
// invalidates the cached project details that show its status.
func (h *handler) handleWalletConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	publicKey, err := walletPublicKey(req.PublicKey)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	if len(req.Signature) == 0 {
		h.writeJSONError(w, r, apperrors.New(apperrors.CodeSignatureInvalid, "signature is required"))
		return
	}
	if _, err := rpc.DecodeSignature(req.Signature); err != nil {
		h.writeJSONError(w, r, apperrors.Wrap(apperrors.CodeSignatureInvalid, "signature is malformed", err))
		return
	}
	ok, err := h.backend.ConfirmWallet(ctx, rpc.ConfirmWalletRequest{
		PublicKey: publicKey,
		Signature: req.Signature,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	if !ok {
		h.writeJSONError(w, r, apperrors.New(apperrors.CodeSignatureInvalid, "wallet signature was not accepted"))
		return
	}
	h.hooks.Cache().Invalidate(userIDOf(r), query.ScopeProjectDetails)
	_ = httpx.WriteJSON(w, http.StatusOK, confirmResponse{Success: true})
}

// walletPublicKey applies the flow's connection precondition, then checks
// the key encoding before any backend call.
func walletPublicKey(raw string) (string, error) {
	publicKey := strings.TrimSpace(raw)
	if publicKey == "" {
		return "", wallet.ErrWalletNotConnected
	}
	if _, err := walletkey.ParsePublicKey(publicKey); err != nil {
		return "", err
	}
	return publicKey, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWalletBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("decode request: %v", err), err)
	}
	return nil
}

func (h *handler) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("dashboard %s %s: %v", r.Method, r.URL.Path, err)
		message = http.StatusText(status)
	}
	_ = httpx.WriteJSONError(w, status, string(apperrors.GetCode(err)), message)
}
