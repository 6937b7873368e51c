// Package errors provides coded domain errors and their gRPC mapping.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Wallet verification errors
	CodeWalletNotConnected       Code = "WALLET_NOT_CONNECTED"
	CodeWalletSigningUnsupported Code = "WALLET_SIGNING_UNSUPPORTED"
	CodeWalletSigningFailed      Code = "WALLET_SIGNING_FAILED"
	CodeWalletPublicKeyInvalid   Code = "WALLET_PUBLIC_KEY_INVALID"
	CodeNonceInvalid             Code = "NONCE_INVALID"
	CodeNonceExpired             Code = "NONCE_EXPIRED"
	CodeSignatureInvalid         Code = "SIGNATURE_INVALID"

	// Preference errors
	CodePreferenceInvalid Code = "PREFERENCE_INVALID"

	// Request errors
	CodeProjectIDRequired Code = "PROJECT_ID_REQUIRED"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodePermissionDenied  Code = "PERMISSION_DENIED"

	// Storage and transport errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeRPCUnavailable Code = "RPC_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeWalletNotConnected,
		CodeWalletSigningUnsupported,
		CodeWalletPublicKeyInvalid,
		CodePreferenceInvalid,
		CodeProjectIDRequired,
		CodeInvalidArgument,
		CodeNonceInvalid,
		CodeSignatureInvalid:
		return codes.InvalidArgument

	case CodeNonceExpired:
		return codes.FailedPrecondition

	case CodeWalletSigningFailed:
		return codes.Aborted

	case CodeUnauthenticated:
		return codes.Unauthenticated

	case CodePermissionDenied:
		return codes.PermissionDenied

	case CodeNotFound:
		return codes.NotFound

	case CodeRPCUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}

// codeForStatus picks a fallback domain code for statuses without ErrorInfo.
func codeForStatus(code codes.Code) Code {
	switch code {
	case codes.InvalidArgument:
		return CodeInvalidArgument
	case codes.NotFound:
		return CodeNotFound
	case codes.Unauthenticated:
		return CodeUnauthenticated
	case codes.PermissionDenied:
		return CodePermissionDenied
	case codes.Unavailable, codes.DeadlineExceeded:
		return CodeRPCUnavailable
	default:
		return CodeUnknown
	}
}
