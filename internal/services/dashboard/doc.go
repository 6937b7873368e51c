// Package dashboard serves the payments dashboard: session-gated pages over
// the RPC backend, per-user table preferences, and the JSON relay for the
// browser wallet handshake.
package dashboard
