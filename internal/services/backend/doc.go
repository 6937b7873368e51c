// Package backend serves an in-memory rendition of the payments backend
// contract. It seeds projects, events, tokens and webhooks, and runs the
// wallet nonce handshake with real signature checks so the dashboard can be
// exercised end to end without the production services.
package backend
