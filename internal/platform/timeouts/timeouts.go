// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the RPC backend.
const GRPCDial = 2 * time.Second

// RPCRequest caps the time allowed for a single RPC from the dashboard.
const RPCRequest = 5 * time.Second

// FirstLoad bounds how long a page render waits for a cold query before it
// renders the loading placeholder instead.
const FirstLoad = 1500 * time.Millisecond

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
