// Package storage declares persistence interfaces for dashboard-owned data.
//
// The dashboard only persists UI preferences and derived query payloads. Both
// can be discarded and rebuilt; the payments backend stays the source of truth.
package storage
