// Package static embeds the dashboard's stylesheet and wallet script.
package static

import "embed"

// FS exposes dashboard static assets for HTTP serving.
//
//go:embed *.css *.js
var FS embed.FS
