// Package static embeds the API documentation assets so the serverless
// build, which has no working directory of its own, can serve them.
package static

import "embed"

// FS holds openapi.html and openapi.json.
//
//go:embed openapi.html openapi.json
var FS embed.FS
