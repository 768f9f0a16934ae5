// Package static embeds the console's stylesheet and scripts.
package static

import "embed"

//go:embed app.css stream.js
var FS embed.FS
