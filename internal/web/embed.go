package web

import "embed"

// contentFS holds the page template, static assets and the about panel source.
//
//go:embed templates/*.html static/js/*.js static/css/*.css content/*.md
var contentFS embed.FS
