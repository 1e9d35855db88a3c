// Package web embeds the page templates and static assets served by
// internal/http.
package web

import "embed"

// TemplatesFS holds layout.html plus one template file per page.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css/images).
//
//go:embed static/*
var StaticFS embed.FS
