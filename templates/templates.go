// Package templates embeds the server-rendered admin pages.
// file: templates/templates.go
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every embedded page.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
