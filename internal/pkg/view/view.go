// Package view holds the server-rendered HTML templates. The controllers
// treat it as an opaque renderer: a template name plus a data object.
package view

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded template set. Embedding keeps rendering
// independent of the process working directory.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}

// MustTemplates parses the embedded template set and panics on failure.
// Template parse errors are programmer errors caught at startup.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
