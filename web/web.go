// Package web holds the embedded HTML templates for the browser-facing pages.
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes the named template into w.
func Render(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return errors.Wrapf(err, "rendering template %s", name)
	}

	return nil
}
