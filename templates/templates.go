// Package templates holds the embedded HTML the components and pages render.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed components/*.html pages/*.html
var files embed.FS

var set = template.Must(template.New("crmweb").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).ParseFS(files, "components/*.html", "pages/*.html"))

// Component renders the named template with data as a templ.Component
func Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return set.ExecuteTemplate(w, name, data)
	})
}

// Defined reports whether a template with the given name exists
func Defined(name string) bool {
	return set.Lookup(name) != nil
}
