// Package templates renders the server-side admin pages. Engine satisfies fiber.Views.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"
)

//go:embed *.html
var files embed.FS

const layoutFile = "base.html"

// Engine renders each page inside the shared layout
type Engine struct {
	pages map[string]*template.Template
}

// New returns an unloaded Engine. Fiber calls Load at startup.
func New() *Engine {
	return &Engine{}
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006, 15:04")
	},
	"outOf": func(rating, max int) string {
		return fmt.Sprintf("%d / %d", rating, max)
	},
}

// Load parses every page together with the layout
func (e *Engine) Load() error {
	names, err := fs.Glob(files, "*.html")
	if err != nil {
		return err
	}

	e.pages = make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(files, layoutFile, name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		e.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return nil
}

// Render executes the named page. Layout arguments are ignored; every page uses base.html.
func (e *Engine) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if e.pages == nil {
		if err := e.Load(); err != nil {
			return err
		}
	}

	tmpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, layoutFile, data)
}
