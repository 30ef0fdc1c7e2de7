// Package render turns page views into HTML through embedded templates.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var files embed.FS

// View is the data every page template receives.
type View struct {
	Title   string
	Flashes []string
	Data    any
	Form    any
	Errors  any
	States  []string
	Genres  []string
}

// Renderer implements echo.Renderer.  Each page is parsed together with the
// shared layout and executed through it.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"has": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
}

// New parses every page under templates/pages and templates/forms.  Pages
// are addressed as "pages/home", "forms/new_venue" and so on.
func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, dir := range []string{"pages", "forms"} {
		entries, err := fs.ReadDir(files, "templates/"+dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			t, err := template.Must(layout.Clone()).ParseFS(files, path.Join("templates", dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
			}
			r.pages[dir+"/"+strings.TrimSuffix(e.Name(), ".html")] = t
		}
	}
	return r, nil
}

// Render executes the named page with data, which should be a View.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
