package app

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

// TemplateRenderer renders the dashboard pages from an fs.FS holding
// templates/layouts, templates/partials and one directory per module.
//
// Layouts and partials form a shared base set. Every other .html file is a
// page, compiled into its own clone of the base so that pages can define the
// "title" and "content" blocks without clashing. Pages are looked up by their
// path under templates/, e.g. "leads/list.html".
//
// With debug set the set is recompiled on each render, so edits under web/
// show up without a restart.
type TemplateRenderer struct {
	fs      fs.FS
	funcMap template.FuncMap
	debug   bool
	pages   map[string]*template.Template
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer compiles every page in fsys. In debug mode compilation
// is deferred to Instance.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{fs: fsys, funcMap: templateFuncMap(), debug: debug}
	if debug {
		return r, nil
	}
	pages, err := r.compile()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.pages = pages
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	pages := r.pages
	if r.debug {
		var err error
		if pages, err = r.compile(); err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
	}
	return &HTMLInstance{Template: pages[name], Name: name, Data: data}
}

func (r *TemplateRenderer) compile() (map[string]*template.Template, error) {
	base := template.New("").Funcs(r.funcMap)
	for _, dir := range []string{"layouts", "partials"} {
		files, err := fs.Glob(r.fs, "templates/"+dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		for _, f := range files {
			if err := r.parseInto(base, f, f); err != nil {
				return nil, err
			}
		}
	}

	files, err := r.pageFiles()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", f, err)
		}
		name := strings.TrimPrefix(f, "templates/")
		if err := r.parseInto(page, name, f); err != nil {
			return nil, err
		}
		pages[name] = page
	}
	return pages, nil
}

// parseInto adds the file at path to set as a template called name.
func (r *TemplateRenderer) parseInto(set *template.Template, name, path string) error {
	content, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := set.New(name).Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// pageFiles lists every .html file under templates/ outside layouts/ and
// partials/.
func (r *TemplateRenderer) pageFiles() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == "templates/layouts" || path == "templates/partials" {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".html") {
			pages = append(pages, path)
		}
		return nil
	})
	return pages, err
}

// templateFuncMap returns the default set of template helper functions.
func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// formatDate formats a time.Time value as "YYYY-MM-DD HH:MM:SS".
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},

		// add returns the sum of two integers (useful for pagination: page + 1).
		"add": func(a, b int) int {
			return a + b
		},

		// sub returns the difference of two integers (useful for pagination: page - 1).
		"sub": func(a, b int) int {
			return a - b
		},

		// formatDay formats a time.Time value as "Mar 1, 2026".
		"formatDay": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},

		// same compares two values by their string form, so typed statuses
		// can be matched against plain strings.
		"same": func(a, b any) bool {
			return fmt.Sprint(a) == fmt.Sprint(b)
		},

		// badge returns the CSS classes for a status pill.
		"badge": func(status any) string {
			return "badge badge-" + strings.ToLower(fmt.Sprint(status))
		},
	}
}

// HTMLInstance executes one compiled page.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error
}

// Render implements render.Render. A page that failed to compile or does not
// exist is reported as an error, which gin turns into a 500.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	switch {
	case h.err != nil:
		return h.err
	case h.Template == nil:
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType implements render.Render.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	if len(w.Header().Values("Content-Type")) == 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
}
