// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public pages and
// the admin view. It supports full-page and HTMX partial rendering,
// detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"cyberfolio/internal/markdown"
	"cyberfolio/internal/middleware"
	"cyberfolio/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string      // Page title for <title> tag
	Shell     views.Shell // Navigation, scene and footer
	CSRFToken string      // CSRF token for forms and HTMX headers
	Revision  uint64      // Store revision the page was rendered from
	Data      any         // Page-specific view
	Flashes   []Flash     // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. Each page is paired with the base layout and the shared
// partials (files starting with "_"). When devMode is true the layout
// loads unminified scripts.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"isDev":      func() bool { return devMode },
			"upper":      strings.ToUpper,
			"formatDate": views.FormatDate,
			"count":      views.FormatCount,
			"markdown":   markdown.Render,
		},
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	var partials, pages []string
	for _, f := range files {
		name := path.Base(f)
		switch {
		case name == "base.html":
		case strings.HasPrefix(name, "_"):
			partials = append(partials, f)
		default:
			pages = append(pages, f)
		}
	}

	for _, page := range pages {
		name := path.Base(page)
		tmplName := strings.TrimSuffix(name, ".html")

		patterns := append([]string{"templates/base.html"}, partials...)
		patterns = append(patterns, page)

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Has reports whether a page template called name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Render executes page name into w. With partial set only the "content"
// block is written.
func (rn *Renderer) Render(w io.Writer, name string, partial bool, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	exec := "base.html"
	if partial {
		exec = "content"
	}
	if err := tmpl.ExecuteTemplate(w, exec, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers, with the given status code. For HTMX requests only the
// "content" block is sent. The CSRF token is taken from the request
// context.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	// Buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := rn.Render(&buf, name, IsHTMX(r), data); err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
