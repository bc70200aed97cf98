// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"cyberfolio/internal/cache"
	"cyberfolio/internal/models"
	"cyberfolio/internal/render"
	"cyberfolio/internal/store"
	"cyberfolio/internal/views"
)

// Public groups handlers for the public site: the home page and the blog.
// Rendered pages are kept in the page cache keyed by store revision, so a
// content change never serves stale HTML.
type Public struct {
	renderer *render.Renderer
	cs       *store.ContentStore
	pages    cache.Pages
	baseURL  string
	now      func() time.Time
}

// NewPublic creates a new Public handler group. pages may be nil to disable
// page caching. An empty baseURL derives share links from each request.
func NewPublic(renderer *render.Renderer, cs *store.ContentStore, pages cache.Pages, baseURL string) *Public {
	return &Public{
		renderer: renderer,
		cs:       cs,
		pages:    pages,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// Home renders the portfolio page. A canonical share link
// (/?article=<slug>) redirects to the article it names.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if s := r.URL.Query().Get("article"); s != "" {
		if a, ok := p.cs.FindArticleBySlug(s); ok {
			http.Redirect(w, r, "/blog/"+url.PathEscape(a.ID), http.StatusSeeOther)
			return
		}
	}

	p.serve(w, r, "home", func(snap store.Snapshot, _ string) (int, *render.PageData) {
		return http.StatusOK, &render.PageData{
			Title: "Home",
			Shell: views.NewShell(snap.Config, views.PageHome, p.now()),
			Data:  views.NewHome(snap.Config, snap.Projects),
		}
	})
}

// Blog renders the list of published articles.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "blog", func(snap store.Snapshot, base string) (int, *render.PageData) {
		return http.StatusOK, &render.PageData{
			Title: "Blog",
			Shell: views.NewShell(snap.Config, views.PageBlog, p.now()),
			Data:  views.NewBlogPage(snap.Articles, snap.Config, base, ""),
		}
	})
}

// BlogArticle renders one article by ID. Unknown IDs get the article
// not-found fallback with a 404.
func (p *Public) BlogArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p.serve(w, r, "blog", func(snap store.Snapshot, base string) (int, *render.PageData) {
		page := views.NewBlogPage(snap.Articles, snap.Config, base, id)
		data := &render.PageData{
			Title: "Blog",
			Shell: views.NewShell(snap.Config, views.PageBlog, p.now()),
			Data:  page,
		}
		if page.NotFound() {
			return http.StatusNotFound, data
		}
		data.Title = page.Detail.Title
		return http.StatusOK, data
	})
}

// NotFound renders the 404 page for unmatched routes.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	notFound(p.renderer, w, r, p.cs.Config(), p.now())
}

// serve renders page name from a store snapshot, going through the page
// cache. Only 200 responses are cached.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, name string, build func(snap store.Snapshot, base string) (int, *render.PageData)) {
	ctx := r.Context()
	snap := p.cs.Snapshot()
	base := p.base(r)
	partial := render.IsHTMX(r)
	key := cache.PageKey(snap.Revision, base+"|"+r.URL.Path, partial)

	w.Header().Set("Vary", "HX-Request")

	if p.pages != nil {
		if cached, ok := p.pages.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(cached)
			return
		}
	}

	status, data := build(snap, base)
	data.Revision = snap.Revision

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, name, partial, data); err != nil {
		slog.Error("render public page failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if status == http.StatusOK && p.pages != nil {
		p.pages.Set(ctx, key, bytes.Clone(buf.Bytes()))
		w.Header().Set("X-Cache", "MISS")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// base returns the origin share links are built from.
func (p *Public) base(r *http.Request) string {
	if p.baseURL != "" {
		return p.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/"
}

// notFound renders the generic 404 page.
func notFound(rn *render.Renderer, w http.ResponseWriter, r *http.Request, cfg models.SiteConfig, now time.Time) {
	rn.Page(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "Not Found",
		Shell: views.NewShell(cfg, "", now),
	})
}
