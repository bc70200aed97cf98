// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// cyberfolio server. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cyberfolio/internal/handlers"
	"cyberfolio/internal/middleware"
	"cyberfolio/internal/session"
	"cyberfolio/internal/store"
	"cyberfolio/web"
)

// Handlers bundles the handler groups mounted by New.
type Handlers struct {
	Public *handlers.Public
	Auth   *handlers.Auth
	Admin  *handlers.Admin
	// Live streams store changes over a websocket.
	Live http.Handler
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter throttles login attempts per
// client IP.
func New(sessionStore *session.Store, cs *store.ContentStore, h Handlers, loginLimiter *middleware.RateLimiter, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware: applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded CSS and JS.
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	if h.Live != nil {
		r.Get("/live", h.Live.ServeHTTP)
	}

	// Admin routes: CSRF protection everywhere, the dashboard behind the gate.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		// Login form, or a redirect to the last tab when unlocked.
		r.Get("/", h.Auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cs))

			r.Post("/logout", h.Auth.Logout)
			r.Get("/{tab}", h.Admin.Tab)

			// Content manager
			r.Route("/content", func(r chi.Router) {
				r.Post("/new", h.Admin.NewEntry)
				r.Post("/cancel", h.Admin.Cancel)
				r.Post("/publish", h.Admin.Publish)
				r.Post("/preview", h.Admin.Preview)
				r.Post("/preview/close", h.Admin.ClosePreview)
				r.Post("/articles/{id}/status", h.Admin.SetStatus)
				r.Delete("/articles/{id}", h.Admin.Delete)
				r.Post("/articles/{id}/delete", h.Admin.Delete)
			})

			// System config
			r.Post("/config/{field}", h.Admin.SetConfig)
		})
	})

	// Public site.
	r.Get("/", h.Public.Home)
	r.Get("/blog", h.Public.Blog)
	r.Get("/blog/{id}", h.Public.BlogArticle)
	r.NotFound(h.Public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
