// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"cyberfolio/internal/middleware"
	"cyberfolio/internal/render"
	"cyberfolio/internal/session"
	"cyberfolio/internal/store"
	"cyberfolio/internal/views"
)

// Auth groups the admin login and logout handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	cs       *store.ContentStore
	hint     string
	now      func() time.Time
}

// NewAuth creates a new Auth handler group. A non-empty hint is printed
// under the login form; pass the demo secret only while it is the active
// one.
func NewAuth(renderer *render.Renderer, sessions *session.Store, cs *store.ContentStore, hint string) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		cs:       cs,
		hint:     hint,
		now:      time.Now,
	}
}

// LoginPage renders the login form, or sends an unlocked browser to the
// tab it last had open.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.Gate(r.Context(), a.cs) == views.GateLoggedIn {
		tab := views.TabOverview
		if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
			if t, ok := views.ParseTab(string(sess.Admin.Tab)); ok {
				tab = t
			}
		}
		http.Redirect(w, r, tab.Path(), http.StatusSeeOther)
		return
	}

	a.loginForm(w, r, http.StatusOK, "")
}

// Login checks the submitted access key. On success the store is unlocked
// and this browser's session is marked authenticated.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	secret := r.FormValue("secret")

	if msg := validateSecret(secret); msg != "" {
		a.loginForm(w, r, http.StatusBadRequest, msg)
		return
	}

	if !a.cs.Login(secret) {
		slog.Warn("admin login failed", "remote", r.RemoteAddr)
		a.loginForm(w, r, http.StatusUnauthorized, views.LoginFailedMessage)
		return
	}

	// Always issue a fresh session ID on login.
	data := &session.Data{
		Authenticated: true,
		Admin:         views.AdminState{Tab: views.TabOverview},
		CreatedAt:     a.now(),
	}
	if prev := middleware.SessionFromCtx(r.Context()); prev != nil {
		data.Admin = prev.Admin
		if _, ok := views.ParseTab(string(data.Admin.Tab)); !ok {
			data.Admin.Tab = views.TabOverview
		}
	}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("admin login", "remote", r.RemoteAddr)
	redirect(w, r, data.Admin.Tab.Path())
}

// Logout locks the store, which drops every browser session, and clears
// this browser's cookie.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cs.Logout()
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	redirect(w, r, "/admin")
}

func (a *Auth) loginForm(w http.ResponseWriter, r *http.Request, status int, loginErr string) {
	snap := a.cs.Snapshot()
	a.renderer.Page(w, r, status, "admin", &render.PageData{
		Title:    "Admin",
		Shell:    views.NewShell(snap.Config, views.PageAdmin, a.now()),
		Revision: snap.Revision,
		Data: views.AdminPage{
			Gate:       views.GateLoggedOut,
			LoginError: loginErr,
			Hint:       a.hint,
		},
	})
}

// redirect sends the browser to url. HTMX requests get an HX-Redirect so
// the whole page is replaced instead of swapped into the target.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
