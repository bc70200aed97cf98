// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"cyberfolio/internal/session"
	"cyberfolio/internal/store"
	"cyberfolio/internal/views"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession retrieves the browser session and stores it in the request
// context. Downstream handlers can access it via SessionFromCtx(). This
// middleware does NOT enforce the admin gate, it just loads the session
// if one exists.
func LoadSession(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := sessions.Get(r.Context(), r)
			if err != nil {
				// Log but don't block; treat as logged out.
				slog.Warn("load session failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				r = r.WithContext(WithSession(r.Context(), data))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin sends browsers that are not past the admin gate back to
// /admin, where the login form is shown. HTMX requests get an HX-Redirect
// so the whole page navigates. Must be applied after LoadSession.
func RequireAdmin(cs *store.ContentStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Gate(r.Context(), cs) != views.GateLoggedIn {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/admin")
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Gate reports the admin gate for the session in ctx.
func Gate(ctx context.Context, cs *store.ContentStore) views.Gate {
	sess := SessionFromCtx(ctx)
	return views.GateFor(cs.IsAuthenticated(), sess != nil && sess.Authenticated)
}

// WithSession returns ctx carrying data.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
