// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs in memory on the default seed content.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"cyberfolio/internal/auth"
	"cyberfolio/internal/cache"
	"cyberfolio/internal/middleware"
	"cyberfolio/internal/render"
	"cyberfolio/internal/seed"
	"cyberfolio/internal/session"
	"cyberfolio/internal/store"
	"cyberfolio/internal/views"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Store    *store.ContentStore
	Backend  *session.MemoryBackend
	Sessions *session.Store
	Pages    *cache.MemoryPages
	Public   *Public
	Auth     *Auth
	Admin    *Admin
}

// newTestEnv wires the handlers the way the server does, on memory
// backends and a fixed clock.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New(false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	next := 100
	cs := store.NewContentStore(seed.Default(testNow), auth.SharedSecret(auth.DefaultSharedSecret), store.Options{
		Now: fixedNow,
		NewID: func() string {
			next++
			return fmt.Sprint(next)
		},
		PageViews: 12345,
	})

	backend := session.NewMemoryBackend()
	sessions := session.NewStore(backend, false)
	t.Cleanup(sessions.ClearOnLogout(cs))

	pages := cache.NewMemoryPages(time.Minute, cache.DefaultMemoryEntries)
	t.Cleanup(cache.InvalidateOnChange(cs, pages))

	env := &testEnv{
		Store:    cs,
		Backend:  backend,
		Sessions: sessions,
		Pages:    pages,
		Public:   NewPublic(renderer, cs, pages, ""),
		Auth:     NewAuth(renderer, sessions, cs, auth.DefaultSharedSecret),
		Admin:    NewAdmin(renderer, sessions, cs),
	}
	env.Public.now = fixedNow
	env.Auth.now = fixedNow
	env.Admin.now = fixedNow
	return env
}

// login unlocks the store and creates an authenticated browser session.
func (env *testEnv) login(t *testing.T) (*session.Data, *http.Cookie) {
	t.Helper()

	if !env.Store.Login(auth.DefaultSharedSecret) {
		t.Fatal("store login failed")
	}
	sess := &session.Data{
		Authenticated: true,
		Admin:         views.AdminState{Tab: views.TabOverview},
		CreatedAt:     testNow,
	}
	rec := httptest.NewRecorder()
	if _, err := env.Sessions.Create(context.Background(), rec, sess); err != nil {
		t.Fatalf("session create: %v", err)
	}
	return sess, sessionCookie(t, rec)
}

// stored reads back the session behind cookie.
func (env *testEnv) stored(t *testing.T, cookie *http.Cookie) *session.Data {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	data, err := env.Sessions.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("session get: %v", err)
	}
	if data == nil {
		t.Fatal("session not found")
	}
	return data
}

// sessionCookie returns the session cookie set on rec.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// formRequest builds a request with an urlencoded body. A nil form sends
// no body.
func formRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req
}

// adminRequest builds a request carrying the session cookie and the
// loaded session, as LoadSession would.
func adminRequest(method, target string, form url.Values, sess *session.Data, cookie *http.Cookie) *http.Request {
	req := formRequest(method, target, form)
	req.AddCookie(cookie)
	return req.WithContext(middleware.WithSession(req.Context(), sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

func htmx(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d\nbody: %s", rec.Code, want, rec.Body.String())
	}
}

func assertLocation(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location: got %q, want %q", got, want)
	}
}

func assertBody(t *testing.T, rec *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}

func assertNoBody(t *testing.T, rec *httptest.ResponseRecorder, unwanted ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, w := range unwanted {
		if strings.Contains(body, w) {
			t.Errorf("body should not contain %q", w)
		}
	}
}
