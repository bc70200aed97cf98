// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides cookie-bound browser sessions. Sessions are
// identified by a random cookie and stored as JSON in a Backend (process
// memory or Valkey) with TTL expiry. A session carries whether this
// browser unlocked the admin view and its admin view state.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cyberfolio/internal/store"
	"cyberfolio/internal/views"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "cf_session"

	// DefaultTTL is how long a session lives before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32

	// clearTimeout bounds the backend sweep run on logout.
	clearTimeout = 5 * time.Second
)

// ErrNoSession is returned by Update when the request carries no session.
var ErrNoSession = errors.New("no session")

// Data holds the session payload.
type Data struct {
	Authenticated bool             `json:"authenticated"`
	Admin         views.AdminState `json:"admin"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Backend stores session payloads by ID.
type Backend interface {
	// Get returns the payload for id; ok is false when absent or expired.
	Get(ctx context.Context, id string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// Clear removes every session.
	Clear(ctx context.Context) error
}

// Store manages session lifecycle.
type Store struct {
	backend Backend
	ttl     time.Duration
	secure  bool
}

// NewStore creates a session store on backend. secure marks the cookie
// Secure; set it when served over TLS.
func NewStore(backend Backend, secure bool) *Store {
	return &Store{
		backend: backend,
		ttl:     DefaultTTL,
		secure:  secure,
	}
}

// Create generates a new session, stores it, and sets the session cookie
// on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.backend.Set(ctx, id, payload, s.ttl); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data using the session ID from the request
// cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, ok, err := s.backend.Get(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !ok {
		return nil, nil // Session expired or doesn't exist
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Update replaces the session data without changing the session ID or
// cookie. Resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: %w", ErrNoSession)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.backend.Set(ctx, cookie.Value, payload, s.ttl); err != nil {
		return fmt.Errorf("session update: %w", err)
	}

	return nil
}

// Save updates the request's session, or creates one when the request
// carries none.
func (s *Store) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	err := s.Update(ctx, r, data)
	if errors.Is(err, ErrNoSession) {
		_, err = s.Create(ctx, w, data)
	}
	return err
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.backend.Delete(ctx, cookie.Value); err != nil {
		slog.Warn("session delete failed", "error", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

// Clear drops every session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// ClearOnLogout drops every browser session whenever the content store
// logs out, so no browser keeps a stale admin unlock for the next login.
func (s *Store) ClearOnLogout(cs *store.ContentStore) (unsubscribe func()) {
	return cs.Subscribe(func(e store.Event) {
		if e.Kind != store.EventLogout {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
		defer cancel()
		if err := s.Clear(ctx); err != nil {
			slog.Error("clear sessions on logout failed", "error", err)
		}
	})
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
