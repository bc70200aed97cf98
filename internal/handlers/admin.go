// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the public site and the
// admin view. Handlers read and mutate content only through the content
// store; per-browser admin state lives in the session.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cyberfolio/internal/middleware"
	"cyberfolio/internal/models"
	"cyberfolio/internal/render"
	"cyberfolio/internal/session"
	"cyberfolio/internal/store"
	"cyberfolio/internal/views"
)

// Admin groups the dashboard handlers. Every route here runs behind
// middleware.RequireAdmin, so a session is always present.
type Admin struct {
	renderer *render.Renderer
	sessions *session.Store
	cs       *store.ContentStore
	now      func() time.Time
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, cs *store.ContentStore) *Admin {
	return &Admin{
		renderer: renderer,
		sessions: sessions,
		cs:       cs,
		now:      time.Now,
	}
}

// Tab shows one dashboard tab and remembers it for this browser.
func (a *Admin) Tab(w http.ResponseWriter, r *http.Request) {
	tab, ok := views.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		notFound(a.renderer, w, r, a.cs.Config(), a.now())
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess.Admin.Tab != tab {
		sess.Admin.Tab = tab
		if !a.save(w, r, sess) {
			return
		}
	}
	a.page(w, r, http.StatusOK, sess, nil)
}

// --- Content manager ---

// NewEntry opens an empty draft.
func (a *Admin) NewEntry(w http.ResponseWriter, r *http.Request) {
	a.edit(w, r, func(e *views.Editor) error {
		return e.Begin()
	})
}

// Preview stores the submitted draft and opens the preview overlay.
func (a *Admin) Preview(w http.ResponseWriter, r *http.Request) {
	a.editDraft(w, r, func(e *views.Editor) error {
		return e.OpenPreview()
	})
}

// ClosePreview returns from the preview overlay to the editor.
func (a *Admin) ClosePreview(w http.ResponseWriter, r *http.Request) {
	a.edit(w, r, func(e *views.Editor) error {
		return e.ClosePreview()
	})
}

// Cancel discards the draft.
func (a *Admin) Cancel(w http.ResponseWriter, r *http.Request) {
	a.edit(w, r, func(e *views.Editor) error {
		return e.Cancel()
	})
}

// Publish adds the submitted draft to the store as a published article.
func (a *Admin) Publish(w http.ResponseWriter, r *http.Request) {
	a.editDraft(w, r, func(e *views.Editor) error {
		d, err := e.Publish()
		if err != nil {
			return err
		}
		art := a.cs.AddArticle(d)
		slog.Info("article published", "id", art.ID, "slug", art.Slug)
		return nil
	})
}

// editDraft applies the draft submitted with the form before fn. The
// preview overlay has no form fields, so a request without them keeps
// the stored draft.
func (a *Admin) editDraft(w http.ResponseWriter, r *http.Request, fn func(e *views.Editor) error) {
	a.edit(w, r, func(e *views.Editor) error {
		if err := r.ParseForm(); err != nil {
			return errBadForm
		}
		if _, ok := r.PostForm["title"]; ok {
			d := views.Draft{
				Title:    r.PostForm.Get("title"),
				Content:  r.PostForm.Get("content"),
				Category: r.PostForm.Get("category"),
			}
			if msg := validateDraft(d); msg != "" {
				return formError(msg)
			}
			if err := e.Update(d); err != nil {
				return err
			}
		}
		return fn(e)
	})
}

// edit runs one editor transition on this browser's content tab.
func (a *Admin) edit(w http.ResponseWriter, r *http.Request, fn func(e *views.Editor) error) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.Admin.Tab = views.TabContent

	// Work on a copy so a failed transition leaves the session untouched.
	editor := sess.Admin.Editor
	if err := fn(&editor); err != nil {
		a.fail(w, r, sess, editorMessage(err))
		return
	}
	sess.Admin.Editor = editor

	if !a.save(w, r, sess) {
		return
	}
	a.done(w, r, sess)
}

// SetStatus publishes or unpublishes an article.
func (a *Admin) SetStatus(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.Admin.Tab = views.TabContent

	status := models.ArticleStatus(r.FormValue("status"))
	if !status.Valid() {
		a.fail(w, r, sess, "Status must be draft or published.")
		return
	}

	id := chi.URLParam(r, "id")
	a.cs.UpdateArticle(id, models.StatusPatch(status))
	slog.Info("article status changed", "id", id, "status", status)

	if !a.save(w, r, sess) {
		return
	}
	a.done(w, r, sess)
}

// Delete removes an article. Deleting an unknown ID is a no-op.
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.Admin.Tab = views.TabContent

	id := chi.URLParam(r, "id")
	a.cs.DeleteArticle(id)
	slog.Info("article deleted", "id", id)

	if !a.save(w, r, sess) {
		return
	}
	a.done(w, r, sess)
}

// --- System config ---

// SetConfig commits one config field as soon as it changes.
func (a *Admin) SetConfig(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.Admin.Tab = views.TabConfig

	field := views.ConfigField(chi.URLParam(r, "field"))
	patch, err := views.ConfigFieldPatch(field, r.FormValue("value"))
	if err != nil {
		a.fail(w, r, sess, configMessage(err))
		return
	}
	a.cs.UpdateConfig(patch)
	slog.Info("site config updated", "field", field)

	if !a.save(w, r, sess) {
		return
	}
	a.done(w, r, sess)
}

// --- helpers ---

// formError is a validation message shown to the admin as is.
type formError string

func (e formError) Error() string { return string(e) }

var errBadForm = formError("Could not read the submitted form.")

func editorMessage(err error) string {
	var fe formError
	switch {
	case errors.As(err, &fe):
		return string(fe)
	case errors.Is(err, views.ErrInvalidTransition):
		return "That action is not available right now."
	default:
		slog.Error("editor action failed", "error", err)
		return "An unexpected error occurred."
	}
}

func configMessage(err error) string {
	switch {
	case errors.Is(err, views.ErrUnknownField):
		return "Unknown setting."
	case errors.Is(err, views.ErrFieldTooLong):
		return "Value is too long (max 2,048 characters)."
	default:
		return err.Error()
	}
}

// save stores the session, writing a 500 on failure.
func (a *Admin) save(w http.ResponseWriter, r *http.Request, sess *session.Data) bool {
	if err := a.sessions.Save(r.Context(), w, r, sess); err != nil {
		slog.Error("session save failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

// done answers a successful action: HTMX gets the refreshed tab, plain
// form posts are redirected to it.
func (a *Admin) done(w http.ResponseWriter, r *http.Request, sess *session.Data) {
	if render.IsHTMX(r) {
		a.page(w, r, http.StatusOK, sess, nil)
		return
	}
	http.Redirect(w, r, sess.Admin.Tab.Path(), http.StatusSeeOther)
}

// fail re-renders the current tab with an error flash.
func (a *Admin) fail(w http.ResponseWriter, r *http.Request, sess *session.Data, msg string) {
	a.page(w, r, http.StatusBadRequest, sess, []render.Flash{{Type: "error", Message: msg}})
}

// page renders the dashboard for sess.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, status int, sess *session.Data, flashes []render.Flash) {
	snap := a.cs.Snapshot()
	now := a.now()
	admin := views.NewAdmin(snap.Config, snap.Articles, snap.PageViews, sess.Admin, now)

	a.renderer.Page(w, r, status, "admin", &render.PageData{
		Title:    "Admin",
		Shell:    views.NewShell(snap.Config, views.PageAdmin, now),
		Revision: snap.Revision,
		Data:     views.AdminPage{Gate: views.GateLoggedIn, Admin: &admin},
		Flashes:  flashes,
	})
}
