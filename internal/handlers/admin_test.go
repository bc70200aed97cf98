// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cyberfolio/internal/models"
	"cyberfolio/internal/views"
)

// do runs one handler and returns the recorded response.
func (env *testEnv) do(t *testing.T, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// --------------------------------------------------------------------------
// Tabs
// --------------------------------------------------------------------------

func TestTab_RendersAndRemembers(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)

	tests := []struct {
		tab  string
		want string
	}{
		{"overview", "12,345"},
		{"content", "+ New Entry"},
		{"config", `hx-post="/admin/config/name"`},
	}
	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			req := withChiURLParam(adminRequest(http.MethodGet, "/admin/"+tt.tab, nil, sess, cookie), "tab", tt.tab)
			rec := env.do(t, env.Admin.Tab, req)

			assertStatus(t, rec, http.StatusOK)
			assertBody(t, rec, tt.want, "COMMAND")
			if got := env.stored(t, cookie).Admin.Tab; string(got) != tt.tab {
				t.Errorf("stored tab: got %q, want %q", got, tt.tab)
			}
		})
	}
}

func TestTab_Unknown(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)

	req := withChiURLParam(adminRequest(http.MethodGet, "/admin/secrets", nil, sess, cookie), "tab", "secrets")
	rec := env.do(t, env.Admin.Tab, req)

	assertStatus(t, rec, http.StatusNotFound)
}

// --------------------------------------------------------------------------
// Content manager
// --------------------------------------------------------------------------

// TestEditor_WriteTitlePreviewPublish walks the editor through a full
// session: open, preview, close the preview, publish.
func TestEditor_WriteTitlePreviewPublish(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	before := len(env.Store.ListArticles())

	rec := env.do(t, env.Admin.NewEntry, adminRequest(http.MethodPost, "/admin/content/new", url.Values{}, sess, cookie))
	assertStatus(t, rec, http.StatusSeeOther)
	assertLocation(t, rec, "/admin/content")
	if got := env.stored(t, cookie).Admin.Editor.Mode; got != views.EditorEditing {
		t.Fatalf("mode after new: got %q, want editing", got)
	}

	draft := url.Values{"title": {"Hello World"}, "content": {"**bold**"}, "category": {""}}
	rec = env.do(t, env.Admin.Preview, htmx(adminRequest(http.MethodPost, "/admin/content/preview", draft, sess, cookie)))
	assertStatus(t, rec, http.StatusOK)
	assertBody(t, rec, "Live Preview Mode", "<strong>bold</strong>", "0 reads")
	assertNoBody(t, rec, "<html")

	stored := env.stored(t, cookie).Admin.Editor
	if stored.Mode != views.EditorPreviewing || stored.Draft.Title != "Hello World" {
		t.Fatalf("editor after preview: got %+v", stored)
	}
	if n := len(env.Store.ListArticles()); n != before {
		t.Errorf("preview must not persist: got %d articles, want %d", n, before)
	}

	rec = env.do(t, env.Admin.ClosePreview, htmx(adminRequest(http.MethodPost, "/admin/content/preview/close", url.Values{}, sess, cookie)))
	assertStatus(t, rec, http.StatusOK)
	assertBody(t, rec, `value="Hello World"`)
	assertNoBody(t, rec, "Live Preview Mode")

	rec = env.do(t, env.Admin.Publish, adminRequest(http.MethodPost, "/admin/content/publish", draft, sess, cookie))
	assertStatus(t, rec, http.StatusSeeOther)

	list := env.Store.ListArticles()
	if len(list) != before+1 {
		t.Fatalf("articles: got %d, want %d", len(list), before+1)
	}
	got := list[0]
	if got.Title != "Hello World" || got.Slug != "hello-world" || got.Category != views.DefaultCategory {
		t.Errorf("published article: got %+v", got)
	}
	if got.Status != models.ArticleStatusPublished {
		t.Errorf("status: got %q, want published", got.Status)
	}
	if got.Excerpt != "**bold**..." {
		t.Errorf("excerpt: got %q", got.Excerpt)
	}

	editor := env.stored(t, cookie).Admin.Editor
	if editor.Mode != views.EditorListing || editor.Draft != (views.Draft{}) {
		t.Errorf("editor after publish: got %+v, want reset listing", editor)
	}
}

func TestEditor_PublishFromPreviewKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	sess.Admin.Editor = views.Editor{Mode: views.EditorPreviewing, Draft: views.Draft{Title: "Stored"}}

	// No form fields: the stored draft is published.
	rec := env.do(t, env.Admin.Publish, adminRequest(http.MethodPost, "/admin/content/publish", url.Values{}, sess, cookie))
	assertStatus(t, rec, http.StatusSeeOther)

	if got := env.Store.ListArticles()[0].Title; got != "Stored" {
		t.Errorf("published title: got %q, want Stored", got)
	}
}

func TestEditor_PublishWithoutDraftFails(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	before := len(env.Store.ListArticles())

	rec := env.do(t, env.Admin.Publish, htmx(adminRequest(http.MethodPost, "/admin/content/publish", url.Values{"title": {"x"}}, sess, cookie)))

	assertStatus(t, rec, http.StatusBadRequest)
	assertBody(t, rec, "flash-error", "That action is not available right now.")
	if n := len(env.Store.ListArticles()); n != before {
		t.Errorf("articles: got %d, want %d", n, before)
	}
}

func TestEditor_RejectsOversizedTitle(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	sess.Admin.Editor = views.Editor{Mode: views.EditorEditing, Draft: views.Draft{Title: "Kept"}}
	before := len(env.Store.ListArticles())

	form := url.Values{"title": {strings.Repeat("a", 301)}, "content": {"c"}}
	rec := env.do(t, env.Admin.Publish, htmx(adminRequest(http.MethodPost, "/admin/content/publish", form, sess, cookie)))

	assertStatus(t, rec, http.StatusBadRequest)
	assertBody(t, rec, "Title is too long")
	if n := len(env.Store.ListArticles()); n != before {
		t.Errorf("articles: got %d, want %d", n, before)
	}
	if sess.Admin.Editor.Draft.Title != "Kept" {
		t.Errorf("draft: got %q, want Kept", sess.Admin.Editor.Draft.Title)
	}
}

func TestEditor_CancelResetsDraft(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	sess.Admin.Editor = views.Editor{Mode: views.EditorEditing, Draft: views.Draft{Title: "Gone"}}

	rec := env.do(t, env.Admin.Cancel, adminRequest(http.MethodPost, "/admin/content/cancel", url.Values{"title": {"Gone"}}, sess, cookie))
	assertStatus(t, rec, http.StatusSeeOther)

	editor := env.stored(t, cookie).Admin.Editor
	if editor.Mode != views.EditorListing || editor.Draft.Title != "" {
		t.Errorf("editor after cancel: got %+v", editor)
	}
}

// --------------------------------------------------------------------------
// Listing actions
// --------------------------------------------------------------------------

func TestSetStatus(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)

	req := adminRequest(http.MethodPost, "/admin/content/articles/1/status", url.Values{"status": {"draft"}}, sess, cookie)
	rec := env.do(t, env.Admin.SetStatus, withChiURLParam(htmx(req), "id", "1"))

	assertStatus(t, rec, http.StatusOK)
	assertBody(t, rec, `name="status" value="published"`)
	if a, _ := env.Store.FindArticle("1"); a.Status != models.ArticleStatusDraft {
		t.Errorf("status: got %q, want draft", a.Status)
	}
}

func TestSetStatus_Invalid(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	rev := env.Store.Revision()

	req := adminRequest(http.MethodPost, "/admin/content/articles/1/status", url.Values{"status": {"archived"}}, sess, cookie)
	rec := env.do(t, env.Admin.SetStatus, withChiURLParam(req, "id", "1"))

	assertStatus(t, rec, http.StatusBadRequest)
	assertBody(t, rec, "Status must be draft or published.")
	if got := env.Store.Revision(); got != rev {
		t.Errorf("revision: got %d, want %d", got, rev)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)

	req := adminRequest(http.MethodDelete, "/admin/content/articles/2", nil, sess, cookie)
	rec := env.do(t, env.Admin.Delete, withChiURLParam(htmx(req), "id", "2"))

	assertStatus(t, rec, http.StatusOK)
	assertNoBody(t, rec, "Optimizing React for High Performance")
	if _, ok := env.Store.FindArticle("2"); ok {
		t.Error("article 2 should be deleted")
	}
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)
	before := len(env.Store.ListArticles())

	req := adminRequest(http.MethodPost, "/admin/content/articles/missing/delete", url.Values{}, sess, cookie)
	rec := env.do(t, env.Admin.Delete, withChiURLParam(req, "id", "missing"))

	assertStatus(t, rec, http.StatusSeeOther)
	assertLocation(t, rec, "/admin/content")
	if n := len(env.Store.ListArticles()); n != before {
		t.Errorf("articles: got %d, want %d", n, before)
	}
}

// --------------------------------------------------------------------------
// System config
// --------------------------------------------------------------------------

func TestSetConfig(t *testing.T) {
	env := newTestEnv(t)
	sess, cookie := env.login(t)

	set := func(field, value string) *httptest.ResponseRecorder {
		req := adminRequest(http.MethodPost, "/admin/config/"+field, url.Values{"value": {value}}, sess, cookie)
		return env.do(t, env.Admin.SetConfig, withChiURLParam(htmx(req), "field", field))
	}

	rec := set("name", "Ada Lovelace")
	assertStatus(t, rec, http.StatusOK)
	assertBody(t, rec, `value="Ada Lovelace"`)

	assertStatus(t, set("enable_3d", ""), http.StatusOK)
	assertStatus(t, set("performance_mode", "low"), http.StatusOK)

	cfg := env.Store.Config()
	if cfg.Name != "Ada Lovelace" {
		t.Errorf("name: got %q", cfg.Name)
	}
	if cfg.Enable3D {
		t.Error("enable3D should be off")
	}
	if cfg.PerformanceMode != models.PerformanceLow {
		t.Errorf("performance mode: got %q, want low", cfg.PerformanceMode)
	}
	if got := env.stored(t, cookie).Admin.Tab; got != views.TabConfig {
		t.Errorf("stored tab: got %q, want config", got)
	}
}

func TestSetConfig_Rejected(t *testing.T) {
	tests := []struct {
		field, value string
		want         string
	}{
		{"performance_mode", "ultra", "performance mode must be high, medium or low"},
		{"enable_3d", "maybe", "value must be true or false"},
		{"name", strings.Repeat("a", views.MaxFieldLength+1), "Value is too long"},
		{"secret_key", "x", "Unknown setting."},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			env := newTestEnv(t)
			sess, cookie := env.login(t)
			before := env.Store.Config()

			req := adminRequest(http.MethodPost, "/admin/config/"+tt.field, url.Values{"value": {tt.value}}, sess, cookie)
			rec := env.do(t, env.Admin.SetConfig, withChiURLParam(htmx(req), "field", tt.field))

			assertStatus(t, rec, http.StatusBadRequest)
			assertBody(t, rec, "flash-error", tt.want)
			if got := env.Store.Config(); got != before {
				t.Errorf("config changed: got %+v", got)
			}
		})
	}
}

// TestAdminScenario_SessionsAreIndependent verifies that two unlocked
// browsers keep their own tab and editor state.
func TestAdminScenario_SessionsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	a, cookieA := env.login(t)
	b, cookieB := env.login(t)

	env.do(t, env.Admin.NewEntry, adminRequest(http.MethodPost, "/admin/content/new", url.Values{}, a, cookieA))
	req := withChiURLParam(adminRequest(http.MethodGet, "/admin/config", nil, b, cookieB), "tab", "config")
	env.do(t, env.Admin.Tab, req)

	sa, sb := env.stored(t, cookieA), env.stored(t, cookieB)
	if sa.Admin.Tab != views.TabContent || sa.Admin.Editor.Mode != views.EditorEditing {
		t.Errorf("browser A: got %+v", sa.Admin)
	}
	if sb.Admin.Tab != views.TabConfig || sb.Admin.Editor.Mode == views.EditorEditing {
		t.Errorf("browser B: got %+v", sb.Admin)
	}
}
