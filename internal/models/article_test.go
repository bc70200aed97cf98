// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"strings"
	"testing"
	"time"
)

// TestArticleIsPublished verifies that IsPublished returns true only for
// the "published" status.
func TestArticleIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status ArticleStatus
		want   bool
	}{
		{name: "published", status: ArticleStatusPublished, want: true},
		{name: "draft", status: ArticleStatusDraft, want: false},
		{name: "empty status", status: ArticleStatus(""), want: false},
		{name: "uppercase PUBLISHED", status: ArticleStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Article{Status: tt.status}
			if got := a.IsPublished(); got != tt.want {
				t.Errorf("Article{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestArticleStatusValid(t *testing.T) {
	for _, s := range []ArticleStatus{ArticleStatusDraft, ArticleStatusPublished} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ArticleStatus("archived").Valid() {
		t.Error("archived should not be valid")
	}
}

func TestArticleCloneDetachesTags(t *testing.T) {
	orig := Article{ID: "1", Tags: []string{"go", "web"}}
	c := orig.Clone()
	c.Tags[0] = "changed"

	if orig.Tags[0] != "go" {
		t.Errorf("original tags mutated through clone: %v", orig.Tags)
	}
}

func TestArticlePatchApply(t *testing.T) {
	published := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := Article{
		ID:          "abc",
		Title:       "Old",
		Slug:        "old",
		Content:     "body",
		Category:    "Tech",
		Tags:        []string{"a", "a"},
		PublishedAt: published,
		Status:      ArticleStatusPublished,
		Views:       7,
	}

	t.Run("empty patch changes nothing", func(t *testing.T) {
		a := base.Clone()
		ArticlePatch{}.Apply(&a)
		if a.Title != "Old" || a.Status != ArticleStatusPublished || len(a.Tags) != 2 {
			t.Errorf("empty patch modified article: %+v", a)
		}
	})

	t.Run("sets only given fields", func(t *testing.T) {
		a := base.Clone()
		title := "New"
		ArticlePatch{Title: &title}.Apply(&a)
		if a.Title != "New" {
			t.Errorf("Title: got %q, want %q", a.Title, "New")
		}
		if a.Slug != "old" || a.Content != "body" || a.Category != "Tech" {
			t.Errorf("untouched fields changed: %+v", a)
		}
		if a.ID != "abc" || !a.PublishedAt.Equal(published) || a.Views != 7 {
			t.Errorf("identity fields changed: %+v", a)
		}
	})

	t.Run("status patch", func(t *testing.T) {
		a := base.Clone()
		StatusPatch(ArticleStatusDraft).Apply(&a)
		if a.Status != ArticleStatusDraft {
			t.Errorf("Status: got %q, want draft", a.Status)
		}
	})

	t.Run("empty tags clear, nil tags keep", func(t *testing.T) {
		a := base.Clone()
		ArticlePatch{Tags: []string{}}.Apply(&a)
		if len(a.Tags) != 0 {
			t.Errorf("Tags: got %v, want empty", a.Tags)
		}

		b := base.Clone()
		ArticlePatch{Tags: nil}.Apply(&b)
		if !slices.Equal(b.Tags, base.Tags) {
			t.Errorf("Tags: got %v, want %v", b.Tags, base.Tags)
		}
	})
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("a", 150)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", "..."},
		{"short keeps ellipsis", "Some text", "Some text..."},
		{"exactly 100", long[:100], long[:100] + "..."},
		{"cut at 100", long, long[:100] + "..."},
		{"multibyte counted as characters", strings.Repeat("é", 101), strings.Repeat("é", 100) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.content); got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}
