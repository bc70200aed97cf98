// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared by the content store,
// the view projections and the HTTP layer.
package models

import (
	"slices"
	"time"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

// Article is a blog entry. ID is assigned by the store and never changes;
// PublishedAt is stamped at creation and is not editable.
type Article struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Slug        string        `json:"slug" yaml:"slug"`
	Content     string        `json:"content" yaml:"content"`
	Excerpt     string        `json:"excerpt" yaml:"excerpt"`
	CoverImage  string        `json:"cover_image,omitempty" yaml:"cover_image,omitempty"`
	Category    string        `json:"category" yaml:"category"`
	Tags        []string      `json:"tags" yaml:"tags"`
	PublishedAt time.Time     `json:"published_at" yaml:"published_at"`
	Status      ArticleStatus `json:"status" yaml:"status"`
	Views       int           `json:"views" yaml:"views"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// Clone returns a copy that shares no mutable state with a.
func (a Article) Clone() Article {
	a.Tags = slices.Clone(a.Tags)
	return a
}

// ArticleDraft carries the caller-supplied fields of a new article. The
// store synthesizes ID, PublishedAt and Views.
type ArticleDraft struct {
	Title      string
	Content    string
	Category   string
	Slug       string
	Excerpt    string
	CoverImage string
	Tags       []string
	Status     ArticleStatus
}

// ArticlePatch is a partial update. Nil fields are left untouched.
type ArticlePatch struct {
	Title      *string
	Slug       *string
	Content    *string
	Excerpt    *string
	CoverImage *string
	Category   *string
	Tags       []string // nil leaves tags alone; an empty non-nil slice clears them
	Status     *ArticleStatus
}

// Apply merges the non-nil fields of p into a.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Slug != nil {
		a.Slug = *p.Slug
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.CoverImage != nil {
		a.CoverImage = *p.CoverImage
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Tags != nil {
		a.Tags = slices.Clone(p.Tags)
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// StatusPatch is shorthand for a patch that only changes the status.
func StatusPatch(s ArticleStatus) ArticlePatch {
	return ArticlePatch{Status: &s}
}

// ExcerptLength is the number of characters kept by Excerpt.
const ExcerptLength = 100

// Excerpt returns the first ExcerptLength characters of content followed
// by "...". The ellipsis is added even when nothing was cut.
func Excerpt(content string) string {
	r := []rune(content)
	if len(r) > ExcerptLength {
		r = r[:ExcerptLength]
	}
	return string(r) + "..."
}
