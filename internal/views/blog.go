// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"cyberfolio/internal/models"
)

// PublishedArticles keeps the published articles of list in order.
func PublishedArticles(list []models.Article) []models.Article {
	out := make([]models.Article, 0, len(list))
	for _, a := range list {
		if a.IsPublished() {
			out = append(out, a)
		}
	}
	return out
}

// FindArticle looks id up in the full list, drafts included.
func FindArticle(list []models.Article, id string) (models.Article, bool) {
	i := slices.IndexFunc(list, func(a models.Article) bool { return a.ID == id })
	if i < 0 {
		return models.Article{}, false
	}
	return list[i], true
}

// Cover image sizes.
const (
	cardCoverWidth    = 800
	cardCoverHeight   = 400
	detailCoverWidth  = 1200
	detailCoverHeight = 600
)

// PlaceholderCover returns a deterministic stock image for seed.
func PlaceholderCover(seed string, w, h int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", url.PathEscape(seed), w, h)
}

func coverFor(a models.Article, w, h int) string {
	if a.CoverImage != "" {
		return a.CoverImage
	}
	return PlaceholderCover(a.ID, w, h)
}

// CardTagLimit is the number of tags shown on a card before "+N".
const CardTagLimit = 2

// Card is one entry of the blog list.
type Card struct {
	ID          string
	Title       string
	Excerpt     string
	Category    string
	PublishedAt time.Time
	Cover       string
	Tags        []string
	// MoreTags counts the tags not shown.
	MoreTags int
	Share    ShareLinks
}

// NewCard projects a into a list card.
func NewCard(a models.Article, base string) Card {
	c := Card{
		ID:          a.ID,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		Cover:       coverFor(a, cardCoverWidth, cardCoverHeight),
		Tags:        a.Tags,
		Share:       NewShareLinks(base, a.Title, a.Slug),
	}
	if len(c.Tags) > CardTagLimit {
		c.MoreTags = len(c.Tags) - CardTagLimit
		c.Tags = c.Tags[:CardTagLimit]
	}
	return c
}

// BlogList is the blog index: published articles only.
type BlogList struct {
	Cards []Card
}

// NewBlogList builds the index from the full article list.
func NewBlogList(list []models.Article, base string) BlogList {
	published := PublishedArticles(list)
	b := BlogList{Cards: make([]Card, 0, len(published))}
	for _, a := range published {
		b.Cards = append(b.Cards, NewCard(a, base))
	}
	return b
}

// Detail is a single article page. The admin preview reuses it.
type Detail struct {
	ID          string
	Title       string
	Category    string
	PublishedAt time.Time
	Views       int
	Cover       string
	Content     string
	ShowAd      bool
	AdsenseID   string
	// Share is nil in previews.
	Share   *ShareLinks
	Preview bool
}

// NewDetail projects a into the detail page. The ad slot is shown iff an
// ad unit is configured.
func NewDetail(a models.Article, cfg models.SiteConfig, base string) Detail {
	share := NewShareLinks(base, a.Title, a.Slug)
	return Detail{
		ID:          a.ID,
		Title:       a.Title,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		Views:       a.Views,
		Cover:       coverFor(a, detailCoverWidth, detailCoverHeight),
		Content:     a.Content,
		ShowAd:      cfg.AdsenseID != "",
		AdsenseID:   cfg.AdsenseID,
		Share:       &share,
	}
}

// BlogPage is either the list or one article. When Selected is set but no
// article carries that id, Detail is nil and the page shows "not found".
type BlogPage struct {
	Selected string
	List     *BlogList
	Detail   *Detail
}

// NotFound reports whether a selected article could not be found.
func (p BlogPage) NotFound() bool {
	return p.Selected != "" && p.Detail == nil
}

// NewBlogPage builds the blog page for selected, which is empty for the
// list view. Detail lookup covers drafts as well.
func NewBlogPage(list []models.Article, cfg models.SiteConfig, base, selected string) BlogPage {
	p := BlogPage{Selected: selected}
	if selected == "" {
		l := NewBlogList(list, base)
		p.List = &l
		return p
	}
	if a, ok := FindArticle(list, selected); ok {
		d := NewDetail(a, cfg, base)
		p.Detail = &d
	}
	return p
}
