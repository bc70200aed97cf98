// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the process-wide content store: site configuration,
// articles, projects, the admin session flag and the page-view counter.
// It is created once at startup and passed to every component that reads
// or writes content. Nothing here is persisted.
package store

import (
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"cyberfolio/internal/auth"
	"cyberfolio/internal/models"
)

// Seed is the initial content a store is built from.
type Seed struct {
	Config   models.SiteConfig
	Articles []models.Article
	Projects []models.Project
}

// Options tune a store for tests. Zero values select the production behavior.
type Options struct {
	// Now stamps PublishedAt on new articles.
	Now func() time.Time
	// NewID returns a fresh article ID. Collisions with existing IDs are retried.
	NewID func() string
	// PageViews overrides the randomized page-view counter when > 0.
	PageViews int
	Logger    *slog.Logger
}

// Page views start at a random value in [pageViewsMin, pageViewsMin+pageViewsSpan).
const (
	pageViewsMin  = 10000
	pageViewsSpan = 5000
)

// Snapshot is a consistent copy of everything a page render needs.
type Snapshot struct {
	Config          models.SiteConfig
	Articles        []models.Article
	Projects        []models.Project
	PageViews       int
	IsAuthenticated bool
	Revision        uint64
}

// ContentStore is the single owner of all content. Reads return copies;
// writes go through the methods below and notify subscribers before
// returning.
type ContentStore struct {
	// writeMu serializes mutations together with their notifications so
	// subscribers observe events in mutation order.
	writeMu sync.Mutex

	mu            sync.RWMutex
	config        models.SiteConfig
	articles      []models.Article
	projects      []models.Project
	authenticated bool
	pageViews     int
	revision      uint64

	verifier auth.Verifier
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// NewContentStore builds a store from seed. verifier decides Login; a nil
// verifier falls back to the default shared secret.
func NewContentStore(seed Seed, verifier auth.Verifier, opts Options) *ContentStore {
	if verifier == nil {
		verifier = auth.SharedSecret(auth.DefaultSharedSecret)
	}
	s := &ContentStore{
		config:   seed.Config,
		articles: cloneArticles(seed.Articles),
		projects: cloneProjects(seed.Projects),
		verifier: verifier,
		now:      opts.Now,
		newID:    opts.NewID,
		logger:   opts.Logger,
		subs:     make(map[int]func(Event)),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.pageViews = opts.PageViews
	if s.pageViews <= 0 {
		s.pageViews = pageViewsMin + rand.Intn(pageViewsSpan)
	}
	return s
}

// Config returns the current site configuration.
func (s *ContentStore) Config() models.SiteConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig shallow-merges the non-nil fields of p into the site
// configuration. It never fails and performs no validation.
func (s *ContentStore) UpdateConfig(p models.ConfigPatch) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	p.Apply(&s.config)
	rev := s.bump()
	s.mu.Unlock()

	s.logger.Debug("site config updated", "revision", rev)
	s.publish(Event{Kind: EventConfigUpdated, Revision: rev})
}

// ListArticles returns every article, newest added first.
func (s *ContentStore) ListArticles() []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneArticles(s.articles)
}

// FindArticle returns the article with the given ID.
func (s *ContentStore) FindArticle(id string) (models.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.articles[i].Clone(), true
	}
	return models.Article{}, false
}

// FindArticleBySlug returns the first article carrying slug.
func (s *ContentStore) FindArticleBySlug(slug string) (models.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.Slug == slug {
			return a.Clone(), true
		}
	}
	return models.Article{}, false
}

// AddArticle creates an article from d with a fresh ID, PublishedAt set to
// now and zero views, prepends it and returns the stored copy.
func (s *ContentStore) AddArticle(d models.ArticleDraft) models.Article {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	a := models.Article{
		ID:          s.uniqueID(),
		Title:       d.Title,
		Slug:        d.Slug,
		Content:     d.Content,
		Excerpt:     d.Excerpt,
		CoverImage:  d.CoverImage,
		Category:    d.Category,
		Tags:        slices.Clone(d.Tags),
		PublishedAt: s.now(),
		Status:      d.Status,
		Views:       0,
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	s.articles = slices.Insert(s.articles, 0, a)
	rev := s.bump()
	s.mu.Unlock()

	s.logger.Debug("article added", "id", a.ID, "slug", a.Slug, "status", a.Status, "revision", rev)
	s.publish(Event{Kind: EventArticleAdded, ArticleID: a.ID, Revision: rev})
	return a.Clone()
}

// UpdateArticle merges p into the article with the given ID. Unknown IDs
// are ignored.
func (s *ContentStore) UpdateArticle(id string, p models.ArticlePatch) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	p.Apply(&s.articles[i])
	rev := s.bump()
	s.mu.Unlock()

	s.logger.Debug("article updated", "id", id, "revision", rev)
	s.publish(Event{Kind: EventArticleUpdated, ArticleID: id, Revision: rev})
}

// DeleteArticle removes the article with the given ID. Unknown IDs are
// ignored, so repeated deletes are harmless.
func (s *ContentStore) DeleteArticle(id string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.articles = slices.Delete(s.articles, i, i+1)
	rev := s.bump()
	s.mu.Unlock()

	s.logger.Debug("article deleted", "id", id, "revision", rev)
	s.publish(Event{Kind: EventArticleDeleted, ArticleID: id, Revision: rev})
}

// ListProjects returns the seeded projects.
func (s *ContentStore) ListProjects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.projects)
}

// Login marks the admin session authenticated when the verifier accepts
// secret. A rejected secret leaves the session as it was.
func (s *ContentStore) Login(secret string) bool {
	if !s.verifier.Verify(secret) {
		s.logger.Info("admin login rejected")
		return false
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.authenticated = true
	rev := s.bump()
	s.mu.Unlock()

	s.logger.Info("admin logged in", "revision", rev)
	s.publish(Event{Kind: EventLogin, Revision: rev})
	return true
}

// Logout clears the admin session.
func (s *ContentStore) Logout() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.authenticated = false
	rev := s.bump()
	s.mu.Unlock()

	s.logger.Info("admin logged out", "revision", rev)
	s.publish(Event{Kind: EventLogout, Revision: rev})
}

// IsAuthenticated reports whether the admin session is open.
func (s *ContentStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// PageViews returns the display-only visit counter.
func (s *ContentStore) PageViews() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageViews
}

// Revision returns a counter that increases with every mutation.
func (s *ContentStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns a consistent copy of the whole store.
func (s *ContentStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Config:          s.config,
		Articles:        cloneArticles(s.articles),
		Projects:        cloneProjects(s.projects),
		PageViews:       s.pageViews,
		IsAuthenticated: s.authenticated,
		Revision:        s.revision,
	}
}

// bump advances the revision. Caller holds mu.
func (s *ContentStore) bump() uint64 {
	s.revision++
	return s.revision
}

// indexOf returns the position of id in articles, or -1. Caller holds mu.
func (s *ContentStore) indexOf(id string) int {
	return slices.IndexFunc(s.articles, func(a models.Article) bool {
		return a.ID == id
	})
}

// uniqueID draws IDs until one is unused. Caller holds mu.
func (s *ContentStore) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func cloneArticles(in []models.Article) []models.Article {
	out := make([]models.Article, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

func cloneProjects(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
