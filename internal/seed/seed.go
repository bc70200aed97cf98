// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed builds the content the store starts with. The embedded
// default reproduces the demo site; a YAML seed file replaces it, and a
// directory of markdown files with front matter adds further articles.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"cyberfolio/internal/models"
	"cyberfolio/internal/slug"
	"cyberfolio/internal/store"
)

//go:embed default.yaml
var defaultYAML []byte

// file is the on-disk shape of a seed file.
type file struct {
	Config   models.SiteConfig `yaml:"config"`
	Articles []models.Article  `yaml:"articles"`
	Projects []models.Project  `yaml:"projects"`
}

// Options select where seed content comes from. Empty fields fall back to
// the embedded default and no extra articles.
type Options struct {
	File       string
	ContentDir string
	// Now stamps articles that carry no publish date.
	Now time.Time
}

// Load assembles the seed described by opts.
func Load(opts Options) (store.Seed, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	data := defaultYAML
	if opts.File != "" {
		b, err := os.ReadFile(opts.File)
		if err != nil {
			return store.Seed{}, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	s, err := Parse(data, opts.Now)
	if err != nil {
		return store.Seed{}, err
	}

	if opts.ContentDir != "" {
		extra, err := LoadArticles(os.DirFS(opts.ContentDir), opts.Now)
		if err != nil {
			return store.Seed{}, err
		}
		s.Articles = append(s.Articles, extra...)
	}

	if err := checkUniqueIDs(s.Articles); err != nil {
		return store.Seed{}, err
	}
	return s, nil
}

// Default returns the embedded demo seed.
func Default(now time.Time) store.Seed {
	s, err := Parse(defaultYAML, now)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded default is invalid: %v", err))
	}
	return s
}

// Parse decodes a YAML seed and fills article defaults.
func Parse(data []byte, now time.Time) (store.Seed, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return store.Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	for i := range f.Articles {
		if f.Articles[i].ID == "" {
			return store.Seed{}, fmt.Errorf("parse seed: article %d has no id", i)
		}
		normalize(&f.Articles[i], now)
	}
	for i := range f.Projects {
		if f.Projects[i].TechStack == nil {
			f.Projects[i].TechStack = []string{}
		}
	}

	return store.Seed{
		Config:   f.Config,
		Articles: f.Articles,
		Projects: f.Projects,
	}, nil
}

// frontMatter is the metadata block of a markdown article.
type frontMatter struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Excerpt    string   `yaml:"excerpt"`
	CoverImage string   `yaml:"cover_image"`
	Category   string   `yaml:"category"`
	Tags       []string `yaml:"tags"`
	Date       string   `yaml:"date"`
	Status     string   `yaml:"status"`
	Views      int      `yaml:"views"`
}

var dateFormats = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// LoadArticles reads every *.md file under fsys as an article, newest
// first. Missing front matter fields are derived from the file name.
func LoadArticles(fsys fs.FS, now time.Time) ([]models.Article, error) {
	var articles []models.Article

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk %s: %w", p, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}

		a, err := parseArticle(p, raw, now)
		if err != nil {
			return err
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	slices.SortStableFunc(articles, func(a, b models.Article) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return articles, nil
}

func parseArticle(p string, raw []byte, now time.Time) (models.Article, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		slog.Warn("front matter unreadable, using file as body", "file", p, "error", err)
		body = raw
		fm = frontMatter{}
	}

	stem := strings.TrimSuffix(path.Base(p), path.Ext(p))

	a := models.Article{
		ID:         fm.ID,
		Title:      fm.Title,
		Slug:       fm.Slug,
		Content:    strings.TrimSpace(string(body)),
		Excerpt:    fm.Excerpt,
		CoverImage: fm.CoverImage,
		Category:   fm.Category,
		Tags:       fm.Tags,
		Status:     models.ArticleStatus(fm.Status),
		Views:      fm.Views,
	}
	if a.Title == "" {
		a.Title = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	}
	if a.Slug == "" {
		a.Slug = slug.Generate(stem)
	}
	if a.ID == "" {
		a.ID = "md-" + a.Slug
	}
	if a.Category == "" {
		a.Category = "General"
	}
	if a.Excerpt == "" {
		a.Excerpt = models.Excerpt(a.Content)
	}
	if fm.Date != "" {
		t, err := parseDate(fm.Date)
		if err != nil {
			return models.Article{}, fmt.Errorf("article %s: %w", p, err)
		}
		a.PublishedAt = t
	}
	if a.Status != "" && !a.Status.Valid() {
		return models.Article{}, fmt.Errorf("article %s: unknown status %q", p, a.Status)
	}

	normalize(&a, now)
	return a, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q, use YYYY-MM-DD or RFC3339", s)
}

// normalize fills the fields every stored article must carry.
func normalize(a *models.Article, now time.Time) {
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	if a.Status == "" {
		a.Status = models.ArticleStatusPublished
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
}

func checkUniqueIDs(articles []models.Article) error {
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		if seen[a.ID] {
			return fmt.Errorf("load seed: duplicate article id %q", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}
