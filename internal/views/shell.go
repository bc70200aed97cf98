// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package views turns store content into the data each page renders.
// Everything here is a pure function of its inputs: views read content,
// hold only transient per-browser state (selected article, admin tab,
// editor draft) and never keep their own copy of store data.
package views

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cyberfolio/internal/models"
)

// Page is one of the three top-level pages.
type Page string

const (
	PageHome  Page = "home"
	PageBlog  Page = "blog"
	PageAdmin Page = "admin"
)

// Pages lists the pages in navigation order.
var Pages = []Page{PageHome, PageBlog, PageAdmin}

// Path returns the URL path that selects p.
func (p Page) Path() string {
	switch p {
	case PageBlog:
		return "/blog"
	case PageAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// NavItem is one navigation entry.
type NavItem struct {
	Page   Page
	Label  string
	Href   string
	Active bool
}

// Scene carries the inputs of the decorative 3D background.
type Scene struct {
	Enabled   bool
	Mode      models.PerformanceMode
	Stars     bool
	Particles bool
}

// SceneFor derives the scene layers from the visual settings. Stars need
// the high tier; particles are dropped only on low.
func SceneFor(cfg models.SiteConfig) Scene {
	return Scene{
		Enabled:   cfg.Enable3D,
		Mode:      cfg.PerformanceMode,
		Stars:     cfg.PerformanceMode == models.PerformanceHigh,
		Particles: cfg.PerformanceMode != models.PerformanceLow,
	}
}

// Link is a labelled URL.
type Link struct {
	Label string
	URL   string
}

// Footer is rendered below the public pages.
type Footer struct {
	Name     string
	Subtitle string
	Links    []Link
	Socials  []Link
	Year     int
}

// Shell is the chrome around every page.
type Shell struct {
	Current Page
	Brand   string
	Nav     []NavItem
	// Scene and Footer are nil on the admin page.
	Scene  *Scene
	Footer *Footer
}

// NewShell builds the chrome for the current page.
func NewShell(cfg models.SiteConfig, current Page, now time.Time) Shell {
	s := Shell{
		Current: current,
		Brand:   cases.Upper(language.Und).String(cfg.Name),
	}
	for _, p := range Pages {
		s.Nav = append(s.Nav, NavItem{
			Page:   p,
			Label:  string(p),
			Href:   p.Path(),
			Active: p == current,
		})
	}

	if current == PageAdmin {
		return s
	}

	scene := SceneFor(cfg)
	s.Scene = &scene
	s.Footer = &Footer{
		Name:     cfg.Name,
		Subtitle: cfg.Subtitle,
		Links: []Link{
			{Label: "Projects", URL: "/#projects"},
			{Label: "About", URL: "/#about"},
			{Label: "Blog", URL: "/blog"},
		},
		Socials: []Link{
			{Label: "GitHub", URL: cfg.Socials.GitHub},
			{Label: "LinkedIn", URL: cfg.Socials.LinkedIn},
			{Label: "Twitter / X", URL: cfg.Socials.Twitter},
		},
		Year: now.Year(),
	}
	return s
}

var counter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 12345 → "12,345".
func FormatCount(n int) string {
	return counter.Sprintf("%d", n)
}

// FormatDate renders a publish date the way the pages show it.
func FormatDate(t time.Time) string {
	return t.Format("1/2/2006")
}
