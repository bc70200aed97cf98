// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import (
	"strings"

	"cyberfolio/internal/models"
)

// Skill is one bar in the skills panel.
type Skill struct {
	Name  string
	Level int
}

// Skills is the fixed skills panel on the home page.
var Skills = []Skill{
	{Name: "React / TypeScript", Level: 95},
	{Name: "Three.js / WebGL", Level: 85},
	{Name: "Node.js / Backend", Level: 90},
	{Name: "UI / UX Design", Level: 80},
}

// Home is the landing page: hero, about, skills, projects and contact.
type Home struct {
	FirstName string
	Name      string
	Title     string
	Subtitle  string
	AvatarURL string
	AboutText string
	MailTo    string
	Skills    []Skill
	Projects  []models.Project
}

// FirstName returns the part of name before the first space.
func FirstName(name string) string {
	first, _, _ := strings.Cut(name, " ")
	return first
}

// NewHome projects the site configuration and projects onto the home page.
func NewHome(cfg models.SiteConfig, projects []models.Project) Home {
	return Home{
		FirstName: FirstName(cfg.Name),
		Name:      cfg.Name,
		Title:     cfg.Title,
		Subtitle:  cfg.Subtitle,
		AvatarURL: cfg.AvatarURL,
		AboutText: cfg.AboutText,
		MailTo:    "mailto:" + cfg.Email,
		Skills:    Skills,
		Projects:  projects,
	}
}
