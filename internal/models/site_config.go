// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// PerformanceMode selects how much of the decorative background is drawn.
type PerformanceMode string

const (
	PerformanceHigh   PerformanceMode = "high"
	PerformanceMedium PerformanceMode = "medium"
	PerformanceLow    PerformanceMode = "low"
)

// PerformanceModes lists the modes in the order the admin selector shows them.
var PerformanceModes = []PerformanceMode{PerformanceHigh, PerformanceMedium, PerformanceLow}

// Valid reports whether m is one of the known modes.
func (m PerformanceMode) Valid() bool {
	switch m {
	case PerformanceHigh, PerformanceMedium, PerformanceLow:
		return true
	}
	return false
}

// Socials holds the three profile links shown in the footer.
type Socials struct {
	GitHub   string `json:"github" yaml:"github"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Twitter  string `json:"twitter" yaml:"twitter"`
}

// SiteConfig is the singleton site configuration. It has no identity and
// is only ever changed through a merge update.
type SiteConfig struct {
	Name            string          `json:"name" yaml:"name"`
	Title           string          `json:"title" yaml:"title"`
	Subtitle        string          `json:"subtitle" yaml:"subtitle"`
	AboutText       string          `json:"about_text" yaml:"about_text"`
	AvatarURL       string          `json:"avatar_url" yaml:"avatar_url"`
	Email           string          `json:"email" yaml:"email"`
	Socials         Socials         `json:"socials" yaml:"socials"`
	AdsenseID       string          `json:"adsense_id" yaml:"adsense_id"`
	Enable3D        bool            `json:"enable_3d" yaml:"enable_3d"`
	PerformanceMode PerformanceMode `json:"performance_mode" yaml:"performance_mode"`
}

// ConfigPatch is a shallow partial update of SiteConfig. Nil fields are
// left untouched; Socials replaces all three links at once.
type ConfigPatch struct {
	Name            *string          `yaml:"name"`
	Title           *string          `yaml:"title"`
	Subtitle        *string          `yaml:"subtitle"`
	AboutText       *string          `yaml:"about_text"`
	AvatarURL       *string          `yaml:"avatar_url"`
	Email           *string          `yaml:"email"`
	Socials         *Socials         `yaml:"socials"`
	AdsenseID       *string          `yaml:"adsense_id"`
	Enable3D        *bool            `yaml:"enable_3d"`
	PerformanceMode *PerformanceMode `yaml:"performance_mode"`
}

// IsEmpty reports whether the patch would change nothing.
func (p ConfigPatch) IsEmpty() bool {
	return p == ConfigPatch{}
}

// Apply merges the non-nil fields of p into c.
func (p ConfigPatch) Apply(c *SiteConfig) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Subtitle != nil {
		c.Subtitle = *p.Subtitle
	}
	if p.AboutText != nil {
		c.AboutText = *p.AboutText
	}
	if p.AvatarURL != nil {
		c.AvatarURL = *p.AvatarURL
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Socials != nil {
		c.Socials = *p.Socials
	}
	if p.AdsenseID != nil {
		c.AdsenseID = *p.AdsenseID
	}
	if p.Enable3D != nil {
		c.Enable3D = *p.Enable3D
	}
	if p.PerformanceMode != nil {
		c.PerformanceMode = *p.PerformanceMode
	}
}
