// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cyberfolio/internal/models"
	"cyberfolio/internal/slug"
)

// LoginFailedMessage is shown after a rejected login.
const LoginFailedMessage = "Access Denied. Invalid Key."

// Gate is the admin authentication state of one browser.
type Gate string

const (
	GateLoggedOut Gate = "logged_out"
	GateLoggedIn  Gate = "logged_in"
)

// GateFor combines the store session with the browser's own session. A
// browser is let in only when both agree.
func GateFor(storeAuthenticated, sessionAuthenticated bool) Gate {
	if storeAuthenticated && sessionAuthenticated {
		return GateLoggedIn
	}
	return GateLoggedOut
}

// Tab is an admin sub-view.
type Tab string

const (
	TabOverview Tab = "overview"
	TabContent  Tab = "content"
	TabConfig   Tab = "config"
)

// Tabs lists the admin tabs in sidebar order.
var Tabs = []Tab{TabOverview, TabContent, TabConfig}

// ParseTab maps a URL segment to a Tab.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Label is the sidebar caption of t.
func (t Tab) Label() string {
	switch t {
	case TabContent:
		return "Content Manager"
	case TabConfig:
		return "System Config"
	default:
		return "Overview"
	}
}

// Path is the URL of t.
func (t Tab) Path() string {
	return "/admin/" + string(t)
}

// EditorMode is the state of the content manager.
type EditorMode string

const (
	EditorListing    EditorMode = "listing"
	EditorEditing    EditorMode = "editing"
	EditorPreviewing EditorMode = "previewing"
)

// ErrInvalidTransition is returned when an editor action does not apply
// to the current mode.
var ErrInvalidTransition = errors.New("invalid editor transition")

// Draft is the article being written. Slug, excerpt and tags are derived
// on publish.
type Draft struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Editor is the content manager state machine:
//
//	Listing ─new→ Editing ─preview→ Previewing ─close→ Editing
//	Editing|Previewing ─publish|cancel→ Listing
type Editor struct {
	Mode  EditorMode `json:"mode"`
	Draft Draft      `json:"draft"`
}

func (e *Editor) mode() EditorMode {
	if e.Mode == "" {
		return EditorListing
	}
	return e.Mode
}

func (e *Editor) transition(action string, from ...EditorMode) error {
	cur := e.mode()
	for _, m := range from {
		if cur == m {
			return nil
		}
	}
	return fmt.Errorf("%s from %s: %w", action, cur, ErrInvalidTransition)
}

// Begin opens an empty draft. Opening while already editing keeps the
// current draft.
func (e *Editor) Begin() error {
	if e.mode() == EditorEditing {
		return nil
	}
	if err := e.transition("begin", EditorListing); err != nil {
		return err
	}
	e.Mode = EditorEditing
	e.Draft = Draft{}
	return nil
}

// Update replaces the draft fields.
func (e *Editor) Update(d Draft) error {
	if err := e.transition("update", EditorEditing, EditorPreviewing); err != nil {
		return err
	}
	e.Draft = d
	return nil
}

// OpenPreview shows the draft overlay.
func (e *Editor) OpenPreview() error {
	if err := e.transition("preview", EditorEditing); err != nil {
		return err
	}
	e.Mode = EditorPreviewing
	return nil
}

// ClosePreview returns to the editor with the draft intact.
func (e *Editor) ClosePreview() error {
	if err := e.transition("close preview", EditorPreviewing); err != nil {
		return err
	}
	e.Mode = EditorEditing
	return nil
}

// Cancel discards the draft and returns to the listing.
func (e *Editor) Cancel() error {
	if err := e.transition("cancel", EditorEditing, EditorPreviewing); err != nil {
		return err
	}
	*e = Editor{Mode: EditorListing}
	return nil
}

// Publish returns the article to add for the current draft, then resets
// the editor to the listing.
func (e *Editor) Publish() (models.ArticleDraft, error) {
	if err := e.transition("publish", EditorEditing, EditorPreviewing); err != nil {
		return models.ArticleDraft{}, err
	}
	out := PublishDraft(e.Draft)
	*e = Editor{Mode: EditorListing}
	return out, nil
}

// Editor defaults applied on publish and in the preview.
const (
	DefaultTitle        = "Untitled"
	DefaultCategory     = "General"
	PreviewTitle        = "Untitled Article"
	PreviewContent      = "Start writing content to see it appear here..."
	previewCoverDefault = "preview"
)

// PublishDraft derives a full article from d. The status is always
// published, and the slug is taken from the raw title before defaulting.
func PublishDraft(d Draft) models.ArticleDraft {
	title := d.Title
	if title == "" {
		title = DefaultTitle
	}
	category := d.Category
	if category == "" {
		category = DefaultCategory
	}
	return models.ArticleDraft{
		Title:    title,
		Content:  d.Content,
		Category: category,
		Slug:     slug.FromTitle(d.Title),
		Excerpt:  models.Excerpt(d.Content),
		Tags:     []string{},
		Status:   models.ArticleStatusPublished,
	}
}

// PreviewDetail renders d through the article layout without saving it.
func PreviewDetail(d Draft, now time.Time) Detail {
	coverSeed := d.Title
	if coverSeed == "" {
		coverSeed = previewCoverDefault
	}
	out := Detail{
		Title:       d.Title,
		Category:    d.Category,
		PublishedAt: now,
		Views:       0,
		Cover:       PlaceholderCover(coverSeed, detailCoverWidth, detailCoverHeight),
		Content:     d.Content,
		Preview:     true,
	}
	if out.Title == "" {
		out.Title = PreviewTitle
	}
	if out.Category == "" {
		out.Category = DefaultCategory
	}
	if out.Content == "" {
		out.Content = PreviewContent
	}
	return out
}

// AdminState is the per-browser admin state kept in the session.
type AdminState struct {
	Tab    Tab    `json:"tab"`
	Editor Editor `json:"editor"`
}

// Notification is one line in the overview feed.
type Notification struct {
	Message string
	Age     string
	Level   string
}

// Notifications is the static overview feed.
var Notifications = []Notification{
	{Message: "Database backup completed successfully.", Age: "2m ago", Level: "success"},
	{Message: "New traffic spike detected from US region.", Age: "1h ago", Level: "info"},
}

// Overview is the admin dashboard.
type Overview struct {
	TotalViews    string
	ArticleCount  int
	Security      string
	Notifications []Notification
}

// NewOverview counts every article, drafts included.
func NewOverview(pageViews int, list []models.Article) Overview {
	return Overview{
		TotalViews:    FormatCount(pageViews),
		ArticleCount:  len(list),
		Security:      "SECURE",
		Notifications: Notifications,
	}
}

// ListItem is one row of the content manager listing.
type ListItem struct {
	ID        string
	Title     string
	Category  string
	Status    models.ArticleStatus
	Published bool
}

// NewListing lists every article, drafts included.
func NewListing(list []models.Article) []ListItem {
	out := make([]ListItem, 0, len(list))
	for _, a := range list {
		out = append(out, ListItem{
			ID:        a.ID,
			Title:     a.Title,
			Category:  a.Category,
			Status:    a.Status,
			Published: a.IsPublished(),
		})
	}
	return out
}

// TabItem is a sidebar entry.
type TabItem struct {
	Tab    Tab
	Label  string
	Href   string
	Active bool
}

// ModeOption is one choice in the graphic fidelity selector.
type ModeOption struct {
	Mode     models.PerformanceMode
	Label    string
	Selected bool
}

var modeLabels = map[models.PerformanceMode]string{
	models.PerformanceHigh:   "High (Shadows + Particles + Bloom)",
	models.PerformanceMedium: "Medium (No Particles)",
	models.PerformanceLow:    "Low (Basic Geometry)",
}

// ModeOptions lists the performance tiers with current selected.
func ModeOptions(current models.PerformanceMode) []ModeOption {
	out := make([]ModeOption, 0, len(models.PerformanceModes))
	for _, m := range models.PerformanceModes {
		out = append(out, ModeOption{Mode: m, Label: modeLabels[m], Selected: m == current})
	}
	return out
}

// Admin is everything the admin page renders for a logged-in browser.
type Admin struct {
	Tab      Tab
	Tabs     []TabItem
	Overview Overview
	Listing  []ListItem
	Editor   Editor
	// Preview is set while the editor is previewing.
	Preview *Detail
	Config  models.SiteConfig
	Modes   []ModeOption
}

// NewAdmin builds the admin page for state.
func NewAdmin(cfg models.SiteConfig, list []models.Article, pageViews int, state AdminState, now time.Time) Admin {
	tab := state.Tab
	if _, ok := ParseTab(string(tab)); !ok {
		tab = TabOverview
	}

	a := Admin{
		Tab:    tab,
		Editor: state.Editor,
		Config: cfg,
	}
	a.Editor.Mode = a.Editor.mode()
	for _, t := range Tabs {
		a.Tabs = append(a.Tabs, TabItem{Tab: t, Label: t.Label(), Href: t.Path(), Active: t == tab})
	}

	switch tab {
	case TabOverview:
		a.Overview = NewOverview(pageViews, list)
	case TabContent:
		a.Listing = NewListing(list)
		if a.Editor.Mode == EditorPreviewing {
			p := PreviewDetail(a.Editor.Draft, now)
			a.Preview = &p
		}
	case TabConfig:
		a.Modes = ModeOptions(cfg.PerformanceMode)
	}
	return a
}

// ConfigField is a setting editable from the config tab.
type ConfigField string

const (
	FieldName            ConfigField = "name"
	FieldAvatarURL       ConfigField = "avatar_url"
	FieldAdsenseID       ConfigField = "adsense_id"
	FieldEnable3D        ConfigField = "enable_3d"
	FieldPerformanceMode ConfigField = "performance_mode"
)

// MaxFieldLength caps free-text config values.
const MaxFieldLength = 2048

// Config form errors.
var (
	ErrUnknownField    = errors.New("unknown config field")
	ErrFieldTooLong    = errors.New("value too long")
	ErrInvalidMode     = errors.New("performance mode must be high, medium or low")
	ErrInvalidBoolean  = errors.New("value must be true or false")
	ErrInvalidEncoding = errors.New("value is not valid UTF-8")
)

// ConfigFieldPatch turns one submitted form field into a config patch.
func ConfigFieldPatch(field ConfigField, value string) (models.ConfigPatch, error) {
	if !utf8.ValidString(value) {
		return models.ConfigPatch{}, ErrInvalidEncoding
	}
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return models.ConfigPatch{}, ErrFieldTooLong
	}

	switch field {
	case FieldName:
		return models.ConfigPatch{Name: &value}, nil
	case FieldAvatarURL:
		return models.ConfigPatch{AvatarURL: &value}, nil
	case FieldAdsenseID:
		return models.ConfigPatch{AdsenseID: &value}, nil
	case FieldEnable3D:
		// An unchecked checkbox submits nothing.
		on := false
		if value != "" {
			v, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				if value != "on" {
					return models.ConfigPatch{}, ErrInvalidBoolean
				}
				v = true
			}
			on = v
		}
		return models.ConfigPatch{Enable3D: &on}, nil
	case FieldPerformanceMode:
		mode := models.PerformanceMode(value)
		if !mode.Valid() {
			return models.ConfigPatch{}, ErrInvalidMode
		}
		return models.ConfigPatch{PerformanceMode: &mode}, nil
	default:
		return models.ConfigPatch{}, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
}

// AdminPage is the admin page as a whole: the login form while logged out,
// the dashboard otherwise.
type AdminPage struct {
	Gate       Gate
	LoginError string
	// Hint is shown under the login form when the demo secret is active.
	Hint  string
	Admin *Admin
}

// LoggedIn reports whether the dashboard is shown.
func (p AdminPage) LoggedIn() bool {
	return p.Gate == GateLoggedIn && p.Admin != nil
}
