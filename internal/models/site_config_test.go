// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestPerformanceModeValid(t *testing.T) {
	tests := []struct {
		mode PerformanceMode
		want bool
	}{
		{PerformanceHigh, true},
		{PerformanceMedium, true},
		{PerformanceLow, true},
		{"", false},
		{"ultra", false},
		{"HIGH", false},
	}

	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.want {
			t.Errorf("PerformanceMode(%q).Valid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

// TestConfigPatchApplyMerges verifies that a patch only touches the fields
// it carries, and that Socials are replaced as a whole.
func TestConfigPatchApplyMerges(t *testing.T) {
	cfg := SiteConfig{
		Name:            "Old Name",
		Title:           "Creative Technologist",
		AdsenseID:       "ca-pub-1",
		Socials:         Socials{GitHub: "gh", LinkedIn: "li", Twitter: "tw"},
		Enable3D:        true,
		PerformanceMode: PerformanceHigh,
	}

	name := "X"
	ConfigPatch{Name: &name}.Apply(&cfg)

	if cfg.Name != "X" {
		t.Errorf("Name: got %q, want %q", cfg.Name, "X")
	}
	if cfg.Title != "Creative Technologist" || cfg.AdsenseID != "ca-pub-1" {
		t.Errorf("untouched fields changed: %+v", cfg)
	}
	if !cfg.Enable3D || cfg.PerformanceMode != PerformanceHigh {
		t.Errorf("visual fields changed: %+v", cfg)
	}

	ConfigPatch{Socials: &Socials{GitHub: "new-gh"}}.Apply(&cfg)
	if cfg.Socials.GitHub != "new-gh" || cfg.Socials.Twitter != "" {
		t.Errorf("Socials: got %+v, want wholesale replacement", cfg.Socials)
	}

	off := false
	low := PerformanceLow
	ConfigPatch{Enable3D: &off, PerformanceMode: &low}.Apply(&cfg)
	if cfg.Enable3D || cfg.PerformanceMode != PerformanceLow {
		t.Errorf("visual fields: got %v/%q", cfg.Enable3D, cfg.PerformanceMode)
	}
}

func TestConfigPatchIsEmpty(t *testing.T) {
	if !(ConfigPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	name := ""
	if (ConfigPatch{Name: &name}).IsEmpty() {
		t.Error("patch setting a field to the empty string is not empty")
	}
}
