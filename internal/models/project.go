// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "slices"

// Project is a read-only portfolio entry shown on the home page.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	TechStack   []string `json:"tech_stack" yaml:"tech_stack"`
	ImageURL    string   `json:"image_url" yaml:"image_url"`
	DemoURL     string   `json:"demo_url,omitempty" yaml:"demo_url,omitempty"`
	RepoURL     string   `json:"repo_url,omitempty" yaml:"repo_url,omitempty"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Project) Clone() Project {
	p.TechStack = slices.Clone(p.TechStack)
	return p
}
