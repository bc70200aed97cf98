// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"unicode/utf8"

	"cyberfolio/internal/views"
)

// Validation limits for admin form fields.
const (
	maxTitleLen    = 300
	maxCategoryLen = 100
	maxContentLen  = 100_000
	maxSecretLen   = 1_024
)

// validateDraft checks editor form inputs and returns the first error
// found. Empty fields are allowed; publishing fills in defaults.
func validateDraft(d views.Draft) string {
	if !utf8.ValidString(d.Title) || !utf8.ValidString(d.Category) || !utf8.ValidString(d.Content) {
		return "Fields must be valid UTF-8."
	}
	if utf8.RuneCountInString(d.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(d.Category) > maxCategoryLen {
		return "Category is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(d.Content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateSecret checks the submitted access key before it reaches the
// verifier.
func validateSecret(secret string) string {
	if len(secret) > maxSecretLen {
		return "Access key is too long."
	}
	return ""
}
