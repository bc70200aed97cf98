// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives article slugs from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// foldAccents strips combining marks so "é" becomes "e". A chained
// transformer keeps state, so each call builds its own.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026", "Café Über" → "cafe-uber"
func Generate(s string) string {
	result := strings.ToLower(foldAccents(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.Join(strings.Fields(result), "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// FromTitle lower-cases title and turns each space into a hyphen, leaving
// every other character in place. It is the slug the admin editor stores
// on publish; it is not sanitized and may be empty.
// Example: "Hello World" → "hello-world", "Go & You" → "go-&-you"
func FromTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
