// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package views

import (
	"net/url"
	"strings"
)

// ShareLinks are the outbound share intents for one article. Building
// them performs no network I/O.
type ShareLinks struct {
	Canonical string
	Twitter   string
	LinkedIn  string
	Facebook  string
}

// Canonical returns the shareable URL of the article with slug. Editor
// slugs are not sanitized, so the slug is query-encoded.
func Canonical(base, slug string) string {
	return strings.TrimRight(base, "/") + "/?article=" + EncodeComponent(slug)
}

// NewShareLinks builds the share intents for title and slug under base.
func NewShareLinks(base, title, slug string) ShareLinks {
	canonical := Canonical(base, slug)
	u := EncodeComponent(canonical)
	return ShareLinks{
		Canonical: canonical,
		Twitter:   "https://twitter.com/intent/tweet?text=" + EncodeComponent(title) + "&url=" + u,
		LinkedIn:  "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
		Facebook:  "https://www.facebook.com/sharer/sharer.php?u=" + u,
	}
}

// componentUnescape restores the characters URI-component encoding keeps
// literal but url.QueryEscape escapes.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s as a URI component: everything except
// letters, digits and -_.!~*'() is escaped and spaces become %20.
func EncodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
