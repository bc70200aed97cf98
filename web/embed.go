// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web provides the embedded static assets (CSS, JS) served at
// /static/. HTMX itself is loaded from a CDN by the base layout.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree: the site stylesheet and
// the live update script.
//
//go:embed all:static
var StaticFS embed.FS
