// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package watch merges a YAML site file into the store's config, once at
// startup and again whenever the file changes on disk.
package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"cyberfolio/internal/models"
	"cyberfolio/internal/store"
)

// DefaultDebounce collapses bursts of editor writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ErrInvalidMode is returned for a performance_mode outside high, medium, low.
var ErrInvalidMode = errors.New("invalid performance_mode")

// ParsePatch decodes a site file. Unknown keys are rejected; an empty file
// is an empty patch.
func ParsePatch(data []byte) (models.ConfigPatch, error) {
	var p models.ConfigPatch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return models.ConfigPatch{}, fmt.Errorf("parse site file: %w", err)
	}
	if p.PerformanceMode != nil && !p.PerformanceMode.Valid() {
		return models.ConfigPatch{}, fmt.Errorf("%w: %q", ErrInvalidMode, *p.PerformanceMode)
	}
	return p, nil
}

// SiteFile keeps the store config in step with a YAML file.
type SiteFile struct {
	path     string
	cs       *store.ContentStore
	debounce time.Duration

	// started is closed once the watch is in place.
	started chan struct{}
}

// NewSiteFile creates a watcher for path.
func NewSiteFile(path string, cs *store.ContentStore) *SiteFile {
	return &SiteFile{
		path:     path,
		cs:       cs,
		debounce: DefaultDebounce,
		started:  make(chan struct{}),
	}
}

// Apply reads the file and merges it into the config. An empty patch
// leaves the store untouched.
func (w *SiteFile) Apply() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("read site file: %w", err)
	}
	p, err := ParsePatch(data)
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return nil
	}
	w.cs.UpdateConfig(p)
	slog.Info("site file applied", "path", w.path, "revision", w.cs.Revision())
	return nil
}

// Run watches the file until ctx is cancelled. The parent directory is
// watched so that editors which replace the file by rename are seen.
func (w *SiteFile) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	close(w.started)

	name := filepath.Clean(w.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("site file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.Apply(); err != nil {
				slog.Error("site file reload failed", "path", w.path, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}
