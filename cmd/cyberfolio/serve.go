// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cyberfolio/internal/auth"
	"cyberfolio/internal/cache"
	"cyberfolio/internal/config"
	"cyberfolio/internal/handlers"
	"cyberfolio/internal/live"
	"cyberfolio/internal/middleware"
	"cyberfolio/internal/render"
	"cyberfolio/internal/router"
	"cyberfolio/internal/seed"
	"cyberfolio/internal/session"
	"cyberfolio/internal/store"
	"cyberfolio/internal/watch"
)

// shutdownTimeout is how long active requests get to finish on shutdown.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server",
	Long: `The serve command loads the seed content into memory, connects to Valkey
when configured, and serves the site until SIGINT or SIGTERM. When a site
file is configured, edits to it are merged into the live site config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	// Load configuration from the config file and environment variables.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	slog.SetDefault(newLogger(cfg.IsDev()))
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"valkey", cfg.UseValkey(),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build the content store from the seed file and content directory.
	content, err := seed.Load(seed.Options{
		File:       cfg.SeedFile,
		ContentDir: cfg.ContentDir,
		Now:        time.Now(),
	})
	if err != nil {
		return fmt.Errorf("load seed content: %w", err)
	}

	verifier, kind := auth.New(cfg.AuthOptions())
	hint := ""
	if kind == "shared-default" {
		hint = auth.DefaultSharedSecret
		slog.Warn("admin login uses the demo secret; set ADMIN_SECRET, ADMIN_SECRET_HASH or ADMIN_TOTP_SECRET")
	}
	slog.Info("admin verifier ready", "kind", kind)

	cs := store.NewContentStore(content, verifier, store.Options{Logger: slog.Default()})
	slog.Info("content loaded",
		"articles", len(content.Articles),
		"projects", len(content.Projects),
	)

	// Sessions and the page cache live in Valkey when configured, otherwise
	// in process memory.
	var (
		backend session.Backend
		pages   cache.Pages
	)
	if cfg.UseValkey() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer client.Close()
		backend = session.NewValkeyBackend(client)
		pages = cache.NewValkeyPages(client, cache.DefaultPageTTL)
	} else {
		backend = session.NewMemoryBackend()
		pages = cache.NewMemoryPages(cache.DefaultPageTTL, cache.DefaultMemoryEntries)
	}

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(backend, secureCookies)

	// The store always starts locked at revision 0, so nothing left in
	// Valkey by a previous process may be trusted.
	if err := sessions.Clear(ctx); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	pages.InvalidateAll(ctx)

	unsubSessions := sessions.ClearOnLogout(cs)
	defer unsubSessions()
	unsubPages := cache.InvalidateOnChange(cs, pages)
	defer unsubPages()

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	hub := live.NewHub(cs, live.DefaultBuffer)
	defer hub.Close()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, time.Minute)
	defer loginLimiter.Stop()
	loginLimiter.TrustProxies(cfg.TrustedProxyPrefixes())

	r := router.New(sessions, cs, router.Handlers{
		Public: handlers.NewPublic(renderer, cs, pages, cfg.BaseURL),
		Auth:   handlers.NewAuth(renderer, sessions, cs, hint),
		Admin:  handlers.NewAdmin(renderer, sessions, cs),
		Live:   hub,
	}, loginLimiter, secureCookies)

	// Merge the site file now, then follow its edits.
	if cfg.SiteFile != "" {
		sf := watch.NewSiteFile(cfg.SiteFile, cs)
		if err := sf.Apply(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("apply site file: %w", err)
		}
		go func() {
			if err := sf.Run(ctx); err != nil {
				slog.Error("site file watcher stopped", "error", err)
			}
		}()
	}

	// No read or write timeout: /live websockets stay open, and the hub
	// bounds each of its writes.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received")

	// Shutdown does not wait for hijacked connections.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
