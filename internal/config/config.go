// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from defaults,
// an optional YAML config file and environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"cyberfolio/internal/auth"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host    string `mapstructure:"app_host"`
	Port    string `mapstructure:"app_port"`
	Env     string `mapstructure:"app_env"` // "development", "production", "testing"
	BaseURL string `mapstructure:"base_url"`

	// Valkey (Redis-compatible). Empty host keeps sessions and the page
	// cache in process memory.
	ValkeyHost     string `mapstructure:"valkey_host"`
	ValkeyPort     string `mapstructure:"valkey_port"`
	ValkeyPassword string `mapstructure:"valkey_password"`

	// Admin credential. TOTP wins over the hash, the hash over the secret.
	AdminSecret     string `mapstructure:"admin_secret"`
	AdminSecretHash string `mapstructure:"admin_secret_hash"`
	AdminTOTPSecret string `mapstructure:"admin_totp_secret"`

	// Content sources
	SeedFile   string `mapstructure:"seed_file"`
	ContentDir string `mapstructure:"content_dir"`
	SiteFile   string `mapstructure:"site_file"`

	LoginRatePerMinute int `mapstructure:"login_rate_per_minute"`

	// TrustedProxies is a comma-separated list of proxy IPs or CIDRs whose
	// X-Forwarded-For headers are believed. Empty trusts none.
	TrustedProxies string `mapstructure:"trusted_proxies"`

	proxies []netip.Prefix
}

// defaults lists every key so environment variables bind even when no
// config file mentions them.
var defaults = map[string]any{
	"app_host":              "0.0.0.0",
	"app_port":              "8080",
	"app_env":               EnvDevelopment,
	"base_url":              "",
	"valkey_host":           "",
	"valkey_port":           "6379",
	"valkey_password":       "",
	"admin_secret":          "",
	"admin_secret_hash":     "",
	"admin_totp_secret":     "",
	"seed_file":             "",
	"content_dir":           "",
	"site_file":             "",
	"login_rate_per_minute": 5,
	"trusted_proxies":       "",
}

// Load reads configuration. When path is empty, ./cyberfolio.yaml is used
// if present. Returns an error if values are invalid or if production runs
// with the demo admin secret.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("cyberfolio")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return fmt.Errorf("APP_ENV must be development, production or testing, got %q", c.Env)
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("APP_PORT %q is not a port number", c.Port)
	}
	if c.LoginRatePerMinute < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be at least 1, got %d", c.LoginRatePerMinute)
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("BASE_URL %q must be an absolute http(s) URL", c.BaseURL)
		}
	}
	// Cached pages are keyed by origin; without a fixed one, every Host
	// header would mint its own Valkey keys.
	if c.UseValkey() && c.BaseURL == "" {
		return fmt.Errorf("BASE_URL must be set when VALKEY_HOST is set")
	}
	proxies, err := parseProxies(c.TrustedProxies)
	if err != nil {
		return err
	}
	c.proxies = proxies
	if c.Env == EnvProduction && c.AdminTOTPSecret == "" && c.AdminSecretHash == "" {
		if c.AdminSecret == "" || c.AdminSecret == auth.DefaultSharedSecret {
			return fmt.Errorf("ADMIN_SECRET, ADMIN_SECRET_HASH or ADMIN_TOTP_SECRET must be set in production")
		}
	}
	return nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

// UseValkey reports whether sessions and the page cache live in Valkey.
func (c *Config) UseValkey() bool {
	return c.ValkeyHost != ""
}

// AuthOptions returns the admin credential settings.
func (c *Config) AuthOptions() auth.Options {
	return auth.Options{
		TOTPSecret:   c.AdminTOTPSecret,
		SecretHash:   c.AdminSecretHash,
		SharedSecret: c.AdminSecret,
	}
}

// TrustedProxyPrefixes returns the parsed TRUSTED_PROXIES list.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	return c.proxies
}

// parseProxies accepts bare addresses and CIDR prefixes.
func parseProxies(list string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES entry %q: %w", item, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES entry %q: %w", item, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
