// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"
)

// fixedClock pins the limiter clock so refill is deterministic.
func fixedClock(rl *RateLimiter) *time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()
	fixedClock(rl)

	for i := 0; i < 3; i++ {
		if !rl.allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("test-ip") {
		t.Error("4th request should be rate-limited")
	}
	if !rl.allow("other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := fixedClock(rl)

	rl.allow("test-ip")
	rl.allow("test-ip")
	if rl.allow("test-ip") {
		t.Fatal("should be rate-limited")
	}

	// One token comes back every window/limit.
	*now = now.Add(30 * time.Second)
	if !rl.allow("test-ip") {
		t.Error("should be allowed after a token refills")
	}
	if rl.allow("test-ip") {
		t.Error("only one token should have refilled")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := fixedClock(rl)

	rl.allow("idle")
	*now = now.Add(idleTTL + time.Second)
	rl.allow("active")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["idle"]; ok {
		t.Error("idle client should be removed")
	}
	if _, ok := rl.clients["active"]; !ok {
		t.Error("active client should be kept")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	// Stop is idempotent.
	defer rl.Stop()
	defer rl.Stop()
	fixedClock(rl)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i, code := range want {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != code {
			t.Errorf("request %d: got %d, want %d", i+1, rr.Code, code)
		}
	}
}

// TestRateLimiterIgnoresForwardedFor verifies that a direct client cannot
// escape its bucket by rotating X-Forwarded-For.
func TestRateLimiterIgnoresForwardedFor(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	fixedClock(rl)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusOK {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed: got %d, want 2", allowed)
	}
}

// TestRateLimiterBehindProxy verifies that clients behind a trusted proxy
// get their own buckets.
func TestRateLimiterBehindProxy(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	fixedClock(rl)
	rl.TrustProxies([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = "10.0.0.2:443"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := send("198.51.100.1"); got != http.StatusOK {
		t.Errorf("first client: got %d, want 200", got)
	}
	if got := send("198.51.100.2"); got != http.StatusOK {
		t.Errorf("second client: got %d, want 200", got)
	}
	// A forged leftmost hop does not change the proxy-appended client.
	if got := send("192.0.2.50, 198.51.100.1"); got != http.StatusTooManyRequests {
		t.Errorf("repeat client: got %d, want 429", got)
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
	}

	tests := []struct {
		name    string
		trusted bool
		xff     string
		xri     string
		remote  string
		want    string
	}{
		{"untrusted peer ignores forwarded", false, "203.0.113.7", "198.51.100.4", "192.0.2.9:5555", "192.0.2.9"},
		{"remote addr", false, "", "", "192.0.2.9:5555", "192.0.2.9"},
		{"remote without port", false, "", "", "192.0.2.9", "192.0.2.9"},
		{"ipv6 remote", false, "", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"proxy not in list", true, "203.0.113.7", "", "172.16.0.1:80", "172.16.0.1"},
		{"trusted single hop", true, " 203.0.113.8 ", "", "10.0.0.2:80", "203.0.113.8"},
		{"rightmost untrusted hop", true, "6.6.6.6, 203.0.113.7", "", "10.0.0.2:80", "203.0.113.7"},
		{"skips trusted hops", true, "203.0.113.7, 192.0.2.1, 10.9.9.9", "", "10.0.0.2:80", "203.0.113.7"},
		{"all hops trusted", true, "10.1.1.1, 10.2.2.2", "", "10.0.0.2:80", "10.1.1.1"},
		{"trusted real ip", true, "", "198.51.100.4", "10.0.0.2:80", "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(1, time.Minute)
			defer rl.Stop()
			if tt.trusted {
				rl.TrustProxies(proxies)
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := rl.clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
