package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests refused")
	}
	if rl.Allow("a") {
		t.Error("third request allowed inside the window")
	}
	if !rl.Allow("b") {
		t.Error("other client limited")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Errorf("RetryAfter = %d, want 61", got)
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("request refused after the window reset")
	}
	if rl.RetryAfter("unknown") != 0 {
		t.Error("RetryAfter for an unseen client")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("stale")
	now = now.Add(5 * time.Minute)
	rl.Allow("fresh")

	if _, ok := rl.buckets["stale"]; ok {
		t.Error("stale bucket survived cleanup")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Error("fresh bucket missing")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name, remote, xff, want string
	}{
		{"socket", "10.0.0.7:5123", "", "10.0.0.7"},
		{"ipv6 socket", "[::1]:80", "", "::1"},
		{"forwarded", "10.0.0.7:5123", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"no port", "10.0.0.7", "", "10.0.0.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
