package server

import (
	"net/http"
	"testing"

	"github.com/arthur-zhuk/bangfall/internal/config"
)

func TestConnLimiterPerIPLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100})

	if !limiter.TryAcquire("192.168.1.1") || !limiter.TryAcquire("192.168.1.1") {
		t.Error("Expected the first two connections from one IP to be allowed")
	}
	if limiter.TryAcquire("192.168.1.1") {
		t.Error("Expected the third connection from one IP to be rejected")
	}
	if !limiter.TryAcquire("192.168.1.2") {
		t.Error("Expected a connection from a different IP to be allowed")
	}

	limiter.Release("192.168.1.1")
	if !limiter.TryAcquire("192.168.1.1") {
		t.Error("Expected a connection to be allowed after a release")
	}
}

func TestConnLimiterTotalLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 2})

	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.2")
	if limiter.TryAcquire("192.168.1.3") {
		t.Error("Expected the total limit to reject the third connection")
	}

	limiter.Release("192.168.1.1")
	if !limiter.TryAcquire("192.168.1.3") {
		t.Error("Expected a connection to be allowed after a release")
	}
}

func TestConnLimiterUnlimited(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{})

	for i := 0; i < 100; i++ {
		if !limiter.TryAcquire("192.168.1.1") {
			t.Fatalf("Connection %d should be allowed with no limits", i)
		}
	}
}

func TestConnLimiterStats(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 100})

	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.2")

	if total, ips := limiter.GetStats(); total != 3 || ips != 2 {
		t.Errorf("Expected 3 connections over 2 IPs, got %d over %d", total, ips)
	}
	if count := limiter.GetIPCount("192.168.1.1"); count != 2 {
		t.Errorf("Expected 2 connections for the first IP, got %d", count)
	}
	if count := limiter.GetIPCount("192.168.1.3"); count != 0 {
		t.Errorf("Expected 0 connections for an unknown IP, got %d", count)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"localhost:4000", "localhost"},
		{"192.168.1.1", "192.168.1.1"}, // no port
	}

	for _, tt := range tests {
		if got := extractIP(tt.input); got != tt.expected {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For single IP",
			xff:        "203.0.113.50",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For keeps the first hop",
			xff:        "203.0.113.50, 70.41.3.18, 150.172.238.178",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "X-Real-IP",
			xri:        "203.0.113.50",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For wins over X-Real-IP",
			xff:        "203.0.113.50",
			xri:        "198.51.100.25",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "No headers falls back to RemoteAddr",
			remoteAddr: "192.168.1.100:54321",
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{
				RemoteAddr: tt.remoteAddr,
				Header:     make(http.Header),
			}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := getRealIP(req); got != tt.expected {
				t.Errorf("getRealIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
