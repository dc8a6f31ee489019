package netutil

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", nil, false, "10.0.0.1"},
		{"headers ignored without trust", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.1"},
		{"cloudflare first", "10.0.0.1:1", map[string]string{"CF-Connecting-IP": "5.5.5.5", "X-Forwarded-For": "1.2.3.4"}, true, "5.5.5.5"},
		{"left-most forwarded", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "1.2.3.4, 9.9.9.9"}, true, "1.2.3.4"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "7.7.7.7"}, true, "7.7.7.7"},
		{"no headers with trust", "[::1]:80", nil, true, "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "garbage", "::1"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.5", true},
		{"192.168.1.6", false},
		{"::1", true},
		{"::ffff:10.0.0.1", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should give empty matcher")
	}
}
