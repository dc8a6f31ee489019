package mw

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/security"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func serve(h http.Handler, r *http.Request) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec.Code
}

func TestEnforceHost(t *testing.T) {
	log := logger.New("error", false)
	h := EnforceHost([]string{"nav.example.com", "*.lan"}, log)(ok)

	tests := []struct {
		host string
		want int
	}{
		{"nav.example.com", 200},
		{"nav.example.com:8080", 200},
		{"NAV.example.com", 200},
		{"box.lan", 200},
		{"lan", 403},
		{"evil.com", 403},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Host = tt.host
			if got := serve(h, r); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}

	if got := serve(EnforceHost(nil, log)(ok), httptest.NewRequest("GET", "/", nil)); got != 200 {
		t.Errorf("empty list should pass through, got %d", got)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.New("error", false))(ok)

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.2.3.4:5555"
	if got := serve(h, r); got != 200 {
		t.Errorf("allowed ip status = %d", got)
	}
	r.RemoteAddr = "8.8.8.8:5555"
	if got := serve(h, r); got != 403 {
		t.Errorf("rejected ip status = %d", got)
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Unix(0, 0)
	h := RateLimit(RateLimitConfig{
		Burst:             2,
		RefillPerIPPerMin: 60,
		Now:               func() time.Time { return now },
	}, logger.New("error", false))(ok)

	req := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.RemoteAddr = ip + ":1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := req("1.1.1.1"); rec.Code != 200 {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := req("1.1.1.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	if rec := req("2.2.2.2"); rec.Code != 200 {
		t.Errorf("other client limited: %d", rec.Code)
	}

	now = now.Add(time.Second)
	if rec := req("1.1.1.1"); rec.Code != 200 {
		t.Errorf("after refill status = %d", rec.Code)
	}
}

type fakeVerifier struct{ valid string }

func (f fakeVerifier) Verify(token string) (*security.Claims, error) {
	if token != f.valid {
		return nil, errors.New("bad token")
	}
	return &security.Claims{}, nil
}

func TestAuthenticate(t *testing.T) {
	var sawOwner bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawOwner = IsOwner(r.Context())
	})
	guestOK := Authenticate(fakeVerifier{"good"}, logger.New("error", false))(inner)
	ownerOnly := Authenticate(fakeVerifier{"good"}, logger.New("error", false))(RequireOwner(inner))

	tests := []struct {
		name      string
		header    string
		h         http.Handler
		wantCode  int
		wantOwner bool
	}{
		{"guest passes", "", guestOK, 200, false},
		{"owner", "Bearer good", guestOK, 200, true},
		{"bad token", "Bearer nope", guestOK, 401, false},
		{"wrong scheme", "Basic good", guestOK, 401, false},
		{"owner required", "", ownerOnly, 401, false},
		{"owner allowed", "Bearer good", ownerOnly, 200, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawOwner = false
			r := httptest.NewRequest("GET", "/api/config", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := serve(tt.h, r); got != tt.wantCode {
				t.Errorf("status = %d, want %d", got, tt.wantCode)
			}
			if sawOwner != tt.wantOwner {
				t.Errorf("owner = %v, want %v", sawOwner, tt.wantOwner)
			}
		})
	}
}
