package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/client"
	"github.com/MrSnakeDoc/navdesk/internal/config"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/index"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
	"github.com/MrSnakeDoc/navdesk/internal/scheduler"
	"github.com/MrSnakeDoc/navdesk/internal/security"
	"github.com/MrSnakeDoc/navdesk/internal/storage"
)

const password = "s3cret"

type testEnv struct {
	srv     *httptest.Server
	idx     *index.MemoryIndex
	trigger chan struct{}
	api     *client.Client
}

func newEnv(t *testing.T, opts ...func(*deps.Deps)) *testEnv {
	t.Helper()
	log := logger.New("error", false)

	idx := index.NewMemoryIndex()
	files := storage.NewFileStore(filepath.Join(t.TempDir(), "nav.yaml"), "", log)
	trigger := make(chan struct{}, 1)
	reloader := scheduler.NewConfigReloader(files, nil, idx, log, time.Hour, false, trigger)
	if err := reloader.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	pw, err := security.NewPassword("", password)
	if err != nil {
		t.Fatal(err)
	}

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Index:         idx,
		Writer:        reloader,
		Tokens:        security.NewTokens("test-secret", time.Hour),
		Password:      pw,
		LoginBurst:    100,
		LoginRefill:   100,
		HomepageURL:   "/",
		ReloadTrigger: trigger,
	}
	for _, opt := range opts {
		opt(&d)
	}
	srv := httptest.NewServer(New(&config.Config{ListenPort: ":0"}, log, d).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, idx: idx, trigger: trigger, api: client.New(srv.URL, 5*time.Second, log)}
}

func TestLoginVerify(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	if _, err := env.api.Login(ctx, "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Login(wrong) error = %v, want ErrUnauthorized", err)
	}

	token, err := env.api.Login(ctx, password)
	if err != nil || token == "" {
		t.Fatalf("Login() = %q, %v", token, err)
	}
	if err := env.api.Verify(ctx, token); err != nil {
		t.Errorf("Verify(valid) error = %v", err)
	}
	if err := env.api.Verify(ctx, token+"x"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Verify(tampered) error = %v", err)
	}
}

func TestConfigGuestAndOwner(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	guest, err := env.api.Fetch(ctx, "")
	if err != nil {
		t.Fatalf("Fetch(guest) error: %v", err)
	}
	for _, it := range guest.Dock.Utilities {
		if it.IsCommand() {
			t.Errorf("guest view leaks command %q", it.Name)
		}
	}

	if _, err := env.api.Fetch(ctx, "garbage"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Fetch(bad token) error = %v, want ErrUnauthorized", err)
	}

	token, _ := env.api.Login(ctx, password)
	owner, err := env.api.Fetch(ctx, token)
	if err != nil {
		t.Fatalf("Fetch(owner) error: %v", err)
	}
	if len(owner.Dock.Utilities) != len(nav.Default().Dock.Utilities) {
		t.Errorf("owner utilities = %d", len(owner.Dock.Utilities))
	}
}

func TestConfigSave(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	doc := nav.Default()
	doc.Greeting.Name = "updated"

	if err := env.api.Save(ctx, "", doc); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Save(guest) error = %v, want ErrUnauthorized", err)
	}

	token, _ := env.api.Login(ctx, password)
	if err := env.api.Save(ctx, token, doc); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := env.api.Save(ctx, token, doc); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, err := env.api.Fetch(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if got.Greeting.Name != "updated" {
		t.Errorf("greeting = %q", got.Greeting.Name)
	}
	if s := env.idx.Stats(); s.Source != "file" {
		t.Errorf("source after save = %q", s.Source)
	}
}

func TestConfigSave_RejectsMissingKeys(t *testing.T) {
	env := newEnv(t)
	token, _ := env.api.Login(context.Background(), password)

	req, _ := http.NewRequest(http.MethodPut, env.srv.URL+"/api/config", strings.NewReader(`{"categories": []}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if g := env.idx.Document().Greeting.Name; g != nav.Default().Greeting.Name {
		t.Errorf("document changed: %q", g)
	}
}

func TestSearch(t *testing.T) {
	env := newEnv(t)
	noFollow := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	link := nav.Default().Categories[0].Links[0]

	tests := []struct {
		name string
		q    string
		want string
	}{
		{"match", strings.ToLower(link.Name), link.URL},
		{"empty", "", "/"},
		{"no match", "qqqqqqqq", "/"},
		{"internal", "/he", "/healthz"},
		{"ambiguous internal", "/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := noFollow.Get(env.srv.URL + "/search?q=" + tt.q)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusFound {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}

	if hits := env.idx.Hits()[link.URL]; hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestOpsEndpoints(t *testing.T) {
	env := newEnv(t)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", 200},
		{http.MethodGet, "/readyz", 200},
		{http.MethodGet, "/infra", 200},
		{http.MethodGet, "/metrics", 200},
		{http.MethodPost, "/reload", 202},
		{http.MethodPost, "/reload", 429},
	}
	for _, tt := range tests {
		t.Run(tt.method+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, env.srv.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

// memMirror is an in-memory stand-in for the Redis store.
type memMirror struct {
	mu      sync.Mutex
	cache   map[string]string
	usage   map[string]int64
	savedAt time.Time
}

func newMemMirror(savedAt time.Time) *memMirror {
	return &memMirror{cache: map[string]string{}, usage: map[string]int64{}, savedAt: savedAt}
}

func (m *memMirror) Ping(context.Context) error { return nil }

func (m *memMirror) CacheResolution(_ context.Context, query, url string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[query] = url
	return nil
}

func (m *memMirror) GetCachedResolution(_ context.Context, query string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache[query], nil
}

func (m *memMirror) IncrementUsage(_ context.Context, url string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage[url]++
	return m.usage[url], nil
}

func (m *memMirror) GetUsageStats(context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.usage))
	for k, v := range m.usage {
		out[k] = v
	}
	return out, nil
}

func (m *memMirror) SavedAt(context.Context) (time.Time, error) {
	if m.savedAt.IsZero() {
		return time.Time{}, apperr.ErrNotFound
	}
	return m.savedAt, nil
}

type infraBody struct {
	Mode  string `json:"mode"`
	Usage struct {
		Source string           `json:"source"`
		Hits   map[string]int64 `json:"hits"`
	} `json:"usage"`
	Components map[string]struct {
		OK      bool       `json:"ok"`
		Mode    string     `json:"mode"`
		SavedAt *time.Time `json:"saved_at"`
	} `json:"components"`
}

func getInfra(t *testing.T, env *testEnv) infraBody {
	t.Helper()
	resp, err := http.Get(env.srv.URL + "/infra")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body infraBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode /infra: %v", err)
	}
	return body
}

// noRedirect stops the client at the search redirect.
var noRedirect = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

func jump(t *testing.T, env *testEnv, query string) {
	t.Helper()
	resp, err := noRedirect.Get(env.srv.URL + "/search?q=" + query)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("search status = %d, want 302", resp.StatusCode)
	}
}

func TestInfra_UsageAndMirror(t *testing.T) {
	link := nav.Default().Categories[0].Links[0]
	saved := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		mirror     *memMirror
		wantSource string
		wantRedis  string
	}{
		{name: "without redis", wantSource: "memory", wantRedis: "disabled"},
		{name: "with redis", mirror: newMemMirror(saved), wantSource: "redis", wantRedis: "optimal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, func(d *deps.Deps) {
				if tt.mirror != nil {
					d.Mirror = tt.mirror
				}
			})
			jump(t, env, strings.ToLower(link.Name))
			jump(t, env, strings.ToLower(link.Name))

			body := getInfra(t, env)
			if body.Usage.Source != tt.wantSource {
				t.Errorf("usage source = %q, want %q", body.Usage.Source, tt.wantSource)
			}
			if got := body.Usage.Hits[link.URL]; got != 2 {
				t.Errorf("hits[%s] = %d, want 2 (all: %v)", link.URL, got, body.Usage.Hits)
			}

			redis := body.Components["redis"]
			if redis.Mode != tt.wantRedis {
				t.Errorf("redis mode = %q, want %q", redis.Mode, tt.wantRedis)
			}
			if tt.mirror != nil {
				if redis.SavedAt == nil || !redis.SavedAt.Equal(saved) {
					t.Errorf("redis saved_at = %v, want %v", redis.SavedAt, saved)
				}
			} else if redis.SavedAt != nil {
				t.Errorf("saved_at reported without redis: %v", redis.SavedAt)
			}
		})
	}
}
