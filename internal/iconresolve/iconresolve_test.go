package iconresolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

func TestShortLabel(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.kimi.com/x", "kimi"},
		{"not a url", ""},
		{"https://github.com", "github"},
		{"http://docs.internal.example.org/path?q=1", "docs"},
		{"https://averyveryverylongname.io", "averyver"},
		{"https://localhost:8080/", "localhost"[:8]},
		{"", ""},
		{"://bad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ShortLabel(tt.url); got != tt.want {
				t.Errorf("ShortLabel(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFaviconURL(t *testing.T) {
	got, err := FaviconURL("https://example.com/some/page?x=1")
	if err != nil || got != "https://example.com/favicon.ico" {
		t.Errorf("FaviconURL() = %q, %v", got, err)
	}
	if _, err := FaviconURL("mailto:me@example.com"); err == nil {
		t.Error("expected error for non-http url")
	}
}

func iconServer(t *testing.T, delay time.Duration, status int, contentType string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/favicon.ico" {
			http.NotFound(w, r)
			return
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte{0, 0, 1, 0})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		delay       time.Duration
		status      int
		contentType string
		wantOK      bool
	}{
		{"icon served", 0, http.StatusOK, "image/x-icon", true},
		{"not found", 0, http.StatusNotFound, "image/x-icon", false},
		{"html page", 0, http.StatusOK, "text/html", false},
		{"slower than timeout", 500 * time.Millisecond, http.StatusOK, "image/x-icon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := iconServer(t, tt.delay, tt.status, tt.contentType)
			r := NewResolver(100*time.Millisecond, logger.New("error", false)).WithClient(srv.Client())

			icon, ok := r.Resolve(context.Background(), srv.URL+"/dashboard")
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && icon != srv.URL+"/favicon.ico" {
				t.Errorf("Resolve() icon = %q", icon)
			}
			if !ok && icon != "" {
				t.Errorf("Resolve() should return no icon on failure, got %q", icon)
			}
		})
	}
}

func TestResolve_BadURL(t *testing.T) {
	r := NewResolver(0, logger.New("error", false))
	if r.Timeout() != DefaultTimeout {
		t.Errorf("default timeout = %v", r.Timeout())
	}
	if _, ok := r.Resolve(context.Background(), "not a url"); ok {
		t.Error("unparsable url must not resolve")
	}
}

func TestChoice_StashOnToggle(t *testing.T) {
	c := NewChoice("https://a.io/favicon.ico", "a")
	if c.Mode() != ModeFavicon {
		t.Fatalf("mode = %v, want favicon", c.Mode())
	}

	c.Toggle()
	icon, text := c.Fields()
	if c.Mode() != ModeText || icon != "" || text != "a" {
		t.Errorf("text mode fields = %q, %q", icon, text)
	}

	c.Toggle()
	icon, _ = c.Fields()
	if icon != "https://a.io/favicon.ico" {
		t.Errorf("toggling back should restore stashed icon, got %q", icon)
	}
	if c.NeedsResolve() {
		t.Error("restored icon should not need a new resolution")
	}
}

func TestChoice_Resolvable(t *testing.T) {
	tests := []struct {
		name string
		c    *Choice
		want bool
	}{
		{"nothing", NewChoice("", ""), false},
		{"text only", NewChoice("", "gh"), true},
		{"icon only", NewChoice("https://x/favicon.ico", ""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Resolvable(); got != tt.want {
				t.Errorf("Resolvable() = %v, want %v", got, tt.want)
			}
		})
	}

	c := NewChoice("", "")
	c.SetMode(ModeFavicon)
	if !c.NeedsResolve() {
		t.Error("empty favicon mode should need a resolution")
	}
	c.SetResolved("https://x/favicon.ico")
	if !c.Resolvable() {
		t.Error("resolved icon should make the choice resolvable")
	}
	c.SetText("abcdefghijkl")
	if _, text := c.Fields(); text != "abcdefgh" {
		t.Errorf("text should be truncated, got %q", text)
	}
}

func TestLinkFace_ImageXorText(t *testing.T) {
	link := nav.NavLink{Name: "kimi", URL: "https://www.kimi.com", Icon: "https://www.kimi.com/favicon.ico"}

	f := LinkFace(link, true)
	if !f.IsImage() || f.Text != "" {
		t.Errorf("loaded icon should render image only: %+v", f)
	}

	f = LinkFace(link, false)
	if f.IsImage() || f.Text != "kimi" {
		t.Errorf("failed icon should fall back to text: %+v", f)
	}
	if link.Icon == "" {
		t.Error("fallback must not mutate the link")
	}

	f = DockFace(nav.DockItem{Name: "x", Emoji: "🐙"}, false)
	if f.Text != "🐙" {
		t.Errorf("dock face should use emoji, got %q", f.Text)
	}
}

type recordingStore struct {
	mu  sync.Mutex
	doc *nav.Document
	n   int
}

func (s *recordingStore) Transform(f func(*nav.Document) *nav.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next := f(s.doc.Clone()); next != nil {
		s.doc = next
		s.n++
	}
	return nil
}

func TestEnricher_WritesBackByURL(t *testing.T) {
	srv := iconServer(t, 0, http.StatusOK, "image/png")
	link := srv.URL + "/app"
	store := &recordingStore{doc: &nav.Document{
		Categories: []nav.Category{{Title: "A", Links: []nav.NavLink{
			{Name: "other", URL: "https://elsewhere.invalid"},
			{Name: "app", URL: link},
		}}},
		Dock: nav.Dock{
			Items: []nav.DockItem{{Name: "app", URL: link}},
			Utilities: []nav.DockItem{
				{Name: "app", URL: link},
				{Name: "Settings", URL: link, Action: nav.ActionSettings},
			},
		},
	}}

	res := NewResolver(time.Second, logger.New("error", false)).WithClient(srv.Client())
	e := NewEnricher(res, store, logger.New("error", false))
	if !e.Enrich(link) {
		t.Fatal("Enrich() refused on a live enricher")
	}
	e.Wait()

	want := srv.URL + "/favicon.ico"
	if got := store.doc.Categories[0].Links[1].Icon; got != want {
		t.Errorf("link icon = %q, want %q", got, want)
	}
	if got := store.doc.Dock.Items[0].Icon; got != want {
		t.Errorf("dock icon = %q, want %q", got, want)
	}
	if got := store.doc.Dock.Utilities[0].Icon; got != want {
		t.Errorf("utility icon = %q, want %q", got, want)
	}
	if store.doc.Dock.Utilities[1].Icon != "" {
		t.Error("command items must not get an icon")
	}
	if store.doc.Categories[0].Links[0].Icon != "" {
		t.Error("unrelated link must not be touched")
	}
	if store.n != 1 {
		t.Errorf("expected one transform, got %d", store.n)
	}
	if e.Resolved() != 1 {
		t.Errorf("Resolved() = %d, want 1", e.Resolved())
	}

	e.Close()
	if e.Enrich(link) {
		t.Error("closed enricher must refuse work")
	}
}

func TestSetIcon_LastAppliedWins(t *testing.T) {
	base := &nav.Document{Categories: []nav.Category{{Title: "A", Links: []nav.NavLink{{Name: "a", URL: "https://a.io"}}}}}
	manual := func(d *nav.Document) *nav.Document {
		d.Categories[0].Links[0].Icon = "https://cdn/manual.png"
		return d
	}
	resolved := SetIcon("https://a.io", "https://a.io/favicon.ico")

	tests := []struct {
		name  string
		order []func(*nav.Document) *nav.Document
		want  string
	}{
		{"resolution lands last", []func(*nav.Document) *nav.Document{manual, resolved}, "https://a.io/favicon.ico"},
		{"manual edit lands last", []func(*nav.Document) *nav.Document{resolved, manual}, "https://cdn/manual.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &recordingStore{doc: base.Clone()}
			for _, f := range tt.order {
				_ = s.Transform(f)
			}
			if got := s.doc.Categories[0].Links[0].Icon; got != tt.want {
				t.Errorf("icon = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnrichMissing(t *testing.T) {
	res := NewResolver(50*time.Millisecond, logger.New("error", false))
	e := NewEnricher(res, &recordingStore{doc: &nav.Document{}}, logger.New("error", false))
	defer e.Close()

	doc := &nav.Document{
		Categories: []nav.Category{{Links: []nav.NavLink{
			{URL: "http://127.0.0.1:1/a"},
			{URL: "http://127.0.0.1:1/a"},
			{URL: "http://127.0.0.1:1/b", IconText: "b"},
		}}},
		Dock: nav.Dock{
			Items: []nav.DockItem{{Name: "Mail", URL: "http://127.0.0.1:1/a"}},
			Utilities: []nav.DockItem{
				{Name: "Notes", URL: "http://127.0.0.1:1/notes"},
				{Name: "Clock", URL: "http://127.0.0.1:1/clock", Emoji: "⏰"},
				{Name: "Settings", Action: nav.ActionSettings},
			},
		},
	}
	if n := e.EnrichMissing(doc); n != 2 {
		t.Errorf("EnrichMissing() started %d, want 2", n)
	}
	e.Wait()
	if e.Resolved() != 0 {
		t.Errorf("Resolved() = %d for unreachable icons, want 0", e.Resolved())
	}
}
