package editor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

type memStore struct {
	doc   *nav.Document
	calls int
	err   error
}

func (m *memStore) Transform(f func(*nav.Document) *nav.Document) error {
	if m.err != nil {
		return m.err
	}
	if next := f(m.doc.Clone()); next != nil {
		m.doc = next
		m.calls++
	}
	return nil
}

func testDoc() *nav.Document {
	return &nav.Document{
		Categories: []nav.Category{
			{Title: "Dev", Links: []nav.NavLink{
				{Name: "GitHub", URL: "https://github.com"},
				{Name: "Go", URL: "https://go.dev"},
			}},
			{Title: "News", Links: []nav.NavLink{}},
		},
		Dock: nav.Dock{
			Items:     []nav.DockItem{{Name: "GitHub", URL: "https://github.com"}},
			Utilities: []nav.DockItem{{Name: "Settings", Action: nav.ActionSettings}},
		},
	}
}

func newEditor() (*Editor, *memStore) {
	s := &memStore{doc: testDoc()}
	return New(s, logger.New("error", false)), s
}

func TestSave_Intents(t *testing.T) {
	tests := []struct {
		name  string
		in    Intent
		check func(*nav.Document) bool
	}{
		{
			name: "replace link",
			in:   EditLink{Category: 0, Index: 1, Link: nav.NavLink{Name: "Go Dev", URL: "https://go.dev"}},
			check: func(d *nav.Document) bool {
				return d.Categories[0].Links[1].Name == "Go Dev" && len(d.Categories[0].Links) == 2
			},
		},
		{
			name: "append link",
			in:   EditLink{Category: 1, Index: Append, Link: nav.NavLink{Name: "HN", URL: "https://news.ycombinator.com"}},
			check: func(d *nav.Document) bool {
				return len(d.Categories[1].Links) == 1 && d.Categories[1].Links[0].Name == "HN"
			},
		},
		{
			name: "append utility",
			in:   EditDock{Section: nav.SectionUtilities, Index: Append, Item: nav.DockItem{Name: "Mail", URL: "https://mail.example.com"}},
			check: func(d *nav.Document) bool {
				return len(d.Dock.Utilities) == 2 && d.Dock.Utilities[1].Name == "Mail"
			},
		},
		{
			name:  "rename category",
			in:    RenameCategory{Index: 1, Title: "Reading"},
			check: func(d *nav.Document) bool { return d.Categories[1].Title == "Reading" },
		},
		{
			name: "profile",
			in:   EditProfile{Name: "Ada", Subtitle: "hi", Avatar: "https://x/a.png"},
			check: func(d *nav.Document) bool {
				return d.Greeting.Name == "Ada" && d.Greeting.Subtitle == "hi" && d.Avatar == "https://x/a.png"
			},
		},
		{
			name: "menu bar",
			in:   EditMenuBar{Value: " File, Edit ,, View "},
			check: func(d *nav.Document) bool {
				return reflect.DeepEqual(d.MenuBar.Items, []string{"File", "Edit", "View"})
			},
		},
		{
			name:  "favicon set",
			in:    EditFavicon{Value: "https://x/icon.png"},
			check: func(d *nav.Document) bool { return d.Favicon == "https://x/icon.png" },
		},
		{
			name: "new category",
			in:   NewCategory{Title: "Tools"},
			check: func(d *nav.Document) bool {
				return len(d.Categories) == 3 && d.Categories[2].Title == "Tools"
			},
		},
		{
			name: "confirm delete",
			in:   mustConfirm(DeleteLink(testDoc(), 0, 0)),
			check: func(d *nav.Document) bool {
				return len(d.Categories[0].Links) == 1 && d.Categories[0].Links[0].Name == "Go"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, s := newEditor()
			e.Open(tt.in)
			if err := e.Save(); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if !tt.check(s.doc) {
				t.Errorf("document not updated: %+v", s.doc)
			}
			if s.calls != 1 {
				t.Errorf("transforms = %d, want 1", s.calls)
			}
			if _, open := e.Working(); open {
				t.Error("session should close after save")
			}
		})
	}
}

func mustConfirm(c Confirm, err error) Confirm {
	if err != nil {
		panic(err)
	}
	return c
}

func TestSave_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    Intent
		field string
	}{
		{"link without name", EditLink{Index: Append, Link: nav.NavLink{URL: "https://a.io"}}, "name"},
		{"link without url", EditLink{Index: Append, Link: nav.NavLink{Name: "a"}}, "url"},
		{"link bad url", EditLink{Index: Append, Link: nav.NavLink{Name: "a", URL: "ftp://a"}}, "url"},
		{"link long text", EditLink{Index: Append, Link: nav.NavLink{Name: "a", URL: "https://a.io", IconText: "123456789"}}, "iconText"},
		{"link single color", EditLink{Index: Append, Link: nav.NavLink{Name: "a", URL: "https://a.io", Color: []string{"#fff"}}}, "color"},
		{"dock without name", EditDock{Index: Append, Item: nav.DockItem{URL: "https://a.io"}}, "name"},
		{"dock link without url", EditDock{Index: Append, Item: nav.DockItem{Name: "a"}}, "url"},
		{"empty greeting", EditProfile{}, "name"},
		{"empty category", NewCategory{}, "title"},
		{"duplicate category", NewCategory{Title: "Dev"}, "title"},
		{"rename onto existing", RenameCategory{Index: 1, Title: "Dev"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, s := newEditor()
			e.Open(tt.in)
			err := e.Save()

			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Save() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
			if _, open := e.Working(); !open {
				t.Error("session must stay open on validation error")
			}
			if s.calls != 0 {
				t.Error("invalid edit reached the store")
			}
		})
	}
}

func TestSave_CommandDockItemNeedsNoURL(t *testing.T) {
	e, s := newEditor()
	e.Open(EditDock{Section: nav.SectionUtilities, Index: 0, Item: nav.DockItem{Name: "Prefs", Action: nav.ActionSettings}})
	if err := e.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if s.doc.Dock.Utilities[0].Name != "Prefs" {
		t.Error("command item not renamed")
	}
}

func TestSave_StaleTarget(t *testing.T) {
	e, _ := newEditor()
	e.Open(EditLink{Category: 0, Index: 9, Link: nav.NavLink{Name: "x", URL: "https://x.io"}})
	if err := e.Save(); !errors.Is(err, ErrStale) {
		t.Errorf("Save() error = %v, want ErrStale", err)
	}
}

func TestSave_ReadOnlyStore(t *testing.T) {
	e, s := newEditor()
	s.err = apperr.ErrReadOnly
	e.Open(EditProfile{Name: "x"})
	if err := e.Save(); !errors.Is(err, apperr.ErrReadOnly) {
		t.Errorf("Save() error = %v, want ErrReadOnly", err)
	}
}

func TestWorkingCopyIsolation(t *testing.T) {
	e, s := newEditor()
	orig := s.doc.Categories[0].Links[0]
	e.Open(EditLink{Category: 0, Index: 0, Link: orig})

	w, _ := e.Working()
	edit := w.(EditLink)
	edit.Link.Name = "Renamed"
	if err := e.Update(edit); err != nil {
		t.Fatal(err)
	}
	if s.doc.Categories[0].Links[0].Name != "GitHub" {
		t.Error("field edits must not touch the document before save")
	}

	e.Cancel()
	if s.calls != 0 || s.doc.Categories[0].Links[0].Name != "GitHub" {
		t.Error("cancel must discard the working copy")
	}
	if err := e.Save(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Save after Cancel = %v, want ErrNoSession", err)
	}
}

func TestUpdate_Mismatch(t *testing.T) {
	e, _ := newEditor()
	if err := e.Update(EditProfile{Name: "x"}); !errors.Is(err, ErrNoSession) {
		t.Errorf("Update without session = %v", err)
	}
	e.Open(EditLink{Category: 0, Index: 0})
	if err := e.Update(EditLink{Category: 0, Index: 1}); !errors.Is(err, ErrMismatch) {
		t.Errorf("Update on another link = %v, want ErrMismatch", err)
	}
	if err := e.Update(EditProfile{Name: "x"}); !errors.Is(err, ErrMismatch) {
		t.Errorf("Update with another kind = %v, want ErrMismatch", err)
	}
}

func TestAnnounce_Idempotent(t *testing.T) {
	e, s := newEditor()
	req := EditLink{Category: 0, Index: 0, Link: s.doc.Categories[0].Links[0]}

	e.Announce(req)
	e.Announce(req)
	if n := e.Drain(); n != 1 {
		t.Fatalf("Drain() opened %d, want 1", n)
	}

	w, _ := e.Working()
	edit := w.(EditLink)
	edit.Link.Desc = "typed by the user"
	_ = e.Update(edit)

	// the same request again must not wipe the edits in progress
	e.Announce(req)
	if n := e.Drain(); n != 0 {
		t.Errorf("repeated announcement reopened the session")
	}
	w, _ = e.Working()
	if w.(EditLink).Link.Desc != "typed by the user" {
		t.Error("working copy reset by a repeated announcement")
	}

	del, _ := DeleteCategory(s.doc, 1)
	e.Announce(del)
	e.Announce(del)
	if n := e.Drain(); n != 1 {
		t.Errorf("confirm announcements opened %d sessions, want 1", n)
	}
	if w, _ := e.Working(); w.Kind() != KindConfirm {
		t.Errorf("open session = %v, want confirm", w.Kind())
	}
}

func TestConfirmReset(t *testing.T) {
	e, s := newEditor()
	called := 0
	e.Open(ConfirmReset(func() error { called++; return nil }))
	if err := e.Save(); err != nil {
		t.Fatal(err)
	}
	if called != 1 || s.calls != 0 {
		t.Errorf("reset called %d times, %d transforms", called, s.calls)
	}
}

func TestRemoveHelpers_CheckIdentity(t *testing.T) {
	doc := testDoc()
	if RemoveLink(0, 0, "https://other.io")(doc.Clone()) != nil {
		t.Error("RemoveLink must refuse a shifted card")
	}
	if RemoveCategory(0, "News")(doc.Clone()) != nil {
		t.Error("RemoveCategory must refuse a shifted category")
	}
	next := RemoveDockItem(nav.SectionUtilities, 0, "Settings")(doc.Clone())
	if next == nil || len(next.Dock.Utilities) != 0 {
		t.Error("RemoveDockItem failed")
	}
	if len(doc.Dock.Utilities) != 1 {
		t.Error("remove helper modified the original document")
	}
}
