package nav

import (
	"testing"
)

func TestClone_Independent(t *testing.T) {
	size := 64
	orig := &Document{
		MenuBar:  MenuBar{Items: []string{"File"}},
		Settings: &Settings{IconSize: &size},
		Categories: []Category{
			{Title: "A", Links: []NavLink{{Name: "x", URL: "https://x.io", Color: []string{"#000", "#fff"}}}},
		},
		Dock: Dock{Items: []DockItem{{Name: "x", URL: "https://x.io"}}},
	}

	c := orig.Clone()
	c.MenuBar.Items[0] = "Edit"
	*c.Settings.IconSize = 10
	c.Categories[0].Title = "B"
	c.Categories[0].Links[0].Color[0] = "#111"
	c.Dock.Items[0].Name = "y"

	if orig.MenuBar.Items[0] != "File" {
		t.Error("menu bar shared")
	}
	if *orig.Settings.IconSize != 64 {
		t.Error("settings shared")
	}
	if orig.Categories[0].Title != "A" || orig.Categories[0].Links[0].Color[0] != "#000" {
		t.Error("categories shared")
	}
	if orig.Dock.Items[0].Name != "x" {
		t.Error("dock shared")
	}
}

func TestClone_Nil(t *testing.T) {
	var d *Document
	if d.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestDockItem_IsCommand(t *testing.T) {
	if !(DockItem{Name: "Settings", Action: ActionSettings}).IsCommand() {
		t.Error("settings action should be a command")
	}
	if (DockItem{Name: "GitHub", URL: "https://github.com"}).IsCommand() {
		t.Error("link item should not be a command")
	}
}

func TestGuestView_DropsCommands(t *testing.T) {
	doc := &Document{
		Dock: Dock{
			Items:     []DockItem{{Name: "a", URL: "https://a.io"}},
			Utilities: []DockItem{{Name: "Settings", Action: ActionSettings}, {Name: "b", URL: "https://b.io"}},
		},
	}

	guest := GuestView(doc)

	if len(guest.Dock.Utilities) != 1 || guest.Dock.Utilities[0].Name != "b" {
		t.Errorf("guest utilities = %+v, want only b", guest.Dock.Utilities)
	}
	if len(doc.Dock.Utilities) != 2 {
		t.Error("GuestView must not modify its input")
	}
}

func TestSettings_Resolve(t *testing.T) {
	self := TargetSelf
	bogus := "elsewhere"
	off := false
	blur := 8

	tests := []struct {
		name     string
		settings *Settings
		check    func(EffectiveSettings) bool
	}{
		{"nil gives defaults", nil, func(e EffectiveSettings) bool { return e == DefaultSettings }},
		{"link target self", &Settings{LinkTarget: &self}, func(e EffectiveSettings) bool { return e.LinkTarget == TargetSelf }},
		{"unknown link target ignored", &Settings{LinkTarget: &bogus}, func(e EffectiveSettings) bool { return e.LinkTarget == TargetNew }},
		{"toggle off", &Settings{ShowSearch: &off}, func(e EffectiveSettings) bool { return !e.ShowSearch && e.ShowGreeting }},
		{"blur", &Settings{BackgroundBlur: &blur}, func(e EffectiveSettings) bool { return e.BackgroundBlur == 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.Resolve(); !tt.check(got) {
				t.Errorf("Resolve() = %+v", got)
			}
		})
	}
}
