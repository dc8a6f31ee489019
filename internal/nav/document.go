// Package nav holds the configuration document of the start page.
//
// The Document is the single unit of persistence: it is always replaced
// wholesale, never diffed field by field.
package nav

// ActionSettings marks a dock item that opens the settings panel.
// Such an item is a command, not a navigable link.
const ActionSettings = "settings"

// MaxIconText is the longest text fallback a card shows instead of an icon.
const MaxIconText = 8

// Document describes the whole dashboard.
type Document struct {
	Greeting   Greeting   `json:"greeting" yaml:"greeting"`
	MenuBar    MenuBar    `json:"menuBar" yaml:"menuBar"`
	Favicon    string     `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	Avatar     string     `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Settings   *Settings  `json:"settings,omitempty" yaml:"settings,omitempty"`
	Categories []Category `json:"categories" yaml:"categories"`
	Dock       Dock       `json:"dock" yaml:"dock"`
}

type Greeting struct {
	Name     string `json:"name" yaml:"name"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
}

type MenuBar struct {
	Items []string `json:"items" yaml:"items"`
}

// Category groups links under a title. The title is used as a stable key.
type Category struct {
	Title string    `json:"title" yaml:"title"`
	Links []NavLink `json:"links" yaml:"links"`
}

// NavLink is a card on the page.
//
// A card renders either the Icon image or the text/gradient fallback, never both.
type NavLink struct {
	Name     string   `json:"name" yaml:"name"`
	URL      string   `json:"url" yaml:"url"`
	Desc     string   `json:"desc" yaml:"desc"`
	Icon     string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconText string   `json:"iconText,omitempty" yaml:"iconText,omitempty"`
	Color    []string `json:"color,omitempty" yaml:"color,omitempty,flow"` // gradient pair, hex
}

// Dock holds the primary shortcuts and the utilities behind the divider.
type Dock struct {
	Items     []DockItem `json:"items" yaml:"items"`
	Utilities []DockItem `json:"utilities" yaml:"utilities"`
}

type DockItem struct {
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Emoji    string `json:"emoji,omitempty" yaml:"emoji,omitempty"` // legacy glyph
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconText string `json:"iconText,omitempty" yaml:"iconText,omitempty"`
	Action   string `json:"action,omitempty" yaml:"action,omitempty"`
}

// IsCommand reports whether the item triggers an action instead of navigating.
func (d DockItem) IsCommand() bool {
	return d.Action == ActionSettings
}

// DockSection names one of the two dock sequences.
type DockSection string

const (
	SectionItems     DockSection = "items"
	SectionUtilities DockSection = "utilities"
)

// Section returns the sequence for s. Unknown sections resolve to the primary items.
func (d *Dock) Section(s DockSection) *[]DockItem {
	if s == SectionUtilities {
		return &d.Utilities
	}
	return &d.Items
}

// Clone returns a deep copy. Transforms always work on a clone so the
// store's current value is never mutated in place.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.MenuBar.Items = cloneStrings(d.MenuBar.Items)
	out.Settings = d.Settings.Clone()

	if d.Categories != nil {
		out.Categories = make([]Category, len(d.Categories))
		for i, c := range d.Categories {
			out.Categories[i] = c.Clone()
		}
	}
	out.Dock.Items = cloneDockItems(d.Dock.Items)
	out.Dock.Utilities = cloneDockItems(d.Dock.Utilities)
	return &out
}

func (c Category) Clone() Category {
	out := c
	if c.Links != nil {
		out.Links = make([]NavLink, len(c.Links))
		for i, l := range c.Links {
			out.Links[i] = l.Clone()
		}
	}
	return out
}

func (l NavLink) Clone() NavLink {
	out := l
	out.Color = cloneStrings(l.Color)
	return out
}

// CategoryIndex returns the index of the category with the given title, or -1.
func (d *Document) CategoryIndex(title string) int {
	for i, c := range d.Categories {
		if c.Title == title {
			return i
		}
	}
	return -1
}

// DockHasURL reports whether any primary dock item points at url.
func (d *Document) DockHasURL(url string) bool {
	for _, it := range d.Dock.Items {
		if it.URL != "" && it.URL == url {
			return true
		}
	}
	return false
}

func cloneDockItems(in []DockItem) []DockItem {
	if in == nil {
		return nil
	}
	out := make([]DockItem, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
