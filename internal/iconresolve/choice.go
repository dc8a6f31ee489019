package iconresolve

import "github.com/MrSnakeDoc/navdesk/internal/nav"

// Mode is the representation picked in the editor.
type Mode int

const (
	ModeFavicon Mode = iota
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "favicon"
}

// Choice is the editor's favicon-vs-text toggle. Leaving favicon mode stashes
// the resolved icon so switching back restores it without a new fetch.
type Choice struct {
	mode     Mode
	icon     string
	stash    string
	iconText string
}

// NewChoice starts in favicon mode when an icon is set, text mode otherwise.
func NewChoice(icon, iconText string) *Choice {
	c := &Choice{icon: icon, iconText: iconText, mode: ModeText}
	if icon != "" {
		c.mode = ModeFavicon
	}
	return c
}

func (c *Choice) Mode() Mode { return c.mode }

// SetMode switches representation.
func (c *Choice) SetMode(m Mode) {
	if m == c.mode {
		return
	}
	switch m {
	case ModeText:
		if c.icon != "" {
			c.stash = c.icon
		}
		c.icon = ""
	case ModeFavicon:
		if c.icon == "" {
			c.icon = c.stash
		}
	}
	c.mode = m
}

// Toggle flips between the two modes.
func (c *Choice) Toggle() {
	if c.mode == ModeFavicon {
		c.SetMode(ModeText)
		return
	}
	c.SetMode(ModeFavicon)
}

// SetResolved records a freshly resolved icon. In text mode it only fills the stash.
func (c *Choice) SetResolved(icon string) {
	if c.mode == ModeFavicon {
		c.icon = icon
		return
	}
	c.stash = icon
}

func (c *Choice) SetText(text string) { c.iconText = truncate(text, nav.MaxIconText) }

// NeedsResolve reports whether favicon mode has nothing to show yet.
func (c *Choice) NeedsResolve() bool {
	return c.mode == ModeFavicon && c.icon == "" && c.stash == ""
}

// Resolvable reports whether at least one representation is available.
func (c *Choice) Resolvable() bool {
	return c.icon != "" || c.iconText != ""
}

// Fields returns the values to store on the record.
func (c *Choice) Fields() (icon, iconText string) {
	if c.mode == ModeText {
		return "", c.iconText
	}
	return c.icon, c.iconText
}
