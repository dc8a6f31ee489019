package iconresolve

import (
	"strings"
	"unicode/utf8"

	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// DefaultGradient is used for text faces without a color pair.
var DefaultGradient = []string{"#6366f1", "#8b5cf6"}

// Face is what a card shows: an image, or a text label on a gradient, never both.
type Face struct {
	Image    string
	Text     string
	Gradient []string
}

func (f Face) IsImage() bool { return f.Image != "" }

// LinkFace picks the face of a link. loaded reports whether the icon image
// loaded; a failed load falls back to text without touching the stored link.
func LinkFace(l nav.NavLink, loaded bool) Face {
	if l.Icon != "" && loaded {
		return Face{Image: l.Icon}
	}
	grad := DefaultGradient
	if len(l.Color) == 2 {
		grad = l.Color
	}
	return Face{Text: fallbackText(l.IconText, l.URL, l.Name), Gradient: grad}
}

// DockFace is LinkFace for dock items; the legacy emoji wins over derived text.
func DockFace(d nav.DockItem, loaded bool) Face {
	if d.Icon != "" && loaded {
		return Face{Image: d.Icon}
	}
	text := d.IconText
	if text == "" {
		text = d.Emoji
	}
	return Face{Text: fallbackText(text, d.URL, d.Name), Gradient: DefaultGradient}
}

func fallbackText(explicit, rawURL, name string) string {
	if explicit != "" {
		return explicit
	}
	if label := ShortLabel(rawURL); label != "" {
		return label
	}
	if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
		return strings.ToUpper(string(r))
	}
	return "?"
}
