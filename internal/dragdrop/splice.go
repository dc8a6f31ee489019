package dragdrop

import (
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Transform matches the store's mutation signature. A nil result means no change.
type Transform = func(*nav.Document) *nav.Document

// MoveCard removes the card at from and inserts it at to. The destination
// index applies to the sequence after removal, like a splice pair: moving
// 0 to 2 in [A B C] yields [B C A]. Indices past the end append.
func MoveCard(from, to CardRef) Transform {
	return func(doc *nav.Document) *nav.Document {
		if from == to {
			return nil
		}
		if !validCategory(doc, from.Category) || !validCategory(doc, to.Category) {
			return nil
		}
		src := doc.Categories[from.Category].Links
		if from.Link < 0 || from.Link >= len(src) || to.Link < 0 {
			return nil
		}

		moved := src[from.Link]
		doc.Categories[from.Category].Links = remove(src, from.Link)

		dst := doc.Categories[to.Category].Links
		doc.Categories[to.Category].Links = insert(dst, to.Link, moved)
		return doc
	}
}

// MoveCardToEnd moves a card to the end of a category, used when dropping
// on the empty grid area.
func MoveCardToEnd(from CardRef, category int) Transform {
	return func(doc *nav.Document) *nav.Document {
		if !validCategory(doc, category) {
			return nil
		}
		end := len(doc.Categories[category].Links)
		if from.Category == category {
			end--
		}
		if from.Category == category && from.Link == end {
			return nil
		}
		return MoveCard(from, CardRef{Category: category, Link: end})(doc)
	}
}

// ReorderDock moves a primary dock item. Dropping on itself does nothing.
func ReorderDock(from, to int) Transform {
	return func(doc *nav.Document) *nav.Document {
		items := doc.Dock.Items
		if from == to || from < 0 || from >= len(items) || to < 0 || to >= len(items) {
			return nil
		}
		moved := items[from]
		doc.Dock.Items = insert(remove(items, from), to, moved)
		return doc
	}
}

// CopyLinkToDock appends a dock item made from link unless one with the same
// URL already exists.
func CopyLinkToDock(link nav.NavLink) Transform {
	return func(doc *nav.Document) *nav.Document {
		if link.URL == "" || doc.DockHasURL(link.URL) {
			return nil
		}
		doc.Dock.Items = append(doc.Dock.Items, DockItemFromLink(link))
		return doc
	}
}

// DockItemFromLink derives a dock entry from a card.
func DockItemFromLink(l nav.NavLink) nav.DockItem {
	return nav.DockItem{
		Name:     l.Name,
		URL:      l.URL,
		Icon:     l.Icon,
		IconText: l.IconText,
	}
}

func validCategory(doc *nav.Document, i int) bool {
	return i >= 0 && i < len(doc.Categories)
}

func remove[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func insert[T any](s []T, i int, v T) []T {
	if i > len(s) {
		i = len(s)
	}
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}
