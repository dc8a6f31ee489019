package editor

import (
	"fmt"

	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// RemoveLink deletes the card at (category, index) if it still has url.
func RemoveLink(category, index int, url string) func(*nav.Document) *nav.Document {
	return func(doc *nav.Document) *nav.Document {
		if category < 0 || category >= len(doc.Categories) {
			return nil
		}
		links := doc.Categories[category].Links
		if index < 0 || index >= len(links) || links[index].URL != url {
			return nil
		}
		doc.Categories[category].Links = append(links[:index:index], links[index+1:]...)
		return doc
	}
}

// RemoveCategory deletes a category and its links if it still has title.
func RemoveCategory(index int, title string) func(*nav.Document) *nav.Document {
	return func(doc *nav.Document) *nav.Document {
		if index < 0 || index >= len(doc.Categories) || doc.Categories[index].Title != title {
			return nil
		}
		doc.Categories = append(doc.Categories[:index:index], doc.Categories[index+1:]...)
		return doc
	}
}

// RemoveDockItem deletes a dock entry if it still has name.
func RemoveDockItem(section nav.DockSection, index int, name string) func(*nav.Document) *nav.Document {
	return func(doc *nav.Document) *nav.Document {
		seq := doc.Dock.Section(section)
		items := *seq
		if index < 0 || index >= len(items) || items[index].Name != name {
			return nil
		}
		*seq = append(items[:index:index], items[index+1:]...)
		return doc
	}
}

func DeleteLink(doc *nav.Document, category, index int) (Confirm, error) {
	if category < 0 || category >= len(doc.Categories) {
		return Confirm{}, ErrStale
	}
	links := doc.Categories[category].Links
	if index < 0 || index >= len(links) {
		return Confirm{}, ErrStale
	}
	l := links[index]
	return Confirm{
		Action:    "delete-link",
		Message:   fmt.Sprintf("Delete %q from %q?", l.Name, doc.Categories[category].Title),
		Transform: RemoveLink(category, index, l.URL),
	}, nil
}

func DeleteCategory(doc *nav.Document, index int) (Confirm, error) {
	if index < 0 || index >= len(doc.Categories) {
		return Confirm{}, ErrStale
	}
	c := doc.Categories[index]
	return Confirm{
		Action:    "delete-category",
		Message:   fmt.Sprintf("Delete category %q and its %d links?", c.Title, len(c.Links)),
		Transform: RemoveCategory(index, c.Title),
	}, nil
}

func DeleteDockItem(doc *nav.Document, section nav.DockSection, index int) (Confirm, error) {
	items := *doc.Dock.Section(section)
	if index < 0 || index >= len(items) {
		return Confirm{}, ErrStale
	}
	it := items[index]
	return Confirm{
		Action:    "delete-dock",
		Message:   fmt.Sprintf("Remove %q from the dock?", it.Name),
		Transform: RemoveDockItem(section, index, it.Name),
	}, nil
}

// ConfirmReset wraps a store reset, which is not a transform.
func ConfirmReset(reset func() error) Confirm {
	return Confirm{
		Action:  "reset",
		Message: "Discard local changes and reload the saved configuration?",
		Do:      reset,
	}
}
