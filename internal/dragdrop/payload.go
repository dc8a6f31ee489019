// Package dragdrop implements drag-and-drop of cards and dock items: typed
// payloads, splice-based reordering and drop-target arbitration.
package dragdrop

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Payload keys. A drag is interpreted by which keys it carries, never by
// looking at the values.
const (
	KeyCard = "application/x-navdesk-card"
	KeyDock = "application/x-navdesk-dock"
	KeyLink = "application/x-navdesk-link"
)

// ErrNotDraggable is returned for dock items that are commands.
var ErrNotDraggable = errors.New("item is not draggable")

// CardRef locates a card.
type CardRef struct {
	Category int `json:"categoryIndex"`
	Link     int `json:"linkIndex"`
}

type dockRef struct {
	Index int `json:"sourceIndex"`
}

// Payload is the tagged union carried by a drag. A card drag sets both Card
// and Link so it can land on another card or on the dock.
type Payload struct {
	Card *CardRef
	Dock *int
	Link *nav.NavLink
}

// Has reports whether the payload carries key.
func (p Payload) Has(key string) bool {
	switch key {
	case KeyCard:
		return p.Card != nil
	case KeyDock:
		return p.Dock != nil
	case KeyLink:
		return p.Link != nil
	}
	return false
}

// Keys lists the keys present, most specific first.
func (p Payload) Keys() []string {
	var keys []string
	for _, k := range []string{KeyCard, KeyDock, KeyLink} {
		if p.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// CardDrag starts dragging the card at (category, link).
func CardDrag(doc *nav.Document, category, link int) (Payload, error) {
	if category < 0 || category >= len(doc.Categories) {
		return Payload{}, fmt.Errorf("category %d out of range", category)
	}
	links := doc.Categories[category].Links
	if link < 0 || link >= len(links) {
		return Payload{}, fmt.Errorf("link %d out of range", link)
	}
	l := links[link].Clone()
	return Payload{Card: &CardRef{Category: category, Link: link}, Link: &l}, nil
}

// DockDrag starts dragging a primary dock item. Commands cannot be dragged.
func DockDrag(doc *nav.Document, index int) (Payload, error) {
	if index < 0 || index >= len(doc.Dock.Items) {
		return Payload{}, fmt.Errorf("dock index %d out of range", index)
	}
	if doc.Dock.Items[index].IsCommand() {
		return Payload{}, ErrNotDraggable
	}
	i := index
	return Payload{Dock: &i}, nil
}

// Encode renders the payload as key/value strings for MIME-keyed channels.
func (p Payload) Encode() (map[string]string, error) {
	out := make(map[string]string, 3)
	put := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = string(b)
		return nil
	}
	if p.Card != nil {
		if err := put(KeyCard, p.Card); err != nil {
			return nil, err
		}
	}
	if p.Dock != nil {
		if err := put(KeyDock, dockRef{Index: *p.Dock}); err != nil {
			return nil, err
		}
	}
	if p.Link != nil {
		if err := put(KeyLink, p.Link); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode is the inverse of Encode. Unknown keys are ignored.
func Decode(data map[string]string) (Payload, error) {
	var p Payload
	if raw, ok := data[KeyCard]; ok {
		var c CardRef
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return Payload{}, &apperr.ParseError{Reason: KeyCard, Err: err}
		}
		p.Card = &c
	}
	if raw, ok := data[KeyDock]; ok {
		var d dockRef
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return Payload{}, &apperr.ParseError{Reason: KeyDock, Err: err}
		}
		p.Dock = &d.Index
	}
	if raw, ok := data[KeyLink]; ok {
		var l nav.NavLink
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return Payload{}, &apperr.ParseError{Reason: KeyLink, Err: err}
		}
		p.Link = &l
	}
	return p, nil
}
