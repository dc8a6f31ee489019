package dragdrop

// TargetKind identifies what the pointer is over when a drag is dropped.
type TargetKind int

const (
	TargetCard     TargetKind = iota // a specific card
	TargetCategory                   // the empty grid area of a category
	TargetDockItem                   // a specific primary dock item
	TargetDockBody                   // the dock outside any item
)

// Target is a drop location.
type Target struct {
	Kind     TargetKind
	Category int
	Link     int
	Dock     int
}

// Action names the interpretation a drop target picked.
type Action int

const (
	ActionNone Action = iota
	ActionMoveCard
	ActionReorderDock
	ActionCopyToDock
)

func (a Action) String() string {
	switch a {
	case ActionMoveCard:
		return "move-card"
	case ActionReorderDock:
		return "reorder-dock"
	case ActionCopyToDock:
		return "copy-to-dock"
	}
	return "none"
}

// Drop is the outcome of arbitration. Transform is nil for ActionNone.
type Drop struct {
	Action    Action
	Transform Transform
}

// Accepts reports whether the target would take the payload, used for the
// drag-over cursor and highlight.
func Accepts(t Target, p Payload) bool {
	return Resolve(t, p).Action != ActionNone
}

// Resolve decides what dropping p on t means. Each target checks the
// reorder keys before the generic link key.
func Resolve(t Target, p Payload) Drop {
	switch t.Kind {
	case TargetCard:
		if p.Has(KeyCard) {
			return Drop{ActionMoveCard, MoveCard(*p.Card, CardRef{Category: t.Category, Link: t.Link})}
		}
	case TargetCategory:
		if p.Has(KeyCard) {
			return Drop{ActionMoveCard, MoveCardToEnd(*p.Card, t.Category)}
		}
	case TargetDockItem:
		if p.Has(KeyDock) {
			return Drop{ActionReorderDock, ReorderDock(*p.Dock, t.Dock)}
		}
	case TargetDockBody:
		// a dock reorder released between items is not a copy
		if p.Has(KeyDock) {
			return Drop{Action: ActionNone}
		}
		if p.Has(KeyLink) {
			return Drop{ActionCopyToDock, CopyLinkToDock(*p.Link)}
		}
	}
	return Drop{Action: ActionNone}
}
