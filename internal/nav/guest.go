package nav

// GuestView returns the read-only projection served to unauthenticated
// visitors. Command dock items are dropped since guests cannot open settings.
func GuestView(doc *Document) *Document {
	out := doc.Clone()
	if out == nil {
		return nil
	}
	out.Dock.Items = withoutCommands(out.Dock.Items)
	out.Dock.Utilities = withoutCommands(out.Dock.Utilities)
	return out
}

func withoutCommands(items []DockItem) []DockItem {
	kept := items[:0]
	for _, it := range items {
		if !it.IsCommand() {
			kept = append(kept, it)
		}
	}
	return kept
}
