package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MrSnakeDoc/navdesk/internal/iconresolve"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// renderTree prints the document with the indexes the other commands take.
func renderTree(w io.Writer, doc *nav.Document) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if doc.Greeting.Name != "" {
		fmt.Fprintf(tw, "%s\t%s\n", doc.Greeting.Name, doc.Greeting.Subtitle)
	}
	if len(doc.MenuBar.Items) > 0 {
		fmt.Fprintf(tw, "menu\t%s\n", strings.Join(doc.MenuBar.Items, " · "))
	}

	for ci, c := range doc.Categories {
		fmt.Fprintf(tw, "[%d] %s\n", ci, c.Title)
		for li, l := range c.Links {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", li, faceLabel(iconresolve.LinkFace(l, true)), l.Name, l.URL)
		}
	}

	renderDock(tw, "dock", doc.Dock.Items)
	renderDock(tw, "utilities", doc.Dock.Utilities)
}

func renderDock(w io.Writer, title string, items []nav.DockItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	for i, it := range items {
		target := it.URL
		if it.IsCommand() {
			target = "(" + it.Action + ")"
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", i, faceLabel(iconresolve.DockFace(it, true)), it.Name, target)
	}
}

func faceLabel(f iconresolve.Face) string {
	if f.IsImage() {
		return "img"
	}
	return f.Text
}

func splitColors(value string) []string {
	var colors []string
	for _, c := range strings.Split(value, ",") {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}
