package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/MrSnakeDoc/navdesk/internal/desk"
	"github.com/MrSnakeDoc/navdesk/internal/dragdrop"
	"github.com/MrSnakeDoc/navdesk/internal/editor"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

var errNotConfirmed = errors.New("refusing without --yes")

func yesFlag() cli.Flag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the destructive action"}
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "Log in as the owner",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "password", Usage: "Owner password, read from stdin when empty", Sources: cli.EnvVars("NAVDESK_PASSWORD")},
			},
			Action: withDesk(login),
		},
		{
			Name:   "logout",
			Usage:  "Forget the stored token",
			Action: withDesk(func(ctx context.Context, _ *cli.Command, d *desk.Desk) error { return d.Logout(ctx) }),
		},
		{
			Name:   "status",
			Usage:  "Show the current mode",
			Action: withDesk(status),
		},
		{
			Name:  "show",
			Usage: "Print the document",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "yaml", Usage: "Print the raw YAML"},
			},
			Action: withDesk(show),
		},
		{
			Name:      "export",
			Usage:     "Write the document to a YAML file",
			ArgsUsage: "[file]",
			Action:    withDesk(export),
		},
		{
			Name:      "import",
			Usage:     "Replace the document with a YAML file",
			ArgsUsage: "<file>",
			Action:    withDesk(importFile),
		},
		{
			Name:   "reset",
			Usage:  "Reload the saved document, or the bundled default when there is none",
			Flags:  []cli.Flag{yesFlag()},
			Action: withDesk(reset),
		},
		{
			Name:      "move",
			Usage:     "Move a card; use \"end\" as target index to append",
			ArgsUsage: "<category> <index> <to-category> <to-index|end>",
			Action:    withDesk(moveCard),
		},
		{
			Name:  "dock",
			Usage: "Edit the dock",
			Commands: []*cli.Command{
				{
					Name:      "move",
					Usage:     "Reorder a dock item",
					ArgsUsage: "<from> <to>",
					Action:    withDesk(dockMove),
				},
				{
					Name:      "add",
					Usage:     "Copy a card into the dock",
					ArgsUsage: "<category> <index>",
					Action:    withDesk(dockAdd),
				},
				{
					Name:      "set",
					Usage:     "Edit or append a dock item",
					ArgsUsage: "<items|utilities> <index|new>",
					Flags:     dockFlags(),
					Action:    withDesk(dockSet),
				},
				{
					Name:      "rm",
					Usage:     "Remove a dock item",
					ArgsUsage: "<items|utilities> <index>",
					Flags:     []cli.Flag{yesFlag()},
					Action:    withDesk(dockRemove),
				},
			},
		},
		{
			Name:  "link",
			Usage: "Edit cards",
			Commands: []*cli.Command{
				{
					Name:      "set",
					Usage:     "Edit or append a card",
					ArgsUsage: "<category> <index|new>",
					Flags:     linkFlags(),
					Action:    withDesk(linkSet),
				},
				{
					Name:      "rm",
					Usage:     "Delete a card",
					ArgsUsage: "<category> <index>",
					Action:    withDesk(linkRemove),
				},
			},
		},
		{
			Name:  "category",
			Usage: "Edit categories",
			Commands: []*cli.Command{
				{
					Name:      "add",
					ArgsUsage: "<title>",
					Action:    withDesk(categoryAdd),
				},
				{
					Name:      "rename",
					ArgsUsage: "<index> <title>",
					Action:    withDesk(categoryRename),
				},
				{
					Name:      "rm",
					ArgsUsage: "<index>",
					Flags:     []cli.Flag{yesFlag()},
					Action:    withDesk(categoryRemove),
				},
			},
		},
		{
			Name:  "profile",
			Usage: "Edit the greeting and avatar",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "subtitle"},
				&cli.StringFlag{Name: "avatar"},
			},
			Action: withDesk(profile),
		},
		{
			Name:      "menubar",
			Usage:     "Set the menu bar items, comma-separated",
			ArgsUsage: "<items>",
			Action:    withDesk(menuBar),
		},
		{
			Name:      "favicon",
			Usage:     "Set the page icon; no argument unsets it",
			ArgsUsage: "[url]",
			Action:    withDesk(favicon),
		},
		{
			Name:   "enrich",
			Usage:  "Fetch favicons for cards and dock items that have neither an icon nor a label",
			Action: withDesk(enrich),
		},
	}
}

func login(ctx context.Context, cmd *cli.Command, d *desk.Desk) error {
	password := cmd.String("password")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if err := d.Login(ctx, password); err != nil {
		return err
	}
	fmt.Fprintln(out, "logged in")
	return nil
}

func status(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	doc := d.Snapshot()
	fmt.Fprintf(out, "mode: %s\ncategories: %d\ndock items: %d\n",
		d.Gate.Mode(), len(doc.Categories), len(doc.Dock.Items)+len(doc.Dock.Utilities))
	return nil
}

func show(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	doc := d.Snapshot()
	if cmd.Bool("yaml") {
		text, err := nav.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = out.Write(text)
		return err
	}
	renderTree(out, doc)
	return nil
}

func export(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	name, text, err := d.Store.ExportSnapshot()
	if err != nil {
		return err
	}
	if arg := cmd.Args().First(); arg != "" {
		name = arg
	}
	if err := os.WriteFile(name, text, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(out, "exported to", name)
	return nil
}

func importFile(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	name, err := stringArg(cmd, 0, "file")
	if err != nil {
		return err
	}
	text, err := os.ReadFile(filepath.Clean(name))
	if err != nil {
		return err
	}
	if err := d.Store.ImportSnapshot(text); err != nil {
		return err
	}
	fmt.Fprintln(out, "imported", name)
	return nil
}

func reset(ctx context.Context, cmd *cli.Command, d *desk.Desk) error {
	if err := confirm(cmd, d, editor.ConfirmReset(func() error { return d.Store.Reset(ctx) })); err != nil {
		return err
	}
	renderTree(out, d.Snapshot())
	return nil
}

// confirm runs a guarded action through the editor once --yes is given.
func confirm(cmd *cli.Command, d *desk.Desk, c editor.Confirm) error {
	if !cmd.Bool("yes") {
		fmt.Fprintln(out, c.Message)
		return errNotConfirmed
	}
	d.Editor.Open(c)
	return d.SaveEdit()
}

func moveCard(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	cat, err := intArg(cmd, 0, "category")
	if err != nil {
		return err
	}
	idx, err := intArg(cmd, 1, "index")
	if err != nil {
		return err
	}
	toCat, err := intArg(cmd, 2, "to-category")
	if err != nil {
		return err
	}

	target := dragdrop.Target{Kind: dragdrop.TargetCategory, Category: toCat}
	if cmd.Args().Get(3) != "end" {
		toIdx, err := intArg(cmd, 3, "to-index")
		if err != nil {
			return err
		}
		target = dragdrop.Target{Kind: dragdrop.TargetCard, Category: toCat, Link: toIdx}
	}

	p, err := dragdrop.CardDrag(d.Snapshot(), cat, idx)
	if err != nil {
		return err
	}
	return drop(d, p, target)
}

func dockMove(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	from, err := intArg(cmd, 0, "from")
	if err != nil {
		return err
	}
	to, err := intArg(cmd, 1, "to")
	if err != nil {
		return err
	}
	p, err := dragdrop.DockDrag(d.Snapshot(), from)
	if err != nil {
		return err
	}
	return drop(d, p, dragdrop.Target{Kind: dragdrop.TargetDockItem, Dock: to})
}

func dockAdd(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	cat, err := intArg(cmd, 0, "category")
	if err != nil {
		return err
	}
	idx, err := intArg(cmd, 1, "index")
	if err != nil {
		return err
	}
	p, err := dragdrop.CardDrag(d.Snapshot(), cat, idx)
	if err != nil {
		return err
	}
	return drop(d, p, dragdrop.Target{Kind: dragdrop.TargetDockBody})
}

// drop runs a drag session through the registry like a pointer would.
func drop(d *desk.Desk, p dragdrop.Payload, target dragdrop.Target) error {
	id := d.Drags.Start(p)
	action, err := d.Drop(id, target)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, action)
	return nil
}

func categoryAdd(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	title, err := stringArg(cmd, 0, "title")
	if err != nil {
		return err
	}
	return edit(d, editor.NewCategory{Title: title})
}

func categoryRename(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	idx, err := intArg(cmd, 0, "index")
	if err != nil {
		return err
	}
	title, err := stringArg(cmd, 1, "title")
	if err != nil {
		return err
	}
	return edit(d, editor.RenameCategory{Index: idx, Title: title})
}

func categoryRemove(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	idx, err := intArg(cmd, 0, "index")
	if err != nil {
		return err
	}
	c, err := editor.DeleteCategory(d.Snapshot(), idx)
	if err != nil {
		return err
	}
	return confirm(cmd, d, c)
}

func profile(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	doc := d.Snapshot()
	in := editor.EditProfile{Name: doc.Greeting.Name, Subtitle: doc.Greeting.Subtitle, Avatar: doc.Avatar}
	override(cmd, "name", &in.Name)
	override(cmd, "subtitle", &in.Subtitle)
	override(cmd, "avatar", &in.Avatar)
	return edit(d, in)
}

func menuBar(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	return edit(d, editor.EditMenuBar{Value: strings.Join(cmd.Args().Slice(), ",")})
}

func favicon(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	return edit(d, editor.EditFavicon{Value: cmd.Args().First()})
}

func enrich(_ context.Context, _ *cli.Command, d *desk.Desk) error {
	before := d.Icons.Resolved()
	n := d.EnrichAll()
	d.Icons.Wait()
	fmt.Fprintf(out, "looked up %d URLs, resolved %d icons\n", n, d.Icons.Resolved()-before)
	return nil
}

// edit opens a settings session with in and saves it.
func edit(d *desk.Desk, in editor.Intent) error {
	d.Editor.Open(in)
	if err := d.SaveEdit(); err != nil {
		d.Editor.Cancel()
		return err
	}
	return nil
}

func override(cmd *cli.Command, flag string, dst *string) {
	if cmd.IsSet(flag) {
		*dst = cmd.String(flag)
	}
}

func linkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "url"},
		&cli.StringFlag{Name: "desc"},
		&cli.StringFlag{Name: "icon", Usage: "Image URL for the icon"},
		&cli.StringFlag{Name: "icon-text", Usage: "Short text shown instead of an image"},
		&cli.StringFlag{Name: "color", Usage: "Gradient pair, e.g. \"#ff0000,#0000ff\""},
	}
}

func dockFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "url"},
		&cli.StringFlag{Name: "icon"},
		&cli.StringFlag{Name: "icon-text"},
		&cli.StringFlag{Name: "emoji"},
	}
}

// indexArg parses an index or "new", which appends.
func indexArg(cmd *cli.Command, i int, name string) (int, error) {
	if cmd.Args().Get(i) == "new" {
		return editor.Append, nil
	}
	return intArg(cmd, i, name)
}

func sectionArg(cmd *cli.Command, i int) (nav.DockSection, error) {
	switch s := nav.DockSection(cmd.Args().Get(i)); s {
	case nav.SectionItems, nav.SectionUtilities:
		return s, nil
	default:
		return "", fmt.Errorf("dock section must be %q or %q, got %q", nav.SectionItems, nav.SectionUtilities, s)
	}
}

func linkSet(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	cat, err := intArg(cmd, 0, "category")
	if err != nil {
		return err
	}
	idx, err := indexArg(cmd, 1, "index")
	if err != nil {
		return err
	}

	var link nav.NavLink
	if idx != editor.Append {
		doc := d.Snapshot()
		if cat >= len(doc.Categories) || idx >= len(doc.Categories[cat].Links) {
			return editor.ErrStale
		}
		link = doc.Categories[cat].Links[idx]
	}
	override(cmd, "name", &link.Name)
	override(cmd, "url", &link.URL)
	override(cmd, "desc", &link.Desc)
	override(cmd, "icon", &link.Icon)
	override(cmd, "icon-text", &link.IconText)
	if cmd.IsSet("color") {
		link.Color = splitColors(cmd.String("color"))
	}
	return edit(d, editor.EditLink{Category: cat, Index: idx, Link: link})
}

func linkRemove(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	cat, err := intArg(cmd, 0, "category")
	if err != nil {
		return err
	}
	idx, err := intArg(cmd, 1, "index")
	if err != nil {
		return err
	}
	d.EditMode.Enter()
	defer d.EditMode.Escape()
	return d.DeleteLink(cat, idx)
}

func dockSet(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	section, err := sectionArg(cmd, 0)
	if err != nil {
		return err
	}
	idx, err := indexArg(cmd, 1, "index")
	if err != nil {
		return err
	}

	var item nav.DockItem
	if idx != editor.Append {
		items := *d.Snapshot().Dock.Section(section)
		if idx >= len(items) {
			return editor.ErrStale
		}
		item = items[idx]
	}
	override(cmd, "name", &item.Name)
	override(cmd, "url", &item.URL)
	override(cmd, "icon", &item.Icon)
	override(cmd, "icon-text", &item.IconText)
	override(cmd, "emoji", &item.Emoji)
	return edit(d, editor.EditDock{Section: section, Index: idx, Item: item})
}

func dockRemove(_ context.Context, cmd *cli.Command, d *desk.Desk) error {
	section, err := sectionArg(cmd, 0)
	if err != nil {
		return err
	}
	idx, err := intArg(cmd, 1, "index")
	if err != nil {
		return err
	}
	c, err := editor.DeleteDockItem(d.Snapshot(), section, idx)
	if err != nil {
		return err
	}
	return confirm(cmd, d, c)
}
