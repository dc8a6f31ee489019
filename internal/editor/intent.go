package editor

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/iconresolve"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Append as an index adds a new entity at the end of its sequence.
const Append = -1

// ErrStale means the edited entity no longer exists where the session found it.
var ErrStale = errors.New("edited entity no longer exists")

type Kind int

const (
	KindLink Kind = iota
	KindDock
	KindRenameCategory
	KindProfile
	KindMenuBar
	KindFavicon
	KindNewCategory
	KindConfirm
)

func (k Kind) String() string {
	return [...]string{"link", "dock", "rename-category", "profile", "menu-bar", "favicon", "new-category", "confirm"}[k]
}

// Intent is one of the edits the settings panel can hold. The set is closed.
type Intent interface {
	Kind() Kind
	validate() error
	apply(doc *nav.Document) (*nav.Document, error)
}

// EditLink edits or appends a card.
type EditLink struct {
	Category int
	Index    int
	Link     nav.NavLink
}

// EditDock edits or appends a dock entry.
type EditDock struct {
	Section nav.DockSection
	Index   int
	Item    nav.DockItem
}

type RenameCategory struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// EditProfile edits the greeting and avatar.
type EditProfile struct {
	Name     string `json:"name"`
	Subtitle string `json:"subtitle"`
	Avatar   string `json:"avatar"`
}

// EditMenuBar holds the menu items comma-separated.
type EditMenuBar struct {
	Value string
}

// EditFavicon sets the page icon. An empty value unsets it.
type EditFavicon struct {
	Value string
}

type NewCategory struct {
	Title string `json:"title"`
}

// Confirm guards a destructive action. Exactly one of Transform and Do is set.
type Confirm struct {
	Action    string
	Message   string
	Transform func(*nav.Document) *nav.Document
	Do        func() error
}

func (EditLink) Kind() Kind       { return KindLink }
func (EditDock) Kind() Kind       { return KindDock }
func (RenameCategory) Kind() Kind { return KindRenameCategory }
func (EditProfile) Kind() Kind    { return KindProfile }
func (EditMenuBar) Kind() Kind    { return KindMenuBar }
func (EditFavicon) Kind() Kind    { return KindFavicon }
func (NewCategory) Kind() Kind    { return KindNewCategory }
func (Confirm) Kind() Kind        { return KindConfirm }

func (e EditLink) validate() error {
	l := e.Link
	err := validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.URL, validation.Required, validation.By(httpURL)),
		validation.Field(&l.IconText, validation.By(maxRunes(nav.MaxIconText))),
		validation.Field(&l.Color, validation.By(colorPair)),
	)
	if err != nil {
		return asValidation(err)
	}
	if l.Icon == "" && l.IconText == "" && iconresolve.ShortLabel(l.URL) == "" {
		return &apperr.ValidationError{Field: "icon", Reason: "needs an icon or a text label"}
	}
	return nil
}

func (e EditLink) apply(doc *nav.Document) (*nav.Document, error) {
	if e.Category < 0 || e.Category >= len(doc.Categories) {
		return nil, ErrStale
	}
	links, err := put(doc.Categories[e.Category].Links, e.Index, e.Link)
	if err != nil {
		return nil, err
	}
	doc.Categories[e.Category].Links = links
	return doc, nil
}

func (e EditDock) validate() error {
	it := e.Item
	err := validation.ValidateStruct(&it,
		validation.Field(&it.Name, validation.Required),
		validation.Field(&it.URL, validation.When(!it.IsCommand(), validation.Required), validation.By(httpURL)),
		validation.Field(&it.IconText, validation.By(maxRunes(nav.MaxIconText))),
		validation.Field(&it.Action, validation.In(nav.ActionSettings)),
	)
	return asValidation(err)
}

func (e EditDock) apply(doc *nav.Document) (*nav.Document, error) {
	seq := doc.Dock.Section(e.Section)
	items, err := put(*seq, e.Index, e.Item)
	if err != nil {
		return nil, err
	}
	*seq = items
	return doc, nil
}

func (e RenameCategory) validate() error {
	return asValidation(validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
	))
}

func (e RenameCategory) apply(doc *nav.Document) (*nav.Document, error) {
	if e.Index < 0 || e.Index >= len(doc.Categories) {
		return nil, ErrStale
	}
	if i := doc.CategoryIndex(e.Title); i >= 0 && i != e.Index {
		return nil, &apperr.ValidationError{Field: "title", Reason: "already exists"}
	}
	doc.Categories[e.Index].Title = e.Title
	return doc, nil
}

func (e EditProfile) validate() error {
	return asValidation(validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
	))
}

func (e EditProfile) apply(doc *nav.Document) (*nav.Document, error) {
	doc.Greeting.Name = e.Name
	doc.Greeting.Subtitle = e.Subtitle
	doc.Avatar = e.Avatar
	return doc, nil
}

func (EditMenuBar) validate() error { return nil }

func (e EditMenuBar) apply(doc *nav.Document) (*nav.Document, error) {
	doc.MenuBar.Items = SplitMenu(e.Value)
	return doc, nil
}

// SplitMenu turns "File, Edit,,View" into [File Edit View].
func SplitMenu(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func (EditFavicon) validate() error { return nil }

func (e EditFavicon) apply(doc *nav.Document) (*nav.Document, error) {
	doc.Favicon = e.Value
	return doc, nil
}

func (e NewCategory) validate() error {
	return asValidation(validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
	))
}

func (e NewCategory) apply(doc *nav.Document) (*nav.Document, error) {
	if doc.CategoryIndex(e.Title) >= 0 {
		return nil, &apperr.ValidationError{Field: "title", Reason: "already exists"}
	}
	doc.Categories = append(doc.Categories, nav.Category{Title: e.Title, Links: []nav.NavLink{}})
	return doc, nil
}

func (e Confirm) validate() error {
	if (e.Transform == nil) == (e.Do == nil) {
		return &apperr.ValidationError{Field: "action", Reason: "nothing to confirm"}
	}
	return nil
}

func (e Confirm) apply(doc *nav.Document) (*nav.Document, error) {
	next := e.Transform(doc)
	if next == nil {
		return nil, ErrStale
	}
	return next, nil
}

// sameIntent compares announcements. Confirm intents carry functions, so
// they are compared by action and message.
func sameIntent(a, b Intent) bool {
	ca, okA := a.(Confirm)
	cb, okB := b.(Confirm)
	if okA || okB {
		return okA && okB && ca.Action == cb.Action && ca.Message == cb.Message
	}
	return reflect.DeepEqual(a, b)
}

// sameTarget reports whether b edits the same entity as a.
func sameTarget(a, b Intent) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case EditLink:
		y := b.(EditLink)
		return x.Category == y.Category && x.Index == y.Index
	case EditDock:
		y := b.(EditDock)
		return x.Section == y.Section && x.Index == y.Index
	case RenameCategory:
		return x.Index == b.(RenameCategory).Index
	case Confirm:
		return x.Action == b.(Confirm).Action
	}
	return true
}

func put[T any](seq []T, index int, v T) ([]T, error) {
	switch {
	case index == Append:
		return append(seq, v), nil
	case index >= 0 && index < len(seq):
		seq[index] = v
		return seq, nil
	}
	return nil, fmt.Errorf("%w: index %d", ErrStale, index)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}

func maxRunes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if utf8.RuneCountInString(s) > n {
			return fmt.Errorf("must be at most %d characters", n)
		}
		return nil
	}
}

func colorPair(value interface{}) error {
	c, _ := value.([]string)
	if len(c) != 0 && len(c) != 2 {
		return errors.New("must be a pair of colors")
	}
	return nil
}

// asValidation reduces ozzo's per-field map to the first failing field.
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &apperr.ValidationError{Reason: err.Error()}
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &apperr.ValidationError{Field: fields[0], Reason: errs[fields[0]].Error()}
}
