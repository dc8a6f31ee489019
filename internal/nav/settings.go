package nav

// Link open targets.
const (
	TargetNew  = "new"
	TargetSelf = "self"
)

// Settings carries optional display preferences. Nil fields fall back to the
// defaults in Resolve; defaults are applied at render time, never stored.
type Settings struct {
	IconSize        *int    `json:"iconSize,omitempty" yaml:"iconSize,omitempty"`
	TitleFontSize   *int    `json:"titleFontSize,omitempty" yaml:"titleFontSize,omitempty"`
	DescFontSize    *int    `json:"descFontSize,omitempty" yaml:"descFontSize,omitempty"`
	LinkTarget      *string `json:"linkTarget,omitempty" yaml:"linkTarget,omitempty"`
	CardStyle       *string `json:"cardStyle,omitempty" yaml:"cardStyle,omitempty"`
	IconStyle       *string `json:"iconStyle,omitempty" yaml:"iconStyle,omitempty"`
	ShowGreeting    *bool   `json:"showGreeting,omitempty" yaml:"showGreeting,omitempty"`
	ShowSubtitle    *bool   `json:"showSubtitle,omitempty" yaml:"showSubtitle,omitempty"`
	ShowSearch      *bool   `json:"showSearch,omitempty" yaml:"showSearch,omitempty"`
	ShowMenuBar     *bool   `json:"showMenuBar,omitempty" yaml:"showMenuBar,omitempty"`
	BackgroundImage *string `json:"backgroundImage,omitempty" yaml:"backgroundImage,omitempty"`
	BackgroundBlur  *int    `json:"backgroundBlur,omitempty" yaml:"backgroundBlur,omitempty"`
}

// EffectiveSettings is Settings with every default filled in.
type EffectiveSettings struct {
	IconSize        int
	TitleFontSize   int
	DescFontSize    int
	LinkTarget      string
	CardStyle       string
	IconStyle       string
	ShowGreeting    bool
	ShowSubtitle    bool
	ShowSearch      bool
	ShowMenuBar     bool
	BackgroundImage string
	BackgroundBlur  int
}

// Defaults used when a setting is absent.
var DefaultSettings = EffectiveSettings{
	IconSize:       48,
	TitleFontSize:  15,
	DescFontSize:   12,
	LinkTarget:     TargetNew,
	CardStyle:      "default",
	IconStyle:      "emoji",
	ShowGreeting:   true,
	ShowSubtitle:   true,
	ShowSearch:     true,
	ShowMenuBar:    true,
	BackgroundBlur: 0,
}

// Resolve applies defaults. A nil receiver yields DefaultSettings.
func (s *Settings) Resolve() EffectiveSettings {
	out := DefaultSettings
	if s == nil {
		return out
	}
	setInt(&out.IconSize, s.IconSize)
	setInt(&out.TitleFontSize, s.TitleFontSize)
	setInt(&out.DescFontSize, s.DescFontSize)
	setInt(&out.BackgroundBlur, s.BackgroundBlur)
	setString(&out.CardStyle, s.CardStyle)
	setString(&out.IconStyle, s.IconStyle)
	setString(&out.BackgroundImage, s.BackgroundImage)
	setBool(&out.ShowGreeting, s.ShowGreeting)
	setBool(&out.ShowSubtitle, s.ShowSubtitle)
	setBool(&out.ShowSearch, s.ShowSearch)
	setBool(&out.ShowMenuBar, s.ShowMenuBar)
	if s.LinkTarget != nil && (*s.LinkTarget == TargetNew || *s.LinkTarget == TargetSelf) {
		out.LinkTarget = *s.LinkTarget
	}
	return out
}

func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := &Settings{
		IconSize:        clonePtr(s.IconSize),
		TitleFontSize:   clonePtr(s.TitleFontSize),
		DescFontSize:    clonePtr(s.DescFontSize),
		LinkTarget:      clonePtr(s.LinkTarget),
		CardStyle:       clonePtr(s.CardStyle),
		IconStyle:       clonePtr(s.IconStyle),
		ShowGreeting:    clonePtr(s.ShowGreeting),
		ShowSubtitle:    clonePtr(s.ShowSubtitle),
		ShowSearch:      clonePtr(s.ShowSearch),
		ShowMenuBar:     clonePtr(s.ShowMenuBar),
		BackgroundImage: clonePtr(s.BackgroundImage),
		BackgroundBlur:  clonePtr(s.BackgroundBlur),
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
