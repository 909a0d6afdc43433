package ui

// Theme defines the color palette used by every component.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Primary is the main accent color (focus, headers, own messages)
	Primary string
	// Secondary is the second accent (other users, key hints)
	Secondary string

	Bg          string // Main background
	Text        string // Primary text
	TextMuted   string // Timestamps, hints
	TextInverse string // Text on colored backgrounds

	Self     string // Own message names and bubbles
	Other    string // Other users' names and bubbles
	Recorder string // Waveform while recording
	Warning  string
	Error    string
	Info     string
	Success  string

	Border      string
	BorderFocus string // Defaults to Primary if empty

	MarkdownCode   string // Inline code
	MarkdownCodeBg string
	MarkdownLink   string

	// CodeStyle is the chroma style for fenced code blocks
	CodeStyle string
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName identifies a built-in theme.
type ThemeName string

const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeDracula    ThemeName = "dracula"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:           "Dark Purple",
		Primary:        "#7C3AED",
		Secondary:      "#06B6D4",
		Bg:             "#1F2937",
		Text:           "#F9FAFB",
		TextMuted:      "#B0B8C4",
		TextInverse:    "#1F2937",
		Self:           "#A78BFA",
		Other:          "#22D3EE",
		Recorder:       "#EF4444",
		Warning:        "#F59E0B",
		Error:          "#EF4444",
		Info:           "#06B6D4",
		Success:        "#10B981",
		Border:         "#374151",
		MarkdownCode:   "#67E8F9",
		MarkdownCodeBg: "#1E1E2E",
		MarkdownLink:   "#67E8F9",
		CodeStyle:      "monokai",
	},
	ThemeNord: {
		Name:           "Nord",
		Primary:        "#88C0D0",
		Secondary:      "#81A1C1",
		Bg:             "#2E3440",
		Text:           "#ECEFF4",
		TextMuted:      "#A5ABB6",
		TextInverse:    "#2E3440",
		Self:           "#88C0D0",
		Other:          "#A3BE8C",
		Recorder:       "#BF616A",
		Warning:        "#EBCB8B",
		Error:          "#BF616A",
		Info:           "#81A1C1",
		Success:        "#A3BE8C",
		Border:         "#4C566A",
		MarkdownCode:   "#8FBCBB",
		MarkdownCodeBg: "#3B4252",
		MarkdownLink:   "#88C0D0",
		CodeStyle:      "nord",
	},
	ThemeDracula: {
		Name:           "Dracula",
		Primary:        "#BD93F9",
		Secondary:      "#8BE9FD",
		Bg:             "#282A36",
		Text:           "#F8F8F2",
		TextMuted:      "#A4A8C0",
		TextInverse:    "#282A36",
		Self:           "#FF79C6",
		Other:          "#8BE9FD",
		Recorder:       "#FF5555",
		Warning:        "#FFB86C",
		Error:          "#FF5555",
		Info:           "#8BE9FD",
		Success:        "#50FA7B",
		Border:         "#44475A",
		MarkdownCode:   "#50FA7B",
		MarkdownCodeBg: "#44475A",
		MarkdownLink:   "#8BE9FD",
		CodeStyle:      "dracula",
	},
	ThemeLight: {
		Name:           "Light",
		Primary:        "#6D28D9",
		Secondary:      "#0891B2",
		Bg:             "#FFFFFF",
		Text:           "#111827",
		TextMuted:      "#6B7280",
		TextInverse:    "#FFFFFF",
		Self:           "#7C3AED",
		Other:          "#0E7490",
		Recorder:       "#DC2626",
		Warning:        "#D97706",
		Error:          "#DC2626",
		Info:           "#0891B2",
		Success:        "#059669",
		Border:         "#D1D5DB",
		MarkdownCode:   "#059669",
		MarkdownCodeBg: "#F3F4F6",
		MarkdownLink:   "#0891B2",
		CodeStyle:      "github",
	},
}

// ThemeNames returns all built-in theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{ThemeDarkPurple, ThemeNord, ThemeDracula, ThemeLight}
}

// GetTheme returns a theme by name, defaulting to DarkPurple if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

var currentTheme = BuiltinThemes[DefaultTheme]

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme and regenerates all styles
func SetTheme(name ThemeName) {
	currentTheme = GetTheme(name)
	regenerateStyles()
}

// SetThemeByName sets the active theme by string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// CurrentThemeName returns the name of the current theme
func CurrentThemeName() ThemeName {
	for name, theme := range BuiltinThemes {
		if theme.Name == currentTheme.Name {
			return name
		}
	}
	return DefaultTheme
}
