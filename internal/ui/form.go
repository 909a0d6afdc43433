package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

const (
	setupFormWidth = 60
	nameCharLimit  = 40
)

// FormTheme returns a huh theme built from the active palette. Call it each
// time a form is created so theme switches are picked up.
func FormTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorError).SetString(" *")
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorError)

		t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(ColorPrimary).SetString("> ")
		t.Focused.NextIndicator = lipgloss.NewStyle().Foreground(ColorPrimary).MarginLeft(1).SetString("→")
		t.Focused.PrevIndicator = lipgloss.NewStyle().Foreground(ColorPrimary).MarginRight(1).SetString("←")
		t.Focused.Option = lipgloss.NewStyle().Foreground(ColorText)
		t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSelf)

		t.Focused.FocusedButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextInverse).
			Background(ColorPrimary)
		t.Focused.BlurredButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextMuted)

		t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		t.Blurred.NextIndicator = lipgloss.NewStyle()
		t.Blurred.PrevIndicator = lipgloss.NewStyle()

		t.Group.Title = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		t.Group.Description = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles

		return t
	})
}

// SetupAnswers holds the values collected by the first-run form
type SetupAnswers struct {
	Name          string
	Theme         string
	PageSize      string
	Notifications bool
}

// ValidateDisplayName rejects blank names and names over the limit
func ValidateDisplayName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len([]rune(s)) > nameCharLimit {
		return fmt.Errorf("name must be at most %d characters", nameCharLimit)
	}
	return nil
}

// ValidatePageSize accepts a positive integer
func ValidatePageSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("page size must be a positive number")
	}
	return nil
}

// NewSetupForm builds the first-run form. Answers are written into a as the
// user edits.
func NewSetupForm(a *SetupAnswers) *huh.Form {
	themeOptions := make([]huh.Option[string], 0, len(ThemeNames()))
	for _, name := range ThemeNames() {
		themeOptions = append(themeOptions, huh.NewOption(GetTheme(name).Name, string(name)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Description("Shown next to your messages").
				Placeholder("e.g., Alice").
				CharLimit(nameCharLimit).
				Validate(ValidateDisplayName).
				Value(&a.Name),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&a.Theme),
			huh.NewInput().
				Title("Messages per page").
				Description("How many older messages load at a time").
				Validate(ValidatePageSize).
				Value(&a.PageSize),
			huh.NewConfirm().
				Title("Desktop notifications").
				Description("Notify when a message fails to send").
				Affirmative("On").
				Negative("Off").
				Value(&a.Notifications),
		).Title("chatkit setup"),
	).
		WithTheme(FormTheme()).
		WithShowHelp(false).
		WithWidth(setupFormWidth)
}
