package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorBorder      color.Color
	ColorBorderFocus color.Color
	ColorBg          color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorSelf        color.Color
	ColorOther       color.Color
	ColorRecorder    color.Color
	ColorWarning     color.Color
	ColorInfo        color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
)

// Header and footer
var (
	HeaderStyle     lipgloss.Style
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Panels
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
)

// Message list
var (
	DayHeaderStyle     lipgloss.Style
	SelfNameStyle      lipgloss.Style
	OtherNameStyle     lipgloss.Style
	MessageTextStyle   lipgloss.Style
	TimestampStyle     lipgloss.Style
	ReplyQuoteStyle    lipgloss.Style
	AttachmentStyle    lipgloss.Style
	StatusSendingStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	LoadingStyle       lipgloss.Style
)

// Input bar
var (
	InputStyle          lipgloss.Style
	InputFocusedStyle   lipgloss.Style
	InputHintStyle      lipgloss.Style
	WaveformStyle       lipgloss.Style
	WaveformLiveStyle   lipgloss.Style
	RecordingDotStyle   lipgloss.Style
	PermissionStyle     lipgloss.Style
	ChipStyle           lipgloss.Style
	ReplyPreviewStyle   lipgloss.Style
	PlaybackCursorStyle lipgloss.Style
)

// Markdown
var (
	MarkdownBoldStyle       lipgloss.Style
	MarkdownItalicStyle     lipgloss.Style
	MarkdownInlineCodeStyle lipgloss.Style
	MarkdownLinkStyle       lipgloss.Style
)

// Flash messages
var (
	FlashErrorStyle   lipgloss.Style
	FlashWarningStyle lipgloss.Style
	FlashInfoStyle    lipgloss.Style
	FlashSuccessStyle lipgloss.Style
)

func init() {
	regenerateStyles()
}

// regenerateStyles rebuilds every style from the current theme.
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorBg = lipgloss.Color(t.Bg)
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorSelf = lipgloss.Color(t.Self)
	ColorOther = lipgloss.Color(t.Other)
	ColorRecorder = lipgloss.Color(t.Recorder)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorInfo = lipgloss.Color(t.Info)
	ColorError = lipgloss.Color(t.Error)
	ColorSuccess = lipgloss.Color(t.Success)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus)

	DayHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Bold(true).
		Align(lipgloss.Center)

	SelfNameStyle = lipgloss.NewStyle().
		Foreground(ColorSelf).
		Bold(true)

	OtherNameStyle = lipgloss.NewStyle().
		Foreground(ColorOther).
		Bold(true)

	MessageTextStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	TimestampStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	ReplyQuoteStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBorder).
		PaddingLeft(1)

	AttachmentStyle = lipgloss.NewStyle().
		Foreground(ColorInfo)

	StatusSendingStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	LoadingStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	InputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(0, 1)

	InputHintStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	WaveformStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	WaveformLiveStyle = lipgloss.NewStyle().
		Foreground(ColorRecorder)

	RecordingDotStyle = lipgloss.NewStyle().
		Foreground(ColorRecorder).
		Bold(true)

	PermissionStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)

	ChipStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorInfo).
		Padding(0, 1)

	ReplyPreviewStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	PlaybackCursorStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	MarkdownBoldStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)

	MarkdownItalicStyle = lipgloss.NewStyle().
		Italic(true).
		Foreground(ColorText)

	MarkdownInlineCodeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownCode)).
		Background(lipgloss.Color(t.MarkdownCodeBg))

	MarkdownLinkStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownLink)).
		Underline(true)

	FlashErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	FlashWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)

	FlashInfoStyle = lipgloss.NewStyle().
		Foreground(ColorInfo)

	FlashSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
}
