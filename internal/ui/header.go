package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Header represents the top header bar
type Header struct {
	width        int
	conversation string
	status       string // Muted suffix, e.g. "recording" or "loading older"
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetConversation sets the conversation name to display
func (h *Header) SetConversation(name string) {
	h.conversation = name
}

// SetStatus sets the muted status shown after the conversation name
func (h *Header) SetStatus(status string) {
	h.status = status
}

const headerTitle = " chatkit"

// View renders the header
func (h *Header) View() string {
	var right string
	if h.conversation != "" {
		right = h.conversation
	}
	if h.status != "" {
		if right != "" {
			right += " "
		}
		right += "(" + h.status + ")"
	}
	if right != "" {
		right += " "
	}

	padding := h.width - runewidth.StringWidth(headerTitle) - runewidth.StringWidth(right)
	if padding < 0 {
		padding = 0
	}

	full := headerTitle + strings.Repeat(" ", padding) + right
	mutedFrom := -1
	if h.status != "" {
		mutedFrom = strings.LastIndex(full, "("+h.status+")")
	}
	return h.renderGradient(full, mutedFrom)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient paints content over a background fading from the primary
// color to the theme background. Bytes from mutedFrom on use the muted text
// color; -1 disables muting.
func (h *Header) renderGradient(content string, mutedFrom int) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	width := runewidth.StringWidth(content)
	var result strings.Builder
	col := 0
	for i, r := range content {
		t := float64(col) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < len(headerTitle))
		if mutedFrom >= 0 && i >= mutedFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
		col += runewidth.RuneWidth(r)
	}

	return result.String()
}
