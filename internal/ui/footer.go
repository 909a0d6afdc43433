package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatkit/internal/input"
)

// DefaultFlashDuration is how long a flash message stays visible
const DefaultFlashDuration = 4 * time.Second

// FlashType is the severity of a flash message
type FlashType int

const (
	FlashError FlashType = iota
	FlashWarning
	FlashInfo
	FlashSuccess
)

func (t FlashType) icon() string {
	switch t {
	case FlashWarning:
		return "⚠"
	case FlashInfo:
		return "ℹ"
	case FlashSuccess:
		return "✓"
	default:
		return "✕"
	}
}

func (t FlashType) style() lipgloss.Style {
	switch t {
	case FlashWarning:
		return FlashWarningStyle
	case FlashInfo:
		return FlashInfoStyle
	case FlashSuccess:
		return FlashSuccessStyle
	default:
		return FlashErrorStyle
	}
}

// FlashMessage is a transient notice shown in place of the key bindings
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg is sent periodically to expire flash messages
type FlashTickMsg time.Time

// FlashTick returns a command that fires a FlashTickMsg after a second
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	state        input.State
	locked       bool
	busy         bool
	replying     bool
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetContext updates the input state the bindings are chosen from
func (f *Footer) SetContext(state input.State, locked, busy, replying bool) {
	f.state = state
	f.locked = locked
	f.busy = busy
	f.replying = replying
}

// SetFlash shows a flash message for DefaultFlashDuration
func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message for d
func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      t,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes the flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is set
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired removes an expired flash message and reports whether it did
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// Bindings returns the key bindings for the current context
func (f *Footer) Bindings() []KeyBinding {
	if f.busy {
		return []KeyBinding{
			{Key: "esc", Desc: "cancel"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	}

	var bindings []KeyBinding
	switch f.state {
	case input.StateRecordingTap, input.StateRecordingHold:
		bindings = []KeyBinding{
			{Key: "ctrl+s", Desc: "stop"},
			{Key: "ctrl+d", Desc: "delete"},
			{Key: "enter", Desc: "send"},
		}
		if f.state == input.StateRecordingHold && !f.locked {
			bindings = append(bindings, KeyBinding{Key: "ctrl+l", Desc: "lock"})
		}
	case input.StateHasRecording, input.StatePausedRecording:
		bindings = []KeyBinding{
			{Key: "ctrl+p", Desc: "play"},
			{Key: "ctrl+d", Desc: "delete"},
			{Key: "enter", Desc: "send"},
		}
	case input.StatePlayingRecording:
		bindings = []KeyBinding{
			{Key: "ctrl+p", Desc: "pause"},
			{Key: "ctrl+d", Desc: "delete"},
			{Key: "enter", Desc: "send"},
		}
	case input.StateWaitingForRecordingPermission:
		bindings = []KeyBinding{
			{Key: "esc", Desc: "cancel"},
		}
	case input.StateHasTextOrMedia:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+v", Desc: "paste image"},
			{Key: "ctrl+x", Desc: "remove media"},
			{Key: "esc", Desc: "clear"},
		}
	default:
		bindings = []KeyBinding{
			{Key: "ctrl+r", Desc: "record"},
			{Key: "ctrl+h", Desc: "hold"},
			{Key: "ctrl+v", Desc: "paste image"},
			{Key: "ctrl+e", Desc: "reply"},
		}
	}
	if f.replying && f.state == input.StateEmpty {
		bindings = append(bindings, KeyBinding{Key: "esc", Desc: "drop reply"})
	}
	return append(bindings,
		KeyBinding{Key: "pgup/dn", Desc: "scroll"},
		KeyBinding{Key: "ctrl+c", Desc: "quit"},
	)
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		msg := f.flashMessage
		content := msg.Type.style().Render(msg.Type.icon() + " " + msg.Text)
		return FooterStyle.Width(f.width).Render(content)
	}

	var parts []string
	for _, b := range f.Bindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
