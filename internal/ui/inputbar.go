package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/zhubert/chatkit/internal/draft"
	"github.com/zhubert/chatkit/internal/input"
)

// InputBar is the compose area: a status line over a textarea. The status
// line follows the input state.
type InputBar struct {
	textarea textarea.Model
	width    int
	focused  bool

	state    input.State
	snapshot draft.Attachments
	locked   bool
	busy     bool
	position time.Duration
	duration time.Duration
}

// NewInputBar creates a new input bar
func NewInputBar() *InputBar {
	ta := textarea.New()
	ta.Placeholder = "Write a message..."
	ta.CharLimit = 0
	ta.SetHeight(TextareaHeight)
	ta.ShowLineNumbers = false
	ta.Prompt = ""

	return &InputBar{textarea: ta}
}

// SetWidth sets the outer width
func (b *InputBar) SetWidth(width int) {
	b.width = width
	ctx := GetViewContext()
	b.textarea.SetWidth(max(1, ctx.InnerWidth(width)-InputPaddingWidth))
}

// SetFocused sets the focus state
func (b *InputBar) SetFocused(focused bool) tea.Cmd {
	b.focused = focused
	if focused && b.editable() {
		return b.textarea.Focus()
	}
	b.textarea.Blur()
	return nil
}

// editable reports whether typing goes to the draft in the current state
func (b *InputBar) editable() bool {
	switch b.state {
	case input.StateEmpty, input.StateHasTextOrMedia, input.StateWaitingForRecordingPermission:
		return !b.busy
	default:
		return false
	}
}

// SetContext mirrors the machine into the bar. The textarea is rewritten
// when the draft text differs, e.g. after a send or a truncation.
func (b *InputBar) SetContext(state input.State, snapshot draft.Attachments, locked, busy bool) tea.Cmd {
	b.state = state
	b.snapshot = snapshot
	b.locked = locked
	b.busy = busy

	if b.textarea.Value() != snapshot.Text {
		b.textarea.SetValue(snapshot.Text)
	}
	return b.SetFocused(b.focused)
}

// SetPlayback sets the playback progress shown for a finished recording
func (b *InputBar) SetPlayback(position, duration time.Duration) {
	b.position = position
	b.duration = duration
}

// Value returns the textarea contents
func (b *InputBar) Value() string {
	return b.textarea.Value()
}

// InsertNewline breaks the line at the cursor. It reports whether the
// draft was editable.
func (b *InputBar) InsertNewline() bool {
	if !b.editable() {
		return false
	}
	b.textarea.InsertRune('\n')
	return true
}

// Update forwards key presses to the textarea when the draft is editable
func (b *InputBar) Update(msg tea.Msg) (*InputBar, tea.Cmd) {
	if _, isKey := msg.(tea.KeyPressMsg); isKey && !b.editable() {
		return b, nil
	}
	var cmd tea.Cmd
	b.textarea, cmd = b.textarea.Update(msg)
	return b, cmd
}

// Status renders the line above the textarea
func (b *InputBar) Status() string {
	width := max(10, GetViewContext().InnerWidth(b.width)-InputPaddingWidth)
	rec := b.snapshot.Recording

	var line string
	switch b.state {
	case input.StateWaitingForRecordingPermission:
		line = PermissionStyle.Render("Waiting for microphone permission…")
	case input.StateRecordingTap, input.StateRecordingHold:
		label := "REC"
		if b.state == input.StateRecordingHold && !b.locked {
			label = "HOLD"
		} else if b.locked {
			label = "REC 🔒"
		}
		bars := min(WaveformMaxBars, max(1, width-len(label)-12))
		line = RecordingDotStyle.Render("● "+label) + " " +
			WaveformLiveStyle.Render(Waveform(tail(rec.Samples, bars), bars, -1)) + " " +
			TimestampStyle.Render(FormatElapsed(rec.Duration))
	case input.StateHasRecording, input.StatePlayingRecording, input.StatePausedRecording:
		icon := "▶"
		progress := -1.0
		elapsed := rec.Duration
		if b.state != input.StateHasRecording && b.duration > 0 {
			progress = float64(b.position) / float64(b.duration)
			elapsed = b.position
		}
		if b.state == input.StatePlayingRecording {
			icon = "❚❚"
		}
		bars := min(WaveformMaxBars, max(1, width-16))
		line = PlaybackCursorStyle.Render(icon) + " " +
			Waveform(rec.Samples, bars, progress) + " " +
			TimestampStyle.Render(FormatElapsed(elapsed)+" / "+FormatElapsed(rec.Duration))
	default:
		var parts []string
		if b.busy {
			parts = append(parts, StatusSendingStyle.Render("sending…"))
		}
		for _, m := range b.snapshot.Medias {
			chip := m.Kind.String()
			if size := m.Size(); size > 0 {
				chip += " " + humanize.Bytes(uint64(size))
			}
			parts = append(parts, ChipStyle.Render(chip))
		}
		if r := b.snapshot.Reply; r != nil {
			name := r.User.Name
			if r.User.IsSelf {
				name = "yourself"
			}
			parts = append(parts, ReplyPreviewStyle.Render("↪ replying to "+name+": "+strings.ReplaceAll(r.Text, "\n", " ")))
		}
		line = strings.Join(parts, " ")
	}

	return ansi.Truncate(line, width, "…")
}

// tail keeps the newest n samples so a live waveform scrolls
func tail(samples []float64, n int) []float64 {
	if len(samples) <= n {
		return samples
	}
	return samples[len(samples)-n:]
}

// View renders the input bar
func (b *InputBar) View() string {
	style := InputStyle
	if b.focused {
		style = InputFocusedStyle
	}
	return style.Width(b.width).Render(b.Status() + "\n" + b.textarea.View())
}
