package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/input"
	"github.com/zhubert/chatkit/internal/keys"
	"github.com/zhubert/chatkit/internal/ui"
)

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKeyPress(msg)

	case tea.PasteMsg:
		return m, m.handlePaste(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		return m, m.routeMouse(msg)

	case historyLoadedMsg:
		return m, m.handleHistoryLoaded(msg)

	case deliveredMsg:
		return m, m.handleDelivered(msg)

	case replyReceivedMsg:
		return m, m.handleReply(msg)

	case imagePastedMsg:
		return m, m.handleImagePasted(msg)

	case notifiedMsg:
		if msg.err != nil {
			m.log.Warn("notification failed", "error", msg.err)
		}
		return m, nil

	case ui.FlashTickMsg:
		return m, m.handleFlashTick()

	case ui.SelectionFlashTickMsg:
		_, cmd := m.list.Update(msg)
		return m, cmd

	case ui.ClipboardErrorMsg:
		m.log.Warn("copy to system clipboard failed", "error", msg.Err)
		return m, m.flash(noticeTerminalCopy)

	case playbackTickMsg:
		return m, m.handlePlaybackTick()

	case clockTickMsg:
		m.list.Refresh()
		return m, m.clockTick()
	}

	// Everything else is cursor blinks and the machine's own async traffic.
	_, cmd := m.inputBar.Update(msg)
	return m, tea.Batch(cmd, m.updateMachine(msg))
}

// handleKeyPress routes compose shortcuts to the machine and everything
// else to the textarea
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	state := m.machine.State()
	key := msg.String()

	switch key {
	case keys.Quit:
		m.Close()
		return tea.Quit

	case keys.Send:
		return m.action(input.ActionSend)

	case keys.Newline, keys.AltEnter:
		if m.inputBar.InsertNewline() {
			return m.syncText()
		}
		return nil

	case keys.RecordTap:
		return m.action(input.ActionRecordAudioTap)

	case keys.RecordHold:
		return m.action(input.ActionRecordAudioHold)

	case keys.RecordLock:
		return m.action(input.ActionRecordAudioLock)

	case keys.StopRecord:
		return m.action(input.ActionStopRecordAudio)

	case keys.DeleteAudio:
		if state.IsRecording() || m.machine.Draft().Recording.Exists() {
			return m.action(input.ActionDeleteRecord)
		}

	case keys.PlayPause:
		if state == input.StatePlayingRecording {
			return m.action(input.ActionPauseRecord)
		}
		return m.action(input.ActionPlayRecord)

	case keys.PasteImage:
		return m.pasteImage()

	case keys.RemoveMedia:
		medias := m.machine.Draft().Medias
		if len(medias) == 0 {
			return nil
		}
		return m.updateMachine(input.MediaRemovedMsg{ID: medias[len(medias)-1].ID})

	case keys.Reply:
		return m.replyToNewest()

	case keys.Cancel:
		if m.list.HasSelection() {
			m.list.ClearSelection()
			return nil
		}
		if state == input.StateEmpty && !m.machine.Busy() && m.machine.Draft().Reply != nil {
			return m.updateMachine(input.ReplyMsg{Reply: nil})
		}
		return m.updateMachine(input.CancelMsg{})

	case keys.PgUp, keys.PgDown:
		_, cmd := m.list.Update(msg)
		return tea.Batch(cmd, m.takeLoad())
	}

	_, cmd := m.inputBar.Update(msg)
	return tea.Batch(cmd, m.syncText())
}

func (m *Model) action(a input.Action) tea.Cmd {
	return m.updateMachine(input.ActionMsg{Action: a})
}

// syncText pushes textarea edits into the draft. The machine may truncate
// the text, in which case syncInput writes it back.
func (m *Model) syncText() tea.Cmd {
	text := m.inputBar.Value()
	if text == m.machine.Draft().Text {
		return nil
	}
	return m.updateMachine(input.TextChangedMsg{Text: text})
}

func (m *Model) handlePaste(msg tea.PasteMsg) tea.Cmd {
	if ref, ok := mediaFromPaste(msg.Content); ok {
		m.log.Info("file pasted", "media", ref.ID, "path", ref.Path)
		return m.updateMachine(input.MediaPickedMsg{Medias: []chat.MediaReference{ref}})
	}
	_, cmd := m.inputBar.Update(msg)
	return tea.Batch(cmd, m.syncText())
}

func (m *Model) pasteImage() tea.Cmd {
	read := m.deps.ReadImage
	if read == nil {
		return nil
	}
	return func() tea.Msg {
		img, err := read()
		return imagePastedMsg{image: img, err: err}
	}
}

func (m *Model) replyToNewest() tea.Cmd {
	msg, ok := m.list.NewestIncoming()
	if !ok {
		return m.flash(noticeNothingToReply)
	}
	reply := msg.Reply()
	return m.updateMachine(input.ReplyMsg{Reply: &reply})
}
