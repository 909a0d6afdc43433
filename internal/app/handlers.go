package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/draft"
	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/input"
	"github.com/zhubert/chatkit/internal/sections"
	"github.com/zhubert/chatkit/internal/ui"
)

// onLoadMore is the paginator callback. It runs inside a scroll update, so
// the load is started once that update returns.
func (m *Model) onLoadMore(dir sections.LoadMoreDirection) {
	if m.historyDone {
		m.log.Debug("history exhausted, ignoring load request", "direction", dir)
		m.pipeline.LoadFinished()
		return
	}
	m.loadPending = true
}

// takeLoad returns the history load requested during the last update, if any.
func (m *Model) takeLoad() tea.Cmd {
	if !m.loadPending {
		return nil
	}
	m.loadPending = false
	m.list.SetLoading(true)
	return m.loadOlder()
}

// onSend appends the finished draft as a pending message and delivers it.
func (m *Model) onSend(out chat.DraftMessage) {
	msg := out.ToMessage(uuid.NewString(), m.self)
	m.log.Info("message sent", "id", msg.ID, "attachments", len(msg.Attachments), "recording", msg.Recording != nil)
	m.messages = append(m.messages, msg)
	m.list.SetMessages(m.messages)
	m.queue(m.deliver(msg))
}

// onError turns recoverable machine errors into flashes.
func (m *Model) onError(err error) {
	m.queue(m.flash(errorNotice(err)))
	if errors.Is(err, errors.KindMediaResolution) {
		m.queue(m.notifyFailed(m.machine.Draft().Text))
	}
}

// onTyping runs on the draft observer goroutine.
func (m *Model) onTyping(a draft.Attachments) {
	m.log.Debug("typing", "chars", draft.TextLength(a.Text), "medias", len(a.Medias), "recording", a.Recording.Exists())
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

// updateMachine feeds msg to the input machine and mirrors the result into
// the input bar and footer.
func (m *Model) updateMachine(msg tea.Msg) tea.Cmd {
	cmd := m.machine.Update(msg)
	cmds := append(m.queued, cmd, m.syncInput())
	m.queued = nil
	return tea.Batch(cmds...)
}

// syncInput mirrors the machine into the input bar and footer.
func (m *Model) syncInput() tea.Cmd {
	state := m.machine.State()
	snapshot := m.machine.Draft()
	m.footer.SetContext(state, m.machine.Locked(), m.machine.Busy(), snapshot.Reply != nil)
	cmd := m.inputBar.SetContext(state, snapshot, m.machine.Locked(), m.machine.Busy())

	switch state {
	case input.StatePlayingRecording, input.StatePausedRecording:
		m.inputBar.SetPlayback(m.deps.Player.Progress())
		if state == input.StatePlayingRecording && !m.playTicking {
			m.playTicking = true
			return tea.Batch(cmd, m.playbackTick())
		}
	default:
		m.inputBar.SetPlayback(0, 0)
	}
	return cmd
}

func (m *Model) deliver(msg chat.Message) tea.Cmd {
	conv := m.deps.Conversation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		sent, err := conv.Deliver(ctx, msg)
		return deliveredMsg{message: sent, err: err}
	}
}

func (m *Model) awaitReply(to chat.Message) tea.Cmd {
	conv := m.deps.Conversation
	return func() tea.Msg {
		reply, err := conv.Reply(context.Background(), to)
		return replyReceivedMsg{message: reply, err: err}
	}
}

func (m *Model) notifyFailed(text string) tea.Cmd {
	if !m.cfg.Notifications() || m.deps.Notify == nil {
		return nil
	}
	notify := m.deps.Notify
	return func() tea.Msg {
		return notifiedMsg{err: notify(text)}
	}
}

// replaceMessage swaps in msg by id and reports whether it was found.
func (m *Model) replaceMessage(msg chat.Message) bool {
	for i := range m.messages {
		if m.messages[i].ID == msg.ID {
			m.messages[i] = msg
			return true
		}
	}
	return false
}

func (m *Model) handleHistoryLoaded(msg historyLoadedMsg) tea.Cmd {
	m.list.SetLoading(false)
	if !msg.initial {
		m.pipeline.LoadFinished()
	}
	if msg.err != nil {
		m.log.Warn("history load failed", "error", msg.err)
		return m.flash(noticeHistoryFailed)
	}

	m.historyDone = !m.deps.Conversation.HasOlder()
	if len(msg.messages) == 0 {
		return nil
	}
	m.log.Debug("history loaded", "count", len(msg.messages), "initial", msg.initial, "done", m.historyDone)

	merged := make([]chat.Message, 0, len(msg.messages)+len(m.messages))
	merged = append(merged, msg.messages...)
	merged = append(merged, m.messages...)
	m.messages = merged
	m.list.SetMessages(m.messages)

	// A short first page may leave the top row in the load zone already.
	m.list.ReportScroll()
	return m.takeLoad()
}

func (m *Model) handleDelivered(msg deliveredMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("delivery failed", "id", msg.message.ID, "error", msg.err)
		msg.message.Status = chat.StatusError
		m.replaceMessage(msg.message)
		m.list.SetMessages(m.messages)
		return tea.Batch(
			m.flash(noticeNotDelivered),
			m.notifyFailed(msg.message.Text),
		)
	}

	m.replaceMessage(msg.message)
	m.list.SetMessages(m.messages)
	m.replies++
	m.header.SetStatus(m.peerName() + " is typing…")
	return m.awaitReply(msg.message)
}

func (m *Model) handleReply(msg replyReceivedMsg) tea.Cmd {
	m.replies = max(0, m.replies-1)
	if m.replies == 0 {
		m.header.SetStatus("")
	}
	if msg.err != nil {
		m.log.Warn("reply failed", "error", msg.err)
		return nil
	}

	// The peer has seen everything we sent.
	for i := range m.messages {
		if m.messages[i].User.IsSelf && m.messages[i].Status == chat.StatusSent {
			m.messages[i].Status = chat.StatusRead
		}
	}
	m.messages = append(m.messages, msg.message)
	m.list.SetMessages(m.messages)
	return nil
}

func (m *Model) peerName() string {
	if msg, ok := m.list.NewestIncoming(); ok {
		return msg.User.Name
	}
	return "Someone"
}

func (m *Model) handleImagePasted(msg imagePastedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("clipboard read failed", "error", msg.err)
		return m.flash(noticeClipboardDown)
	}
	if msg.image == nil {
		return m.flash(noticeNoClipImage)
	}
	if err := msg.image.Validate(); err != nil {
		return m.flash(notice{err.Error(), ui.FlashWarning})
	}
	ref := msg.image.MediaReference()
	m.log.Info("image pasted", "media", ref.ID, "bytes", ref.Size())
	return tea.Batch(
		m.updateMachine(input.MediaPickedMsg{Medias: []chat.MediaReference{ref}}),
		m.flash(notice{fmt.Sprintf("Attached image (%dx%d)", msg.image.Width, msg.image.Height), ui.FlashInfo}),
	)
}

func (m *Model) handlePlaybackTick() tea.Cmd {
	if m.machine.State() != input.StatePlayingRecording {
		m.playTicking = false
		return nil
	}
	m.inputBar.SetPlayback(m.deps.Player.Progress())
	return m.playbackTick()
}

func (m *Model) handleFlashTick() tea.Cmd {
	m.footer.ClearIfExpired()
	if m.footer.HasFlash() {
		return ui.FlashTick()
	}
	return nil
}
