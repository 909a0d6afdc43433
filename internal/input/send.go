package input

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/media"
)

// send resolves the draft's media and hands the finished message to OnSend.
// The draft is snapshotted first; edits made while resolving do not leak
// into the message.
func (m *Machine) send() tea.Cmd {
	if m.busy {
		m.log.Debug("send ignored", "error", errors.SendInFlight())
		return nil
	}
	if m.state.IsRecording() {
		m.stopRecording()
	}

	snapshot := m.draft.Snapshot()
	if snapshot.IsEmpty() {
		m.log.Debug("send ignored", "error", errors.EmptyDraft())
		return nil
	}
	if m.state == StatePlayingRecording || m.state == StatePausedRecording {
		m.playGen++
		m.opts.Player.Reset()
		m.setState(StateHasRecording)
	}

	m.busy = true
	m.sendGen++
	gen := m.sendGen
	ctx, cancel := context.WithCancel(context.Background())
	m.sendCancel = cancel
	m.log.Info("sending", "medias", len(snapshot.Medias), "recording", snapshot.Recording.Exists())

	resolver, limit := m.opts.Resolver, m.opts.MaxConcurrentResolves
	return func() tea.Msg {
		atts, err := media.ResolveAll(ctx, resolver, snapshot.Medias, limit)
		return sendResolvedMsg{gen: gen, snapshot: snapshot, attachments: atts, err: err}
	}
}

func (m *Machine) handleSendResolved(msg sendResolvedMsg) {
	if msg.gen != m.sendGen || !m.busy {
		return
	}
	m.busy = false
	m.sendCancel()
	m.sendCancel = nil

	if msg.err != nil {
		m.report(msg.err)
		return
	}

	out := chat.DraftMessage{
		Text:        msg.snapshot.Text,
		Attachments: msg.attachments,
		ReplyTo:     msg.snapshot.Reply,
		CreatedAt:   m.opts.Now(),
	}
	if msg.snapshot.Recording.Exists() {
		rec := msg.snapshot.Recording
		out.Recording = &rec
	}
	if m.opts.OnSend != nil {
		m.opts.OnSend(out)
	}

	m.opts.Player.Reset()
	m.playGen++
	m.state = StateEmpty
	m.draft.Reset()
	m.log.Info("sent", "attachments", len(out.Attachments))
}
