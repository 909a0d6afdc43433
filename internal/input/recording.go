package input

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/errors"
)

// record starts a tap or hold recording, asking for permission first when
// the microphone is not authorized.
func (m *Machine) record(kind State) tea.Cmd {
	if m.busy {
		m.log.Debug("record ignored while sending")
		return nil
	}
	if m.state.IsRecording() {
		return nil
	}
	if m.state == StatePlayingRecording || m.state == StatePausedRecording {
		m.playGen++
		m.opts.Player.Reset()
	}

	if !m.opts.Recorder.IsAllowedToRecordAudio() {
		m.permGen++
		m.setState(StateWaitingForRecordingPermission)
		return m.requestPermission(m.permGen)
	}
	return m.beginRecording(kind)
}

func (m *Machine) requestPermission(gen int) tea.Cmd {
	rec := m.opts.Recorder
	return func() tea.Msg {
		granted, err := rec.RequestPermission(context.Background())
		return permissionResultMsg{gen: gen, granted: granted, err: err}
	}
}

func (m *Machine) handlePermissionResult(msg permissionResultMsg) tea.Cmd {
	if msg.gen != m.permGen || m.state != StateWaitingForRecordingPermission {
		m.log.Debug("stale permission result dropped", "gen", msg.gen)
		return nil
	}
	if msg.err != nil {
		m.report(msg.err)
		m.rederive()
		return nil
	}
	if !msg.granted {
		m.report(errors.RecordPermissionDenied())
		return nil
	}
	return m.beginRecording(StateRecordingTap)
}

// beginRecording enters a recording state and starts the device.
func (m *Machine) beginRecording(kind State) tea.Cmd {
	m.endCapture()
	m.recGen++
	gen := m.recGen
	m.locked = false
	m.recURL = ""
	if prev := m.draft.Recording(); prev.Status == chat.RecordingFinished {
		m.prevRec = prev
	}
	m.setState(kind)
	m.draft.StartRecording()

	ctx, cancel := context.WithCancel(context.Background())
	m.recCancel = cancel
	rec, samples := m.opts.Recorder, m.samples
	onSample := func(elapsed time.Duration, s []float64) {
		publishLatest(samples, recordingSampleMsg{gen: gen, elapsed: elapsed, samples: s})
	}
	return func() tea.Msg {
		url, err := rec.StartRecording(ctx, onSample)
		return recordingStartedMsg{gen: gen, url: url, err: err}
	}
}

// endCapture cancels the pending or running capture session and stops the
// recorder. A start still in flight fails on the cancelled context.
func (m *Machine) endCapture() {
	if m.recCancel != nil {
		m.recCancel()
		m.recCancel = nil
	}
	m.opts.Recorder.StopRecording()
}

// restorePrevious puts back the finished recording a failed or empty
// re-record replaced. Returns whether there was one.
func (m *Machine) restorePrevious() bool {
	prev := m.prevRec
	m.prevRec = chat.Recording{}
	if prev.Status != chat.RecordingFinished {
		return false
	}
	m.draft.RestoreRecording(prev)
	return true
}

// publishLatest replaces any unread sample with msg. Samples are cumulative
// so only the newest matters.
func publishLatest(ch chan recordingSampleMsg, msg recordingSampleMsg) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (m *Machine) handleRecordingStarted(msg recordingStartedMsg) tea.Cmd {
	if msg.gen != m.recGen || !m.state.IsRecording() {
		if msg.err == nil && !m.state.IsRecording() {
			m.log.Debug("stale capture session stopped", "gen", msg.gen)
			m.opts.Recorder.StopRecording()
		}
		return nil
	}
	if msg.err != nil {
		m.report(msg.err)
		if m.recCancel != nil {
			m.recCancel()
			m.recCancel = nil
		}
		m.draft.ClearRecording()
		m.restorePrevious()
		m.rederive()
		return nil
	}

	m.prevRec = chat.Recording{}
	m.recURL = msg.url
	m.log.Info("recording started", "url", msg.url, "mode", m.state)

	var cmds []tea.Cmd
	gen := msg.gen
	if m.state == StateRecordingHold && m.opts.MaxHoldDuration > 0 {
		cmds = append(cmds, tea.Tick(m.opts.MaxHoldDuration, func(time.Time) tea.Msg {
			return recordingLimitMsg{gen: gen, hold: true}
		}))
	}
	if m.opts.MaxRecordingDuration > 0 {
		cmds = append(cmds, tea.Tick(m.opts.MaxRecordingDuration, func(time.Time) tea.Msg {
			return recordingLimitMsg{gen: gen}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Machine) handleRecordingLimit(msg recordingLimitMsg) {
	if msg.gen != m.recGen || !m.state.IsRecording() {
		return
	}
	if msg.hold && (m.locked || m.state != StateRecordingHold) {
		return
	}
	m.log.Info("recording limit reached", "hold", msg.hold)
	m.stopRecording()
}

// stopRecording finalizes the active recording.
func (m *Machine) stopRecording() {
	m.endCapture()
	m.opts.Player.Reset()
	m.recGen++
	m.locked = false

	if m.recURL == "" {
		// Stopped before the device came up
		m.draft.ClearRecording()
		m.restorePrevious()
	} else {
		m.prevRec = chat.Recording{}
		m.draft.FinishRecording(m.recURL)
	}
	m.rederive()
	m.recURL = ""
}

func (m *Machine) deleteRecording() {
	m.endCapture()
	m.opts.Player.Reset()
	m.recGen++
	m.playGen++
	m.locked = false
	m.recURL = ""
	m.prevRec = chat.Recording{}
	m.draft.ClearRecording()
	m.rederive()
}

func (m *Machine) play() tea.Cmd {
	rec := m.draft.Recording()
	switch {
	case m.state == StateHasRecording, m.state == StatePausedRecording:
	case m.state == StateWaitingForRecordingPermission && rec.Status == chat.RecordingFinished:
		// Listening to the old take abandons the re-record
		m.permGen++
	default:
		return nil
	}
	m.playGen++
	gen := m.playGen
	m.setState(StatePlayingRecording)

	player := m.opts.Player
	return func() tea.Msg {
		session, err := player.Play(context.Background(), rec)
		return playbackStartedMsg{gen: gen, session: session, err: err}
	}
}

func (m *Machine) handlePlaybackStarted(msg playbackStartedMsg) {
	if msg.gen != m.playGen || m.state != StatePlayingRecording {
		if msg.err == nil && m.state == StatePausedRecording {
			// Paused before the player got going
			m.opts.Player.Pause()
		}
		return
	}
	if msg.err != nil {
		m.report(msg.err)
		m.setState(StateHasRecording)
		return
	}
	m.playSession = msg.session
	if m.lastEnded == msg.session {
		// Ended before the start was processed
		m.setState(StateHasRecording)
	}
}
