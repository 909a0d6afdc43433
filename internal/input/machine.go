// Package input implements the input bar state machine: it owns the draft,
// derives the visible state from it, and coordinates recording, playback and
// sending.
//
// Machine is a Bubble Tea component. Update runs on the program's event loop;
// every blocking operation (device start, permission prompt, decoding, media
// resolution) runs in a returned tea.Cmd and comes back as a message.
package input

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/draft"
	"github.com/zhubert/chatkit/internal/logger"
	"github.com/zhubert/chatkit/internal/media"
	"github.com/zhubert/chatkit/internal/recorder"
)

// Recorder is the audio capture contract the machine drives.
type Recorder interface {
	StartRecording(ctx context.Context, onSample recorder.SampleFunc) (string, error)
	StopRecording()
	IsAllowedToRecordAudio() bool
	RequestPermission(ctx context.Context) (bool, error)
}

// Player is the playback contract the machine drives.
type Player interface {
	Play(ctx context.Context, rec chat.Recording) (int, error)
	Pause()
	Reset()
	Ended() <-chan int
}

// Options configures a Machine. Recorder, Player and Resolver are required.
type Options struct {
	Recorder Recorder
	Player   Player
	Resolver media.Resolver

	MaxTextLength         int
	MaxConcurrentResolves int
	MaxHoldDuration       time.Duration // hold recordings stop after this unless locked
	MaxRecordingDuration  time.Duration // hard stop for any recording
	TypingBuffer          int

	// OnSend receives every finalized message, on the event loop.
	OnSend func(chat.DraftMessage)
	// OnError receives recoverable errors, on the event loop.
	OnError func(error)
	// OnTyping receives every draft change on its own goroutine. Changes are
	// dropped when it falls behind.
	OnTyping func(draft.Attachments)

	Now func() time.Time
}

// Machine is the input state machine.
type Machine struct {
	opts  Options
	bus   *draft.Broadcaster
	draft *draft.Draft
	log   *slog.Logger

	state      State
	stopTyping func()
	lastErr    error

	// recording
	recGen    int
	recURL    string
	recCancel context.CancelFunc
	prevRec   chat.Recording // finished recording kept until a re-record starts
	locked    bool
	samples   chan recordingSampleMsg
	permGen   int

	// playback
	playGen     int
	playSession int
	lastEnded   int

	// sending
	busy       bool
	sendGen    int
	sendCancel context.CancelFunc
}

// New creates a Machine with an empty draft.
func New(opts Options) *Machine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TypingBuffer <= 0 {
		opts.TypingBuffer = 16
	}

	bus := draft.NewBroadcaster(logger.ComponentLogger("Draft"))
	d := draft.New(bus, opts.MaxTextLength)
	m := &Machine{
		opts:    opts,
		bus:     bus,
		draft:   d,
		log:     logger.WithDraft(d.ID()).With("component", "Input"),
		state:   StateEmpty,
		samples: make(chan recordingSampleMsg, 1),
	}
	bus.Subscribe(m.onDraftChanged)
	if opts.OnTyping != nil {
		m.stopTyping = bus.Observe(opts.TypingBuffer, opts.OnTyping)
	}
	return m
}

// Init starts the listeners for recorder samples and playback end events.
func (m *Machine) Init() tea.Cmd {
	return tea.Batch(m.listenForSamples(), m.listenForPlaybackEnded())
}

// Close stops recording, playback and the typing observer.
func (m *Machine) Close() {
	m.endCapture()
	m.opts.Player.Reset()
	if m.sendCancel != nil {
		m.sendCancel()
	}
	m.bus.Close()
	if m.stopTyping != nil {
		m.stopTyping()
	}
}

// State returns the current input state.
func (m *Machine) State() State {
	return m.state
}

// Draft returns a snapshot of the draft.
func (m *Machine) Draft() draft.Attachments {
	return m.draft.Snapshot()
}

// Busy reports whether a send is in flight.
func (m *Machine) Busy() bool {
	return m.busy
}

// Locked reports whether the current recording ignores the hold timer.
func (m *Machine) Locked() bool {
	return m.locked
}

// LastError returns the most recent recoverable error, if any.
func (m *Machine) LastError() error {
	return m.lastErr
}

// Update handles a message and returns follow-up work.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ActionMsg:
		return m.handleAction(msg.Action)

	case TextChangedMsg:
		m.draft.SetText(msg.Text)

	case MediaPickedMsg:
		m.draft.AddMedia(msg.Medias...)

	case MediaRemovedMsg:
		m.draft.RemoveMedia(msg.ID)

	case ReplyMsg:
		m.draft.SetReply(msg.Reply)

	case CancelMsg:
		m.cancel()

	case permissionResultMsg:
		return m.handlePermissionResult(msg)

	case recordingStartedMsg:
		return m.handleRecordingStarted(msg)

	case recordingSampleMsg:
		if msg.gen == m.recGen && m.state.IsRecording() {
			m.draft.UpdateRecording(msg.elapsed, msg.samples)
		}
		return m.listenForSamples()

	case recordingLimitMsg:
		m.handleRecordingLimit(msg)

	case playbackStartedMsg:
		m.handlePlaybackStarted(msg)

	case playbackEndedMsg:
		m.lastEnded = msg.session
		if m.state == StatePlayingRecording && msg.session == m.playSession {
			m.log.Debug("playback reached end", "session", msg.session)
			m.setState(StateHasRecording)
		}
		return m.listenForPlaybackEnded()

	case sendResolvedMsg:
		m.handleSendResolved(msg)
	}
	return nil
}

func (m *Machine) handleAction(a Action) tea.Cmd {
	m.log.Debug("action", "action", a, "state", m.state)

	switch a {
	case ActionSend:
		return m.send()

	case ActionRecordAudioTap:
		return m.record(StateRecordingTap)

	case ActionRecordAudioHold:
		return m.record(StateRecordingHold)

	case ActionRecordAudioLock:
		if m.state.IsRecording() {
			m.locked = true
			m.setState(StateRecordingTap)
		}

	case ActionStopRecordAudio:
		if m.state.IsRecording() {
			m.stopRecording()
		}

	case ActionDeleteRecord:
		if m.draft.Recording().Exists() || m.state.IsRecording() {
			m.deleteRecording()
		}

	case ActionPlayRecord:
		return m.play()

	case ActionPauseRecord:
		if m.state == StatePlayingRecording {
			m.playGen++
			m.opts.Player.Pause()
			m.setState(StatePausedRecording)
		}
	}
	return nil
}

// onDraftChanged re-derives the state after every draft mutation.
func (m *Machine) onDraftChanged(a draft.Attachments) {
	if m.state.derived() {
		m.setState(stateFor(a))
	}
}

func stateFor(a draft.Attachments) State {
	if a.Recording.Status == chat.RecordingFinished {
		return StateHasRecording
	}
	if a.HasTextOrMedia() {
		return StateHasTextOrMedia
	}
	return StateEmpty
}

// rederive leaves any explicit state and follows the draft again.
func (m *Machine) rederive() {
	m.setState(stateFor(m.draft.Snapshot()))
}

func (m *Machine) setState(s State) {
	if s == m.state {
		return
	}
	m.log.Debug("state changed", "from", m.state, "to", s)
	m.state = s
}

func (m *Machine) report(err error) {
	m.lastErr = err
	m.log.Warn("input error", "error", err)
	if m.opts.OnError != nil {
		m.opts.OnError(err)
	}
}

func (m *Machine) cancel() {
	m.endCapture()
	m.opts.Player.Reset()
	m.recGen++
	m.permGen++
	m.playGen++
	if m.busy {
		m.sendGen++
		m.sendCancel()
		m.busy = false
	}
	m.locked = false
	m.recURL = ""
	m.prevRec = chat.Recording{}
	m.state = StateEmpty
	m.draft.Reset()
	m.log.Info("draft cancelled")
}

// listenForSamples waits for the next recorder sample.
func (m *Machine) listenForSamples() tea.Cmd {
	ch := m.samples
	return func() tea.Msg {
		return <-ch
	}
}

// listenForPlaybackEnded waits for the player's next end event.
func (m *Machine) listenForPlaybackEnded() tea.Cmd {
	ch := m.opts.Player.Ended()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		session, ok := <-ch
		if !ok {
			return nil
		}
		return playbackEndedMsg{session: session}
	}
}
