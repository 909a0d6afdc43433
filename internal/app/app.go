// Package app is the demo host: a Bubble Tea program that embeds the input
// machine and the grouped message list around an in-memory conversation.
package app

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/clipboard"
	"github.com/zhubert/chatkit/internal/config"
	"github.com/zhubert/chatkit/internal/demo"
	"github.com/zhubert/chatkit/internal/draft"
	"github.com/zhubert/chatkit/internal/input"
	"github.com/zhubert/chatkit/internal/logger"
	"github.com/zhubert/chatkit/internal/media"
	"github.com/zhubert/chatkit/internal/playback"
	"github.com/zhubert/chatkit/internal/recorder"
	"github.com/zhubert/chatkit/internal/sections"
	"github.com/zhubert/chatkit/internal/ui"
)

const (
	playbackTickInterval = 100 * time.Millisecond
	clockTickInterval    = 30 * time.Second
	deliveryTimeout      = 30 * time.Second
)

// Player is the playback device. Progress feeds the input bar while a
// recording plays.
type Player interface {
	input.Player
	Progress() (time.Duration, time.Duration)
}

// Deps are the collaborators the model drives. Tests swap in fast or
// failing ones.
type Deps struct {
	Recorder     input.Recorder
	Player       Player
	Resolver     media.Resolver
	Conversation *demo.Conversation
	ReadImage    func() (*clipboard.ImageData, error)
	Notify       func(text string) error
	Now          func() time.Time
}

// DefaultDeps wires a simulated microphone, an in-memory decoder, the file
// resolver under the media cache dir and a seeded demo conversation.
func DefaultDeps(cfg *config.Config, notify func(string) error) (Deps, error) {
	resolver, err := media.NewFileResolver(cfg.Media.CacheDir, cfg.ThumbnailSize())
	if err != nil {
		return Deps{}, err
	}
	device := recorder.NewSimulatedDevice(false, true)
	device.SetStartDelay(150 * time.Millisecond)

	return Deps{
		Recorder:     recorder.New(device, cfg.SampleInterval()),
		Player:       playback.New(playback.DurationDecoder{Latency: 150 * time.Millisecond}),
		Resolver:     resolver,
		Conversation: demo.New(demo.DefaultOptions(selfUser(cfg))),
		ReadImage:    clipboard.ReadImage,
		Notify:       notify,
		Now:          time.Now,
	}, nil
}

func selfUser(cfg *config.Config) chat.User {
	return chat.User{ID: cfg.User.ID, Name: cfg.User.Name, IsSelf: true}
}

// Model is the main Bubble Tea model
type Model struct {
	cfg     *config.Config
	version string
	deps    Deps
	self    chat.User
	log     *slog.Logger

	header   *ui.Header
	footer   *ui.Footer
	list     *ui.MessageList
	inputBar *ui.InputBar
	pipeline *sections.Pipeline
	machine  *input.Machine

	messages    []chat.Message
	width       int
	height      int
	loadPending bool // pipeline asked for history during the current update
	historyDone bool
	replies     int // peer replies outstanding
	playTicking bool

	// Work queued by machine callbacks, which cannot return commands.
	queued []tea.Cmd
}

// Messages owned by the app.

// historyLoadedMsg carries the first page or an older page of history.
type historyLoadedMsg struct {
	messages []chat.Message
	initial  bool
	err      error
}

// deliveredMsg reports the outcome of handing a message to the backend.
type deliveredMsg struct {
	message chat.Message
	err     error
}

// replyReceivedMsg carries a peer's answer.
type replyReceivedMsg struct {
	message chat.Message
	err     error
}

// imagePastedMsg carries the clipboard image read for ctrl+v.
type imagePastedMsg struct {
	image *clipboard.ImageData
	err   error
}

// notifiedMsg reports a desktop notification result.
type notifiedMsg struct {
	err error
}

type playbackTickMsg time.Time

type clockTickMsg time.Time

// New creates a new app model
func New(cfg *config.Config, version string, deps Deps) *Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ui.SetThemeByName(cfg.Theme())

	m := &Model{
		cfg:      cfg,
		version:  version,
		deps:     deps,
		self:     selfUser(cfg),
		log:      logger.ComponentLogger("App"),
		header:   ui.NewHeader(),
		footer:   ui.NewFooter(),
		inputBar: ui.NewInputBar(),
	}

	m.pipeline = sections.NewPipeline(cfg.PaginationOffset(), m.onLoadMore, time.Local)
	m.list = ui.NewMessageList(m.pipeline)
	m.list.SetNow(deps.Now)
	m.list.SetLoading(true)

	m.machine = input.New(input.Options{
		Recorder:              deps.Recorder,
		Player:                deps.Player,
		Resolver:              deps.Resolver,
		MaxTextLength:         cfg.MaxTextLength(),
		MaxConcurrentResolves: cfg.MaxConcurrentResolves(),
		MaxHoldDuration:       cfg.MaxHoldDuration(),
		MaxRecordingDuration:  cfg.MaxRecordingDuration(),
		TypingBuffer:          cfg.TypingBuffer(),
		OnSend:                m.onSend,
		OnError:               m.onError,
		OnTyping:              m.onTyping,
		Now:                   deps.Now,
	})

	m.header.SetConversation(cfg.UI.Conversation)
	m.inputBar.SetFocused(true)
	m.syncInput()
	return m
}

// Init starts the machine listeners and loads the newest page of history.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.machine.Init(),
		m.loadInitial(),
		m.clockTick(),
		m.syncInput(),
	)
}

// Close releases the recorder, the player and the typing observer.
func (m *Model) Close() {
	m.machine.Close()
}

// Messages returns the conversation as shown
func (m *Model) Messages() []chat.Message {
	return m.messages
}

// State returns the input state
func (m *Model) State() input.State {
	return m.machine.State()
}

// Draft returns the current draft
func (m *Model) Draft() draft.Attachments {
	return m.machine.Draft()
}

func (m *Model) loadInitial() tea.Cmd {
	conv, n := m.deps.Conversation, m.cfg.PageSize()
	return func() tea.Msg {
		return historyLoadedMsg{messages: conv.Recent(n), initial: true}
	}
}

func (m *Model) loadOlder() tea.Cmd {
	conv, n := m.deps.Conversation, m.cfg.PageSize()
	return func() tea.Msg {
		msgs, err := conv.LoadOlder(context.Background(), n)
		return historyLoadedMsg{messages: msgs, err: err}
	}
}

func (m *Model) clockTick() tea.Cmd {
	return tea.Tick(clockTickInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m *Model) playbackTick() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(t time.Time) tea.Msg {
		return playbackTickMsg(t)
	})
}
