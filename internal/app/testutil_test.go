package app

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/clipboard"
	"github.com/zhubert/chatkit/internal/config"
	"github.com/zhubert/chatkit/internal/demo"
	"github.com/zhubert/chatkit/internal/keys"
	"github.com/zhubert/chatkit/internal/media"
	"github.com/zhubert/chatkit/internal/playback"
	"github.com/zhubert/chatkit/internal/recorder"
)

// settleTimeout bounds how long a test waits on a command. Listeners and
// tick commands block longer and are abandoned.
const settleTimeout = 50 * time.Millisecond

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

// testConfig creates a config for testing with a small page size.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Media.CacheDir = t.TempDir()
	pageSize := 5
	cfg.Pagination.PageSize = &pageSize
	on := true
	cfg.NotificationsEnabled = &on
	return cfg
}

// testHarness wraps a model with fast collaborators and records
// notifications.
type testHarness struct {
	m        *Model
	conv     *demo.Conversation
	notified []string
	image    *clipboard.ImageData
}

func newTestHarness(t *testing.T, history int) *testHarness {
	t.Helper()
	cfg := testConfig(t)

	opts := demo.DefaultOptions(selfUser(cfg))
	opts.History = history
	opts.Latency = 0
	opts.ReplyDelay = 0
	opts.Now = func() time.Time { return testNow }

	resolver, err := media.NewFileResolver(cfg.Media.CacheDir, 64)
	if err != nil {
		t.Fatal(err)
	}

	h := &testHarness{conv: demo.New(opts)}
	h.m = New(cfg, "0.0.0-test", Deps{
		Recorder:     recorder.New(recorder.NewSimulatedDevice(false, true), 10*time.Millisecond),
		Player:       playback.New(playback.DurationDecoder{}),
		Resolver:     resolver,
		Conversation: h.conv,
		ReadImage:    func() (*clipboard.ImageData, error) { return h.image, nil },
		Notify: func(text string) error {
			h.notified = append(h.notified, text)
			return nil
		},
		Now: func() time.Time { return testNow },
	})
	t.Cleanup(h.m.Close)

	setSize(h.m, 100, 30)
	h.pump(h.m.loadInitial())
	return h
}

// collect runs cmd and every command it batches, returning the messages
// produced within settleTimeout.
func collect(cmd tea.Cmd) []tea.Msg {
	var (
		mu  sync.Mutex
		out []tea.Msg
		wg  sync.WaitGroup
	)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := make(chan tea.Msg, 1)
			go func() { done <- c() }()
			select {
			case msg := <-done:
				if batch, ok := msg.(tea.BatchMsg); ok {
					for _, b := range batch {
						run(b)
					}
					return
				}
				if msg != nil {
					mu.Lock()
					out = append(out, msg)
					mu.Unlock()
				}
			case <-time.After(settleTimeout):
			}
		}()
	}
	run(cmd)
	wg.Wait()
	return out
}

// pump feeds the results of cmd back into the model until nothing quick is
// left to run.
func (h *testHarness) pump(cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 10; i++ {
		var next []tea.Cmd
		for _, msg := range collect(cmd) {
			_, c := h.m.Update(msg)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
}

// press sends a key and runs what it triggers.
func (h *testHarness) press(key string) {
	_, cmd := h.m.Update(keyPress(key))
	h.pump(cmd)
}

// typeText types a string one key at a time.
func (h *testHarness) typeText(text string) {
	for _, ch := range text {
		h.press(string(ch))
	}
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "a", "enter", "esc", "ctrl+r", "pgup"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.ShiftEnter:
		return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.CtrlC, keys.CtrlD, keys.CtrlE, keys.CtrlH, keys.CtrlL,
		keys.CtrlP, keys.CtrlR, keys.CtrlS, keys.CtrlV, keys.CtrlX:
		return tea.KeyPressMsg{Code: rune(key[len(key)-1]), Mod: tea.ModCtrl}
	default:
		// Regular character - for single characters, set both Code and Text
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// setSize sends a window size message to the model.
func setSize(m *Model, width, height int) *Model {
	result, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return result.(*Model)
}

func pngImage(t *testing.T, w, h int) *clipboard.ImageData {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &clipboard.ImageData{Data: buf.Bytes(), MediaType: "image/png", Width: w, Height: h}
}

// lastSelf returns the newest message written by the local user.
func (h *testHarness) lastSelf(t *testing.T) chat.Message {
	t.Helper()
	msgs := h.m.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].User.IsSelf {
			return msgs[i]
		}
	}
	t.Fatal("no message from the local user")
	return chat.Message{}
}
