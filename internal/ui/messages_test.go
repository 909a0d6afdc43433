package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/sections"
)

var (
	me    = chat.User{ID: "me", Name: "Me", IsSelf: true}
	alice = chat.User{ID: "alice", Name: "Alice"}
)

var listNow = time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)

func conversation(n int, start time.Time) []chat.Message {
	out := make([]chat.Message, n)
	for i := range out {
		u := alice
		if i%3 == 0 {
			u = me
		}
		out[i] = chat.Message{
			ID:        fmt.Sprintf("m%02d", i),
			User:      u,
			Text:      fmt.Sprintf("message %d", i),
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func newTestList(t *testing.T, offset int) (*MessageList, *[]sections.LoadMoreDirection) {
	t.Helper()
	var events []sections.LoadMoreDirection
	p := sections.NewPipeline(offset, func(d sections.LoadMoreDirection) {
		events = append(events, d)
	}, time.UTC)
	l := NewMessageList(p)
	l.SetNow(func() time.Time { return listNow })
	l.SetSize(60, 12)
	return l, &events
}

func TestMessageList_Empty(t *testing.T) {
	l, _ := newTestList(t, 2)

	view := stripANSI(l.View())
	if !strings.Contains(view, "No messages yet") {
		t.Errorf("expected empty placeholder, got %q", view)
	}
	if l.TopRow() != -1 {
		t.Errorf("TopRow() = %d, want -1", l.TopRow())
	}
	if l.ReportScroll() {
		t.Error("empty list should not request history")
	}
}

func TestMessageList_RendersSections(t *testing.T) {
	l, _ := newTestList(t, 2)
	msgs := []chat.Message{
		{ID: "a", User: alice, Text: "yesterday's note", CreatedAt: listNow.Add(-24 * time.Hour)},
		{ID: "b", User: me, Text: "morning", CreatedAt: listNow.Add(-time.Hour)},
	}

	l.SetMessages(msgs)
	content, spans := l.render()
	plain := stripANSI(content)

	for _, want := range []string{"Yesterday", "Today", "Alice", "You", "yesterday's note", "morning", "1 hour ago"} {
		if !strings.Contains(plain, want) {
			t.Errorf("expected %q in rendered list:\n%s", want, plain)
		}
	}
	if strings.Index(plain, "Yesterday") > strings.Index(plain, "Today") {
		t.Error("older day should render above newer day")
	}
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].id != "a" || spans[0].index != 1 {
		t.Errorf("first span = %+v, want oldest row a at index 1", spans[0])
	}
}

func TestMessageList_GroupedRun(t *testing.T) {
	l, _ := newTestList(t, 2)
	base := listNow.Add(-time.Hour)
	msgs := []chat.Message{
		{ID: "1", User: alice, Text: "one", CreatedAt: base},
		{ID: "2", User: alice, Text: "two", CreatedAt: base.Add(time.Minute)},
		{ID: "3", User: alice, Text: "three", CreatedAt: base.Add(2 * time.Minute)},
	}

	l.SetMessages(msgs)
	content, _ := l.render()
	plain := stripANSI(content)

	if n := strings.Count(plain, "Alice"); n != 1 {
		t.Errorf("author should appear once per run, got %d", n)
	}
	if n := strings.Count(plain, "ago"); n != 1 {
		t.Errorf("timestamp should close the run once, got %d", n)
	}
}

func TestMessageList_Status(t *testing.T) {
	tests := []struct {
		status chat.MessageStatus
		want   string
	}{
		{chat.StatusSending, "sending…"},
		{chat.StatusError, "not delivered"},
		{chat.StatusRead, "read"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			l, _ := newTestList(t, 2)
			l.SetMessages([]chat.Message{{
				ID: "x", User: me, Text: "hi", CreatedAt: listNow.Add(-5 * time.Minute), Status: tt.status,
			}})
			content, _ := l.render()
			if !strings.Contains(stripANSI(content), tt.want) {
				t.Errorf("expected %q in %q", tt.want, stripANSI(content))
			}
		})
	}
}

func TestMessageList_AttachmentsAndRecording(t *testing.T) {
	l, _ := newTestList(t, 2)
	l.SetMessages([]chat.Message{{
		ID:   "x",
		User: alice,
		Attachments: []chat.Attachment{
			{ID: "p", Kind: chat.MediaImage, ThumbnailURL: "file:///cache/p-thumb.png"},
			{ID: "v", Kind: chat.MediaVideo, ThumbnailURL: "file:///cache/v-thumb.png", FullURL: "file:///cache/v.mp4"},
		},
		Recording: &chat.Recording{Status: chat.RecordingFinished, Duration: 65 * time.Second, Samples: []float64{0.2, 0.9}},
		ReplyTo:   &chat.ReplyMessage{ID: "y", User: me, Text: "are you there?"},
		CreatedAt: listNow.Add(-time.Hour),
	}})

	content, _ := l.render()
	plain := stripANSI(content)
	for _, want := range []string{"image p-thumb.png", "video v-thumb.png", "1:05", "↪ You: are you there?"} {
		if !strings.Contains(plain, want) {
			t.Errorf("expected %q in:\n%s", want, plain)
		}
	}
}

func TestMessageList_PinnedToBottom(t *testing.T) {
	l, _ := newTestList(t, 2)

	l.SetMessages(conversation(30, listNow.Add(-2*time.Hour)))
	if l.TopRow() <= 0 {
		t.Fatalf("expected a scrolled list, TopRow() = %d", l.TopRow())
	}
	if !l.viewport.AtBottom() {
		t.Error("new list should start at the bottom")
	}

	l.SetMessages(conversation(31, listNow.Add(-2*time.Hour)))
	if !l.viewport.AtBottom() {
		t.Error("list at the bottom should follow new messages")
	}
}

func TestMessageList_ScrollToTopRequestsHistory(t *testing.T) {
	l, events := newTestList(t, 2)
	l.SetMessages(conversation(30, listNow.Add(-2*time.Hour)))

	l.Update(tea.KeyPressMsg{Code: tea.KeyHome})

	rows := l.pipeline.Rows()
	if got := rows[l.TopRow()].ID(); got != "m00" {
		t.Errorf("top row = %s, want m00", got)
	}
	if len(*events) != 1 || (*events)[0] != sections.LoadOlder {
		t.Errorf("events = %v, want one LoadOlder", *events)
	}

	// Still loading: no second request.
	l.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if len(*events) != 1 {
		t.Errorf("events = %v, want no request while loading", *events)
	}
}

func TestMessageList_PrependKeepsAnchor(t *testing.T) {
	l, _ := newTestList(t, 2)
	start := listNow.Add(-2 * time.Hour)
	l.SetMessages(conversation(30, start))
	l.Update(tea.KeyPressMsg{Code: tea.KeyHome})

	older := make([]chat.Message, 10)
	for i := range older {
		older[i] = chat.Message{
			ID:        fmt.Sprintf("old%02d", i),
			User:      alice,
			Text:      "history",
			CreatedAt: start.Add(-time.Duration(10-i) * time.Minute),
		}
	}
	l.SetMessages(append(older, conversation(30, start)...))

	rows := l.pipeline.Rows()
	if got := rows[l.TopRow()].ID(); got != "m00" {
		t.Errorf("top row after prepend = %s, want m00", got)
	}
}

func TestMessageList_IgnoresTyping(t *testing.T) {
	l, events := newTestList(t, 2)
	l.SetMessages(conversation(30, listNow.Add(-2*time.Hour)))
	before := l.viewport.YOffset()

	l.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})

	if l.viewport.YOffset() != before {
		t.Error("plain keys should not scroll the list")
	}
	if len(*events) != 0 {
		t.Errorf("unexpected events %v", *events)
	}
}

func TestMessageList_NewestIncoming(t *testing.T) {
	l, _ := newTestList(t, 2)

	if _, ok := l.NewestIncoming(); ok {
		t.Error("empty list has no incoming message")
	}

	l.SetMessages(conversation(5, listNow.Add(-time.Hour)))
	msg, ok := l.NewestIncoming()
	if !ok {
		t.Fatal("expected an incoming message")
	}
	// m03 is ours, m04 is Alice's.
	if msg.ID != "m04" {
		t.Errorf("NewestIncoming() = %s, want m04", msg.ID)
	}
}

func TestMessageList_LoadingBanner(t *testing.T) {
	l, _ := newTestList(t, 2)
	l.SetMessages(conversation(3, listNow.Add(-time.Hour)))

	l.SetLoading(true)
	content, spans := l.render()
	if !strings.Contains(stripANSI(content), "Loading older messages") {
		t.Error("expected loading banner")
	}
	if spans[0].start == 0 {
		t.Error("banner should push rows down")
	}

	l.SetLoading(false)
	if l.IsLoading() {
		t.Error("IsLoading() should be false")
	}
}

func singleMessageList(t *testing.T) *MessageList {
	t.Helper()
	l, _ := newTestList(t, 2)
	l.SetMessages([]chat.Message{{
		ID: "x", User: alice, Text: "hello world", CreatedAt: listNow.Add(-time.Hour),
	}})
	// Lines: day header, author, text, timestamp.
	if got := stripANSI(l.visibleLines()[2]); !strings.HasPrefix(got, "hello world") {
		t.Fatalf("unexpected layout, line 2 = %q", got)
	}
	return l
}

func TestMessageList_DragSelection(t *testing.T) {
	l := singleMessageList(t)

	// Panel coordinates include the border.
	l.Update(tea.MouseClickMsg{X: 2, Y: 3, Button: tea.MouseLeft})
	l.Update(tea.MouseMotionMsg{X: 6, Y: 3, Button: tea.MouseLeft})
	_, cmd := l.Update(tea.MouseReleaseMsg{X: 8, Y: 3, Button: tea.MouseLeft})

	if got := l.SelectedText(); got != "ello w" {
		t.Errorf("SelectedText() = %q, want %q", got, "ello w")
	}
	if cmd == nil {
		t.Error("release should copy the selection")
	}
	if !strings.Contains(stripANSI(l.View()), "hello world") {
		t.Error("highlight should keep the text")
	}

	l.Update(SelectionFlashTickMsg(time.Now()))
	if l.HasSelection() {
		t.Error("selection should clear after the copy flash")
	}
}

func TestMessageList_DoubleClickSelectsWord(t *testing.T) {
	l := singleMessageList(t)
	t0 := time.Now()

	if cmd := l.click(7, 2, t0); cmd != nil {
		t.Error("single click should not copy")
	}
	cmd := l.click(7, 2, t0.Add(100*time.Millisecond))

	if got := l.SelectedText(); got != "world" {
		t.Errorf("SelectedText() = %q, want world", got)
	}
	if cmd == nil {
		t.Error("double click should copy")
	}
}

func TestMessageList_TripleClickSelectsMessage(t *testing.T) {
	l := singleMessageList(t)
	t0 := time.Now()

	l.click(1, 2, t0)
	l.click(1, 2, t0.Add(100*time.Millisecond))
	l.click(1, 2, t0.Add(200*time.Millisecond))

	got := l.SelectedText()
	for _, want := range []string{"Alice", "hello world", "1 hour ago"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in selection %q", want, got)
		}
	}
	if strings.Contains(got, "Today") {
		t.Errorf("day header should not be selected, got %q", got)
	}
}

func TestMessageList_SlowClicksDoNotCombine(t *testing.T) {
	l := singleMessageList(t)
	t0 := time.Now()

	l.click(7, 2, t0)
	l.click(7, 2, t0.Add(time.Second))

	if l.HasSelection() {
		t.Errorf("separate clicks should not select, got %q", l.SelectedText())
	}
}
