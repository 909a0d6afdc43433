package sections

import (
	"math/rand"
	"testing"
	"time"

	"github.com/zhubert/chatkit/internal/chat"
)

var (
	userX = chat.User{ID: "x", Name: "Xena"}
	userY = chat.User{ID: "y", Name: "Yuri"}
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func msg(id string, u chat.User, t time.Time) chat.Message {
	return chat.Message{ID: id, User: u, Text: id, CreatedAt: t}
}

// chronological returns the rows of s oldest first.
func chronological(s Section) []Row {
	out := make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		out[len(s.Rows)-1-i] = r
	}
	return out
}

func TestGroup_Positions(t *testing.T) {
	messages := []chat.Message{
		msg("A", userX, at(1, 9, 0)),
		msg("B", userX, at(1, 9, 5)),
		msg("C", userY, at(1, 9, 10)),
	}

	got := Group(messages, time.UTC)
	if len(got) != 1 {
		t.Fatalf("got %d sections, want 1", len(got))
	}
	want := []Position{PositionFirst, PositionLast, PositionSingle}
	for i, r := range chronological(got[0]) {
		if r.Position != want[i] {
			t.Errorf("row %s position = %v, want %v", r.ID(), r.Position, want[i])
		}
	}
	if got[0].Rows[0].ID() != "C" {
		t.Errorf("rows should be newest first, got %s first", got[0].Rows[0].ID())
	}
}

func TestGroup_MiddleRun(t *testing.T) {
	messages := []chat.Message{
		msg("1", userY, at(1, 8, 0)),
		msg("2", userX, at(1, 8, 1)),
		msg("3", userX, at(1, 8, 2)),
		msg("4", userX, at(1, 8, 3)),
		msg("5", userY, at(1, 8, 4)),
	}

	rows := chronological(Group(messages, time.UTC)[0])
	want := []Position{PositionSingle, PositionFirst, PositionMiddle, PositionLast, PositionSingle}
	for i, r := range rows {
		if r.Position != want[i] {
			t.Errorf("row %s = %v, want %v", r.ID(), r.Position, want[i])
		}
	}
}

func TestGroup_DaysDescending(t *testing.T) {
	messages := []chat.Message{
		msg("d1", userX, at(1, 23, 59)),
		msg("d2a", userX, at(2, 0, 1)),
		msg("d2b", userX, at(2, 10, 0)),
		msg("d4", userY, at(4, 12, 0)),
	}

	got := Group(messages, time.UTC)
	wantIDs := []string{"2026-03-04", "2026-03-02", "2026-03-01"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d sections, want %d", len(got), len(wantIDs))
	}
	for i, s := range got {
		if s.ID() != wantIDs[i] {
			t.Errorf("section %d = %s, want %s", i, s.ID(), wantIDs[i])
		}
	}

	// Runs do not continue across days
	if p := got[1].Rows[1].Position; p != PositionFirst {
		t.Errorf("d2a position = %v, want first", p)
	}
	if p := got[2].Rows[0].Position; p != PositionSingle {
		t.Errorf("d1 position = %v, want single", p)
	}
}

func TestGroup_DayBoundaryFollowsLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	messages := []chat.Message{
		msg("late", userX, time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)),
		msg("early", userX, time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)),
	}

	if n := len(Group(messages, time.UTC)); n != 1 {
		t.Errorf("UTC: %d sections, want 1", n)
	}
	if n := len(Group(messages, tokyo)); n != 2 {
		t.Errorf("JST: %d sections, want 2", n)
	}
}

func TestGroup_StableUnderShuffle(t *testing.T) {
	var messages []chat.Message
	users := []chat.User{userX, userX, userY, userX, userY, userY}
	for i, u := range users {
		// Pairs share a timestamp so ordering depends on the id tiebreak
		ts := at(1+i/4, 10, i/2)
		messages = append(messages, msg(string(rune('a'+i)), u, ts))
	}
	want := Group(messages, time.UTC)

	r := rand.New(rand.NewSource(7))
	for n := 0; n < 20; n++ {
		shuffled := append([]chat.Message(nil), messages...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Group(shuffled, time.UTC)
		if len(got) != len(want) {
			t.Fatalf("shuffle %d: %d sections, want %d", n, len(got), len(want))
		}
		for s := range got {
			for i := range got[s].Rows {
				g, w := got[s].Rows[i], want[s].Rows[i]
				if g.ID() != w.ID() || g.Position != w.Position {
					t.Fatalf("shuffle %d: section %d row %d = %s/%v, want %s/%v", n, s, i, g.ID(), g.Position, w.ID(), w.Position)
				}
			}
		}
	}
}

func TestGroup_Empty(t *testing.T) {
	if got := Group(nil, time.UTC); got != nil {
		t.Errorf("Group(nil) = %v, want nil", got)
	}
}

func TestTitle(t *testing.T) {
	now := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC) // Thursday

	tests := []struct {
		day  time.Time
		want string
	}{
		{Day(now, time.UTC), "Today"},
		{Day(now.AddDate(0, 0, -1), time.UTC), "Yesterday"},
		{Day(now.AddDate(0, 0, -3), time.UTC), "Monday"},
		{Day(now.AddDate(0, 0, -8), time.UTC), "Mar 4"},
		{Day(now.AddDate(-1, 0, 0), time.UTC), "Mar 12, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Title(tt.day, now); got != tt.want {
				t.Errorf("Title(%v) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestRelativeAge(t *testing.T) {
	now := at(5, 12, 0)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-3 * time.Minute), "3 minutes ago"},
		{now.Add(-2 * time.Hour), "2 hours ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := RelativeAge(tt.t, now); got != tt.want {
				t.Errorf("RelativeAge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaginator_EdgeTriggered(t *testing.T) {
	var events []LoadMoreDirection
	p := &Paginator{Offset: 3, OnEvent: func(d LoadMoreDirection) { events = append(events, d) }}

	steps := []struct {
		distance int
		finish   bool
		want     int
	}{
		{10, false, 0},
		{5, false, 0},
		{3, false, 1}, // first crossing
		{2, false, 1}, // still inside
		{0, false, 1},
		{8, false, 1}, // left while loading
		{1, false, 1}, // re-entered while loading
		{1, true, 1},  // load done, but no new crossing
		{7, false, 1},
		{2, false, 2}, // crossed again
	}

	for i, s := range steps {
		if s.finish {
			p.LoadFinished()
		}
		p.Scrolled(s.distance)
		if len(events) != s.want {
			t.Fatalf("step %d (distance %d): %d events, want %d", i, s.distance, len(events), s.want)
		}
	}
	if events[0] != LoadOlder {
		t.Errorf("direction = %v, want older", events[0])
	}
}

func TestPaginator_NoEventWhileLoading(t *testing.T) {
	calls := 0
	p := &Paginator{Offset: 2, IsLoading: true, OnEvent: func(LoadMoreDirection) { calls++ }}

	if p.Scrolled(0) {
		t.Error("should not fire while loading")
	}
	if calls != 0 {
		t.Errorf("OnEvent called %d times", calls)
	}
}

func TestPipeline(t *testing.T) {
	var events int
	p := NewPipeline(1, func(LoadMoreDirection) { events++ }, time.UTC)

	p.SetMessages([]chat.Message{
		msg("old", userX, at(1, 9, 0)),
		msg("mid", userY, at(2, 9, 0)),
		msg("new", userY, at(2, 9, 1)),
		msg("newest", userX, at(3, 9, 0)),
	})

	rows := p.Rows()
	ids := []string{"newest", "new", "mid", "old"}
	for i, r := range rows {
		if r.ID() != ids[i] {
			t.Fatalf("Rows()[%d] = %s, want %s", i, r.ID(), ids[i])
		}
	}
	if len(p.Sections()) != 3 {
		t.Errorf("Sections() = %d, want 3", len(p.Sections()))
	}

	if p.Scrolled(1) {
		t.Error("index 1 is 2 rows from the oldest, beyond offset 1")
	}
	if !p.Scrolled(2) || events != 1 {
		t.Fatalf("index 2 should request older messages, events = %d", events)
	}
	if !p.Paginator().IsLoading {
		t.Error("paginator should be loading")
	}

	p.SetMessages(append(p.Messages(), msg("older", userX, at(1, 8, 0))))
	p.LoadFinished()
	if p.Scrolled(2) {
		t.Error("after the page arrived index 2 is outside the threshold")
	}
	if !p.Scrolled(4) || events != 2 {
		t.Errorf("scrolling to the new oldest row should fire again, events = %d", events)
	}
}
