// Package sections groups a flat message list into calendar-day sections and
// tags each row with its position in a run of messages from the same user.
package sections

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zhubert/chatkit/internal/chat"
)

// Position is a row's place within consecutive messages of one user.
type Position int

const (
	PositionSingle Position = iota
	PositionFirst
	PositionMiddle
	PositionLast
)

func (p Position) String() string {
	switch p {
	case PositionFirst:
		return "first"
	case PositionMiddle:
		return "middle"
	case PositionLast:
		return "last"
	default:
		return "single"
	}
}

// Row is one message in a section.
type Row struct {
	Message  chat.Message
	Position Position
}

// ID is the row identity for list diffing.
func (r Row) ID() string {
	return r.Message.ID
}

// Section is one calendar day of messages. Rows are newest first.
type Section struct {
	Date time.Time // Midnight of the day in the grouping location
	Rows []Row
}

// ID is the section identity for list diffing.
func (s Section) ID() string {
	return s.Date.Format(time.DateOnly)
}

// Group builds sections newest day first, each with rows newest first.
// Messages with equal timestamps are ordered by id, so the result does not
// depend on input order.
func Group(messages []chat.Message, loc *time.Location) []Section {
	if len(messages) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := slices.Clone(messages)
	slices.SortFunc(sorted, func(a, b chat.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	var out []Section
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sameDay(sorted[i].CreatedAt, sorted[start].CreatedAt, loc) {
			continue
		}
		out = append(out, Section{
			Date: Day(sorted[start].CreatedAt, loc),
			Rows: rows(sorted[start:i]),
		})
		start = i
	}

	slices.Reverse(out)
	return out
}

// rows tags a chronological day of messages and returns them newest first.
func rows(day []chat.Message) []Row {
	out := make([]Row, len(day))
	for i, msg := range day {
		prev := i > 0 && day[i-1].User.ID == msg.User.ID
		next := i < len(day)-1 && day[i+1].User.ID == msg.User.ID
		out[i] = Row{Message: msg, Position: position(prev, next)}
	}
	slices.Reverse(out)
	return out
}

func position(prevSame, nextSame bool) Position {
	switch {
	case prevSame && nextSame:
		return PositionMiddle
	case !prevSame && !nextSame:
		return PositionSingle
	case nextSame:
		return PositionFirst
	default:
		return PositionLast
	}
}

// Day returns midnight of t's calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

// Title is the header shown above a section.
func Title(day, now time.Time) string {
	today := Day(now, day.Location())
	switch days := int(math.Round(today.Sub(day).Hours() / 24)); {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return day.Weekday().String()
	case day.Year() == now.Year():
		return day.Format("Jan 2")
	default:
		return day.Format("Jan 2, 2006")
	}
}

// RelativeAge describes how long ago t was, e.g. "3 minutes ago".
func RelativeAge(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
