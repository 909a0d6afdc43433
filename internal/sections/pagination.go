package sections

import (
	"log/slog"
	"time"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/logger"
)

// LoadMoreDirection is the end of the list that needs more messages.
type LoadMoreDirection int

const (
	LoadOlder LoadMoreDirection = iota
	LoadNewer
)

func (d LoadMoreDirection) String() string {
	if d == LoadNewer {
		return "newer"
	}
	return "older"
}

// Paginator asks for older history when the list is scrolled near its
// oldest row. It fires once per entry into the threshold zone and never
// while a load is outstanding.
type Paginator struct {
	Offset    int
	IsLoading bool
	OnEvent   func(LoadMoreDirection)

	inside bool
}

// Scrolled reports the number of rows between the visible position and the
// oldest loaded row. It returns whether a load was requested.
func (p *Paginator) Scrolled(distance int) bool {
	inside := distance <= p.Offset
	entered := inside && !p.inside
	p.inside = inside

	if !entered || p.IsLoading {
		return false
	}
	p.IsLoading = true
	if p.OnEvent != nil {
		p.OnEvent(LoadOlder)
	}
	return true
}

// LoadFinished marks the outstanding load as done.
func (p *Paginator) LoadFinished() {
	p.IsLoading = false
}

// Pipeline keeps sections in sync with the message list and feeds scroll
// positions to its paginator.
type Pipeline struct {
	loc       *time.Location
	messages  []chat.Message
	sections  []Section
	rows      []Row
	paginator *Paginator
	log       *slog.Logger
}

// NewPipeline groups in loc (time.Local when nil) and requests history
// when scrolled within offset rows of the oldest message.
func NewPipeline(offset int, onEvent func(LoadMoreDirection), loc *time.Location) *Pipeline {
	if loc == nil {
		loc = time.Local
	}
	return &Pipeline{
		loc:       loc,
		paginator: &Paginator{Offset: offset, OnEvent: onEvent},
		log:       logger.ComponentLogger("Sections"),
	}
}

// SetMessages replaces the message list and regroups it.
func (p *Pipeline) SetMessages(messages []chat.Message) {
	p.messages = messages
	p.sections = Group(messages, p.loc)
	p.rows = nil
	for _, s := range p.sections {
		p.rows = append(p.rows, s.Rows...)
	}
	p.log.Debug("regrouped", "messages", len(messages), "sections", len(p.sections))
}

// Messages returns the current message list.
func (p *Pipeline) Messages() []chat.Message {
	return p.messages
}

// Sections returns the grouped sections, newest first.
func (p *Pipeline) Sections() []Section {
	return p.sections
}

// Rows returns every row, newest first.
func (p *Pipeline) Rows() []Row {
	return p.rows
}

// Location is the time zone used for day boundaries.
func (p *Pipeline) Location() *time.Location {
	return p.loc
}

// Paginator exposes the pagination state.
func (p *Pipeline) Paginator() *Paginator {
	return p.paginator
}

// Scrolled reports that the row at index (in Rows order) is the oldest
// visible row.
func (p *Pipeline) Scrolled(index int) bool {
	distance := len(p.rows) - 1 - index
	if distance < 0 {
		distance = 0
	}
	fired := p.paginator.Scrolled(distance)
	if fired {
		p.log.Info("requesting older messages", "rows", len(p.rows))
	}
	return fired
}

// LoadFinished marks the outstanding page as received.
func (p *Pipeline) LoadFinished() {
	p.paginator.LoadFinished()
}
