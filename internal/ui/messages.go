package ui

import (
	"log/slog"
	"path"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/logger"
	"github.com/zhubert/chatkit/internal/sections"
)

// rowSpan is the vertical extent of a rendered row. index is the row's
// position in Pipeline.Rows.
type rowSpan struct {
	index int
	id    string
	start int
	end   int // exclusive
}

// MessageList renders the grouped conversation in a scrollable viewport,
// oldest at the top. Every scroll reports the topmost visible row to the
// pipeline so history can be paged in.
type MessageList struct {
	viewport viewport.Model
	pipeline *sections.Pipeline
	width    int
	height   int
	focused  bool
	loading  bool
	now      func() time.Time
	spans    []rowSpan
	rendered bool
	sel      selection
	log      *slog.Logger
}

// NewMessageList creates a message list backed by p
func NewMessageList(p *sections.Pipeline) *MessageList {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = ScrollWheelDelta

	return &MessageList{
		viewport: vp,
		pipeline: p,
		now:      time.Now,
		sel:      newSelection(),
		log:      logger.ComponentLogger("MessageList"),
	}
}

// SetNow overrides the clock used for relative timestamps and day titles
func (l *MessageList) SetNow(now func() time.Time) {
	l.now = now
}

// SetSize sets the panel dimensions, borders included
func (l *MessageList) SetSize(width, height int) {
	l.width = width
	l.height = height

	ctx := GetViewContext()
	l.viewport.SetWidth(ctx.InnerWidth(width))
	l.viewport.SetHeight(max(1, ctx.InnerHeight(height)))
	l.refresh()
}

// SetFocused sets the focus state
func (l *MessageList) SetFocused(focused bool) {
	l.focused = focused
}

// SetLoading toggles the "loading older" banner at the top of the list
func (l *MessageList) SetLoading(loading bool) {
	if l.loading == loading {
		return
	}
	l.loading = loading
	l.refresh()
}

// IsLoading reports whether the loading banner is shown
func (l *MessageList) IsLoading() bool {
	return l.loading
}

// SetMessages regroups the conversation. The list stays pinned to the
// bottom if it was there; otherwise the topmost visible row keeps its
// place on screen, so prepending history does not move the view.
func (l *MessageList) SetMessages(messages []chat.Message) {
	l.pipeline.SetMessages(messages)
	l.refresh()
}

// Refresh re-renders the list, e.g. after a theme change or to advance
// relative timestamps
func (l *MessageList) Refresh() {
	l.refresh()
}

func (l *MessageList) refresh() {
	pinned := !l.rendered || l.viewport.AtBottom()
	anchor, ok := l.topSpan()
	delta := 0
	if ok {
		delta = max(0, l.viewport.YOffset()-anchor.start)
	}

	content, spans := l.render()
	l.spans = spans
	l.rendered = true
	l.viewport.SetContent(content)

	if pinned {
		l.viewport.GotoBottom()
		return
	}
	if ok {
		for _, s := range spans {
			if s.id == anchor.id {
				l.viewport.SetYOffset(s.start + delta)
				return
			}
		}
	}
}

// topSpan returns the topmost row that is at least partly visible
func (l *MessageList) topSpan() (rowSpan, bool) {
	top := l.viewport.YOffset()
	for _, s := range l.spans {
		if s.end > top {
			return s, true
		}
	}
	return rowSpan{}, false
}

// TopRow returns the Pipeline.Rows index of the topmost visible row, or -1
// when the list is empty
func (l *MessageList) TopRow() int {
	s, ok := l.topSpan()
	if !ok {
		return -1
	}
	return s.index
}

// ReportScroll feeds the current position to the pipeline and returns
// whether older messages were requested
func (l *MessageList) ReportScroll() bool {
	idx := l.TopRow()
	if idx < 0 {
		return false
	}
	l.log.Debug("scrolled", "yOffset", l.viewport.YOffset(), "topRow", idx, "rows", len(l.pipeline.Rows()))
	return l.pipeline.Scrolled(idx)
}

// NewestIncoming returns the most recent message not written by the local
// user
func (l *MessageList) NewestIncoming() (chat.Message, bool) {
	for _, r := range l.pipeline.Rows() {
		if !r.Message.User.IsSelf {
			return r.Message, true
		}
	}
	return chat.Message{}, false
}

// Update handles scroll keys, mouse wheel events and text selection.
// Mouse coordinates must be relative to the list panel.
func (l *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		return l, l.handleMouse(msg)
	case SelectionFlashTickMsg:
		l.ClearSelection()
		return l, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "pgup", "pgdown", "home", "end":
		default:
			return l, nil
		}
		switch msg.String() {
		case "home":
			l.viewport.GotoTop()
		case "end":
			l.viewport.GotoBottom()
		}
	case tea.MouseWheelMsg:
	default:
		return l, nil
	}

	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	l.ReportScroll()
	return l, cmd
}

// View renders the list panel
func (l *MessageList) View() string {
	style := PanelStyle
	if l.focused {
		style = PanelFocusedStyle
	}
	return style.Width(l.width).Height(l.height).Render(l.highlight(l.viewport.View()))
}

func (l *MessageList) wrapWidth() int {
	w := l.viewport.Width()
	if w <= 0 {
		return DefaultWrapWidth
	}
	return w
}

// render lays out sections oldest first and records where each row lands
func (l *MessageList) render() (string, []rowSpan) {
	width := l.wrapWidth()
	now := l.now()
	secs := l.pipeline.Sections()

	var lines []string
	var spans []rowSpan

	if l.loading {
		lines = append(lines, LoadingStyle.Width(width).Align(lipgloss.Center).Render("Loading older messages…"))
	}

	if len(secs) == 0 {
		if !l.loading {
			lines = append(lines, InputHintStyle.Render("No messages yet. Say hello."))
		}
		return strings.Join(lines, "\n"), nil
	}

	base := make([]int, len(secs))
	for i := 1; i < len(secs); i++ {
		base[i] = base[i-1] + len(secs[i-1].Rows)
	}

	for si := len(secs) - 1; si >= 0; si-- {
		sec := secs[si]
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, DayHeaderStyle.Width(width).Render("── "+sections.Title(sec.Date, now.In(sec.Date.Location()))+" ──"))

		for ri := len(sec.Rows) - 1; ri >= 0; ri-- {
			row := sec.Rows[ri]
			block := renderRow(row, width, now)
			rowLines := strings.Split(block, "\n")
			spans = append(spans, rowSpan{
				index: base[si] + ri,
				id:    row.ID(),
				start: len(lines),
				end:   len(lines) + len(rowLines),
			})
			lines = append(lines, rowLines...)
		}
	}

	return strings.Join(lines, "\n"), spans
}

// renderRow renders one message. Author names open a run of consecutive
// messages and timestamps close it.
func renderRow(row sections.Row, width int, now time.Time) string {
	msg := row.Message
	bubble := max(10, width*(BubbleWidthRatio-1)/BubbleWidthRatio)

	var parts []string
	if row.Position == sections.PositionFirst || row.Position == sections.PositionSingle {
		if msg.User.IsSelf {
			parts = append(parts, SelfNameStyle.Render("You"))
		} else {
			parts = append(parts, OtherNameStyle.Render(msg.User.Name))
		}
	}

	if msg.ReplyTo != nil {
		parts = append(parts, renderReplyQuote(*msg.ReplyTo, bubble))
	}

	if text := strings.TrimSpace(msg.Text); text != "" {
		parts = append(parts, MessageTextStyle.Render(renderMarkdown(text, bubble)))
	}

	for _, a := range msg.Attachments {
		parts = append(parts, renderAttachment(a))
	}

	if msg.Recording != nil && msg.Recording.Exists() {
		parts = append(parts, renderRecording(*msg.Recording, bubble))
	}

	if footer := renderStatus(row, now); footer != "" {
		parts = append(parts, footer)
	}

	block := strings.Join(parts, "\n")
	if msg.User.IsSelf {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

func renderReplyQuote(r chat.ReplyMessage, width int) string {
	name := r.User.Name
	if r.User.IsSelf {
		name = "You"
	}
	text := strings.ReplaceAll(r.Text, "\n", " ")
	return ReplyQuoteStyle.Render(ansi.Truncate("↪ "+name+": "+text, width-2, "…"))
}

func renderAttachment(a chat.Attachment) string {
	icon := "▣"
	if a.Kind == chat.MediaVideo {
		icon = "▶"
	}
	label := a.Kind.String()
	if a.ThumbnailURL != "" {
		label += " " + path.Base(a.ThumbnailURL)
	}
	return AttachmentStyle.Render(icon + " " + label)
}

func renderRecording(r chat.Recording, width int) string {
	bars := min(WaveformMaxBars, max(1, width-10))
	return WaveformStyle.Render("♪ ") + Waveform(r.Samples, bars, -1) + " " + TimestampStyle.Render(FormatElapsed(r.Duration))
}

func renderStatus(row sections.Row, now time.Time) string {
	msg := row.Message
	switch msg.Status {
	case chat.StatusSending:
		return StatusSendingStyle.Render("sending…")
	case chat.StatusError:
		return StatusErrorStyle.Render("✕ not delivered")
	}
	if row.Position != sections.PositionLast && row.Position != sections.PositionSingle {
		return ""
	}
	stamp := sections.RelativeAge(msg.CreatedAt, now)
	if msg.Status == chat.StatusRead {
		stamp += " · read"
	}
	return TimestampStyle.Render(stamp)
}
