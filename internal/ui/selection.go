package ui

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/zhubert/chatkit/internal/clipboard"
)

// Mouse coordinates reaching the list are relative to the list panel; one
// is subtracted on each axis for the border, giving viewport cells. The
// selection is stored in viewport cells and highlighted on an ultraviolet
// screen buffer of the visible viewport.

const (
	multiClickThreshold = 500 * time.Millisecond
	clickTolerance      = 2
	selectionFlashTime  = 150 * time.Millisecond
)

// SelectionFlashTickMsg ends the highlight shown after a copy
type SelectionFlashTickMsg time.Time

// ClipboardErrorMsg is sent when writing to the system clipboard fails
type ClipboardErrorMsg struct {
	Err error
}

// selection is a mouse text selection in viewport cells
type selection struct {
	startCol, startLine int
	endCol, endLine     int
	dragging            bool
	flashing            bool

	lastClick  time.Time
	lastX      int
	lastY      int
	clickCount int
}

func newSelection() selection {
	return selection{startCol: -1, startLine: -1, endCol: -1, endLine: -1}
}

// HasSelection reports whether a non-empty selection exists
func (l *MessageList) HasSelection() bool {
	s := l.sel
	return s.startCol >= 0 && s.startLine >= 0 &&
		(s.endCol != s.startCol || s.endLine != s.startLine)
}

// ClearSelection drops the selection
func (l *MessageList) ClearSelection() {
	l.sel = newSelection()
}

// area returns the selection with start before end in reading order
func (s selection) area() (startCol, startLine, endCol, endLine int) {
	startCol, startLine, endCol, endLine = s.startCol, s.startLine, s.endCol, s.endLine
	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startCol, endCol = endCol, startCol
		startLine, endLine = endLine, startLine
	}
	return
}

// handleMouse updates the selection from a panel-relative mouse event
func (l *MessageList) handleMouse(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return nil
		}
		return l.click(msg.X-1, msg.Y-1, time.Now())
	case tea.MouseMotionMsg:
		if l.sel.dragging {
			l.sel.endCol, l.sel.endLine = msg.X-1, msg.Y-1
		}
	case tea.MouseReleaseMsg:
		if !l.sel.dragging {
			return nil
		}
		l.sel.dragging = false
		l.sel.endCol, l.sel.endLine = msg.X-1, msg.Y-1
		return l.CopySelection()
	}
	return nil
}

// click starts a drag, or selects a word on double click and the whole
// message on triple click
func (l *MessageList) click(x, y int, now time.Time) tea.Cmd {
	s := &l.sel
	if now.Sub(s.lastClick) <= multiClickThreshold &&
		abs(x-s.lastX) <= clickTolerance && abs(y-s.lastY) <= clickTolerance {
		s.clickCount++
	} else {
		s.clickCount = 1
	}
	s.lastClick, s.lastX, s.lastY = now, x, y

	switch s.clickCount {
	case 2:
		l.selectWord(x, y)
		return l.CopySelection()
	case 3:
		s.clickCount = 0
		l.selectMessage(y)
		return l.CopySelection()
	default:
		s.startCol, s.startLine = x, y
		s.endCol, s.endLine = x, y
		s.dragging = true
		s.flashing = false
		return nil
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (l *MessageList) visibleLines() []string {
	return strings.Split(l.viewport.View(), "\n")
}

// selectWord selects the word under the given cell
func (l *MessageList) selectWord(col, line int) {
	lines := l.visibleLines()
	if line < 0 || line >= len(lines) {
		return
	}
	text := ansi.Strip(lines[line])
	if col < 0 || col >= len(text) {
		return
	}

	start, end, pos := 0, len(text), 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if pos <= col && col < pos+len(word) {
			start, end = pos, pos+len(word)
			break
		}
		pos += len(word)
	}

	l.sel.startCol, l.sel.startLine = start, line
	l.sel.endCol, l.sel.endLine = end, line
	l.sel.dragging = false
}

// selectMessage selects every visible line of the message under line
func (l *MessageList) selectMessage(line int) {
	row := l.viewport.YOffset() + line
	lines := l.visibleLines()
	for _, s := range l.spans {
		if row < s.start || row >= s.end {
			continue
		}
		first := max(0, s.start-l.viewport.YOffset())
		last := min(len(lines)-1, s.end-1-l.viewport.YOffset())
		l.sel.startCol, l.sel.startLine = 0, first
		l.sel.endCol, l.sel.endLine = len(ansi.Strip(lines[last])), last
		l.sel.dragging = false
		return
	}
}

// SelectedText returns the selected text without styling
func (l *MessageList) SelectedText() string {
	if !l.HasSelection() {
		return ""
	}
	lines := l.visibleLines()
	startCol, startLine, endCol, endLine := l.sel.area()

	var b strings.Builder
	for y := startLine; y <= endLine && y < len(lines); y++ {
		if y < 0 {
			continue
		}
		text := ansi.Strip(lines[y])
		from, to := 0, len(text)
		if y == startLine {
			from = startCol
		}
		if y == endLine {
			to = endCol
		}
		to = min(to, len(text))
		from = max(0, min(from, to))
		b.WriteString(text[from:to])
		if y < endLine {
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// CopySelection copies the selection to the terminal clipboard (OSC 52)
// and the system clipboard, and flashes the highlight
func (l *MessageList) CopySelection() tea.Cmd {
	text := l.SelectedText()
	if text == "" {
		return nil
	}
	l.sel.flashing = true
	l.log.Debug("copying selection", "bytes", len(text))

	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg {
			if err := clipboard.WriteText(text); err != nil {
				return ClipboardErrorMsg{Err: err}
			}
			return nil
		},
		tea.Tick(selectionFlashTime, func(t time.Time) tea.Msg {
			return SelectionFlashTickMsg(t)
		}),
	)
}

// highlight paints the selection over the rendered viewport
func (l *MessageList) highlight(view string) string {
	if !l.HasSelection() {
		return view
	}
	width, height := l.viewport.Width(), l.viewport.Height()
	if width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	var bg, fg color.Color = ColorPrimary, ColorTextInverse
	if l.sel.flashing {
		bg = ColorSuccess
	}

	startCol, startLine, endCol, endLine := l.sel.area()
	for y := max(0, startLine); y <= endLine && y < height; y++ {
		from, to := 0, width
		if y == startLine {
			from = startCol
		}
		if y == endLine {
			to = endCol
		}
		for x := max(0, from); x < to && x < width; x++ {
			cell := scr.CellAt(x, y)
			if cell == nil {
				continue
			}
			cell = cell.Clone()
			cell.Style.Bg = bg
			cell.Style.Fg = fg
			scr.SetCell(x, y, cell)
		}
	}
	return scr.Render()
}
