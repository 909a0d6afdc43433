package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/ui"
)

// routeMouse sends wheel events to the message list from anywhere and
// click, motion and release events only when they land on it. The list
// expects panel-relative coordinates.
func (m *Model) routeMouse(msg tea.Msg) tea.Cmd {
	ctx := ui.GetViewContext()
	top := ctx.HeaderHeight
	bottom := top + ctx.ListHeight

	var adjusted tea.Msg
	switch mouseMsg := msg.(type) {
	case tea.MouseWheelMsg:
		adjusted = mouseMsg
	case tea.MouseClickMsg:
		if mouseMsg.Y < top || mouseMsg.Y >= bottom {
			return nil
		}
		adjusted = tea.MouseClickMsg{X: mouseMsg.X, Y: mouseMsg.Y - top, Button: mouseMsg.Button, Mod: mouseMsg.Mod}
	case tea.MouseMotionMsg:
		adjusted = tea.MouseMotionMsg{X: mouseMsg.X, Y: mouseMsg.Y - top, Button: mouseMsg.Button, Mod: mouseMsg.Mod}
	case tea.MouseReleaseMsg:
		adjusted = tea.MouseReleaseMsg{X: mouseMsg.X, Y: mouseMsg.Y - top, Button: mouseMsg.Button, Mod: mouseMsg.Mod}
	default:
		return nil
	}

	_, cmd := m.list.Update(adjusted)
	return tea.Batch(cmd, m.takeLoad())
}
