package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/ui"
)

// notice is a footer message the compose screen raises.
type notice struct {
	text string
	kind ui.FlashType
}

var (
	noticeMicDenied      = notice{"Microphone access was not granted", ui.FlashWarning}
	noticeMediaFailed    = notice{"Could not attach media, message not sent", ui.FlashError}
	noticeDeviceDown     = notice{"Audio device unavailable", ui.FlashError}
	noticeHistoryFailed  = notice{"Could not load older messages", ui.FlashError}
	noticeNotDelivered   = notice{"Message not delivered", ui.FlashError}
	noticeClipboardDown  = notice{"Clipboard unavailable", ui.FlashWarning}
	noticeNoClipImage    = notice{"No image in clipboard", ui.FlashInfo}
	noticeTerminalCopy   = notice{"Copied to terminal clipboard only", ui.FlashWarning}
	noticeNothingToReply = notice{"Nothing to reply to", ui.FlashInfo}
)

// errorNotice picks the footer wording for a failed compose action.
func errorNotice(err error) notice {
	switch errors.GetKind(err) {
	case errors.KindPermission:
		return noticeMicDenied
	case errors.KindMediaResolution:
		return noticeMediaFailed
	case errors.KindDevice:
		return noticeDeviceDown
	default:
		return notice{err.Error(), ui.FlashError}
	}
}

// flash shows n in the footer and starts its dismiss timer.
func (m *Model) flash(n notice) tea.Cmd {
	m.footer.SetFlash(n.text, n.kind)
	return ui.FlashTick()
}
