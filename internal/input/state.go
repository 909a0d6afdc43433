package input

import (
	"time"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/draft"
)

// State is the visible state of the input bar.
type State int

const (
	StateEmpty State = iota
	StateHasTextOrMedia
	StateWaitingForRecordingPermission
	StateRecordingTap
	StateRecordingHold
	StateHasRecording
	StatePlayingRecording
	StatePausedRecording
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHasTextOrMedia:
		return "hasTextOrMedia"
	case StateWaitingForRecordingPermission:
		return "waitingForRecordingPermission"
	case StateRecordingTap:
		return "isRecordingTap"
	case StateRecordingHold:
		return "isRecordingHold"
	case StateHasRecording:
		return "hasRecording"
	case StatePlayingRecording:
		return "playingRecording"
	case StatePausedRecording:
		return "pausedRecording"
	default:
		return "unknown"
	}
}

// IsRecording reports whether audio is being captured.
func (s State) IsRecording() bool {
	return s == StateRecordingTap || s == StateRecordingHold
}

// derived reports whether s follows the draft contents. Recording and
// playback states only change through explicit actions and playback events.
func (s State) derived() bool {
	switch s {
	case StateEmpty, StateHasTextOrMedia, StateWaitingForRecordingPermission:
		return true
	default:
		return false
	}
}

// Action is a user intent on the input bar.
type Action int

const (
	ActionSend Action = iota
	ActionRecordAudioTap
	ActionRecordAudioHold
	ActionRecordAudioLock
	ActionStopRecordAudio
	ActionDeleteRecord
	ActionPlayRecord
	ActionPauseRecord
)

func (a Action) String() string {
	switch a {
	case ActionSend:
		return "send"
	case ActionRecordAudioTap:
		return "recordAudioTap"
	case ActionRecordAudioHold:
		return "recordAudioHold"
	case ActionRecordAudioLock:
		return "recordAudioLock"
	case ActionStopRecordAudio:
		return "stopRecordAudio"
	case ActionDeleteRecord:
		return "deleteRecord"
	case ActionPlayRecord:
		return "playRecord"
	case ActionPauseRecord:
		return "pauseRecord"
	default:
		return "unknown"
	}
}

// Messages accepted by Machine.Update.

// ActionMsg carries a user action.
type ActionMsg struct {
	Action Action
}

// TextChangedMsg replaces the draft text.
type TextChangedMsg struct {
	Text string
}

// MediaPickedMsg appends picked media to the draft.
type MediaPickedMsg struct {
	Medias []chat.MediaReference
}

// MediaRemovedMsg removes one media item from the draft.
type MediaRemovedMsg struct {
	ID string
}

// ReplyMsg sets the reply target; nil clears it.
type ReplyMsg struct {
	Reply *chat.ReplyMessage
}

// CancelMsg discards the draft and stops recording and playback.
type CancelMsg struct{}

// Internal results of asynchronous work. gen fields tie a result to the
// session that started it; results from superseded sessions are dropped.

type permissionResultMsg struct {
	gen     int
	granted bool
	err     error
}

type recordingStartedMsg struct {
	gen int
	url string
	err error
}

type recordingSampleMsg struct {
	gen     int
	elapsed time.Duration
	samples []float64
}

type recordingLimitMsg struct {
	gen  int
	hold bool
}

type playbackStartedMsg struct {
	gen     int
	session int
	err     error
}

type playbackEndedMsg struct {
	session int
}

type sendResolvedMsg struct {
	gen         int
	snapshot    draft.Attachments
	attachments []chat.Attachment
	err         error
}
