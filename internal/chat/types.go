// Package chat holds the value types shared by the draft, input and
// sections packages: users, media references, recordings and messages.
package chat

import (
	"slices"
	"time"
)

// User identifies the author of a message.
type User struct {
	ID     string
	Name   string
	IsSelf bool // True for the local user of the host application
}

// MediaKind distinguishes picked media.
type MediaKind int

const (
	MediaImage MediaKind = iota
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaVideo:
		return "video"
	default:
		return "image"
	}
}

// MediaReference is a picked but unresolved media item. Either Data or Path
// carries the content. Poster is an optional still frame for video.
type MediaReference struct {
	ID        string
	Kind      MediaKind
	MediaType string // MIME type, e.g. "image/png"
	Data      []byte
	Path      string
	Poster    []byte
}

// Size returns the size of in-memory content in bytes.
func (m MediaReference) Size() int {
	return len(m.Data)
}

// Attachment is a media item resolved to stable URLs.
// FullURL is only set for video.
type Attachment struct {
	ID           string
	Kind         MediaKind
	ThumbnailURL string
	FullURL      string
}

// RecordingStatus tags the lifecycle of a draft recording.
type RecordingStatus int

const (
	RecordingNone RecordingStatus = iota
	RecordingActive
	RecordingFinished
)

func (s RecordingStatus) String() string {
	switch s {
	case RecordingActive:
		return "active"
	case RecordingFinished:
		return "finished"
	default:
		return "none"
	}
}

// Recording is an audio attachment. Samples are normalized amplitudes in
// [0, 1], one per recorder tick. URL is set once the recording is finished.
type Recording struct {
	Status   RecordingStatus
	Duration time.Duration
	Samples  []float64
	URL      string
}

// Exists reports whether the recording holds anything worth keeping.
func (r Recording) Exists() bool {
	switch r.Status {
	case RecordingActive:
		return true
	case RecordingFinished:
		return r.URL != "" || r.Duration > 0 || len(r.Samples) > 0
	default:
		return false
	}
}

// Clone returns a copy that shares no memory with r.
func (r Recording) Clone() Recording {
	r.Samples = slices.Clone(r.Samples)
	return r
}

// ReplyMessage is a trimmed-down message a draft replies to.
type ReplyMessage struct {
	ID        string
	User      User
	Text      string
	CreatedAt time.Time
}

// MessageStatus tracks delivery of an outgoing message.
type MessageStatus int

const (
	StatusSent MessageStatus = iota
	StatusSending
	StatusRead
	StatusError
)

func (s MessageStatus) String() string {
	switch s {
	case StatusSending:
		return "sending"
	case StatusRead:
		return "read"
	case StatusError:
		return "error"
	default:
		return "sent"
	}
}

// Message is an immutable chat message as rendered in the list.
type Message struct {
	ID          string
	User        User
	Text        string
	Attachments []Attachment
	Recording   *Recording
	ReplyTo     *ReplyMessage
	CreatedAt   time.Time
	Status      MessageStatus
}

// Reply converts m into a reply target.
func (m Message) Reply() ReplyMessage {
	return ReplyMessage{
		ID:        m.ID,
		User:      m.User,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

// DraftMessage is the finalized outbound payload handed to the delivery
// callback. The caller assigns the id.
type DraftMessage struct {
	Text        string
	Attachments []Attachment
	Recording   *Recording
	ReplyTo     *ReplyMessage
	CreatedAt   time.Time
}

// ToMessage builds a list message from d with the given id and author.
func (d DraftMessage) ToMessage(id string, user User) Message {
	return Message{
		ID:          id,
		User:        user,
		Text:        d.Text,
		Attachments: d.Attachments,
		Recording:   d.Recording,
		ReplyTo:     d.ReplyTo,
		CreatedAt:   d.CreatedAt,
		Status:      StatusSending,
	}
}
