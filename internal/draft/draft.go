// Package draft holds the in-progress message of a compose session and
// broadcasts every change to it.
//
// Draft has no rules of its own. The input state machine is its only writer
// and enforces which mutations are allowed in which state; everything else
// reads snapshots.
package draft

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/zhubert/chatkit/internal/chat"
)

// Attachments is a snapshot of the draft contents.
type Attachments struct {
	Text      string
	Medias    []chat.MediaReference
	Recording chat.Recording
	Reply     *chat.ReplyMessage
}

// HasTextOrMedia reports whether the draft has non-empty text or media.
func (a Attachments) HasTextOrMedia() bool {
	return a.Text != "" || len(a.Medias) > 0
}

// IsEmpty reports whether there is nothing to send.
func (a Attachments) IsEmpty() bool {
	return !a.HasTextOrMedia() && !a.Recording.Exists()
}

// Clone returns a deep copy of a.
func (a Attachments) Clone() Attachments {
	out := a
	out.Medias = slices.Clone(a.Medias)
	out.Recording = a.Recording.Clone()
	if a.Reply != nil {
		reply := *a.Reply
		out.Reply = &reply
	}
	return out
}

// TextLength returns the length of s in user-perceived characters.
func TextLength(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// truncateGraphemes cuts s to at most n grapheme clusters.
func truncateGraphemes(s string, n int) string {
	if n <= 0 {
		return s
	}
	g := uniseg.NewGraphemes(s)
	count, end := 0, 0
	for g.Next() {
		if count == n {
			return s[:end]
		}
		_, end = g.Positions()
		count++
	}
	return s
}

// Draft is the single mutable draft of a compose session.
// It is not safe for concurrent use; all calls happen on the UI thread.
type Draft struct {
	id      string
	att     Attachments
	bus     *Broadcaster
	maxText int
}

// New creates an empty draft publishing to bus. maxText caps the text length
// in grapheme clusters; zero means unlimited.
func New(bus *Broadcaster, maxText int) *Draft {
	return &Draft{
		id:      uuid.NewString(),
		bus:     bus,
		maxText: maxText,
	}
}

// ID identifies the compose session for logging.
func (d *Draft) ID() string {
	return d.id
}

// Snapshot returns a deep copy of the current contents.
func (d *Draft) Snapshot() Attachments {
	return d.att.Clone()
}

// Text returns the current text.
func (d *Draft) Text() string {
	return d.att.Text
}

// Recording returns a copy of the current recording.
func (d *Draft) Recording() chat.Recording {
	return d.att.Recording.Clone()
}

func (d *Draft) publish() {
	if d.bus != nil {
		d.bus.Publish(d.att)
	}
}

// SetText replaces the text, truncated to the configured limit.
// Returns false if nothing changed.
func (d *Draft) SetText(text string) bool {
	text = truncateGraphemes(text, d.maxText)
	if text == d.att.Text {
		return false
	}
	d.att.Text = text
	d.publish()
	return true
}

// AddMedia appends media in order.
func (d *Draft) AddMedia(medias ...chat.MediaReference) {
	if len(medias) == 0 {
		return
	}
	d.att.Medias = append(d.att.Medias, medias...)
	d.publish()
}

// RemoveMedia removes the media with the given id.
func (d *Draft) RemoveMedia(id string) bool {
	i := slices.IndexFunc(d.att.Medias, func(m chat.MediaReference) bool { return m.ID == id })
	if i < 0 {
		return false
	}
	d.att.Medias = slices.Delete(d.att.Medias, i, i+1)
	d.publish()
	return true
}

// SetReply sets or clears (nil) the reply target.
func (d *Draft) SetReply(reply *chat.ReplyMessage) {
	if reply == nil && d.att.Reply == nil {
		return
	}
	if reply != nil {
		r := *reply
		reply = &r
	}
	d.att.Reply = reply
	d.publish()
}

// StartRecording replaces any recording with a new, empty, active one.
func (d *Draft) StartRecording() {
	d.att.Recording = chat.Recording{Status: chat.RecordingActive}
	d.publish()
}

// UpdateRecording records progress of the active recording. Ignored unless
// a recording is active.
func (d *Draft) UpdateRecording(duration time.Duration, samples []float64) bool {
	if d.att.Recording.Status != chat.RecordingActive {
		return false
	}
	d.att.Recording.Duration = duration
	d.att.Recording.Samples = slices.Clone(samples)
	d.publish()
	return true
}

// FinishRecording finalizes the active recording with its URL.
// Returns whether a recording worth keeping remains.
func (d *Draft) FinishRecording(url string) bool {
	if d.att.Recording.Status != chat.RecordingActive {
		return d.att.Recording.Exists()
	}
	d.att.Recording.Status = chat.RecordingFinished
	d.att.Recording.URL = url
	if !d.att.Recording.Exists() {
		d.att.Recording = chat.Recording{}
	}
	d.publish()
	return d.att.Recording.Exists()
}

// RestoreRecording puts back a finished recording, replacing whatever is
// there.
func (d *Draft) RestoreRecording(rec chat.Recording) {
	d.att.Recording = rec.Clone()
	d.publish()
}

// ClearRecording drops the recording.
func (d *Draft) ClearRecording() {
	if d.att.Recording.Status == chat.RecordingNone {
		return
	}
	d.att.Recording = chat.Recording{}
	d.publish()
}

// Reset empties the draft in one mutation.
func (d *Draft) Reset() {
	if d.att.IsEmpty() && d.att.Reply == nil {
		return
	}
	d.att = Attachments{}
	d.publish()
}
