// Package playback plays finished recordings and reports when playback
// reaches the end on its own.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/logger"
)

// Decoder prepares a recording for playback and returns its length.
// A zero duration means the decoder could not tell; the recording's own
// metadata is used instead.
type Decoder interface {
	Decode(ctx context.Context, url string) (time.Duration, error)
}

// DurationDecoder is an in-memory decoder. It accepts any URL with a known
// scheme, takes Latency to "decode" and trusts recording metadata for the
// length.
type DurationDecoder struct {
	Latency time.Duration
}

var knownSchemes = []string{"memory://", "file://"}

func (d DurationDecoder) Decode(ctx context.Context, url string) (time.Duration, error) {
	known := false
	for _, s := range knownSchemes {
		if strings.HasPrefix(url, s) {
			known = true
			break
		}
	}
	if !known {
		return 0, errors.E(errors.Op("playback.Decode"), errors.KindInvalid, fmt.Sprintf("unsupported recording url %q", url))
	}
	if d.Latency > 0 {
		select {
		case <-time.After(d.Latency):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return 0, nil
}

// Player plays one recording at a time.
type Player struct {
	decoder Decoder
	log     *slog.Logger
	ended   chan int

	mu       sync.Mutex
	session  int
	url      string
	duration time.Duration
	position time.Duration
	started  time.Time
	playing  bool
	paused   bool
	timer    *time.Timer
	timerSeq int
}

// New creates a Player decoding through d.
func New(d Decoder) *Player {
	return &Player{
		decoder: d,
		log:     logger.ComponentLogger("Playback"),
		ended:   make(chan int, 4),
	}
}

// Ended receives the session id of every play session that reached its end
// naturally. Pause and Reset never produce an event.
func (p *Player) Ended() <-chan int {
	return p.ended
}

// Play starts rec, or resumes it if rec is the paused recording. Playing
// anything else while a session is active restarts with the new recording.
// It blocks while the recording is decoded and returns the session id.
func (p *Player) Play(ctx context.Context, rec chat.Recording) (int, error) {
	if rec.URL == "" {
		return 0, errors.E(errors.Op("playback.Play"), errors.KindInvalid, "recording has no url")
	}

	p.mu.Lock()
	if p.paused && p.url == rec.URL {
		p.resumeLocked()
		session := p.session
		p.mu.Unlock()
		p.log.Debug("playback resumed", "session", session)
		return session, nil
	}
	p.stopLocked()
	p.session++
	p.playing, p.paused = false, false
	session := p.session
	p.mu.Unlock()

	decoded, err := p.decoder.Decode(ctx, rec.URL)
	if err != nil {
		p.log.Warn("decode failed", "url", rec.URL, "error", err)
		return 0, errors.DeviceUnavailable("player", err)
	}
	if decoded <= 0 {
		decoded = rec.Duration
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != session {
		return 0, errors.E(errors.Op("playback.Play"), errors.KindBusy, "superseded while decoding")
	}
	p.url = rec.URL
	p.duration = decoded
	p.position = 0
	p.resumeLocked()
	p.log.Info("playback started", "session", session, "duration", decoded)
	return session, nil
}

// resumeLocked plays from the current position.
func (p *Player) resumeLocked() {
	p.playing = true
	p.paused = false
	p.started = time.Now()
	p.timerSeq++
	seq, session := p.timerSeq, p.session
	p.timer = time.AfterFunc(p.duration-p.position, func() { p.finish(seq, session) })
}

func (p *Player) finish(seq, session int) {
	p.mu.Lock()
	if seq != p.timerSeq || !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	p.position = 0
	p.url = ""
	p.timer = nil
	p.mu.Unlock()

	select {
	case p.ended <- session:
		p.log.Debug("playback reached end", "session", session)
	default:
		p.log.Warn("ended event dropped", "session", session)
	}
}

// stopLocked cancels the pending end timer.
func (p *Player) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerSeq++
}

// Pause halts playback, keeping the position for a later Play.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.stopLocked()
	p.position += time.Since(p.started)
	if p.position > p.duration {
		p.position = p.duration
	}
	p.playing = false
	p.paused = true
}

// Reset stops playback and forgets the recording.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.session++
	p.playing = false
	p.paused = false
	p.url = ""
	p.position = 0
	p.duration = 0
}

// IsPlaying reports whether a recording is audibly playing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Progress returns the playback position and total length.
func (p *Player) Progress() (time.Duration, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.position
	if p.playing {
		pos += time.Since(p.started)
	}
	if pos > p.duration {
		pos = p.duration
	}
	return pos, p.duration
}
