// Package demo provides an in-memory conversation that stands in for a chat
// backend. It seeds a deterministic history, serves it in pages with a
// simulated network delay, and answers every delivered message.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/logger"
)

// FailMarker makes Deliver reject a message whose text starts with it, so
// failed sends can be tried out by hand.
const FailMarker = "/fail"

// Options configures a Conversation.
type Options struct {
	Self  chat.User
	Peers []chat.User

	History    int           // Messages seeded before now
	Latency    time.Duration // Delay for LoadOlder and Deliver
	ReplyDelay time.Duration // Delay before a peer answers
	Seed       uint64

	Now func() time.Time
}

// DefaultOptions returns options for the interactive demo.
func DefaultOptions(self chat.User) Options {
	return Options{
		Self: self,
		Peers: []chat.User{
			{ID: "ada", Name: "Ada"},
			{ID: "linus", Name: "Linus"},
		},
		History:    120,
		Latency:    400 * time.Millisecond,
		ReplyDelay: 1200 * time.Millisecond,
		Seed:       7,
	}
}

// Conversation is a fake chat backend. It is safe for concurrent use.
type Conversation struct {
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	history []chat.Message // oldest first
	served  int            // newest messages already handed out
	rng     *rand.Rand
	turn    int
}

// New creates a conversation with a seeded history ending at Now.
func New(opts Options) *Conversation {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Peers) == 0 {
		opts.Peers = []chat.User{{ID: "peer", Name: "Peer"}}
	}
	c := &Conversation{
		opts: opts,
		log:  logger.ComponentLogger("Demo"),
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	c.history = c.seed(opts.History)
	c.log.Info("seeded conversation", "messages", len(c.history))
	return c
}

var phrases = []string{
	"morning! anyone up?",
	"just pushed the fix, can you **take a look**?",
	"the build is green again",
	"lunch?",
	"I think the issue is in `Scrolled`, it fires twice",
	"see [the docs](https://pkg.go.dev/time) for the layout",
	"```go\nfmt.Println(\"hello\")\n```",
	"- milk\n- eggs\n- coffee",
	"> ship it\nagreed",
	"running late, 10 min",
	"_finally_ done with the release notes",
	"sounds good 👍",
	"can we move standup to 10?",
	"that's a great point",
}

// seed builds n messages walking back in time from now, oldest first.
func (c *Conversation) seed(n int) []chat.Message {
	now := c.opts.Now()
	out := make([]chat.Message, n)
	at := now.Add(-2 * time.Minute)
	author := c.opts.Self
	for i := n - 1; i >= 0; i-- {
		if c.rng.IntN(3) == 0 {
			author = c.pickAuthor()
		}
		msg := chat.Message{
			ID:        fmt.Sprintf("hist-%04d", i),
			User:      author,
			Text:      phrases[c.rng.IntN(len(phrases))],
			CreatedAt: at,
			Status:    chat.StatusSent,
		}
		if author.IsSelf && i > n-4 {
			msg.Status = chat.StatusRead
		}
		switch c.rng.IntN(12) {
		case 0:
			msg.Attachments = []chat.Attachment{{
				ID:           fmt.Sprintf("photo-%d", i),
				Kind:         chat.MediaImage,
				ThumbnailURL: fmt.Sprintf("memory://demo/photo-%d.png", i),
			}}
		case 1:
			rec := c.recording(time.Duration(3+c.rng.IntN(20)) * time.Second)
			msg.Text = ""
			msg.Recording = &rec
		}
		out[i] = msg

		// Mostly minutes apart, sometimes hours, so history spans days.
		gap := time.Duration(1+c.rng.IntN(20)) * time.Minute
		if c.rng.IntN(8) == 0 {
			gap = time.Duration(3+c.rng.IntN(14)) * time.Hour
		}
		at = at.Add(-gap)
	}

	for i := 1; i < n; i++ {
		if c.rng.IntN(10) == 0 {
			reply := out[i-1-c.rng.IntN(min(i, 5))].Reply()
			out[i].ReplyTo = &reply
		}
	}
	return out
}

func (c *Conversation) pickAuthor() chat.User {
	k := c.rng.IntN(len(c.opts.Peers) + 1)
	if k == len(c.opts.Peers) {
		return c.opts.Self
	}
	return c.opts.Peers[k]
}

// recording makes a finished voice message with a plausible waveform.
func (c *Conversation) recording(d time.Duration) chat.Recording {
	ticks := int(d / (100 * time.Millisecond))
	samples := make([]float64, ticks)
	phase := c.rng.Float64() * math.Pi
	for i := range samples {
		t := float64(i)
		samples[i] = 0.45 + 0.4*math.Sin(t/3+phase)*math.Cos(t/11)
	}
	return chat.Recording{
		Status:   chat.RecordingFinished,
		Duration: d,
		Samples:  samples,
		URL:      "memory://demo/voice-" + uuid.NewString() + ".m4a",
	}
}

// Recent returns the newest n messages and marks them served.
func (c *Conversation) Recent(n int) []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	n = min(n, len(c.history))
	c.served = max(c.served, n)
	return cloneMessages(c.history[len(c.history)-n:])
}

// HasOlder reports whether LoadOlder has anything left.
func (c *Conversation) HasOlder() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.served < len(c.history)
}

// LoadOlder returns up to n messages older than everything served so far.
// It returns an empty slice once history is exhausted.
func (c *Conversation) LoadOlder(ctx context.Context, n int) ([]chat.Message, error) {
	if err := c.wait(ctx, c.opts.Latency); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	end := len(c.history) - c.served
	start := max(0, end-n)
	c.served += end - start
	c.log.Debug("served older page", "count", end-start, "remaining", start)
	return cloneMessages(c.history[start:end]), nil
}

// Deliver accepts an outgoing message and returns it as sent.
func (c *Conversation) Deliver(ctx context.Context, msg chat.Message) (chat.Message, error) {
	if err := c.wait(ctx, c.opts.Latency); err != nil {
		return msg, err
	}
	if strings.HasPrefix(strings.TrimSpace(msg.Text), FailMarker) {
		c.log.Warn("rejecting message", "id", msg.ID)
		return msg, errors.E(errors.Op("demo.Deliver"), errors.KindIO, "server rejected the message")
	}

	msg.Status = chat.StatusSent
	c.mu.Lock()
	c.history = append(c.history, msg)
	c.served++
	c.mu.Unlock()
	c.log.Debug("delivered", "id", msg.ID)
	return msg, nil
}

// Reply produces a peer's answer to msg after the reply delay.
func (c *Conversation) Reply(ctx context.Context, to chat.Message) (chat.Message, error) {
	if err := c.wait(ctx, c.opts.ReplyDelay); err != nil {
		return chat.Message{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	peer := c.opts.Peers[c.turn%len(c.opts.Peers)]
	c.turn++

	quote := to.Reply()
	reply := chat.Message{
		ID:        uuid.NewString(),
		User:      peer,
		Text:      answer(to),
		ReplyTo:   &quote,
		CreatedAt: c.opts.Now(),
		Status:    chat.StatusSent,
	}
	c.history = append(c.history, reply)
	c.served++
	return reply, nil
}

func answer(to chat.Message) string {
	switch {
	case to.Recording != nil && to.Recording.Exists():
		return fmt.Sprintf("thanks for the voice note (%ds)", int(to.Recording.Duration.Seconds()))
	case len(to.Attachments) == 1:
		return "nice " + to.Attachments[0].Kind.String() + "!"
	case len(to.Attachments) > 1:
		return fmt.Sprintf("got all %d attachments", len(to.Attachments))
	}
	text := strings.Join(strings.Fields(to.Text), " ")
	if len([]rune(text)) > 30 {
		text = string([]rune(text)[:30]) + "…"
	}
	return "you said: " + text
}

func (c *Conversation) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneMessages(in []chat.Message) []chat.Message {
	out := make([]chat.Message, len(in))
	copy(out, in)
	return out
}
