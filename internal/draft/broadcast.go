package draft

import (
	"log/slog"
	"sync"
)

// Subscriber receives a snapshot of the draft after each mutation.
type Subscriber func(Attachments)

// Broadcaster fans draft mutations out to subscribers.
//
// Synchronous subscribers run inline, in registration order, before Publish
// returns; the input state deriver is one. Observers run on their own
// goroutine behind a buffered channel and never block the publisher: when an
// observer falls behind, snapshots are dropped rather than queued.
type Broadcaster struct {
	mu        sync.Mutex
	inline    []Subscriber
	observers []*observer
	closed    bool
	log       *slog.Logger
}

type observer struct {
	ch   chan Attachments
	done chan struct{}
}

// NewBroadcaster creates a Broadcaster logging dropped snapshots to log.
func NewBroadcaster(log *slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.Default()
	}
	return &Broadcaster{log: log}
}

// Subscribe registers fn to run inline on every Publish.
func (b *Broadcaster) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inline = append(b.inline, fn)
}

// Observe registers fn to run asynchronously with up to buffer pending
// snapshots. The returned function stops the observer and waits for it.
func (b *Broadcaster) Observe(buffer int, fn Subscriber) (stop func()) {
	if buffer < 1 {
		buffer = 1
	}
	o := &observer{
		ch:   make(chan Attachments, buffer),
		done: make(chan struct{}),
	}

	go func() {
		defer close(o.done)
		for a := range o.ch {
			fn(a)
		}
	}()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(o.ch)
		return func() { <-o.done }
	}
	b.observers = append(b.observers, o)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(o) })
		<-o.done
	}
}

func (b *Broadcaster) remove(o *observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.observers {
		if cur == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			close(o.ch)
			return
		}
	}
}

// Publish delivers a to every subscriber. Observers get their own copy.
func (b *Broadcaster) Publish(a Attachments) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	subs := append([]Subscriber(nil), b.inline...)
	for _, o := range b.observers {
		select {
		case o.ch <- a.Clone():
		default:
			b.log.Debug("observer behind, dropping draft snapshot")
		}
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(a)
	}
}

// Close stops every observer. Publish after Close is a no-op.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	observers := b.observers
	b.observers = nil
	for _, o := range observers {
		close(o.ch)
	}
	b.mu.Unlock()

	for _, o := range observers {
		<-o.done
	}
}
