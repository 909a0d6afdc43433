// Package recorder captures audio from a Device and reports progress as
// (elapsed duration, waveform samples) on its own ticker.
package recorder

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/logger"
)

// Device is the audio capture hardware.
type Device interface {
	// Authorized reports whether microphone access is currently granted.
	Authorized() bool
	// RequestAccess shows the OS permission prompt if it has not been
	// answered yet and reports the outcome.
	RequestAccess(ctx context.Context) (bool, error)
	// Start acquires the device and returns a handle (URL) for the file
	// being recorded. It blocks until capture is running.
	Start(ctx context.Context) (string, error)
	// Level returns the current normalized input amplitude in [0, 1].
	Level() float64
	// Stop releases the device.
	Stop() error
}

// SampleFunc receives the elapsed duration and every sample so far.
// It is called from the recorder's goroutine.
type SampleFunc func(elapsed time.Duration, samples []float64)

// DefaultSampleInterval is used when New is given a non-positive interval.
const DefaultSampleInterval = 100 * time.Millisecond

// Recorder owns the one capture session allowed at a time.
type Recorder struct {
	device   Device
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Recorder sampling device every interval.
func New(device Device, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Recorder{
		device:   device,
		interval: interval,
		now:      time.Now,
		log:      logger.ComponentLogger("Recorder"),
	}
}

// IsAllowedToRecordAudio reports whether the microphone may be used.
func (r *Recorder) IsAllowedToRecordAudio() bool {
	return r.device.Authorized()
}

// RequestPermission asks the OS for microphone access.
func (r *Recorder) RequestPermission(ctx context.Context) (bool, error) {
	granted, err := r.device.RequestAccess(ctx)
	if err != nil {
		r.log.Warn("permission request failed", "error", err)
		return false, errors.DeviceUnavailable("microphone", err)
	}
	r.log.Info("permission request answered", "granted", granted)
	return granted, nil
}

// IsRecording reports whether a session is active or starting.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// StartRecording stops any running session, acquires the device and starts
// sampling. It blocks until the device is ready and returns the recording
// handle. onSample is called until StopRecording or ctx is done.
func (r *Recorder) StartRecording(ctx context.Context, onSample SampleFunc) (string, error) {
	if !r.device.Authorized() {
		return "", errors.RecordPermissionDenied()
	}
	if err := ctx.Err(); err != nil {
		// Abandoned before it began; leave any newer session alone
		return "", errors.DeviceUnavailable("microphone", err)
	}

	r.StopRecording()

	sessCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	url, err := r.device.Start(sessCtx)
	if err == nil && sessCtx.Err() != nil {
		// Stopped while the device was being acquired
		_ = r.device.Stop()
		err = sessCtx.Err()
	}
	if err != nil {
		r.release(done)
		cancel()
		close(done)
		r.log.Warn("capture did not start", "error", err)
		return "", errors.DeviceUnavailable("microphone", err)
	}

	r.log.Info("capture started", "url", url, "interval", r.interval)
	go r.sample(sessCtx, done, onSample)
	return url, nil
}

// release clears the session fields if they still belong to done.
func (r *Recorder) release(done chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == done {
		r.cancel = nil
		r.done = nil
	}
}

func (r *Recorder) sample(ctx context.Context, done chan struct{}, onSample SampleFunc) {
	defer close(done)
	defer func() {
		if err := r.device.Stop(); err != nil {
			r.log.Warn("device stop failed", "error", err)
		}
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	start := r.now()
	var samples []float64
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("capture stopped", "samples", len(samples))
			return
		case <-ticker.C:
			samples = append(samples, clamp(r.device.Level()))
			if onSample != nil && ctx.Err() == nil {
				onSample(r.now().Sub(start), slices.Clone(samples))
			}
		}
	}
}

// StopRecording stops the active session and waits until no further sample
// callbacks can run. Safe to call when nothing is recording.
func (r *Recorder) StopRecording() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
