package recorder

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimulatedDevice produces a synthetic waveform. It stands in for a real
// microphone in the demo host and in tests.
type SimulatedDevice struct {
	mu         sync.Mutex
	authorized bool
	grant      bool
	asked      bool
	startDelay time.Duration
	startErr   error
	running    bool
	ticks      int
	starts     int
}

// NewSimulatedDevice creates a device. authorized is the current permission;
// grant is how the permission prompt will be answered.
func NewSimulatedDevice(authorized, grant bool) *SimulatedDevice {
	return &SimulatedDevice{authorized: authorized, grant: grant}
}

// SetStartDelay makes Start take d before capture is running.
func (s *SimulatedDevice) SetStartDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startDelay = d
}

// FailStart makes every subsequent Start return err.
func (s *SimulatedDevice) FailStart(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startErr = err
}

func (s *SimulatedDevice) Authorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorized
}

// RequestAccess answers with the configured grant. The prompt is only shown
// once; later calls return the first answer.
func (s *SimulatedDevice) RequestAccess(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.asked {
		s.asked = true
		s.authorized = s.grant
	}
	return s.authorized, nil
}

func (s *SimulatedDevice) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	delay, err := s.startDelay, s.startErr
	s.mu.Unlock()

	if err != nil {
		return "", err
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return "", fmt.Errorf("device busy")
	}
	s.running = true
	s.ticks = 0
	s.starts++
	return "memory://recording/" + uuid.NewString() + ".m4a", nil
}

// Level returns a slowly modulated sine so waveforms look alive.
func (s *SimulatedDevice) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
	t := float64(s.ticks)
	return 0.5 + 0.35*math.Sin(t/2)*math.Cos(t/7)
}

func (s *SimulatedDevice) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

// Running reports whether capture is active.
func (s *SimulatedDevice) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Starts returns how many capture sessions were started.
func (s *SimulatedDevice) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}
