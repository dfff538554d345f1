// internal/refresh/source.go
package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tamzrod/jank-monitor/internal/frame"
)

// DefaultHz is the nominal display refresh rate.
const DefaultHz = 60

// ErrClosed is returned when posting to a closed source.
var ErrClosed = errors.New("refresh: source closed")

type entry struct {
	id frame.CallbackID
	cb frame.FrameCallback
}

// Source is a display-refresh clock: on every refresh it fires the callbacks
// posted since the previous refresh, each exactly once, in posting order.
// Timestamps are monotonic nanoseconds since the source was created.
type Source struct {
	clk      clock.Clock
	interval time.Duration
	origin   time.Time

	mu      sync.Mutex
	nextID  frame.CallbackID
	pending []entry
	closed  bool
}

// New creates a source ticking at hz on clk. hz <= 0 uses DefaultHz.
func New(clk clock.Clock, hz int) *Source {
	if clk == nil {
		clk = clock.New()
	}
	if hz <= 0 {
		hz = DefaultHz
	}
	return &Source{
		clk:      clk,
		interval: time.Second / time.Duration(hz),
		origin:   clk.Now(),
	}
}

// Interval is the time between two refreshes.
func (s *Source) Interval() time.Duration { return s.interval }

// PostFrameCallback registers cb for the next refresh only.
func (s *Source) PostFrameCallback(cb frame.FrameCallback) (frame.CallbackID, error) {
	if cb == nil {
		return 0, errors.New("refresh: nil callback")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	s.nextID++
	s.pending = append(s.pending, entry{id: s.nextID, cb: cb})
	return s.nextID, nil
}

// RemoveFrameCallback drops a pending registration. Unknown ids are ignored.
func (s *Source) RemoveFrameCallback(id frame.CallbackID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.pending {
		if e.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of registrations waiting for the next refresh.
func (s *Source) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Pulse performs one refresh synchronously on the calling goroutine.
// Callbacks posted from inside a callback wait for the next pulse.
func (s *Source) Pulse() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	ts := s.clk.Since(s.origin).Nanoseconds()
	for _, e := range batch {
		e.cb(ts)
	}
}

// Run pulses once per interval until ctx is done, then closes the source.
func (s *Source) Run(ctx context.Context) {
	ticker := s.clk.Ticker(s.interval)
	defer ticker.Stop()
	defer s.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Pulse()
		}
	}
}

// Close drops pending callbacks and rejects new ones.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
}
