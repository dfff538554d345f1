// internal/loop/loop.go
package loop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tamzrod/jank-monitor/internal/command"
	"github.com/tamzrod/jank-monitor/internal/frame"
)

// ErrStopped is returned when the loop has exited.
var ErrStopped = errors.New("loop: stopped")

// DefaultBuffer is the event queue depth used when Config.Buffer is zero.
const DefaultBuffer = 64

// Dispatcher executes one command by name.
type Dispatcher interface {
	Dispatch(name string) command.Result
}

// StatsSource exposes monitor counters.
type StatsSource interface {
	Stats() frame.Stats
}

// Config wires the loop to the raw display-refresh clock.
type Config struct {
	Clock  frame.FrameClock
	Buffer int
	Logger *slog.Logger // optional
}

// Loop is the single consumer that serializes refresh samples and commands.
// Everything attached to it runs on the goroutine calling Run.
//
// Loop itself implements frame.FrameClock: callbacks posted through it fire
// on the loop goroutine, whatever goroutine the underlying clock uses.
type Loop struct {
	clock  frame.FrameClock
	events chan event
	done   chan struct{}
	logger *slog.Logger

	dispatcher Dispatcher
	stats      StatsSource
}

// New creates a loop. Attach must be called before Run.
func New(cfg Config) (*Loop, error) {
	if cfg.Clock == nil {
		return nil, errors.New("loop: clock required")
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		clock:  cfg.Clock,
		events: make(chan event, cfg.Buffer),
		done:   make(chan struct{}),
		logger: logger.With("component", "loop"),
	}, nil
}

// Attach sets the command and stats targets. Not safe once Run has started.
func (l *Loop) Attach(d Dispatcher, s StatsSource) {
	l.dispatcher = d
	l.stats = s
}

// Run processes events in arrival order until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-l.events:
			ev.apply(l)
		}
	}
}

// PostFrameCallback registers cb with the underlying clock; cb later runs on
// the loop goroutine.
func (l *Loop) PostFrameCallback(cb frame.FrameCallback) (frame.CallbackID, error) {
	return l.clock.PostFrameCallback(func(ts int64) {
		// Samples arriving after the loop exited are simply lost.
		_ = l.send(context.Background(), sampleEvent{cb: cb, sample: frame.Sample{TimestampNanos: ts}})
	})
}

// RemoveFrameCallback forwards to the underlying clock.
func (l *Loop) RemoveFrameCallback(id frame.CallbackID) {
	l.clock.RemoveFrameCallback(id)
}

// Dispatch runs a command on the loop and waits for its result.
func (l *Loop) Dispatch(ctx context.Context, name string) (command.Result, error) {
	reply := make(chan command.Result, 1)
	if err := l.send(ctx, commandEvent{name: name, reply: reply}); err != nil {
		return command.NotImplemented, err
	}

	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return command.NotImplemented, ctx.Err()
	case <-l.done:
		return command.NotImplemented, ErrStopped
	}
}

// Stats reads the monitor counters on the loop.
func (l *Loop) Stats(ctx context.Context) (frame.Stats, error) {
	reply := make(chan frame.Stats, 1)
	if err := l.send(ctx, statsEvent{reply: reply}); err != nil {
		return frame.Stats{}, err
	}

	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return frame.Stats{}, ctx.Err()
	case <-l.done:
		return frame.Stats{}, ErrStopped
	}
}

func (l *Loop) send(ctx context.Context, ev event) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case l.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}
