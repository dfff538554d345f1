// internal/frame/types.go
package frame

import "time"

// JankThreshold is the frame budget above which a frame counts as jank.
// 32ms is the point where a 60 fps target drops below 30 fps.
// Fixed at compile time.
const JankThreshold = 32 * time.Millisecond

// jankThresholdMs is JankThreshold in float milliseconds, the unit deltas are compared in.
const jankThresholdMs = float64(JankThreshold) / float64(time.Millisecond)

// CallbackID identifies one pending frame callback registration.
type CallbackID uint64

// FrameCallback receives a monotonic display-refresh timestamp in nanoseconds.
type FrameCallback func(timestampNanos int64)

// FrameClock is the display-refresh primitive supplied by the host.
// Registrations are single-shot: a callback fires at most once and must be
// posted again to receive the next refresh.
type FrameClock interface {
	PostFrameCallback(cb FrameCallback) (CallbackID, error)
	RemoveFrameCallback(id CallbackID)
}

// Remediator reacts to a detected jank frame.
type Remediator interface {
	Trigger() error
}

// Observer receives per-frame measurements. Optional.
type Observer interface {
	OnFrame(delta time.Duration)
	OnJank(delta time.Duration)
}

// Sample is one display-refresh timestamp, consumed immediately by the monitor.
type Sample struct {
	TimestampNanos int64
}

// Stats is a read-only view of the monitor.
// Counters accumulate across sessions; Session and LastDelta reset on stop.
type Stats struct {
	Active  bool
	Session string

	Samples             uint64
	JankFrames          uint64
	Remediations        uint64
	RemediationFailures uint64

	LastDelta time.Duration
}
