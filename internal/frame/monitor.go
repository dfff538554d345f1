// internal/frame/monitor.go
package frame

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Config wires a Monitor to its host collaborators.
type Config struct {
	Clock      FrameClock
	Remediator Remediator
	Observer   Observer     // optional
	Logger     *slog.Logger // optional
}

// Monitor is a toggleable sampler that re-registers itself on every refresh.
//
// Monitor is not safe for concurrent use. All calls, including the frame
// callbacks it posts, must be delivered from one goroutine.
type Monitor struct {
	clock    FrameClock
	remedy   Remediator
	observer Observer
	logger   *slog.Logger

	active  bool
	last    int64
	hasLast bool

	// gen increments on every start/stop so callbacks posted by an earlier
	// session are recognised and dropped.
	gen        uint64
	pending    CallbackID
	registered bool

	stats Stats
}

// New creates an inactive monitor.
func New(cfg Config) (*Monitor, error) {
	if cfg.Clock == nil {
		return nil, errors.New("frame: clock required")
	}
	if cfg.Remediator == nil {
		return nil, errors.New("frame: remediator required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		clock:    cfg.Clock,
		remedy:   cfg.Remediator,
		observer: cfg.Observer,
		logger:   logger.With("component", "frame-monitor"),
	}, nil
}

// Start begins sampling. While already active it only retries a failed
// registration.
func (m *Monitor) Start() {
	if m.active {
		if !m.registered {
			m.register()
		}
		return
	}

	m.gen++
	m.active = true
	m.hasLast = false
	m.last = 0
	m.stats.Active = true
	m.stats.Session = uuid.NewString()
	m.stats.LastDelta = 0

	m.logger.Info("frame monitoring started", "session", m.stats.Session)
	m.register()
}

// Stop ends sampling and forgets the previous timestamp. Safe when inactive.
func (m *Monitor) Stop() {
	if m.registered {
		m.clock.RemoveFrameCallback(m.pending)
		m.registered = false
	}

	if !m.active {
		return
	}

	m.logger.Info("frame monitoring stopped",
		"session", m.stats.Session,
		"samples", m.stats.Samples,
		"jank_frames", m.stats.JankFrames,
	)

	m.gen++
	m.active = false
	m.hasLast = false
	m.last = 0
	m.stats.Active = false
	m.stats.Session = ""
	m.stats.LastDelta = 0
}

// Active reports whether the monitor is sampling.
func (m *Monitor) Active() bool { return m.active }

// Stats returns a copy of the current counters.
func (m *Monitor) Stats() Stats { return m.stats }

// OnSample handles one refresh notification.
// Samples delivered while inactive are ignored: there is no baseline and no
// re-registration.
func (m *Monitor) OnSample(timestampNanos int64) {
	if !m.active {
		m.logger.Debug("sample dropped while inactive", "ts", timestampNanos)
		return
	}

	m.stats.Samples++

	if m.hasLast {
		delta := time.Duration(timestampNanos - m.last)
		deltaMs := float64(delta) / float64(time.Millisecond)
		m.stats.LastDelta = delta

		if m.observer != nil {
			m.observer.OnFrame(delta)
		}

		if deltaMs > jankThresholdMs {
			m.stats.JankFrames++
			if m.observer != nil {
				m.observer.OnJank(delta)
			}
			m.remediate(delta)
		}
	}

	m.last = timestampNanos
	m.hasLast = true

	// Remediation may not stop the monitor, but a direct OnSample call while a
	// callback is still pending must not add a second registration.
	if m.active && !m.registered {
		m.register()
	}
}

func (m *Monitor) register() {
	gen := m.gen
	id, err := m.clock.PostFrameCallback(func(ts int64) {
		if gen != m.gen {
			return
		}
		m.registered = false
		m.OnSample(ts)
	})
	if err != nil {
		m.logger.Warn("frame callback registration failed",
			"session", m.stats.Session,
			"err", err,
		)
		return
	}
	m.pending = id
	m.registered = true
}

// remediate runs the remediation and swallows any failure after logging it.
func (m *Monitor) remediate(delta time.Duration) {
	m.stats.Remediations++

	if err := safeTrigger(m.remedy); err != nil {
		m.stats.RemediationFailures++
		m.logger.Warn("remediation failed",
			"session", m.stats.Session,
			"delta", delta,
			"err", err,
		)
		return
	}

	m.logger.Debug("jank remediated", "session", m.stats.Session, "delta", delta)
}

func safeTrigger(r Remediator) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("frame: remediation panic: %v", p)
		}
	}()
	return r.Trigger()
}
