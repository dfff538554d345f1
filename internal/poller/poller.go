// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tamzrod/jank-monitor/internal/frame"
	"github.com/tamzrod/jank-monitor/internal/status"
)

// Source abstracts where monitor counters are read from.
// The event loop satisfies it.
type Source interface {
	Stats(ctx context.Context) (frame.Stats, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration // per poll; defaults to Interval
	Clock    clock.Clock   // optional
}

// Poller is a dumb, clock-driven reader of monitor counters.
// It derives health from the change in jank frames between two polls.
type Poller struct {
	cfg Config
	src Source

	seen     bool
	lastJank uint64
	last     PollResult
}

// New creates a poller with immutable config.
func New(cfg Config, src Source) (*Poller, error) {
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Poller{cfg: cfg, src: src}, nil
}

// PollOnce performs exactly one poll cycle.
// On failure the previous jank baseline and the last good counters are kept;
// only health changes.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{At: p.cfg.Clock.Now()}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	st, err := p.src.Stats(ctx)
	if err != nil {
		res.Err = err
		res.Stats = p.last.Stats
		res.Snapshot = p.last.Snapshot
		res.Snapshot.Health = status.HealthUnknown
		return res
	}

	res.Stats = st
	res.Snapshot = status.FromStats(st, p.health(st))

	p.seen = true
	p.lastJank = st.JankFrames
	p.last = res
	return res
}

func (p *Poller) health(st frame.Stats) uint16 {
	switch {
	case !st.Active:
		return status.HealthIdle
	case p.seen && st.JankFrames > p.lastJank:
		return status.HealthJank
	case !p.seen && st.JankFrames > 0:
		return status.HealthJank
	default:
		return status.HealthMonitoring
	}
}
