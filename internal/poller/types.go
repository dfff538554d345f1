// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/jank-monitor/internal/frame"
	"github.com/tamzrod/jank-monitor/internal/status"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At time.Time

	Stats    frame.Stats
	Snapshot status.Snapshot

	Err error // non-nil means the poll cycle failed
}
