// internal/status/snapshot.go
package status

import (
	"math"
	"time"

	"github.com/tamzrod/jank-monitor/internal/frame"
)

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health       uint16
	JankFrames   uint16
	Remediations uint16
	LastDelta    uint16 // 0.1ms units
	Samples      uint16
}

// FromStats folds monitor counters into register-sized values.
// Counters wrap at 16 bits; the delta saturates.
func FromStats(st frame.Stats, health uint16) Snapshot {
	return Snapshot{
		Health:       health,
		JankFrames:   uint16(st.JankFrames),
		Remediations: uint16(st.Remediations),
		LastDelta:    deltaTenthMs(st.LastDelta),
		Samples:      uint16(st.Samples),
	}
}

func deltaTenthMs(d time.Duration) uint16 {
	if d <= 0 {
		return 0
	}
	v := d / (100 * time.Microsecond)
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
