// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tamzrod/jank-monitor/internal/status"
)

// StatusWriter is the delivery-only contract for monitor status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// registerClient is the exact contract the status writer uses.
type registerClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// StatusPlan locates one monitor's block in status memory.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// BreakerSettings bound how long a dead endpoint is hammered.
type BreakerSettings struct {
	MaxFailures uint32        // consecutive failures before opening; 0 => 3
	OpenTimeout time.Duration // time spent open before probing; 0 => 5s
}

// MonitorStatusWriter writes the full block on first use and after any
// failure, and only the changed live slots otherwise.
type MonitorStatusWriter struct {
	plan StatusPlan
	cli  registerClient
	cb   *gobreaker.CircuitBreaker

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

var _ StatusWriter = (*MonitorStatusWriter)(nil)

// NewStatusWriter builds a writer for plan over cli.
func NewStatusWriter(plan StatusPlan, cli registerClient, bs BreakerSettings) (*MonitorStatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if (uint32(plan.BaseSlot)+1)*status.SlotsPerDevice > 0x10000 {
		return nil, fmt.Errorf("status writer: slot %d out of range", plan.BaseSlot)
	}

	if bs.MaxFailures == 0 {
		bs.MaxFailures = 3
	}
	if bs.OpenTimeout <= 0 {
		bs.OpenTimeout = 5 * time.Second
	}
	maxFailures := bs.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "status:" + plan.Endpoint,
		MaxRequests: 1,
		Timeout:     bs.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
	})

	return &MonitorStatusWriter{
		plan:     plan,
		cli:      cli,
		cb:       cb,
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
	}, nil
}

// WriteStatus delivers a snapshot into status memory.
// On any write failure, the next successful call re-asserts the full block.
func (sw *MonitorStatusWriter) WriteStatus(s status.Snapshot) error {
	_, err := sw.cb.Execute(func() (interface{}, error) {
		return nil, sw.write(s)
	})
	if err != nil {
		sw.needFull = true
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("status writer: endpoint %s: %w", sw.plan.Endpoint, err)
		}
		return err
	}
	return nil
}

// BreakerState reports the circuit breaker state.
func (sw *MonitorStatusWriter) BreakerState() gobreaker.State {
	return sw.cb.State()
}

func (sw *MonitorStatusWriter) write(s status.Snapshot) error {
	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, sw.fullBlockRegs(s)); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: changed live slots only
	// ------------------------------------------------------------
	want := status.Encode(s)
	have := status.Encode(sw.last)

	var errs []string
	for slot := 0; slot < status.LiveSlots; slot++ {
		if want[slot] == have[slot] {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr+uint16(slot), want[slot:slot+1]); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
		}
	}

	if len(errs) > 0 {
		// Any partial failure forces a full re-assert on the next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	sw.last = s
	return nil
}

func (sw *MonitorStatusWriter) baseAddr() uint16 {
	// Each monitor owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *MonitorStatusWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// Reserved slots stay zero. Device name always lives at the end of the block.
	copy(regs[status.SlotDeviceNameStart:status.SlotDeviceNameEnd+1], sw.nameRegs)

	return regs
}
