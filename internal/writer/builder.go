// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/jank-monitor/internal/config"
	wmodbus "github.com/tamzrod/jank-monitor/internal/writer/modbus"
)

// BuildPlan converts the status config into a StatusPlan.
// Assumes config has already passed validation and normalization.
func BuildPlan(sc cfg.StatusConfig) (StatusPlan, error) {
	if sc.Endpoint == "" {
		return StatusPlan{}, errors.New("writer: status.endpoint required")
	}
	return StatusPlan{
		Endpoint:   sc.Endpoint,
		UnitID:     sc.UnitID,
		BaseSlot:   sc.Slot,
		DeviceName: sc.DeviceName,
	}, nil
}

// BuildStatusWriter dials the status endpoint and returns a ready writer
// together with its closer.
func BuildStatusWriter(sc cfg.StatusConfig) (*MonitorStatusWriter, func() error, error) {
	plan, err := BuildPlan(sc)
	if err != nil {
		return nil, nil, err
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: sc.Endpoint,
		Timeout:  time.Duration(sc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewStatusWriter(plan, cli, BreakerSettings{
		MaxFailures: sc.Breaker.MaxFailures,
		OpenTimeout: time.Duration(sc.Breaker.OpenMs) * time.Millisecond,
	})
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}

	return sw, cli.Close, nil
}
