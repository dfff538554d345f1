// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/tamzrod/jank-monitor/internal/status"
)

// MaxRefreshHz bounds refresh.hz.
const MaxRefreshHz = 240

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	m := cfg.Monitor

	// ------------------------------------------------------------
	// REFRESH
	// ------------------------------------------------------------

	if m.Refresh.Hz < 0 || m.Refresh.Hz > MaxRefreshHz {
		return fmt.Errorf("refresh.hz must be within 0..%d, got %d", MaxRefreshHz, m.Refresh.Hz)
	}

	// ------------------------------------------------------------
	// HOST PROPERTIES
	// ------------------------------------------------------------

	seen := make(map[string]struct{})
	for i, p := range m.Host.Properties {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			return fmt.Errorf("host.properties[%d]: key required", i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("host.properties[%d]: duplicate key %q", i, key)
		}
		seen[key] = struct{}{}
	}

	// ------------------------------------------------------------
	// STARTUP COMMANDS
	// ------------------------------------------------------------

	// Names are not checked against the command set: unknown names are a
	// runtime "not implemented", same as for any other caller.
	for i, c := range m.StartupCommands {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("startup_commands[%d]: empty command", i)
		}
	}

	// ------------------------------------------------------------
	// STATUS EXPORT (OPT-IN)
	// ------------------------------------------------------------

	if s := m.Status; s != nil {
		if s.Endpoint == "" {
			return fmt.Errorf("status.endpoint required when status is set")
		}
		if _, _, err := net.SplitHostPort(s.Endpoint); err != nil {
			return fmt.Errorf("status.endpoint %q: %v", s.Endpoint, err)
		}
		for i := 0; i < len(s.DeviceName); i++ {
			if s.DeviceName[i] > 0x7F {
				return fmt.Errorf("status.device_name must contain ASCII characters only")
			}
		}
		if s.TimeoutMs < 0 {
			return fmt.Errorf("status.timeout_ms must be >= 0")
		}
		if s.IntervalMs < 0 {
			return fmt.Errorf("status.interval_ms must be >= 0")
		}
		if s.Breaker.OpenMs < 0 {
			return fmt.Errorf("status.breaker.open_ms must be >= 0")
		}

		// the block must fit in the 16-bit holding register space
		end := (uint32(s.Slot) + 1) * status.SlotsPerDevice
		if end > 0x10000 {
			return fmt.Errorf("status.slot %d exceeds register space", s.Slot)
		}
	}

	// ------------------------------------------------------------
	// METRICS
	// ------------------------------------------------------------

	if m.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(m.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen %q: %v", m.Metrics.Listen, err)
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch strings.ToLower(m.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", m.Log.Level)
	}

	switch strings.ToLower(m.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format %q: want json or text", m.Log.Format)
	}

	return nil
}
