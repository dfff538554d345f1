// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultRefreshHz        = 60
	DefaultStatusIntervalMs = 1000
	DefaultStatusTimeoutMs  = 1000
	DefaultBreakerFailures  = 3
	DefaultBreakerOpenMs    = 5000
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	m := &cfg.Monitor

	if m.Refresh.Hz == 0 {
		m.Refresh.Hz = DefaultRefreshHz
	}

	for i := range m.Host.Properties {
		m.Host.Properties[i].Key = strings.TrimSpace(m.Host.Properties[i].Key)
	}

	for i := range m.StartupCommands {
		m.StartupCommands[i] = strings.TrimSpace(m.StartupCommands[i])
	}

	m.Log.Level = strings.ToLower(m.Log.Level)
	if m.Log.Level == "" {
		m.Log.Level = DefaultLogLevel
	}
	m.Log.Format = strings.ToLower(m.Log.Format)
	if m.Log.Format == "" {
		m.Log.Format = DefaultLogFormat
	}

	// ------------------------------------------------------------
	// STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	s := m.Status
	if s == nil {
		return
	}

	if s.IntervalMs == 0 {
		s.IntervalMs = DefaultStatusIntervalMs
	}
	if s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultStatusTimeoutMs
	}
	if s.Breaker.MaxFailures == 0 {
		s.Breaker.MaxFailures = DefaultBreakerFailures
	}
	if s.Breaker.OpenMs == 0 {
		s.Breaker.OpenMs = DefaultBreakerOpenMs
	}

	// ASCII already validated; truncate to 16 characters.
	if len(s.DeviceName) > 16 {
		s.DeviceName = s.DeviceName[:16]
	}
}
