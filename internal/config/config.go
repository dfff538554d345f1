// internal/config/config.go
package config

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	Refresh         RefreshConfig `yaml:"refresh"`
	Host            HostConfig    `yaml:"host"`
	StartupCommands []string      `yaml:"startup_commands"`
	Status          *StatusConfig `yaml:"status"` // optional, opt-in
	Metrics         MetricsConfig `yaml:"metrics"`
	Log             LogConfig     `yaml:"log"`
}

// ---- REFRESH ----

type RefreshConfig struct {
	Hz int `yaml:"hz"` // 0 => 60
}

// ---- HOST TUNING ----

type HostConfig struct {
	Properties []PropertyConfig `yaml:"properties"` // empty => built-in defaults
}

type PropertyConfig struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// ---- STATUS EXPORT ----

type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms"`

	Breaker BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	MaxFailures uint32 `yaml:"max_failures"`
	OpenMs      int    `yaml:"open_ms"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty => disabled
}

// ---- LOGGING ----

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}
