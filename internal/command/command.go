// internal/command/command.go
package command

// Name is a payload-free command understood by the dispatcher.
type Name string

// The full command set. Anything else is not implemented.
const (
	OptimizeImageCache           Name = "optimizeImageCache"
	OptimizeRenderingPerformance Name = "optimizeRenderingPerformance"
	MonitorFrameRate             Name = "monitorFrameRate"
	StopMonitoringFrameRate      Name = "stopMonitoringFrameRate"
)

// Names lists the recognised commands in a stable order.
func Names() []Name {
	return []Name{
		OptimizeImageCache,
		OptimizeRenderingPerformance,
		MonitorFrameRate,
		StopMonitoringFrameRate,
	}
}

// Result is the only thing a caller ever observes.
type Result int

const (
	Success Result = iota
	NotImplemented
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case NotImplemented:
		return "not-implemented"
	default:
		return "unknown"
	}
}
