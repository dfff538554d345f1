// internal/metrics/metrics.go
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/jank-monitor/internal/command"
)

const namespace = "jankmon"

// Collector turns monitor and dispatcher callbacks into Prometheus series.
// It satisfies frame.Observer and command.Observer.
type Collector struct {
	frames   prometheus.Counter
	janks    prometheus.Counter
	deltas   prometheus.Histogram
	commands *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frame deltas measured while monitoring.",
		}),
		janks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jank_frames_total",
			Help:      "Frames whose delta exceeded the jank threshold.",
		}),
		deltas: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_delta_seconds",
			Help:      "Time between consecutive display refreshes.",
			Buckets:   []float64{0.008, 0.0167, 0.025, 0.032, 0.050, 0.100, 0.250, 1},
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Dispatched commands by name and result.",
		}, []string{"command", "result"}),
	}

	for _, col := range []prometheus.Collector{c.frames, c.janks, c.deltas, c.commands} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// OnFrame counts a sampled frame and records its delta.
func (c *Collector) OnFrame(delta time.Duration) {
	c.frames.Inc()
	c.deltas.Observe(delta.Seconds())
}

// OnJank counts a frame over the jank threshold.
func (c *Collector) OnJank(time.Duration) {
	c.janks.Inc()
}

// OnCommand records one dispatch. Unknown names are folded into a single
// label value so callers cannot grow the series set.
func (c *Collector) OnCommand(name string, res command.Result) {
	if res == command.NotImplemented {
		name = "other"
	}
	c.commands.WithLabelValues(name, res.String()).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
