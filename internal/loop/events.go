// internal/loop/events.go
package loop

import (
	"github.com/tamzrod/jank-monitor/internal/command"
	"github.com/tamzrod/jank-monitor/internal/frame"
)

// event is one unit of work executed on the loop goroutine.
type event interface {
	apply(l *Loop)
}

type sampleEvent struct {
	cb     frame.FrameCallback
	sample frame.Sample
}

func (e sampleEvent) apply(*Loop) {
	e.cb(e.sample.TimestampNanos)
}

type commandEvent struct {
	name  string
	reply chan<- command.Result
}

func (e commandEvent) apply(l *Loop) {
	res := command.NotImplemented
	if l.dispatcher != nil {
		res = l.dispatcher.Dispatch(e.name)
	} else {
		l.logger.Warn("command received before dispatcher attached", "command", e.name)
	}
	e.reply <- res
}

type statsEvent struct {
	reply chan<- frame.Stats
}

func (e statsEvent) apply(l *Loop) {
	var st frame.Stats
	if l.stats != nil {
		st = l.stats.Stats()
	}
	e.reply <- st
}
