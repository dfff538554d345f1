// internal/command/dispatcher.go
package command

import (
	"errors"
	"fmt"
	"log/slog"
)

// Monitor is the frame monitor toggle.
type Monitor interface {
	Start()
	Stop()
}

// Action is a one-shot remediation or tuning step.
type Action interface {
	Trigger() error
}

// Tuner is the host image/network tuning step.
type Tuner interface {
	Tune() error
}

// Observer is notified of every dispatched command. Optional.
type Observer interface {
	OnCommand(name string, res Result)
}

// Config wires the dispatcher to its collaborators.
type Config struct {
	Monitor  Monitor
	Renderer Action
	Tuner    Tuner
	Observer Observer     // optional
	Logger   *slog.Logger // optional
}

// Dispatcher maps command names to actions.
// Internal failures are logged and never change the result.
type Dispatcher struct {
	handlers map[Name]func() error
	observer Observer
	logger   *slog.Logger
}

// NewDispatcher builds a dispatcher over the four known commands.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Monitor == nil {
		return nil, errors.New("command: monitor required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("command: renderer required")
	}
	if cfg.Tuner == nil {
		return nil, errors.New("command: tuner required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		observer: cfg.Observer,
		logger:   logger.With("component", "dispatcher"),
	}

	d.handlers = map[Name]func() error{
		OptimizeImageCache:           cfg.Tuner.Tune,
		OptimizeRenderingPerformance: cfg.Renderer.Trigger,
		MonitorFrameRate: func() error {
			cfg.Monitor.Start()
			return nil
		},
		StopMonitoringFrameRate: func() error {
			cfg.Monitor.Stop()
			return nil
		},
	}

	return d, nil
}

// Dispatch runs the named command and reports Success or NotImplemented.
func (d *Dispatcher) Dispatch(name string) Result {
	res := d.dispatch(Name(name))
	if d.observer != nil {
		d.observer.OnCommand(name, res)
	}
	return res
}

func (d *Dispatcher) dispatch(name Name) Result {
	h, ok := d.handlers[name]
	if !ok {
		d.logger.Debug("command not implemented", "command", string(name))
		return NotImplemented
	}

	// The error is deliberately dropped here: a failed optimization must
	// never fail the command.
	if err := run(h); err != nil {
		d.logger.Warn("command failed internally",
			"command", string(name),
			"err", err,
		)
	}
	return Success
}

func run(h func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command: panic: %v", p)
		}
	}()
	return h()
}
