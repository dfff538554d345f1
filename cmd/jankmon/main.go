// cmd/jankmon/main.go
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/jank-monitor/internal/command"
	"github.com/tamzrod/jank-monitor/internal/config"
	"github.com/tamzrod/jank-monitor/internal/frame"
	"github.com/tamzrod/jank-monitor/internal/hostprops"
	"github.com/tamzrod/jank-monitor/internal/loop"
	"github.com/tamzrod/jank-monitor/internal/metrics"
	"github.com/tamzrod/jank-monitor/internal/poller"
	"github.com/tamzrod/jank-monitor/internal/refresh"
	"github.com/tamzrod/jank-monitor/internal/remedy"
	"github.com/tamzrod/jank-monitor/internal/status"
	"github.com/tamzrod/jank-monitor/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: jankmon <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	logger := NewLogger(cfg.Monitor.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Monitor, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("jankmon stopped", "err", err)
		os.Exit(1)
	}
}

// app is the wired core: refresh source, event loop and everything running on it.
type app struct {
	src      *refresh.Source
	loop     *loop.Loop
	monitor  *frame.Monitor
	registry *prometheus.Registry
}

// build wires the core without starting anything.
func build(mc config.MonitorConfig, clk clock.Clock, tr *http.Transport, logger *slog.Logger) (*app, error) {
	src := refresh.New(clk, mc.Refresh.Hz)

	l, err := loop.New(loop.Config{Clock: src, Logger: logger})
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	renderer, err := remedy.NewRenderer(l)
	if err != nil {
		return nil, err
	}

	mon, err := frame.New(frame.Config{
		Clock:      l,
		Remediator: renderer,
		Observer:   collector,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	store, err := hostprops.NewTransportStore(tr)
	if err != nil {
		return nil, err
	}

	props := make([]remedy.Property, 0, len(mc.Host.Properties))
	for _, p := range mc.Host.Properties {
		props = append(props, remedy.Property{Key: p.Key, Value: p.Value})
	}
	tuner, err := remedy.NewCacheTuner(store, props)
	if err != nil {
		return nil, err
	}

	d, err := command.NewDispatcher(command.Config{
		Monitor:  mon,
		Renderer: renderer,
		Tuner:    tuner,
		Observer: collector,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	l.Attach(d, mon)

	return &app{src: src, loop: l, monitor: mon, registry: reg}, nil
}

func run(ctx context.Context, mc config.MonitorConfig, logger *slog.Logger, in io.Reader, out io.Writer) error {
	tr, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		tr = &http.Transport{}
	}

	a, err := build(mc, clock.New(), tr, logger)
	if err != nil {
		return err
	}

	return serve(ctx, a, mc, logger, in, out)
}

// serve runs the wired app until ctx ends or a component fails.
// A setup failure cancels the components already started and waits for them.
func serve(ctx context.Context, a *app, mc config.MonitorConfig, logger *slog.Logger, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	abort := func(err error) error {
		cancel()
		_ = g.Wait()
		return err
	}

	// ---- core ----
	g.Go(func() error {
		a.src.Run(ctx)
		return nil
	})
	g.Go(func() error {
		a.loop.Run(ctx)
		return nil
	})

	if err := runStartupCommands(ctx, a.loop, mc.StartupCommands, logger); err != nil {
		return abort(err)
	}

	// ---- status export (optional) ----
	if mc.Status != nil {
		if err := startStatusExport(ctx, g, *mc.Status, a.loop, logger); err != nil {
			return abort(err)
		}
	}

	// ---- metrics (optional) ----
	if mc.Metrics.Listen != "" {
		startMetrics(ctx, g, mc.Metrics.Listen, a.registry, logger)
	}

	// Stdin is not cancellable: the reader is left behind on shutdown.
	go func() {
		if err := serveCommands(ctx, a.loop, in, out); err != nil && !errors.Is(err, loop.ErrStopped) && !errors.Is(err, context.Canceled) {
			logger.Warn("command input closed", "err", err)
		}
	}()

	logger.Info("jankmon running",
		"refresh_interval", a.src.Interval(),
		"jank_threshold", frame.JankThreshold,
		"status_export", mc.Status != nil,
		"metrics", mc.Metrics.Listen,
	)

	return g.Wait()
}

func startStatusExport(ctx context.Context, g *errgroup.Group, sc config.StatusConfig, src poller.Source, logger *slog.Logger) error {
	sw, closeWriter, err := writer.BuildStatusWriter(sc)
	if err != nil {
		return err
	}

	p, err := poller.New(poller.Config{
		Interval: time.Duration(sc.IntervalMs) * time.Millisecond,
	}, src)
	if err != nil {
		_ = closeWriter()
		return err
	}

	results := make(chan poller.PollResult)
	logger = logger.With("component", "status", "endpoint", sc.Endpoint)

	// poller producer
	g.Go(func() error {
		p.Run(ctx, results)
		return nil
	})

	// Orchestrator: delivery only, failures are logged and retried next poll.
	g.Go(func() error {
		defer closeWriter()

		// Full block write on start (identity re-assert).
		if err := sw.WriteStatus(status.Snapshot{Health: status.HealthUnknown}); err != nil {
			logger.Warn("status write failed on start", "err", err)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case res := <-results:
				if res.Err != nil {
					logger.Warn("status poll failed", "err", res.Err)
				}
				if err := sw.WriteStatus(res.Snapshot); err != nil {
					logger.Warn("status write failed", "err", err)
				}
			}
		}
	})

	return nil
}

func startMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
