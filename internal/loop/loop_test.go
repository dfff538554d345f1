// internal/loop/loop_test.go
package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/jank-monitor/internal/command"
	"github.com/tamzrod/jank-monitor/internal/frame"
	"github.com/tamzrod/jank-monitor/internal/refresh"
	"github.com/tamzrod/jank-monitor/internal/remedy"
)

type failingStore struct{}

func (failingStore) SetProperty(key, value string) error { return errors.New("read-only host") }
func (failingStore) Property(key string) (string, bool)  { return "", false }

type harness struct {
	mock   *clock.Mock
	src    *refresh.Source
	loop   *Loop
	mon    *frame.Monitor
	cancel context.CancelFunc
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mock := clock.NewMock()
	src := refresh.New(mock, 60)

	l, err := New(Config{Clock: src})
	require.NoError(t, err)

	rend, err := remedy.NewRenderer(l)
	require.NoError(t, err)

	mon, err := frame.New(frame.Config{Clock: l, Remediator: rend})
	require.NoError(t, err)

	tuner, err := remedy.NewCacheTuner(failingStore{}, nil)
	require.NoError(t, err)

	d, err := command.NewDispatcher(command.Config{Monitor: mon, Renderer: rend, Tuner: tuner})
	require.NoError(t, err)

	l.Attach(d, mon)

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)

	return &harness{mock: mock, src: src, loop: l, mon: mon, cancel: cancel}
}

func (h *harness) dispatch(t *testing.T, name command.Name) command.Result {
	t.Helper()
	res, err := h.loop.Dispatch(context.Background(), string(name))
	require.NoError(t, err)
	return res
}

// pulse fires one refresh and waits until the loop has processed it.
func (h *harness) pulse(t *testing.T) frame.Stats {
	t.Helper()
	h.src.Pulse()
	st, err := h.loop.Stats(context.Background())
	require.NoError(t, err)
	return st
}

func TestNew_RequiresClock(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestMonitorThenJankRemediatesOnce(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, command.Success, h.dispatch(t, command.MonitorFrameRate))

	st := h.pulse(t) // t=0
	assert.Zero(t, st.Remediations)

	h.mock.Add(50 * time.Millisecond)
	st = h.pulse(t) // t=50ms

	assert.Equal(t, uint64(1), st.Remediations)
	assert.Equal(t, uint64(1), st.JankFrames)
	assert.Equal(t, 50*time.Millisecond, st.LastDelta)
}

func TestStopBetweenSamplesNeverRemediates(t *testing.T) {
	h := newHarness(t)

	h.dispatch(t, command.MonitorFrameRate)
	h.pulse(t) // t=0

	assert.Equal(t, command.Success, h.dispatch(t, command.StopMonitoringFrameRate))

	h.mock.Add(50 * time.Millisecond)
	st := h.pulse(t)

	assert.Zero(t, st.Remediations)
	assert.False(t, st.Active)
	assert.Zero(t, h.src.Pending())
}

func TestSteadyFramesNeverRemediate(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, command.MonitorFrameRate)

	var st frame.Stats
	for i := 0; i < 10; i++ {
		st = h.pulse(t)
		h.mock.Add(16 * time.Millisecond)
	}

	assert.Equal(t, uint64(10), st.Samples)
	assert.Zero(t, st.Remediations)
}

func TestRestartDoesNotComputeStaleDelta(t *testing.T) {
	h := newHarness(t)

	h.dispatch(t, command.MonitorFrameRate)
	h.pulse(t)
	h.dispatch(t, command.StopMonitoringFrameRate)

	h.mock.Add(time.Second)
	h.dispatch(t, command.MonitorFrameRate)
	st := h.pulse(t)

	assert.Zero(t, st.Remediations)
	assert.True(t, st.Active)
}

func TestUnknownCommandNotImplemented(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, command.NotImplemented, h.dispatch(t, command.Name("clearCache")))
}

func TestImageCacheFailureStillSuccess(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, command.Success, h.dispatch(t, command.OptimizeImageCache))
}

func TestDirectRenderingCommandRequestsFrame(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, command.Success, h.dispatch(t, command.OptimizeRenderingPerformance))
	assert.Equal(t, 1, h.src.Pending())

	// Repeated requests within one interval coalesce.
	h.dispatch(t, command.OptimizeRenderingPerformance)
	assert.Equal(t, 1, h.src.Pending())

	st := h.pulse(t)
	assert.False(t, st.Active)
	assert.Zero(t, h.src.Pending())
}

func TestDispatchAfterStop(t *testing.T) {
	h := newHarness(t)
	h.cancel()

	require.Eventually(t, func() bool {
		_, err := h.loop.Dispatch(context.Background(), string(command.MonitorFrameRate))
		return errors.Is(err, ErrStopped)
	}, time.Second, 5*time.Millisecond)
}

func TestDispatchHonoursContext(t *testing.T) {
	src := refresh.New(clock.NewMock(), 60)
	l, err := New(Config{Clock: src, Buffer: 1})
	require.NoError(t, err)

	// Loop never runs: the first event fills the buffer, the reply never comes.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Dispatch(ctx, string(command.MonitorFrameRate))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
