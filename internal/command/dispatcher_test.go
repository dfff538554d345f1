// internal/command/dispatcher_test.go
package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeMonitor struct {
	starts, stops int
}

func (m *fakeMonitor) Start() { m.starts++ }
func (m *fakeMonitor) Stop()  { m.stops++ }

type fakeAction struct {
	calls int
	err   error
}

func (a *fakeAction) Trigger() error {
	a.calls++
	return a.err
}

type fakeTuner struct {
	calls int
	err   error
	panic bool
}

func (t *fakeTuner) Tune() error {
	t.calls++
	if t.panic {
		panic("tuning exploded")
	}
	return t.err
}

type recordingObserver struct {
	seen []string
}

func (o *recordingObserver) OnCommand(name string, res Result) {
	o.seen = append(o.seen, name+"="+res.String())
}

type fixture struct {
	mon   *fakeMonitor
	rend  *fakeAction
	tuner *fakeTuner
	obs   *recordingObserver
	d     *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mon:   &fakeMonitor{},
		rend:  &fakeAction{},
		tuner: &fakeTuner{},
		obs:   &recordingObserver{},
	}
	d, err := NewDispatcher(Config{
		Monitor:  f.mon,
		Renderer: f.rend,
		Tuner:    f.tuner,
		Observer: f.obs,
	})
	require.NoError(t, err)
	f.d = d
	return f
}

// ---- tests ----

func TestNewDispatcher_RequiresCollaborators(t *testing.T) {
	_, err := NewDispatcher(Config{Renderer: &fakeAction{}, Tuner: &fakeTuner{}})
	require.Error(t, err)
	_, err = NewDispatcher(Config{Monitor: &fakeMonitor{}, Tuner: &fakeTuner{}})
	require.Error(t, err)
	_, err = NewDispatcher(Config{Monitor: &fakeMonitor{}, Renderer: &fakeAction{}})
	require.Error(t, err)
}

func TestDispatch_KnownCommands(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, Success, f.d.Dispatch(string(MonitorFrameRate)))
	assert.Equal(t, Success, f.d.Dispatch(string(StopMonitoringFrameRate)))
	assert.Equal(t, Success, f.d.Dispatch(string(OptimizeRenderingPerformance)))
	assert.Equal(t, Success, f.d.Dispatch(string(OptimizeImageCache)))

	assert.Equal(t, 1, f.mon.starts)
	assert.Equal(t, 1, f.mon.stops)
	assert.Equal(t, 1, f.rend.calls)
	assert.Equal(t, 1, f.tuner.calls)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	tests := []string{"", "monitorframerate", "optimizeImageCache ", "reboot"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			assert.Equal(t, NotImplemented, f.d.Dispatch(name))
			assert.Zero(t, f.mon.starts+f.mon.stops+f.rend.calls+f.tuner.calls)
		})
	}
}

func TestDispatch_TuningFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.tuner.err = errors.New("property write denied")

	assert.Equal(t, Success, f.d.Dispatch(string(OptimizeImageCache)))
	assert.Equal(t, 1, f.tuner.calls)
}

func TestDispatch_TuningPanicStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.tuner.panic = true

	assert.NotPanics(t, func() {
		assert.Equal(t, Success, f.d.Dispatch(string(OptimizeImageCache)))
	})
}

func TestDispatch_RenderFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.rend.err = errors.New("no scheduler")

	assert.Equal(t, Success, f.d.Dispatch(string(OptimizeRenderingPerformance)))
}

func TestDispatch_ObserverSeesEveryCommand(t *testing.T) {
	f := newFixture(t)

	f.d.Dispatch(string(MonitorFrameRate))
	f.d.Dispatch("bogus")

	assert.Equal(t, []string{"monitorFrameRate=success", "bogus=not-implemented"}, f.obs.seen)
}

func TestNamesCoverHandlers(t *testing.T) {
	f := newFixture(t)
	require.Len(t, Names(), len(f.d.handlers))
	for _, n := range Names() {
		_, ok := f.d.handlers[n]
		assert.True(t, ok, "missing handler for %s", n)
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "not-implemented", NotImplemented.String())
	assert.Equal(t, "unknown", Result(9).String())
}
