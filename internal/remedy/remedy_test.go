// internal/remedy/remedy_test.go
package remedy

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/jank-monitor/internal/frame"
	"github.com/tamzrod/jank-monitor/internal/hostprops"
)

// ---- fakes ----

type fakePoster struct {
	cbs []frame.FrameCallback
	err error
}

func (p *fakePoster) PostFrameCallback(cb frame.FrameCallback) (frame.CallbackID, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.cbs = append(p.cbs, cb)
	return frame.CallbackID(len(p.cbs)), nil
}

type fakeStore struct {
	set    map[string]string
	failOn map[string]bool
}

func (s *fakeStore) SetProperty(key, value string) error {
	if s.failOn[key] {
		return errors.New("denied")
	}
	if s.set == nil {
		s.set = make(map[string]string)
	}
	s.set[key] = value
	return nil
}

func (s *fakeStore) Property(key string) (string, bool) {
	v, ok := s.set[key]
	return v, ok
}

// ---- renderer ----

func TestRenderer_RequestsFrame(t *testing.T) {
	p := &fakePoster{}
	r, err := NewRenderer(p)
	require.NoError(t, err)

	require.NoError(t, r.Trigger())
	assert.Len(t, p.cbs, 1)
	assert.True(t, r.Pending())
}

func TestRenderer_CoalescesWithinInterval(t *testing.T) {
	p := &fakePoster{}
	r, err := NewRenderer(p)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Trigger())
	}
	assert.Len(t, p.cbs, 1)

	// Once the frame is produced, a new request is posted again.
	p.cbs[0](0)
	assert.False(t, r.Pending())
	require.NoError(t, r.Trigger())
	assert.Len(t, p.cbs, 2)
}

func TestRenderer_PostFailure(t *testing.T) {
	p := &fakePoster{err: errors.New("closed")}
	r, err := NewRenderer(p)
	require.NoError(t, err)

	require.Error(t, r.Trigger())
	assert.False(t, r.Pending())
}

func TestNewRenderer_NilPoster(t *testing.T) {
	_, err := NewRenderer(nil)
	require.Error(t, err)
}

// ---- cache tuner ----

func TestCacheTuner_DefaultProperties(t *testing.T) {
	s := &fakeStore{}
	tuner, err := NewCacheTuner(s, nil)
	require.NoError(t, err)

	require.NoError(t, tuner.Tune())
	assert.Equal(t, "true", s.set[hostprops.KeyKeepAlive])
	assert.Equal(t, "30", s.set[hostprops.KeyMaxConnections])
}

func TestCacheTuner_AttemptsAllKeys(t *testing.T) {
	s := &fakeStore{failOn: map[string]bool{hostprops.KeyKeepAlive: true}}
	tuner, err := NewCacheTuner(s, nil)
	require.NoError(t, err)

	err = tuner.Tune()
	require.Error(t, err)
	assert.Contains(t, err.Error(), hostprops.KeyKeepAlive)
	assert.Equal(t, "30", s.set[hostprops.KeyMaxConnections])
}

func TestCacheTuner_CustomProperties(t *testing.T) {
	s := &fakeStore{}
	tuner, err := NewCacheTuner(s, []Property{{Key: "image.cache.mb", Value: "64"}})
	require.NoError(t, err)

	require.NoError(t, tuner.Tune())
	assert.Equal(t, map[string]string{"image.cache.mb": "64"}, s.set)
}

func TestCacheTuner_OnTransportStore(t *testing.T) {
	store, err := hostprops.NewTransportStore(&http.Transport{})
	require.NoError(t, err)

	tuner, err := NewCacheTuner(store, []Property{
		{Key: hostprops.KeyKeepAlive, Value: "true"},
		{Key: hostprops.KeyMaxConnections, Value: "zero"},
	})
	require.NoError(t, err)

	err = tuner.Tune()
	require.ErrorIs(t, err, hostprops.ErrInvalidValue)

	v, ok := store.Property(hostprops.KeyKeepAlive)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}
