// internal/hostprops/store.go
package hostprops

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// Well-known keys understood by TransportStore.
const (
	KeyKeepAlive      = "http.keepAlive"
	KeyMaxConnections = "http.maxConnections"
)

// ErrInvalidValue is returned when a property value cannot be applied.
var ErrInvalidValue = errors.New("hostprops: invalid value")

// Store is the host's generic key/value configuration surface.
type Store interface {
	SetProperty(key, value string) error
	Property(key string) (string, bool)
}

// TransportStore applies network properties to an *http.Transport.
// Keys it does not understand are recorded but have no effect.
type TransportStore struct {
	mu    sync.Mutex
	tr    *http.Transport
	props map[string]string
}

// NewTransportStore wraps tr. A nil transport is an error.
func NewTransportStore(tr *http.Transport) (*TransportStore, error) {
	if tr == nil {
		return nil, errors.New("hostprops: transport required")
	}
	return &TransportStore{
		tr:    tr,
		props: make(map[string]string),
	}, nil
}

// SetProperty applies one property. The stored value is only updated on success.
func (s *TransportStore) SetProperty(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("hostprops: empty key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case KeyKeepAlive:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		s.tr.DisableKeepAlives = !on

	case KeyMaxConnections:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		s.tr.MaxConnsPerHost = n
		s.tr.MaxIdleConnsPerHost = n
	}

	s.props[key] = value
	return nil
}

// Property returns the last successfully applied value for key.
func (s *TransportStore) Property(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.props[key]
	return v, ok
}
