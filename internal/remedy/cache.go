// internal/remedy/cache.go
package remedy

import (
	"errors"
	"fmt"

	"github.com/tamzrod/jank-monitor/internal/hostprops"
)

// Property is one host key/value pair applied by the cache tuner.
type Property struct {
	Key   string
	Value string
}

// DefaultCacheProperties keep image connections alive and widen the pool.
var DefaultCacheProperties = []Property{
	{Key: hostprops.KeyKeepAlive, Value: "true"},
	{Key: hostprops.KeyMaxConnections, Value: "30"},
}

// CacheTuner applies a fixed set of network/image-handling properties.
// One-shot: it keeps no state between calls.
type CacheTuner struct {
	store hostprops.Store
	props []Property
}

// NewCacheTuner builds a tuner. Empty props fall back to DefaultCacheProperties.
func NewCacheTuner(store hostprops.Store, props []Property) (*CacheTuner, error) {
	if store == nil {
		return nil, errors.New("remedy: property store required")
	}
	if len(props) == 0 {
		props = DefaultCacheProperties
	}
	cp := make([]Property, len(props))
	copy(cp, props)
	return &CacheTuner{store: store, props: cp}, nil
}

// Tune attempts every property and returns the joined failures.
func (t *CacheTuner) Tune() error {
	var errs []error
	for _, p := range t.props {
		if err := t.store.SetProperty(p.Key, p.Value); err != nil {
			errs = append(errs, fmt.Errorf("remedy: set %s: %w", p.Key, err))
		}
	}
	return errors.Join(errs...)
}
