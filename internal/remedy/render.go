// internal/remedy/render.go
package remedy

import (
	"errors"
	"fmt"

	"github.com/tamzrod/jank-monitor/internal/frame"
)

// FramePoster is the part of the display-refresh clock the renderer needs.
type FramePoster interface {
	PostFrameCallback(cb frame.FrameCallback) (frame.CallbackID, error)
}

// Renderer requests that the next display refresh be produced eagerly.
// It owns no monitor state. Requests made while one is already pending
// coalesce into that request.
//
// Renderer must be used from the goroutine that delivers its frame callbacks.
type Renderer struct {
	poster  FramePoster
	pending bool
}

// NewRenderer builds a renderer on poster.
func NewRenderer(poster FramePoster) (*Renderer, error) {
	if poster == nil {
		return nil, errors.New("remedy: frame poster required")
	}
	return &Renderer{poster: poster}, nil
}

// Trigger posts an empty frame callback so the host renders the next frame.
func (r *Renderer) Trigger() error {
	if r.pending {
		return nil
	}

	if _, err := r.poster.PostFrameCallback(func(int64) {
		r.pending = false
	}); err != nil {
		return fmt.Errorf("remedy: request frame: %w", err)
	}

	r.pending = true
	return nil
}

// Pending reports whether an eager frame request is outstanding.
func (r *Renderer) Pending() bool { return r.pending }
