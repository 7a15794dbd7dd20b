// Package overlay runs one interactive selection: it picks a rendering
// backend, drives the frame loop and returns the selected rectangle.
package overlay

import (
	"context"

	"goslop/src/config"
)

// Result is the selected rectangle in screen coordinates plus the window
// it came from (0 for a dragged region).
type Result struct {
	X, Y, W, H float32
	WindowID   uint32
}

// Selector defines a synchronous selection API. The call is blocking and
// MUST be invoked from the goroutine that locked the main OS thread.
// Returns (result, cancelled, error). If cancelled is true the result
// holds the last rectangle seen and err is nil.
type Selector interface {
	Select(ctx context.Context) (Result, bool, error)
}

// NewSelector returns the X11 implementation bound to opts.
func NewSelector(opts config.Options, quiet bool) Selector {
	return &x11Selector{opts: opts.Clone(), quiet: quiet}
}

type x11Selector struct {
	opts  config.Options
	quiet bool
}

func (s *x11Selector) Select(ctx context.Context) (Result, bool, error) {
	var cancelled bool
	res, err := Select(ctx, s.opts, &cancelled, s.quiet)
	if err != nil {
		return Result{}, false, err
	}
	return res, cancelled, nil
}
