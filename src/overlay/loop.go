package overlay

import (
	"context"
	"fmt"
	"time"
)

// frameInterval is the fixed sleep after every rendered frame.
const frameInterval = 10 * time.Millisecond

// tertiaryButton cancels the selection while held.
const tertiaryButton = 3

type loopState int

const (
	stateRunning loopState = iota
	stateConfirmed
	stateCancelled
)

func (s loopState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateConfirmed:
		return "confirmed"
	default:
		return "cancelled"
	}
}

// driver is the frame loop shared by both backends.
type driver struct {
	model    Model
	backend  Backend
	input    Input
	keyboard bool
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

// run iterates until the model stops or input cancels. When cancelled is
// non-nil it is rewritten after every iteration. A render error ends the
// run with no result.
func (d *driver) run(ctx context.Context, cancelled *bool) (loopState, error) {
	var start, last time.Time
	for {
		if err := ctx.Err(); err != nil {
			return stateRunning, err
		}

		d.input.Update()

		now := d.now()
		if start.IsZero() {
			start, last = now, now
		}
		dt := now.Sub(last).Seconds()
		last = now

		d.model.Update(dt)

		renderErr := d.backend.Render(Frame{
			Model:   d.model,
			Mouse:   d.input.Position(),
			Elapsed: now.Sub(start).Seconds(),
		})
		d.sleep(d.interval)
		if renderErr != nil {
			return stateRunning, fmt.Errorf("%s backend: %w", d.backend.Name(), renderErr)
		}

		cancel := (d.keyboard && d.input.AnyKeyDown()) || d.input.Button(tertiaryButton)
		if cancelled != nil {
			*cancelled = cancel
		}
		if cancel {
			return stateCancelled, nil
		}
		if !d.model.Running() {
			return stateConfirmed, nil
		}
	}
}
