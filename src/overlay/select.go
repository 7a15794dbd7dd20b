package overlay

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"goslop/src/config"
	"goslop/src/selection"
	"goslop/src/singleinstance"
)

// environment is the display-side half of a run: capability checks,
// backend and input construction, window death polling.
type environment interface {
	compositorChecker
	windowWatcher
	newAccelerated() (Backend, error)
	newFallback() (Backend, error)
	newInput(overlay uint32) Input
	windows() selection.WindowLocator
	Close()
}

type orchestrator struct {
	opts     config.Options
	quiet    bool
	stderr   io.Writer
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

func newOrchestrator(opts config.Options, quiet bool) *orchestrator {
	return &orchestrator{
		opts:     opts,
		quiet:    quiet,
		stderr:   os.Stderr,
		interval: frameInterval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Select runs one interactive selection on opts.Display. When cancelled
// is non-nil it tracks, frame by frame, whether the user is cancelling.
// quiet silences the backend downgrade diagnostic. Only one run per
// display may be active; another fails with singleinstance.ErrBusy.
func Select(ctx context.Context, opts config.Options, cancelled *bool, quiet bool) (Result, error) {
	lock, err := singleinstance.Acquire(opts.Display)
	if err != nil {
		return Result{}, err
	}
	defer lock.Release()

	env, err := openX11(opts)
	if err != nil {
		return Result{}, err
	}
	defer env.Close()
	return newOrchestrator(opts, quiet).run(ctx, env, cancelled)
}

func (o *orchestrator) run(ctx context.Context, env environment, cancelled *bool) (Result, error) {
	probed := probe(env, o.opts.NoOpenGL, env.newAccelerated)
	report(o.stderr, probed, o.quiet, o.opts.NoOpenGL)

	backend := probed.Backend
	if backend == nil {
		b, err := env.newFallback()
		if err != nil {
			return Result{}, fmt.Errorf("fallback backend: %w", err)
		}
		backend = b
	}
	log.Printf("overlay: using %s backend", backend.Name())

	in := env.newInput(backend.OverlayWindow())
	model := selection.New(selection.Settings{Tolerance: o.opts.Tolerance}, backend.Rectangle(), in, env.windows())
	teardown := func() {
		model.Close()
		backend.Close()
		in.Close()
	}

	d := &driver{
		model:    model,
		backend:  backend,
		input:    in,
		keyboard: !o.opts.NoKeyboard,
		interval: o.interval,
		now:      o.now,
		sleep:    o.sleep,
	}
	state, err := d.run(ctx, cancelled)
	if err != nil {
		teardown()
		return Result{}, err
	}
	log.Printf("overlay: selection %s", state)

	r := model.Rect()
	result := Result{X: r.X, Y: r.Y, W: r.W, H: r.H, WindowID: model.SelectedWindow()}
	teardown()
	waitForWindowDeath(env, deathWaitTries, deathWaitInterval, o.sleep)
	return result, nil
}
