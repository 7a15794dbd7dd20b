package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"goslop/src/clipboard"
	"goslop/src/overlay"
	"goslop/src/screenshot"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type SelectFunc func(ctx context.Context) (overlay.Result, bool, error)

type ResultTarget interface {
	OnSuccess(res overlay.Result) error
	OnFailure(err error) error
}

type Options struct {
	Select  SelectFunc
	Targets []ResultTarget
}

// Execute runs one selection and hands the result to every target in
// order. The first target error stops delivery and is reported to all
// targets.
func Execute(ctx context.Context, opts Options) (overlay.Result, error) {
	if opts.Select == nil {
		return overlay.Result{}, errors.New("Select is required")
	}
	if len(opts.Targets) == 0 {
		return overlay.Result{}, errors.New("at least one Target is required")
	}

	res, cancelled, err := opts.Select(ctx)
	if err != nil {
		fail(opts.Targets, err)
		return overlay.Result{}, err
	}
	if cancelled {
		fail(opts.Targets, ErrSelectionCancelled)
		return overlay.Result{}, ErrSelectionCancelled
	}
	log.Printf("session: selected %+v", res)

	for _, target := range opts.Targets {
		if err := target.OnSuccess(res); err != nil {
			fail(opts.Targets, err)
			return overlay.Result{}, err
		}
	}
	return res, nil
}

func fail(targets []ResultTarget, err error) {
	for _, target := range targets {
		_ = target.OnFailure(err)
	}
}

type StdoutTarget struct {
	Writer io.Writer
	Format string
}

func (t StdoutTarget) OnSuccess(res overlay.Result) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	text, err := Format(t.Format, res, false)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, text)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}

// ClipboardTarget copies the formatted result to the clipboard. The
// process serves the selection for up to Hold, or until another client
// replaces it.
type ClipboardTarget struct {
	Format string
	Hold   time.Duration
}

func (t ClipboardTarget) OnSuccess(res overlay.Result) error {
	text, err := Format(t.Format, res, false)
	if err != nil {
		return err
	}
	replaced, err := clipboard.Write(text)
	if err != nil {
		return fmt.Errorf("clipboard error: %w", err)
	}
	if t.Hold <= 0 {
		return nil
	}
	timer := time.NewTimer(t.Hold)
	defer timer.Stop()
	select {
	case <-replaced:
	case <-timer.C:
		log.Printf("session: clipboard hold of %s elapsed", t.Hold)
	}
	return nil
}

func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

// CaptureTarget saves a PNG of the selected region to Path.
type CaptureTarget struct {
	Path    string
	capture func(screenshot.Region) ([]byte, error)
}

func (t CaptureTarget) OnSuccess(res overlay.Result) error {
	capture := t.capture
	if capture == nil {
		capture = screenshot.CaptureRegion
	}
	data, err := capture(regionOf(res))
	if err != nil {
		return fmt.Errorf("capture error: %w", err)
	}
	if err := os.WriteFile(t.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.Path, err)
	}
	return nil
}

func (CaptureTarget) OnFailure(err error) error {
	return nil
}

func regionOf(res overlay.Result) screenshot.Region {
	return screenshot.Region{
		X:      round(res.X),
		Y:      round(res.Y),
		Width:  round(res.W),
		Height: round(res.H),
	}
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}
