package overlay

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// Outcome classifies how the accelerated backend probe ended.
type Outcome int

const (
	// Accelerated means the GL backend was built and is ready.
	Accelerated Outcome = iota
	// Disabled means acceleration was turned off by configuration.
	Disabled
	// CapabilityUnavailable means no compositor owns the screen.
	CapabilityUnavailable
	// ConstructionFailed means a compositor is present but the GL surface
	// could not be created.
	ConstructionFailed
)

func (o Outcome) String() string {
	switch o {
	case Accelerated:
		return "accelerated"
	case Disabled:
		return "disabled"
	case CapabilityUnavailable:
		return "capability-unavailable"
	case ConstructionFailed:
		return "construction-failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

var ErrNoCompositor = errors.New("no compositor")

const (
	noCompositorMessage = "Failed to detect a compositor, OpenGL hardware-accelleration disabled...\n"
	launchFailedMessage = "Failed to launch OpenGL context, --shader parameter will be ignored.\n"
)

// ProbeResult carries the backend when Outcome is Accelerated, otherwise
// the reason and the text to show the user.
type ProbeResult struct {
	Outcome    Outcome
	Backend    Backend
	Err        error
	Diagnostic string
}

// compositorChecker reports compositing manager presence.
type compositorChecker interface {
	HasCompositor() bool
}

// probe decides whether the accelerated backend can run. build is only
// called when acceleration is enabled and a compositor is present. Panics
// in build count as construction failures.
func probe(caps compositorChecker, noOpenGL bool, build func() (Backend, error)) ProbeResult {
	var diag strings.Builder
	if noOpenGL {
		return ProbeResult{Outcome: Disabled}
	}
	if !caps.HasCompositor() {
		diag.WriteString(noCompositorMessage)
		return ProbeResult{Outcome: CapabilityUnavailable, Err: ErrNoCompositor, Diagnostic: diag.String()}
	}

	backend, err := safeBuild(build)
	if err != nil {
		if msg := err.Error(); msg != "" {
			diag.WriteString(msg + "\n")
		}
		return ProbeResult{Outcome: ConstructionFailed, Err: err, Diagnostic: diag.String()}
	}
	return ProbeResult{Outcome: Accelerated, Backend: backend}
}

// panicError is a recovered panic. Its message is empty when the panic
// value carried no text.
type panicError struct {
	msg string
}

func (e panicError) Error() string { return e.msg }

func safeBuild(build func() (Backend, error)) (backend Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("overlay: accelerated backend panicked: %v", r)
			backend = nil
			switch v := r.(type) {
			case error:
				err = panicError{msg: v.Error()}
			case string:
				err = panicError{msg: v}
			default:
				err = panicError{}
			}
		}
	}()
	backend, err = build()
	if err == nil && backend == nil {
		err = errors.New("accelerated backend unavailable")
	}
	return backend, err
}

// report prints the downgrade diagnostic once. Nothing is printed when
// quiet, when acceleration was disabled on purpose, or when the probe
// succeeded.
func report(w io.Writer, res ProbeResult, quiet, noOpenGL bool) {
	log.Printf("overlay: probe outcome %s", res.Outcome)
	if res.Outcome == Accelerated || quiet || noOpenGL {
		return
	}
	msg := res.Diagnostic
	if msg == "" {
		msg = launchFailedMessage
	}
	fmt.Fprint(w, msg)
}
