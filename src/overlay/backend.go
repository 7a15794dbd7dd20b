package overlay

import (
	"github.com/go-gl/mathgl/mgl32"

	"goslop/src/selection"
)

// Model is the selection state machine the loop drives.
type Model interface {
	Update(dt float64)
	Draw(transform mgl32.Mat4)
	Running() bool
	SelectedWindow() uint32
	Rect() selection.Rect
	Close()
}

// Input is the per-frame input snapshot. It doubles as the model's
// pointer.
type Input interface {
	Update()
	Position() selection.Point
	Button(n int) bool
	HoverWindow() uint32
	AnyKeyDown() bool
	Close()
}

// Frame is what a backend needs to render one iteration.
type Frame struct {
	Model Model
	Mouse selection.Point
	// Elapsed is the time since the run started, in seconds.
	Elapsed float64
}

// Backend renders the selection. Both variants are driven by the same
// loop so they terminate identically.
type Backend interface {
	Name() string
	// Rectangle is the renderer handed to the selection model. The model
	// owns it once built.
	Rectangle() selection.Rectangle
	// OverlayWindow is the transient window whose death ends a run.
	OverlayWindow() uint32
	Render(f Frame) error
	Close()
}
