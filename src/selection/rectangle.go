// Package selection turns pointer input into a selected rectangle or window.
package selection

import "github.com/go-gl/mathgl/mgl32"

// Point is a position in root-window pixel coordinates.
type Point struct {
	X, Y float32
}

// Rect is a selection rectangle in screen coordinates.
type Rect struct {
	X, Y, W, H float32
}

// Rectangle renders the in-progress selection. The GL variant draws into
// the bound framebuffer; the XShape variant manages its own overlay window.
type Rectangle interface {
	// SetPoints places the rectangle between two opposite corners.
	SetPoints(a, b Point)
	Rect() Rect
	Draw(transform mgl32.Mat4)
	Close()
}

// Bounds normalizes two corners into a rectangle grown by padding on
// every side.
func Bounds(a, b Point, padding float32) Rect {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	return Rect{
		X: x0 - padding,
		Y: y0 - padding,
		W: x1 - x0 + 2*padding,
		H: y1 - y0 + 2*padding,
	}
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}
