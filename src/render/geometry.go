package render

import "goslop/src/selection"

// borderRects splits the frame of width border around r into four bands.
// With fill the interior r is appended as a fifth rectangle.
func borderRects(r selection.Rect, border float32, fill bool) []selection.Rect {
	outer := outerRect(r, border)
	rects := []selection.Rect{
		{X: outer.X, Y: outer.Y, W: outer.W, H: border},
		{X: outer.X, Y: r.Y + r.H, W: outer.W, H: border},
		{X: outer.X, Y: r.Y, W: border, H: r.H},
		{X: r.X + r.W, Y: r.Y, W: border, H: r.H},
	}
	if fill {
		rects = append(rects, r)
	}
	return rects
}

func outerRect(r selection.Rect, border float32) selection.Rect {
	return selection.Rect{X: r.X - border, Y: r.Y - border, W: r.W + 2*border, H: r.H + 2*border}
}

// triangles expands rectangles into two triangles each (x, y pairs).
func triangles(rects []selection.Rect) []float32 {
	out := make([]float32, 0, len(rects)*12)
	for _, r := range rects {
		x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
		out = append(out,
			x0, y0, x1, y0, x1, y1,
			x0, y0, x1, y1, x0, y1,
		)
	}
	return out
}
