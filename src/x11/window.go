package x11

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// Geometry is a window rectangle in root coordinates, border included.
type Geometry struct {
	X, Y, Width, Height int
}

// WindowGeometry returns the on-screen rectangle of win.
func (s *Session) WindowGeometry(win xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(s.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("get geometry of %d: %w", win, err)
	}
	pos, err := xproto.TranslateCoordinates(s.conn, win, s.Root(), 0, 0).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("translate coordinates of %d: %w", win, err)
	}
	bw := int(geom.BorderWidth)
	return Geometry{
		X:      int(pos.DstX) - bw,
		Y:      int(pos.DstY) - bw,
		Width:  int(geom.Width) + 2*bw,
		Height: int(geom.Height) + 2*bw,
	}, nil
}

// ClientWindow descends from a window manager frame to the application
// window carrying WM_STATE. It returns frame itself when nothing below it
// qualifies.
func (s *Session) ClientWindow(frame xproto.Window) xproto.Window {
	wmState, err := s.Atom("WM_STATE")
	if err != nil {
		return frame
	}
	queue := []xproto.Window{frame}
	for len(queue) > 0 {
		win := queue[0]
		queue = queue[1:]
		if s.hasProperty(win, wmState) {
			return win
		}
		tree, err := xproto.QueryTree(s.conn, win).Reply()
		if err != nil {
			continue
		}
		queue = append(queue, tree.Children...)
	}
	return frame
}

func (s *Session) hasProperty(win xproto.Window, prop xproto.Atom) bool {
	reply, err := xproto.GetProperty(s.conn, false, win, prop, xproto.GetPropertyTypeAny, 0, 0).Reply()
	if err != nil {
		return false
	}
	return reply.Type != xproto.AtomNone
}

// TopLevelAt returns the topmost viewable child of the root containing
// the root point (x, y), skipping skip. It returns the root window when
// nothing else is there.
func (s *Session) TopLevelAt(x, y int, skip xproto.Window) xproto.Window {
	root := s.Root()
	tree, err := xproto.QueryTree(s.conn, root).Reply()
	if err != nil {
		return root
	}
	attrs := make([]xproto.GetWindowAttributesCookie, len(tree.Children))
	geoms := make([]xproto.GetGeometryCookie, len(tree.Children))
	for i, win := range tree.Children {
		attrs[i] = xproto.GetWindowAttributes(s.conn, win)
		geoms[i] = xproto.GetGeometry(s.conn, xproto.Drawable(win))
	}
	// QueryTree lists children bottom to top.
	for i := len(tree.Children) - 1; i >= 0; i-- {
		win := tree.Children[i]
		attr, err := attrs[i].Reply()
		if err != nil || win == skip || attr.MapState != xproto.MapStateViewable {
			continue
		}
		g, err := geoms[i].Reply()
		if err != nil {
			continue
		}
		if contains(g, x, y) {
			return win
		}
	}
	return root
}

func contains(g *xproto.GetGeometryReply, x, y int) bool {
	bw := int(g.BorderWidth)
	left, top := int(g.X), int(g.Y)
	return x >= left && y >= top &&
		x < left+int(g.Width)+2*bw && y < top+int(g.Height)+2*bw
}
