package x11

import (
	"fmt"

	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
)

func (s *Session) initShape() error {
	if s.shapeReady {
		return nil
	}
	if err := shape.Init(s.conn); err != nil {
		return fmt.Errorf("shape extension unavailable: %w", err)
	}
	s.shapeReady = true
	return nil
}

// SetShape replaces the bounding region of win with rects (window coordinates).
func (s *Session) SetShape(win xproto.Window, rects []xproto.Rectangle) error {
	if err := s.initShape(); err != nil {
		return err
	}
	shape.Rectangles(s.conn, shape.SoSet, shape.SkBounding, xproto.ClipOrderingUnsorted, win, 0, 0, rects)
	return nil
}

// SetInputPassthrough gives win an empty input region so pointer queries
// and clicks fall through to the windows below it.
func (s *Session) SetInputPassthrough(win xproto.Window) error {
	if err := s.initShape(); err != nil {
		return err
	}
	shape.Rectangles(s.conn, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted, win, 0, 0, nil)
	return nil
}
