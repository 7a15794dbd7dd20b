package render

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jezek/xgb/xproto"

	"goslop/src/selection"
	"goslop/src/x11"
)

// ShapeRectangle is the fallback renderer: an override-redirect window
// whose bounding shape is cut down to the selection border. It needs no
// GL and no compositor.
type ShapeRectangle struct {
	sess      *x11.Session
	win       xproto.Window
	border    float32
	padding   float32
	highlight bool

	rect    selection.Rect
	shown   selection.Rect
	mapped  bool
	created bool
}

// NewShapeRectangle creates the overlay window unmapped. It is shown on
// the first Draw.
func NewShapeRectangle(sess *x11.Session, border, padding float32, color [4]float32, highlight bool) (*ShapeRectangle, error) {
	conn := sess.Conn()
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}
	screen := sess.Screen()
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{pixel(color), 1, xproto.EventMaskStructureNotify}).Check()
	if err != nil {
		return nil, fmt.Errorf("create overlay window: %w", err)
	}
	r := &ShapeRectangle{
		sess:      sess,
		win:       win,
		border:    border,
		padding:   padding,
		highlight: highlight,
		created:   true,
	}
	if err := sess.SetInputPassthrough(win); err != nil {
		r.Close()
		return nil, err
	}
	if highlight {
		r.setOpacity(color[3])
	}
	return r, nil
}

// Window is the overlay window id.
func (r *ShapeRectangle) Window() xproto.Window { return r.win }

func (r *ShapeRectangle) SetPoints(a, b selection.Point) {
	r.rect = selection.Bounds(a, b, r.padding)
}

func (r *ShapeRectangle) Rect() selection.Rect { return r.rect }

// Draw moves and reshapes the window to the current rectangle. The
// transform is unused; the window is positioned in root coordinates.
func (r *ShapeRectangle) Draw(_ mgl32.Mat4) {
	if !r.created {
		return
	}
	if r.mapped && r.rect == r.shown {
		return
	}
	conn := r.sess.Conn()
	outer := outerRect(r.rect, r.border)
	w, h := atLeastOne(outer.W), atLeastOne(outer.H)
	xproto.ConfigureWindow(conn, r.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(outer.X)), uint32(int32(outer.Y)), w, h})

	local := r.rect
	local.X, local.Y = r.border, r.border
	if err := r.sess.SetShape(r.win, shapeRects(borderRects(local, r.border, r.highlight))); err != nil {
		log.Printf("render: %v", err)
	}
	if !r.mapped {
		xproto.MapWindow(conn, r.win)
		r.mapped = true
	}
	r.shown = r.rect
}

// Close destroys the overlay window. The server answers with the
// unmap/destroy notifications the caller waits for.
func (r *ShapeRectangle) Close() {
	if !r.created {
		return
	}
	xproto.DestroyWindow(r.sess.Conn(), r.win)
	r.sess.Flush()
	r.created = false
}

func (r *ShapeRectangle) setOpacity(alpha float32) {
	atom, err := r.sess.Atom("_NET_WM_WINDOW_OPACITY")
	if err != nil {
		log.Printf("render: %v", err)
		return
	}
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, opacity(alpha))
	xproto.ChangeProperty(r.sess.Conn(), xproto.PropModeReplace, r.win, atom,
		xproto.AtomCardinal, 32, 1, data)
}

func shapeRects(rects []selection.Rect) []xproto.Rectangle {
	out := make([]xproto.Rectangle, 0, len(rects))
	for _, r := range rects {
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		out = append(out, xproto.Rectangle{
			X:      int16(math.Round(float64(r.X))),
			Y:      int16(math.Round(float64(r.Y))),
			Width:  uint16(math.Round(float64(r.W))),
			Height: uint16(math.Round(float64(r.H))),
		})
	}
	return out
}

// pixel packs a color for a 24-bit TrueColor visual.
func pixel(c [4]float32) uint32 {
	return uint32(channel(c[0]))<<16 | uint32(channel(c[1]))<<8 | uint32(channel(c[2]))
}

func channel(v float32) uint8 {
	return uint8(math.Round(float64(clamp01(v)) * 255))
}

// opacity scales alpha to the CARDINAL range of _NET_WM_WINDOW_OPACITY.
func opacity(alpha float32) uint32 {
	return uint32(math.Round(float64(clamp01(alpha)) * math.MaxUint32))
}

func clamp01(v float32) float32 {
	return float32(math.Max(0, math.Min(1, float64(v))))
}

func atLeastOne(v float32) uint32 {
	if v < 1 {
		return 1
	}
	return uint32(math.Round(float64(v)))
}
