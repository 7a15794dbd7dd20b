// Package input polls pointer and keyboard state from the X server once per frame.
package input

import (
	"log"

	"github.com/jezek/xgb/xproto"

	"goslop/src/selection"
	"goslop/src/x11"
)

// XC_crosshair from the standard cursor font.
const crosshairGlyph = 34

var buttonMasks = [...]uint16{
	1: xproto.KeyButMaskButton1,
	2: xproto.KeyButMaskButton2,
	3: xproto.KeyButMaskButton3,
	4: xproto.KeyButMaskButton4,
	5: xproto.KeyButMaskButton5,
}

// grabMask selects only button events. Position and hover come from
// QueryPointer, so motion events would just pile up in the queue.
const grabMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease

// pointerSource answers the per-frame pointer queries. *x11.Session
// implements it.
type pointerSource interface {
	Root() xproto.Window
	QueryPointer() (*xproto.QueryPointerReply, error)
	TopLevelAt(x, y int, skip xproto.Window) xproto.Window
	ClientWindow(frame xproto.Window) xproto.Window
}

// Mouse is a per-frame snapshot of the pointer.
type Mouse struct {
	sess          *x11.Session
	src           pointerSource
	ignore        xproto.Window
	noDecorations bool
	cursor        xproto.Cursor
	grabbed       bool

	pos   selection.Point
	mask  uint16
	hover xproto.Window
}

// NewMouse grabs the pointer with a crosshair cursor. ignore is the overlay
// window, which never counts as the hovered window.
func NewMouse(sess *x11.Session, noDecorations bool, ignore xproto.Window) *Mouse {
	m := &Mouse{sess: sess, src: sess, ignore: ignore, noDecorations: noDecorations}
	m.cursor = createCursor(sess)
	m.grab()
	m.Update()
	return m
}

func createCursor(sess *x11.Session) xproto.Cursor {
	conn := sess.Conn()
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return 0
	}
	name := "cursor"
	if err := xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check(); err != nil {
		log.Printf("input: cursor font unavailable: %v", err)
		return 0
	}
	defer xproto.CloseFont(conn, font)

	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0
	}
	xproto.CreateGlyphCursor(conn, cursor, font, font, crosshairGlyph, crosshairGlyph+1,
		0xffff, 0xffff, 0xffff, 0, 0, 0)
	return cursor
}

func (m *Mouse) grab() {
	reply, err := xproto.GrabPointer(m.sess.Conn(), true, m.sess.Root(), uint16(grabMask),
		xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, m.cursor,
		xproto.TimeCurrentTime).Reply()
	if err != nil {
		log.Printf("input: pointer grab failed: %v", err)
		return
	}
	if reply.Status != xproto.GrabStatusSuccess {
		log.Printf("input: pointer grab refused, status %d", reply.Status)
		return
	}
	m.grabbed = true
}

// Update refreshes position, button mask and the hovered top-level
// window. Over the bare desktop the hovered window is the root. When the
// overlay itself is under the pointer, the window beneath it is looked up.
func (m *Mouse) Update() {
	reply, err := m.src.QueryPointer()
	if err != nil {
		log.Printf("input: query pointer failed: %v", err)
		return
	}
	m.pos = selection.Point{X: float32(reply.RootX), Y: float32(reply.RootY)}
	m.mask = reply.Mask

	root := m.src.Root()
	switch reply.Child {
	case xproto.WindowNone:
		m.hover = root
	case m.ignore:
		m.hover = m.src.TopLevelAt(int(reply.RootX), int(reply.RootY), m.ignore)
	default:
		m.hover = reply.Child
	}
	if m.noDecorations && m.hover != root {
		m.hover = m.src.ClientWindow(m.hover)
	}
}

// Position returns the pointer in root coordinates.
func (m *Mouse) Position() selection.Point { return m.pos }

// Button reports whether pointer button n (1-5) is held.
func (m *Mouse) Button(n int) bool {
	if n <= 0 || n >= len(buttonMasks) {
		return false
	}
	return m.mask&buttonMasks[n] != 0
}

// HoverWindow is the top-level window under the pointer, or the root
// window over the desktop. It is 0 until the first successful Update.
func (m *Mouse) HoverWindow() uint32 { return uint32(m.hover) }

// Close releases the grab and the cursor.
func (m *Mouse) Close() {
	if m == nil || m.sess == nil {
		return
	}
	conn := m.sess.Conn()
	if m.grabbed {
		xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
		m.grabbed = false
	}
	if m.cursor != 0 {
		xproto.FreeCursor(conn, m.cursor)
		m.cursor = 0
	}
}
