// Package x11 owns the display connection for one selection run.
package x11

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// eventSource is the part of *xgb.Conn the session polls.
type eventSource interface {
	PollForEvent() (xgb.Event, xgb.Error)
}

// Session is the runtime session of a single selection run: the display
// connection and the screen it targets. A Session is not safe for
// concurrent use and only one should be active per process.
type Session struct {
	conn     *xgb.Conn
	events   eventSource
	screen   *xproto.ScreenInfo
	screenNo int

	suppress int
	// unmap/destroy notifications not yet consumed by WindowGone
	pending  []xgb.Event
	atoms    map[string]xproto.Atom

	shapeReady bool
}

// Open connects to display (e.g. ":0"). It also points DISPLAY at the
// same server, since glfw and the screen capture library only read the
// environment.
func Open(display string) (*Session, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to open display %q: %w", display, err)
	}
	if err := BindDisplay(display); err != nil {
		conn.Close()
		return nil, err
	}
	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, errors.New("display reported no screens")
	}
	s := &Session{
		conn:     conn,
		events:   conn,
		screen:   setup.DefaultScreen(conn),
		screenNo: conn.DefaultScreen,
		atoms:    make(map[string]xproto.Atom),
	}
	log.Printf("x11: connected to %s, screen %d (%dx%d)", display, s.screenNo, s.Width(), s.Height())
	return s, nil
}

// BindDisplay sets DISPLAY for the process. An empty display leaves the
// environment alone.
func BindDisplay(display string) error {
	if display == "" || os.Getenv("DISPLAY") == display {
		return nil
	}
	if err := os.Setenv("DISPLAY", display); err != nil {
		return fmt.Errorf("set DISPLAY: %w", err)
	}
	return nil
}

// Close drops the connection. Safe on a nil session.
func (s *Session) Close() {
	if s == nil || s.conn == nil {
		return
	}
	s.conn.Close()
	s.conn = nil
}

func (s *Session) Conn() *xgb.Conn            { return s.conn }
func (s *Session) Screen() *xproto.ScreenInfo { return s.screen }
func (s *Session) Root() xproto.Window        { return s.screen.Root }
func (s *Session) Width() int                 { return int(s.screen.WidthInPixels) }
func (s *Session) Height() int                { return int(s.screen.HeightInPixels) }

// Atom interns name, caching the result for the session lifetime.
func (s *Session) Atom(name string) (xproto.Atom, error) {
	if a, ok := s.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(s.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	s.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// HasCompositor reports whether a compositing manager owns the
// _NET_WM_CM_S<screen> selection.
func (s *Session) HasCompositor() bool {
	atom, err := s.Atom(fmt.Sprintf("_NET_WM_CM_S%d", s.screenNo))
	if err != nil {
		log.Printf("x11: compositor probe failed: %v", err)
		return false
	}
	reply, err := xproto.GetSelectionOwner(s.conn, atom).Reply()
	if err != nil {
		log.Printf("x11: compositor probe failed: %v", err)
		return false
	}
	return reply.Owner != xproto.WindowNone
}

// SuppressErrors runs fn with protocol errors discarded, the equivalent of
// installing a no-op error handler around fn. Window death notifications
// that arrive meanwhile are kept for later polling.
func (s *Session) SuppressErrors(fn func()) {
	s.suppress++
	defer func() {
		s.drain()
		s.suppress--
	}()
	fn()
}

// Flush forces a round trip so every queued request has reached the server.
func (s *Session) Flush() {
	if _, err := xproto.GetInputFocus(s.conn).Reply(); err != nil {
		s.reportError(err)
	}
}

// WatchWindow subscribes to structure notifications (unmap, destroy) on win.
func (s *Session) WatchWindow(win xproto.Window) error {
	err := xproto.ChangeWindowAttributesChecked(s.conn, win, xproto.CwEventMask,
		[]uint32{xproto.EventMaskStructureNotify}).Check()
	if err != nil {
		return fmt.Errorf("watch window %d: %w", win, err)
	}
	return nil
}

// Pump drains the event queue, keeping only unmap and destroy
// notifications for WindowGone. It must run every frame: xgb stops
// delivering replies once its event buffer is full.
func (s *Session) Pump() { s.drain() }

// QueryPointer asks for the pointer position relative to the root window.
func (s *Session) QueryPointer() (*xproto.QueryPointerReply, error) {
	return xproto.QueryPointer(s.conn, s.Root()).Reply()
}

// WindowGone polls pending events and reports whether an unmap or destroy
// notification has been seen. Each notification is consumed once.
func (s *Session) WindowGone() bool {
	s.drain()
	if len(s.pending) == 0 {
		return false
	}
	s.pending = s.pending[1:]
	return true
}

func (s *Session) drain() {
	for {
		ev, err := s.events.PollForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			s.reportError(err)
		}
		switch ev.(type) {
		case xproto.UnmapNotifyEvent, xproto.DestroyNotifyEvent:
			s.pending = append(s.pending, ev)
		}
	}
}

func (s *Session) reportError(err error) {
	if s.suppress > 0 {
		return
	}
	log.Printf("x11: protocol error: %v", err)
}
