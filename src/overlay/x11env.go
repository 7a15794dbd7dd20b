package overlay

import (
	"github.com/jezek/xgb/xproto"

	"goslop/src/config"
	"goslop/src/input"
	"goslop/src/selection"
	"goslop/src/x11"
)

// x11Env is the environment backed by a live display connection.
type x11Env struct {
	sess     *x11.Session
	opts     config.Options
	keyboard *input.Keyboard
}

// openX11 connects and grabs the keyboard up front, with protocol errors
// from the grab discarded.
func openX11(opts config.Options) (*x11Env, error) {
	sess, err := x11.Open(opts.Display)
	if err != nil {
		return nil, err
	}
	env := &x11Env{sess: sess, opts: opts}
	if !opts.NoKeyboard {
		sess.SuppressErrors(func() {
			env.keyboard = input.NewKeyboard(sess)
		})
	}
	return env, nil
}

func (e *x11Env) HasCompositor() bool { return e.sess.HasCompositor() }
func (e *x11Env) WindowGone() bool    { return e.sess.WindowGone() }

func (e *x11Env) newAccelerated() (Backend, error) {
	b, err := newGLBackend(e.sess, e.opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (e *x11Env) newFallback() (Backend, error) {
	b, err := newXShapeBackend(e.sess, e.opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (e *x11Env) newInput(overlay uint32) Input {
	d := &devices{
		events: e.sess,
		mouse:  input.NewMouse(e.sess, e.opts.NoDecorations, xproto.Window(overlay)),
	}
	if e.keyboard != nil {
		d.keyboard = e.keyboard
	}
	return d
}

func (e *x11Env) windows() selection.WindowLocator { return windowLocator{sess: e.sess} }

func (e *x11Env) Close() {
	e.keyboard.Close()
	e.sess.Close()
}

type eventPump interface {
	Pump()
}

type pointerDevice interface {
	Update()
	Position() selection.Point
	Button(n int) bool
	HoverWindow() uint32
	Close()
}

type keyDevice interface {
	Update()
	AnyKeyDown() bool
	Close()
}

// devices joins the pointer and the optional keyboard into one snapshot.
// Each Update first drains the event queue so replies keep flowing.
type devices struct {
	events   eventPump
	mouse    pointerDevice
	keyboard keyDevice
}

func (d *devices) Update() {
	d.events.Pump()
	d.mouse.Update()
	if d.keyboard != nil {
		d.keyboard.Update()
	}
}

func (d *devices) Position() selection.Point { return d.mouse.Position() }
func (d *devices) Button(n int) bool         { return d.mouse.Button(n) }
func (d *devices) HoverWindow() uint32       { return d.mouse.HoverWindow() }

func (d *devices) AnyKeyDown() bool {
	return d.keyboard != nil && d.keyboard.AnyKeyDown()
}

func (d *devices) Close() {
	d.mouse.Close()
	if d.keyboard != nil {
		d.keyboard.Close()
	}
}

type windowLocator struct {
	sess *x11.Session
}

func (l windowLocator) WindowRect(id uint32) (selection.Rect, error) {
	g, err := l.sess.WindowGeometry(xproto.Window(id))
	if err != nil {
		return selection.Rect{}, err
	}
	return selection.Rect{X: float32(g.X), Y: float32(g.Y), W: float32(g.Width), H: float32(g.Height)}, nil
}
