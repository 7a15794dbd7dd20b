package selection

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pointer is the pointer state the model reads each update.
type Pointer interface {
	Position() Point
	Button(n int) bool
	HoverWindow() uint32
}

// WindowLocator resolves a window id to its on-screen rectangle.
type WindowLocator interface {
	WindowRect(id uint32) (Rect, error)
}

// Settings are the options the model cares about. Padding is applied by
// the Rectangle.
type Settings struct {
	Tolerance float32
}

type state int

const (
	stateStart state = iota
	stateStartDrag
	stateDrag
	stateDone
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateStartDrag:
		return "start-drag"
	case stateDrag:
		return "drag"
	default:
		return "done"
	}
}

// Memory is the selection state machine. A button-1 press anchors the
// selection; moving past the tolerance turns it into a drag, releasing
// without moving picks the hovered window.
type Memory struct {
	settings  Settings
	rectangle Rectangle
	pointer   Pointer
	windows   WindowLocator

	state          state
	anchor         Point
	visible        bool
	running        bool
	selectedWindow uint32
}

// New builds a model drawing through rectangle. windows may be nil, in
// which case a click selects nothing but still ends the run.
func New(settings Settings, rectangle Rectangle, pointer Pointer, windows WindowLocator) *Memory {
	return &Memory{
		settings:  settings,
		rectangle: rectangle,
		pointer:   pointer,
		windows:   windows,
		running:   true,
	}
}

// Update advances the state machine. dt is the elapsed time in seconds.
func (m *Memory) Update(dt float64) {
	if !m.running {
		return
	}
	pos := m.pointer.Position()
	down := m.pointer.Button(1)

	switch m.state {
	case stateStart:
		if down {
			m.anchor = pos
			m.rectangle.SetPoints(pos, pos)
			m.setState(stateStartDrag)
		}
	case stateStartDrag:
		if !down {
			m.pickWindow()
			return
		}
		if distance(m.anchor, pos) > float64(m.settings.Tolerance) {
			m.visible = true
			m.rectangle.SetPoints(m.anchor, pos)
			m.setState(stateDrag)
		}
	case stateDrag:
		m.rectangle.SetPoints(m.anchor, pos)
		if !down {
			m.finish()
		}
	}
}

// Draw renders the rectangle once a drag is under way.
func (m *Memory) Draw(transform mgl32.Mat4) {
	if m.visible {
		m.rectangle.Draw(transform)
	}
}

func (m *Memory) Running() bool          { return m.running }
func (m *Memory) SelectedWindow() uint32 { return m.selectedWindow }
func (m *Memory) Rect() Rect             { return m.rectangle.Rect() }

// Close releases the rectangle renderer.
func (m *Memory) Close() {
	m.rectangle.Close()
}

func (m *Memory) pickWindow() {
	id := m.pointer.HoverWindow()
	if id == 0 || m.windows == nil {
		m.finish()
		return
	}
	r, err := m.windows.WindowRect(id)
	if err != nil {
		log.Printf("selection: window %d vanished: %v", id, err)
		m.finish()
		return
	}
	m.selectedWindow = id
	m.rectangle.SetPoints(Point{X: r.X, Y: r.Y}, Point{X: r.X + r.W, Y: r.Y + r.H})
	m.finish()
}

func (m *Memory) finish() {
	m.setState(stateDone)
	m.running = false
}

func (m *Memory) setState(next state) {
	log.Printf("selection: %s -> %s", m.state, next)
	m.state = next
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
