package selection

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeRect struct {
	a, b    Point
	padding float32
	draws   int
	closed  bool
}

func (r *fakeRect) SetPoints(a, b Point) { r.a, r.b = a, b }
func (r *fakeRect) Rect() Rect           { return Bounds(r.a, r.b, r.padding) }
func (r *fakeRect) Draw(_ mgl32.Mat4)    { r.draws++ }
func (r *fakeRect) Close()               { r.closed = true }

type fakePointer struct {
	pos   Point
	down  bool
	hover uint32
}

func (p *fakePointer) Position() Point     { return p.pos }
func (p *fakePointer) Button(n int) bool   { return n == 1 && p.down }
func (p *fakePointer) HoverWindow() uint32 { return p.hover }

type fakeWindows map[uint32]Rect

func (w fakeWindows) WindowRect(id uint32) (Rect, error) {
	r, ok := w[id]
	if !ok {
		return Rect{}, errors.New("no such window")
	}
	return r, nil
}

func step(m *Memory, p *fakePointer, x, y float32, down bool) {
	p.pos = Point{X: x, Y: y}
	p.down = down
	m.Update(0.01)
	m.Draw(mgl32.Ident4())
}

func TestDragProducesRectangle(t *testing.T) {
	rect := &fakeRect{}
	ptr := &fakePointer{}
	m := New(Settings{Tolerance: 2}, rect, ptr, nil)

	step(m, ptr, 10, 10, false)
	step(m, ptr, 10, 10, true)
	if rect.draws != 0 {
		t.Fatal("rectangle must stay hidden until the drag passes the tolerance")
	}
	step(m, ptr, 60, 30, true)
	step(m, ptr, 110, 60, true)
	if !m.Running() {
		t.Fatal("model stopped before release")
	}
	step(m, ptr, 110, 60, false)

	if m.Running() {
		t.Fatal("expected release to end the run")
	}
	if got, want := m.Rect(), (Rect{X: 10, Y: 10, W: 100, H: 50}); got != want {
		t.Fatalf("Rect() = %+v, want %+v", got, want)
	}
	if m.SelectedWindow() != 0 {
		t.Fatalf("drag must not select a window, got %d", m.SelectedWindow())
	}
	if rect.draws == 0 {
		t.Fatal("expected rectangle to be drawn during the drag")
	}
}

func TestReverseDragNormalizes(t *testing.T) {
	rect := &fakeRect{padding: 5}
	ptr := &fakePointer{}
	m := New(Settings{Tolerance: 2}, rect, ptr, nil)

	step(m, ptr, 200, 150, true)
	step(m, ptr, 100, 100, true)
	step(m, ptr, 100, 100, false)

	if got, want := m.Rect(), (Rect{X: 95, Y: 95, W: 110, H: 60}); got != want {
		t.Fatalf("Rect() = %+v, want %+v", got, want)
	}
}

func TestClickSelectsHoveredWindow(t *testing.T) {
	rect := &fakeRect{}
	ptr := &fakePointer{hover: 42}
	windows := fakeWindows{42: {X: 5, Y: 6, W: 300, H: 200}}
	m := New(Settings{Tolerance: 2}, rect, ptr, windows)

	step(m, ptr, 50, 50, true)
	step(m, ptr, 51, 50, true) // inside tolerance
	step(m, ptr, 51, 50, false)

	if m.Running() {
		t.Fatal("click should end the run")
	}
	if m.SelectedWindow() != 42 {
		t.Fatalf("expected window 42, got %d", m.SelectedWindow())
	}
	if got, want := m.Rect(), (Rect{X: 5, Y: 6, W: 300, H: 200}); got != want {
		t.Fatalf("Rect() = %+v, want %+v", got, want)
	}
}

func TestClickOnVanishedWindowSelectsNothing(t *testing.T) {
	rect := &fakeRect{}
	ptr := &fakePointer{hover: 7}
	m := New(Settings{Tolerance: 2}, rect, ptr, fakeWindows{})

	step(m, ptr, 50, 50, true)
	step(m, ptr, 50, 50, false)

	if m.Running() || m.SelectedWindow() != 0 {
		t.Fatalf("running=%v window=%d, want stopped with no window", m.Running(), m.SelectedWindow())
	}
}

func TestCloseReleasesRectangle(t *testing.T) {
	rect := &fakeRect{}
	m := New(Settings{}, rect, &fakePointer{}, nil)
	m.Close()
	if !rect.closed {
		t.Fatal("expected rectangle to be closed")
	}
}
