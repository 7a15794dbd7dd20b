package input

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"

	"goslop/src/selection"
)

const (
	testRoot    xproto.Window = 1
	testOverlay xproto.Window = 77
)

type fakePointer struct {
	replies []*xproto.QueryPointerReply
	err     error
	below   xproto.Window
	clients map[xproto.Window]xproto.Window

	belowCalls int
}

func (f *fakePointer) Root() xproto.Window { return testRoot }

func (f *fakePointer) QueryPointer() (*xproto.QueryPointerReply, error) {
	if f.err != nil {
		return nil, f.err
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next, nil
}

func (f *fakePointer) TopLevelAt(x, y int, skip xproto.Window) xproto.Window {
	f.belowCalls++
	if skip != testOverlay {
		panic("overlay must be skipped")
	}
	return f.below
}

func (f *fakePointer) ClientWindow(frame xproto.Window) xproto.Window {
	if c, ok := f.clients[frame]; ok {
		return c
	}
	return frame
}

func at(x, y int16, child xproto.Window, mask uint16) *xproto.QueryPointerReply {
	return &xproto.QueryPointerReply{RootX: x, RootY: y, Child: child, Mask: mask}
}

func TestMouseHoverResetsOverDesktop(t *testing.T) {
	src := &fakePointer{replies: []*xproto.QueryPointerReply{
		at(5, 5, 42, 0),
		at(600, 400, xproto.WindowNone, 0),
	}}
	m := &Mouse{src: src, ignore: testOverlay}

	m.Update()
	if got := m.HoverWindow(); got != 42 {
		t.Fatalf("HoverWindow = %d, want 42", got)
	}

	m.Update()
	if got := m.HoverWindow(); got != uint32(testRoot) {
		t.Fatalf("over the desktop HoverWindow = %d, want root %d", got, testRoot)
	}
	if got := m.Position(); got != (selection.Point{X: 600, Y: 400}) {
		t.Fatalf("Position = %v", got)
	}
}

func TestMouseLooksBeneathOverlay(t *testing.T) {
	src := &fakePointer{
		replies: []*xproto.QueryPointerReply{at(10, 10, testOverlay, 0)},
		below:   42,
	}
	m := &Mouse{src: src, ignore: testOverlay}

	m.Update()

	if src.belowCalls != 1 {
		t.Fatalf("expected one lookup beneath the overlay, got %d", src.belowCalls)
	}
	if got := m.HoverWindow(); got != 42 {
		t.Fatalf("HoverWindow = %d, want 42", got)
	}
}

func TestMouseNoDecorationsUsesClientWindow(t *testing.T) {
	src := &fakePointer{
		replies: []*xproto.QueryPointerReply{
			at(10, 10, 42, 0),
			at(10, 10, xproto.WindowNone, 0),
		},
		clients: map[xproto.Window]xproto.Window{42: 43, testRoot: 99},
	}
	m := &Mouse{src: src, ignore: testOverlay, noDecorations: true}

	m.Update()
	if got := m.HoverWindow(); got != 43 {
		t.Fatalf("HoverWindow = %d, want client 43", got)
	}
	m.Update()
	if got := m.HoverWindow(); got != uint32(testRoot) {
		t.Fatalf("root must not be resolved to a client, got %d", got)
	}
}

func TestMouseQueryErrorKeepsSnapshot(t *testing.T) {
	src := &fakePointer{replies: []*xproto.QueryPointerReply{at(3, 4, 42, xproto.KeyButMaskButton1)}}
	m := &Mouse{src: src}
	m.Update()

	src.err = errors.New("connection closed")
	m.Update()

	if !m.Button(1) || m.HoverWindow() != 42 {
		t.Fatal("a failed query must leave the previous snapshot")
	}
}

func TestMouseButtons(t *testing.T) {
	tests := []struct {
		name string
		mask uint16
		want [6]bool
	}{
		{"none", 0, [6]bool{}},
		{"left", xproto.KeyButMaskButton1, [6]bool{1: true}},
		{"right cancels", xproto.KeyButMaskButton3, [6]bool{3: true}},
		{"left with shift", xproto.KeyButMaskButton1 | xproto.KeyButMaskShift, [6]bool{1: true}},
		{"all", 0xffff, [6]bool{1: true, 2: true, 3: true, 4: true, 5: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mouse{mask: tt.mask}
			for n := 0; n < len(tt.want); n++ {
				if got := m.Button(n); got != tt.want[n] {
					t.Errorf("Button(%d) = %v, want %v", n, got, tt.want[n])
				}
			}
			if m.Button(6) || m.Button(-1) {
				t.Error("buttons outside 1-5 must report false")
			}
		})
	}
}

func TestGrabMaskSelectsButtonsOnly(t *testing.T) {
	if grabMask&(xproto.EventMaskPointerMotion|xproto.EventMaskEnterWindow) != 0 {
		t.Fatalf("grab mask %#x subscribes to motion or crossing events", grabMask)
	}
	if grabMask&xproto.EventMaskButtonPress == 0 || grabMask&xproto.EventMaskButtonRelease == 0 {
		t.Fatalf("grab mask %#x must keep button events", grabMask)
	}
}

func TestMouseCloseWithoutSession(t *testing.T) {
	var nilMouse *Mouse
	nilMouse.Close()
	(&Mouse{src: &fakePointer{}}).Close()
}
