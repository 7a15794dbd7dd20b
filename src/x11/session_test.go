package x11

import (
	"os"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type queuedEvent struct {
	ev  xgb.Event
	err xgb.Error
}

type fakeError struct{}

func (fakeError) SequenceId() uint16 { return 1 }
func (fakeError) BadId() uint32      { return 0 }
func (fakeError) Error() string      { return "BadWindow" }

type fakeEvents struct {
	queue []queuedEvent
}

func (f *fakeEvents) PollForEvent() (xgb.Event, xgb.Error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.ev, next.err
}

func (f *fakeEvents) push(ev xgb.Event, err xgb.Error) {
	f.queue = append(f.queue, queuedEvent{ev: ev, err: err})
}

func TestWindowGoneIgnoresUnrelatedEvents(t *testing.T) {
	events := &fakeEvents{}
	events.push(xproto.MotionNotifyEvent{}, nil)
	events.push(nil, fakeError{})
	s := &Session{events: events}

	if s.WindowGone() {
		t.Fatal("expected no window death from motion/error events")
	}
}

func TestWindowGoneOnUnmapOrDestroy(t *testing.T) {
	events := &fakeEvents{}
	s := &Session{events: events}

	events.push(xproto.UnmapNotifyEvent{Window: 5}, nil)
	if !s.WindowGone() {
		t.Fatal("expected unmap to report window death")
	}
	if s.WindowGone() {
		t.Fatal("notification must be consumed once")
	}

	events.push(xproto.DestroyNotifyEvent{Window: 5}, nil)
	if !s.WindowGone() {
		t.Fatal("expected destroy to report window death")
	}
}

func TestSuppressErrorsKeepsDeathNotifications(t *testing.T) {
	events := &fakeEvents{}
	s := &Session{events: events}

	s.SuppressErrors(func() {
		events.push(nil, fakeError{})
		events.push(xproto.DestroyNotifyEvent{}, nil)
	})

	if s.suppress != 0 {
		t.Fatalf("suppression depth leaked: %d", s.suppress)
	}
	if len(events.queue) != 0 {
		t.Fatalf("expected queue drained after suppression, %d left", len(events.queue))
	}
	if !s.WindowGone() {
		t.Fatal("expected destroy notification captured during suppression")
	}
}

func TestPumpKeepsOnlyDeathNotifications(t *testing.T) {
	events := &fakeEvents{}
	for i := 0; i < 6000; i++ {
		events.push(xproto.MotionNotifyEvent{}, nil)
		events.push(xproto.ConfigureNotifyEvent{}, nil)
	}
	events.push(xproto.UnmapNotifyEvent{Window: 9}, nil)
	s := &Session{events: events}

	s.Pump()

	if len(events.queue) != 0 {
		t.Fatalf("expected every queued event drained, %d left", len(events.queue))
	}
	if len(s.pending) != 1 {
		t.Fatalf("expected one pending notification, got %d", len(s.pending))
	}
	if !s.WindowGone() {
		t.Fatal("unmap seen by Pump must still report window death")
	}
}

func TestBindDisplay(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	if err := BindDisplay(":1"); err != nil {
		t.Fatalf("BindDisplay: %v", err)
	}
	if got := os.Getenv("DISPLAY"); got != ":1" {
		t.Fatalf("DISPLAY = %q, want :1", got)
	}

	if err := BindDisplay(""); err != nil {
		t.Fatalf("BindDisplay empty: %v", err)
	}
	if got := os.Getenv("DISPLAY"); got != ":1" {
		t.Fatalf("empty display must not change DISPLAY, got %q", got)
	}
}

func TestGeometryContainsIncludesBorder(t *testing.T) {
	g := &xproto.GetGeometryReply{X: 10, Y: 20, Width: 100, Height: 50, BorderWidth: 2}
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 20, true},
		{113, 73, true},
		{114, 20, false},
		{9, 30, false},
		{50, 74, false},
	}
	for _, tt := range tests {
		if got := contains(g, tt.x, tt.y); got != tt.want {
			t.Errorf("contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
