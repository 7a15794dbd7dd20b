package render

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jezek/xgb/xproto"

	"goslop/src/effects"
	"goslop/src/selection"
)

func TestBorderRects(t *testing.T) {
	r := selection.Rect{X: 10, Y: 10, W: 100, H: 50}
	got := borderRects(r, 2, false)
	want := []selection.Rect{
		{X: 8, Y: 8, W: 104, H: 2},
		{X: 8, Y: 60, W: 104, H: 2},
		{X: 8, Y: 10, W: 2, H: 50},
		{X: 110, Y: 10, W: 2, H: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("borderRects = %v, want %v", got, want)
	}

	filled := borderRects(r, 2, true)
	if len(filled) != 5 || filled[4] != r {
		t.Fatalf("highlight should append the interior, got %v", filled)
	}
}

func TestTriangles(t *testing.T) {
	got := triangles([]selection.Rect{{X: 0, Y: 0, W: 2, H: 3}})
	want := []float32{0, 0, 2, 0, 2, 3, 0, 0, 2, 3, 0, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("triangles = %v, want %v", got, want)
	}
}

func TestShapeRectsDropsEmpty(t *testing.T) {
	got := shapeRects([]selection.Rect{
		{X: -1, Y: 2, W: 10, H: 4},
		{X: 5, Y: 5, W: 0, H: 4},
	})
	want := []xproto.Rectangle{{X: -1, Y: 2, Width: 10, Height: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("shapeRects = %v, want %v", got, want)
	}
}

func TestPixelAndOpacity(t *testing.T) {
	if got := pixel([4]float32{1, 0, 0.5, 1}); got != 0xff0080 {
		t.Errorf("pixel = %#x, want 0xff0080", got)
	}
	tests := []struct {
		alpha float32
		want  uint32
	}{
		{0, 0},
		{1, 0xffffffff},
		{2, 0xffffffff},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := opacity(tt.alpha); got != tt.want {
			t.Errorf("opacity(%v) = %#x, want %#x", tt.alpha, got, tt.want)
		}
	}
}

type plainEffect struct{}

func (plainEffect) Name() string { return "plain" }
func (plainEffect) Shared() bool { return false }
func (plainEffect) Close() error { return nil }

func TestFramebufferDrawRejectsForeignEffect(t *testing.T) {
	f := &Framebuffer{}
	f.Draw(plainEffect{}, effects.Uniforms{})

	err := f.takeError()
	if !errors.Is(err, ErrNotShader) {
		t.Fatalf("takeError = %v, want ErrNotShader", err)
	}
	if f.takeError() != nil {
		t.Fatal("error must be reported once")
	}
	var nilFB *Framebuffer
	if nilFB.takeError() != nil {
		t.Fatal("nil framebuffer has no error")
	}
}
