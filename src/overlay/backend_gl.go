package overlay

import (
	"fmt"
	"log"

	"github.com/jezek/xgb/xproto"

	"goslop/src/config"
	"goslop/src/effects"
	"goslop/src/render"
	"goslop/src/screenshot"
	"goslop/src/selection"
	"goslop/src/x11"
)

// glBackend renders the rectangle into a framebuffer, runs the effect
// chain over it and presents the result on a transparent GL window.
type glBackend struct {
	window    *render.Window
	rectangle *render.GLRectangle
	pipeline  *effects.Pipeline
	color     [4]float32
	height    float32
}

func newGLBackend(sess *x11.Session, opts config.Options) (_ *glBackend, err error) {
	desktop, err := screenshot.Capture()
	if err != nil {
		log.Printf("overlay: desktop capture unavailable: %v", err)
		desktop = nil
	}
	window, err := render.NewWindow(sess.Width(), sess.Height(), desktop)
	if err != nil {
		return nil, err
	}
	b := &glBackend{
		window: window,
		color:  opts.Color.Vec4(),
		height: float32(sess.Height()),
	}
	defer func() {
		if err != nil {
			if b.rectangle != nil {
				b.rectangle.Close()
			}
			b.Close()
		}
	}()

	win := xproto.Window(window.X11Window())
	if err := sess.SetInputPassthrough(win); err != nil {
		return nil, err
	}
	if err := sess.WatchWindow(win); err != nil {
		return nil, err
	}

	b.rectangle, err = render.NewGLRectangle(opts.BorderSize, opts.Padding, b.color, opts.Highlight)
	if err != nil {
		return nil, fmt.Errorf("rectangle shader: %w", err)
	}

	dirs := render.ShaderDirs(opts.ShaderPaths)
	loader := effects.LoaderFunc(func(name string) (effects.Effect, error) {
		return render.LoadShader(name, dirs)
	})
	chain, err := effects.Resolve(opts.Shaders, window.Textured(), loader)
	if err != nil {
		return nil, err
	}
	b.pipeline, err = effects.NewPipeline(chain, window.Framebuffer, window.Scratch, render.Blend{})
	if err != nil {
		return nil, err
	}
	if err := render.CheckError(); err != nil {
		return nil, err
	}
	log.Printf("overlay: GL backend ready with %d effect(s)", len(b.pipeline.Effects()))
	return b, nil
}

func (b *glBackend) Name() string                   { return "opengl" }
func (b *glBackend) Rectangle() selection.Rectangle { return b.rectangle }
func (b *glBackend) OverlayWindow() uint32          { return b.window.X11Window() }

// Render draws the rectangle into the primary framebuffer, composites the
// effect chain and presents whichever buffer holds the result.
func (b *glBackend) Render(f Frame) error {
	fb := b.window.Framebuffer
	fb.Bind()
	fb.Clear()
	f.Model.Draw(b.window.Camera)
	fb.Unbind()

	u := effects.Uniforms{
		// GL's origin is bottom left
		Mouse: [2]float32{f.Mouse.X, b.height - f.Mouse.Y},
		Time:  float32(f.Elapsed),
		Color: b.color,
	}
	out := b.pipeline.Apply(u)
	b.window.Present(out, u)
	b.window.Display()
	return b.window.Err()
}

// Close releases effects and the window. The rectangle belongs to the
// selection model once the run starts and is closed there.
func (b *glBackend) Close() {
	if b.window == nil {
		return
	}
	b.window.ClearScreen()
	if b.pipeline != nil {
		if err := b.pipeline.Close(); err != nil {
			log.Printf("overlay: %v", err)
		}
		b.pipeline = nil
	}
	b.window.Close()
	b.window = nil
}
