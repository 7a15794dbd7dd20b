package render

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"goslop/src/effects"
)

// Window is a transparent, undecorated, always-on-top GL surface
// covering the whole screen. glfw requires every call on the thread that
// created it, so callers must lock the OS thread.
type Window struct {
	win      *glfw.Window
	width    int
	height   int
	textured *Shader
	desktop  uint32

	// Framebuffer receives the rectangle each frame; Scratch is its
	// ping-pong partner for effect passes.
	Framebuffer *Framebuffer
	Scratch     *Framebuffer
	// Camera maps root pixel coordinates to clip space (origin top left).
	Camera mgl32.Mat4
}

// NewWindow creates the window. desktop, when non-nil, is uploaded as the
// "desktop" texture for effects that sample what is under the overlay.
// Any failure leaves nothing allocated.
func NewWindow(width, height int, desktop *image.RGBA) (w *Window, err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	w = &Window{width: width, height: height}
	defer func() {
		if err != nil {
			w.Close()
			w = nil
		}
	}()

	glfw.WindowHint(glfw.Decorated, glfw.False)
	glfw.WindowHint(glfw.Floating, glfw.True)
	glfw.WindowHint(glfw.FocusOnShow, glfw.False)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	w.win, err = glfw.CreateWindow(width, height, "slop", nil, nil)
	if err != nil {
		return w, fmt.Errorf("create window: %w", err)
	}
	w.win.SetPos(0, 0)
	w.win.MakeContextCurrent()
	glfw.SwapInterval(0)
	if err := gl.Init(); err != nil {
		return w, fmt.Errorf("gl init: %w", err)
	}
	if w.win.GetAttrib(glfw.TransparentFramebuffer) != glfw.True {
		return w, errors.New("no transparent framebuffer available")
	}
	log.Printf("render: GL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	if desktop != nil {
		if w.desktop, err = UploadTexture(desktop); err != nil {
			return w, fmt.Errorf("desktop texture: %w", err)
		}
	}
	if w.textured, err = NewShader(effects.Builtin, texturedVert, texturedFrag, true); err != nil {
		return w, err
	}
	fbw, fbh := w.win.GetFramebufferSize()
	if w.Framebuffer, err = NewFramebuffer(fbw, fbh, w.desktop); err != nil {
		return w, err
	}
	if w.Scratch, err = NewFramebuffer(fbw, fbh, w.desktop); err != nil {
		return w, err
	}
	w.Camera = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	return w, CheckError()
}

// X11Window is the native window id backing the surface.
func (w *Window) X11Window() uint32 { return uint32(w.win.GetX11Window()) }

// Textured is the built-in pass-through effect. The window owns it.
func (w *Window) Textured() *Shader { return w.textured }

// Present draws src to the screen through the pass-through effect.
func (w *Window) Present(src effects.Surface, u effects.Uniforms) {
	fbw, fbh := w.win.GetFramebufferSize()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	src.Draw(w.textured, u)
}

// Err reports GL errors and effect wiring errors from the last frame.
func (w *Window) Err() error {
	return errors.Join(CheckError(), w.Framebuffer.takeError(), w.Scratch.takeError())
}

// Display swaps buffers and services the window system.
func (w *Window) Display() {
	w.win.SwapBuffers()
	glfw.PollEvents()
}

// ClearScreen presents two fully transparent frames so the window leaves
// nothing behind when a compositor fades it out.
func (w *Window) ClearScreen() {
	for i := 0; i < 2; i++ {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.ClearColor(0, 0, 0, 0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		w.Display()
	}
}

// Close frees GL resources, destroys the window and terminates glfw.
func (w *Window) Close() {
	if w == nil {
		return
	}
	if w.win != nil {
		if w.Scratch != nil {
			w.Scratch.Close()
		}
		if w.Framebuffer != nil {
			w.Framebuffer.Close()
		}
		if w.textured != nil {
			w.textured.Close()
		}
		if w.desktop != 0 {
			gl.DeleteTextures(1, &w.desktop)
			w.desktop = 0
		}
		w.win.Destroy()
		w.win = nil
	}
	glfw.Terminate()
}
