package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
)

// ErrGL marks an error reported by glGetError after a frame.
var ErrGL = errors.New("OpenGL threw an error")

var glErrorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gl.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gl.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gl.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gl.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
	gl.STACK_UNDERFLOW:               "GL_STACK_UNDERFLOW",
	gl.STACK_OVERFLOW:                "GL_STACK_OVERFLOW",
}

// ErrNotShader is recorded when a framebuffer is asked to draw through an
// effect that is not a GL program.
var ErrNotShader = errors.New("effect is not a GL shader")

// CheckError drains the GL error queue and returns an ErrGL naming every
// code seen, or nil.
func CheckError() error {
	var names []string
	for i := 0; i < len(glErrorNames)+1; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		names = append(names, errorName(code))
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrGL, strings.Join(names, ", "))
}

func errorName(code uint32) string {
	if name, ok := glErrorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", code)
}

// Blend toggles source-over alpha blending. It satisfies effects.Blender.
type Blend struct{}

func (Blend) EnableBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (Blend) DisableBlend() { gl.Disable(gl.BLEND) }
