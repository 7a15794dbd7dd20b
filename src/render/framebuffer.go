package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.2-compatibility/gl"

	"goslop/src/effects"
)

// full-screen quad: x, y, u, v per vertex
var quadVertices = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, -1, 0, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}

const (
	quadStride      = 4 * 4
	textureUnit     = 0
	desktopUnit     = 1
	quadVertexCount = 6
)

// Framebuffer is an off-screen color target. It satisfies effects.Surface.
type Framebuffer struct {
	fbo     uint32
	texture uint32
	quad    uint32
	desktop uint32
	width   int32
	height  int32
	drawErr error
}

// NewFramebuffer allocates a width x height RGBA target. desktop is an
// optional texture exposed to shaders as "desktop" (0 for none).
func NewFramebuffer(width, height int, desktop uint32) (*Framebuffer, error) {
	f := &Framebuffer{width: int32(width), height: int32(height), desktop: desktop}

	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, f.width, f.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	setTextureParams()

	gl.GenFramebuffers(1, &f.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, f.texture, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		f.Close()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	gl.GenBuffers(1, &f.quad)
	gl.BindBuffer(gl.ARRAY_BUFFER, f.quad)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return f, nil
}

func setTextureParams() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// takeError returns and clears the error recorded by Draw.
func (f *Framebuffer) takeError() error {
	if f == nil {
		return nil
	}
	err := f.drawErr
	f.drawErr = nil
	return err
}

func (f *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.Viewport(0, 0, f.width, f.height)
}

func (f *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (f *Framebuffer) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw renders the framebuffer texture through effect as a full-screen
// quad into the bound target.
func (f *Framebuffer) Draw(effect effects.Effect, u effects.Uniforms) {
	shader, ok := effect.(*Shader)
	if !ok {
		f.drawErr = fmt.Errorf("%w: %T", ErrNotShader, effect)
		return
	}
	shader.Use()

	gl.ActiveTexture(gl.TEXTURE0 + textureUnit)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	shader.SetInt("texture", textureUnit)
	if f.desktop != 0 && shader.Uniform("desktop") >= 0 {
		gl.ActiveTexture(gl.TEXTURE0 + desktopUnit)
		gl.BindTexture(gl.TEXTURE_2D, f.desktop)
		shader.SetInt("desktop", desktopUnit)
		gl.ActiveTexture(gl.TEXTURE0 + textureUnit)
	}
	shader.SetVec2("mouse", u.Mouse)
	shader.SetFloat("time", u.Time)
	shader.SetVec4("color", u.Color)
	shader.SetVec2("screenSize", [2]float32{float32(f.width), float32(f.height)})

	gl.BindBuffer(gl.ARRAY_BUFFER, f.quad)
	position, uv := shader.Attrib("position"), shader.Attrib("uv")
	if position >= 0 {
		gl.EnableVertexAttribArray(uint32(position))
		gl.VertexAttribPointer(uint32(position), 2, gl.FLOAT, false, quadStride, gl.PtrOffset(0))
	}
	if uv >= 0 {
		gl.EnableVertexAttribArray(uint32(uv))
		gl.VertexAttribPointer(uint32(uv), 2, gl.FLOAT, false, quadStride, gl.PtrOffset(2*4))
	}
	gl.DrawArrays(gl.TRIANGLES, 0, quadVertexCount)
	if position >= 0 {
		gl.DisableVertexAttribArray(uint32(position))
	}
	if uv >= 0 {
		gl.DisableVertexAttribArray(uint32(uv))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.UseProgram(0)
}

// Close frees the GL objects. The desktop texture is not owned.
func (f *Framebuffer) Close() error {
	if f.quad != 0 {
		gl.DeleteBuffers(1, &f.quad)
		f.quad = 0
	}
	if f.fbo != 0 {
		gl.DeleteFramebuffers(1, &f.fbo)
		f.fbo = 0
	}
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
	return nil
}

// UploadTexture copies img into a new texture, flipping rows so the image
// is upright under GL's bottom-left origin.
func UploadTexture(img *image.RGBA) (uint32, error) {
	if img == nil {
		return 0, errors.New("nil image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0, errors.New("empty image")
	}
	flipped := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(flipped[(h-1-y)*w*4:], src)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped))
	setTextureParams()
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex, nil
}
