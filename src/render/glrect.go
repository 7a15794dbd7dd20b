package render

import (
	"github.com/go-gl/gl/v3.2-compatibility/gl"
	"github.com/go-gl/mathgl/mgl32"

	"goslop/src/selection"
)

// GLRectangle draws the selection border (and the interior when
// highlighting) into the bound framebuffer.
type GLRectangle struct {
	shader    *Shader
	vbo       uint32
	border    float32
	padding   float32
	color     [4]float32
	highlight bool

	rect  selection.Rect
	verts []float32
	dirty bool
}

func NewGLRectangle(border, padding float32, color [4]float32, highlight bool) (*GLRectangle, error) {
	shader, err := NewShader("solid", solidVert, solidFrag, false)
	if err != nil {
		return nil, err
	}
	r := &GLRectangle{
		shader:    shader,
		border:    border,
		padding:   padding,
		color:     color,
		highlight: highlight,
	}
	gl.GenBuffers(1, &r.vbo)
	return r, nil
}

func (r *GLRectangle) SetPoints(a, b selection.Point) {
	r.rect = selection.Bounds(a, b, r.padding)
	r.verts = triangles(borderRects(r.rect, r.border, r.highlight))
	r.dirty = true
}

func (r *GLRectangle) Rect() selection.Rect { return r.rect }

func (r *GLRectangle) Draw(transform mgl32.Mat4) {
	if len(r.verts) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if r.dirty {
		gl.BufferData(gl.ARRAY_BUFFER, len(r.verts)*4, gl.Ptr(r.verts), gl.DYNAMIC_DRAW)
		r.dirty = false
	}
	r.shader.Use()
	r.shader.SetMat4("projection", transform)
	r.shader.SetVec4("color", r.color)
	position := r.shader.Attrib("position")
	if position >= 0 {
		gl.EnableVertexAttribArray(uint32(position))
		gl.VertexAttribPointer(uint32(position), 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.verts)/2))
		gl.DisableVertexAttribArray(uint32(position))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.UseProgram(0)
}

func (r *GLRectangle) Close() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	r.shader.Close()
}
