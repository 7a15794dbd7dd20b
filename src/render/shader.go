// Package render implements the accelerated selection surface (GL) and
// the XShape fallback rectangle.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v3.2-compatibility/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const texturedVert = `#version 120
attribute vec2 position;
attribute vec2 uv;
varying vec2 uvCoord;
void main()
{
	uvCoord = uv;
	gl_Position = vec4(position, 0, 1);
}
`

const texturedFrag = `#version 120
uniform sampler2D texture;
varying vec2 uvCoord;
void main()
{
	gl_FragColor = texture2D(texture, uvCoord);
}
`

const solidVert = `#version 120
attribute vec2 position;
uniform mat4 projection;
void main()
{
	gl_Position = projection * vec4(position, 0, 1);
}
`

const solidFrag = `#version 120
uniform vec4 color;
void main()
{
	gl_FragColor = color;
}
`

// Shader is a linked GL program. It satisfies effects.Effect.
type Shader struct {
	name     string
	program  uint32
	shared   bool
	uniforms map[string]int32
	attribs  map[string]int32
}

// NewShader compiles and links a program from GLSL sources.
func NewShader(name, vertSrc, fragSrc string, shared bool) (*Shader, error) {
	vert, err := compile(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s.vert: %w", name, err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compile(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s.frag: %w", name, err)
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		msg := infoLog(logLength, func(buf *uint8) { gl.GetProgramInfoLog(program, logLength, nil, buf) })
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("link %s: %s", name, msg)
	}

	return &Shader{
		name:     name,
		program:  program,
		shared:   shared,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}, nil
}

// LoadShader reads <name>.vert and <name>.frag from the first directory
// in dirs that has both.
func LoadShader(name string, dirs []string) (*Shader, error) {
	for _, dir := range dirs {
		vert, err := os.ReadFile(filepath.Join(dir, name+".vert"))
		if err != nil {
			continue
		}
		frag, err := os.ReadFile(filepath.Join(dir, name+".frag"))
		if err != nil {
			continue
		}
		return NewShader(name, string(vert), string(frag), false)
	}
	return nil, fmt.Errorf("shader %q not found in %s", name, strings.Join(dirs, ", "))
}

// ShaderDirs lists the shader search path: extra first, then
// $XDG_CONFIG_HOME/slop (~/.config/slop), then /usr/share/slop.
func ShaderDirs(extra []string) []string {
	dirs := append([]string(nil), extra...)
	if cfg, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(cfg, "slop"))
	}
	return append(dirs, "/usr/share/slop")
}

func compile(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		msg := infoLog(logLength, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLength, nil, buf) })
		gl.DeleteShader(shader)
		return 0, errors.New(msg)
	}
	return shader, nil
}

func infoLog(length int32, read func(*uint8)) string {
	if length <= 0 {
		return "unknown error"
	}
	buf := make([]uint8, length+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (s *Shader) Name() string { return s.name }
func (s *Shader) Shared() bool { return s.shared }

// Close deletes the program.
func (s *Shader) Close() error {
	if s.program == 0 {
		return nil
	}
	gl.DeleteProgram(s.program)
	s.program = 0
	return nil
}

func (s *Shader) Use() { gl.UseProgram(s.program) }

// Uniform returns the location of name, -1 when the program lacks it.
func (s *Shader) Uniform(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.program, gl.Str(name+"\x00"))
	s.uniforms[name] = loc
	return loc
}

// Attrib returns the location of attribute name, -1 when absent.
func (s *Shader) Attrib(name string) int32 {
	if loc, ok := s.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(s.program, gl.Str(name+"\x00"))
	s.attribs[name] = loc
	return loc
}

func (s *Shader) SetInt(name string, v int32) {
	if loc := s.Uniform(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (s *Shader) SetFloat(name string, v float32) {
	if loc := s.Uniform(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (s *Shader) SetVec2(name string, v [2]float32) {
	if loc := s.Uniform(name); loc >= 0 {
		gl.Uniform2f(loc, v[0], v[1])
	}
}

func (s *Shader) SetVec4(name string, v [4]float32) {
	if loc := s.Uniform(name); loc >= 0 {
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	if loc := s.Uniform(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}
