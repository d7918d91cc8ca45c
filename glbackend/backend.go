// Package glbackend implements the shader backend on a live OpenGL context
// through the go-gl bindings.
//
// All functions in this package must run on the thread owning the GL
// context; callers are expected to have called runtime.LockOSThread.
package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyfloyd/meshvis"
	"github.com/polyfloyd/meshvis/shader"
)

const sourceSeparator = "\n\n"

// Backend implements shader.Backend on the current GL context.
type Backend struct{}

func New() Backend { return Backend{} }

// NewEnv bundles the backend with capabilities introspected from the
// current context and the embedded shader resources.
func NewEnv() shader.Env {
	return shader.Env{Caps: ContextCaps(), Backend: New()}
}

func glStage(stage shader.Stage) uint32 {
	switch stage {
	case shader.StageVertex:
		return gl.VERTEX_SHADER
	case shader.StageFragment:
		return gl.FRAGMENT_SHADER
	case shader.StageGeometry:
		return gl.GEOMETRY_SHADER
	}
	panic("unknown shader stage " + string(stage))
}

func (Backend) CreateShader(v meshvis.Version, stage shader.Stage) shader.StageShader {
	return &stageShader{id: gl.CreateShader(glStage(stage))}
}

func (Backend) CreateProgram() shader.Program {
	return &program{id: gl.CreateProgram()}
}

type stageShader struct {
	id      uint32
	sources []string
}

func (s *stageShader) AddSource(text string) {
	s.sources = append(s.sources, text)
}

func (s *stageShader) SubmitCompile() {
	src := strings.Join(s.sources, sourceSeparator)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(s.id, 1, csources, nil)
	free()
	gl.CompileShader(s.id)
}

func (s *stageShader) CompileStatus() (bool, string) {
	var status int32
	gl.GetShaderiv(s.id, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLen int32
	gl.GetShaderiv(s.id, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(s.id, logLen, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (s *stageShader) Delete() {
	gl.DeleteShader(s.id)
}

type program struct {
	id uint32
}

func (p *program) AttachShader(s shader.StageShader) {
	gl.AttachShader(p.id, s.(*stageShader).id)
}

func (p *program) BindAttributeLocation(slot uint32, name string) {
	gl.BindAttribLocation(p.id, slot, gl.Str(name+"\x00"))
}

func (p *program) SubmitLink() {
	gl.LinkProgram(p.id)
}

func (p *program) LinkStatus() (bool, string) {
	var status int32
	gl.GetProgramiv(p.id, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLen int32
	gl.GetProgramiv(p.id, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(p.id, logLen, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (p *program) UniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *program) UniformBlockIndex(name string) uint32 {
	return gl.GetUniformBlockIndex(p.id, gl.Str(name+"\x00"))
}

func (p *program) SetUniformBlockBinding(index, binding uint32) {
	if index == gl.INVALID_INDEX {
		return
	}
	gl.UniformBlockBinding(p.id, index, binding)
}

func (p *program) SetUniformInt(location int32, v int32) {
	gl.UseProgram(p.id)
	gl.Uniform1i(location, v)
}

func (p *program) SetUniformUint(location int32, v uint32) {
	gl.UseProgram(p.id)
	gl.Uniform1ui(location, v)
}

func (p *program) SetUniformUintVec2(location int32, v [2]uint32) {
	gl.UseProgram(p.id)
	gl.Uniform2ui(location, v[0], v[1])
}

func (p *program) SetUniformFloat(location int32, v float32) {
	gl.UseProgram(p.id)
	gl.Uniform1f(location, v)
}

func (p *program) SetUniformVec2(location int32, v mgl32.Vec2) {
	gl.UseProgram(p.id)
	gl.Uniform2f(location, v[0], v[1])
}

func (p *program) SetUniformVec4(location int32, v mgl32.Vec4) {
	gl.UseProgram(p.id)
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (p *program) SetUniformMat3(location int32, m mgl32.Mat3) {
	gl.UseProgram(p.id)
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (p *program) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (p *program) SetUniformMat3Slice(location int32, ms []mgl32.Mat3) {
	if len(ms) == 0 {
		return
	}
	gl.UseProgram(p.id)
	gl.UniformMatrix3fv(location, int32(len(ms)), false, &ms[0][0])
}

func (p *program) SetUniformMat4Slice(location int32, ms []mgl32.Mat4) {
	if len(ms) == 0 {
		return
	}
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(location, int32(len(ms)), false, &ms[0][0])
}

func (p *program) Use() {
	gl.UseProgram(p.id)
}

func (p *program) Delete() {
	gl.DeleteProgram(p.id)
}
