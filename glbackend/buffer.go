package glbackend

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/polyfloyd/meshvis/shader"
)

// The SSBO target enum is not part of the 3.3 core bindings; binding to it
// only ever happens when the context exposes GL_ARB_shader_storage_buffer_object.
const glShaderStorageBuffer = 0x90D2

func glBufferTarget(t shader.BufferTarget) uint32 {
	if t == shader.TargetShaderStorage {
		return glShaderStorageBuffer
	}
	return gl.UNIFORM_BUFFER
}

// Buffer implements shader.Buffer over a GL buffer object.
type Buffer struct {
	ID uint32
}

// NewBuffer allocates a buffer object and uploads the given contents.
func NewBuffer(data []byte) Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, id)
	gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return Buffer{ID: id}
}

func (b Buffer) Bind(target shader.BufferTarget, binding uint32) {
	gl.BindBufferBase(glBufferTarget(target), binding, b.ID)
}

func (b Buffer) BindRange(target shader.BufferTarget, binding uint32, offset, size int) {
	gl.BindBufferRange(glBufferTarget(target), binding, b.ID, offset, size)
}

func (b Buffer) Delete() {
	gl.DeleteBuffers(1, &b.ID)
}

// Texture implements shader.Texture over an existing GL texture object.
type Texture struct {
	ID     uint32
	Target uint32
}

func (t Texture) Bind(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(t.Target, t.ID)
}
