package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyfloyd/meshvis"
)

// Backend creates the underlying GPU objects. The glbackend package
// implements it on OpenGL; tests substitute an in-memory fake so variant
// resolution can be exercised without a GPU.
//
// All methods assume they run on the thread owning the GL context.
type Backend interface {
	CreateShader(v meshvis.Version, stage Stage) StageShader
	CreateProgram() Program
}

// StageShader is a single shader object between creation and linking.
// Sources accumulate in submission order.
type StageShader interface {
	AddSource(text string)

	// SubmitCompile hands the accumulated sources to the driver's compiler
	// without waiting for the result.
	SubmitCompile()

	// CompileStatus blocks until compilation settles and reports the result
	// together with the driver's info log.
	CompileStatus() (ok bool, log string)

	Delete()
}

// Program is a shader program object.
type Program interface {
	AttachShader(s StageShader)
	BindAttributeLocation(slot uint32, name string)

	// SubmitLink requests the link without waiting for the result.
	SubmitLink()
	// LinkStatus blocks until the link settles.
	LinkStatus() (ok bool, log string)

	UniformLocation(name string) int32
	UniformBlockIndex(name string) uint32
	SetUniformBlockBinding(index, binding uint32)

	SetUniformInt(location int32, v int32)
	SetUniformUint(location int32, v uint32)
	SetUniformUintVec2(location int32, v [2]uint32)
	SetUniformFloat(location int32, v float32)
	SetUniformVec2(location int32, v mgl32.Vec2)
	SetUniformVec4(location int32, v mgl32.Vec4)
	SetUniformMat3(location int32, m mgl32.Mat3)
	SetUniformMat4(location int32, m mgl32.Mat4)
	SetUniformMat3Slice(location int32, ms []mgl32.Mat3)
	SetUniformMat4Slice(location int32, ms []mgl32.Mat4)

	// Use makes the program current for subsequent draw calls.
	Use()
	Delete()
}

// BufferTarget selects which indexed binding target a buffer is bound to.
type BufferTarget int

const (
	TargetUniform BufferTarget = iota
	TargetShaderStorage
)

// Buffer is a GPU buffer that can be bound to an indexed target.
type Buffer interface {
	Bind(target BufferTarget, binding uint32)
	BindRange(target BufferTarget, binding uint32, offset, size int)
}

// Texture is a texture bindable to a texture unit.
type Texture interface {
	Bind(unit int32)
}

// Env bundles the collaborators a program is built against. Passing it
// explicitly, rather than consulting process-global context state, keeps
// compilation a function of its inputs.
type Env struct {
	Caps    meshvis.Caps
	Backend Backend

	// Resources supplies the GLSL text blocks. Nil means the embedded set.
	Resources Resources
}

func (e Env) resources() Resources {
	if e.Resources == nil {
		return EmbeddedResources()
	}
	return e.Resources
}
