package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyfloyd/meshvis"
)

// Program2D visualizes 2D meshes. Depending on the flags it renders
// wireframe overlays or colorizes the mesh by object, vertex or primitive
// ID through a color map.
//
// Per-draw parameters are set through exactly one of two surfaces: the
// direct uniform setters returned by Uniforms, or the buffer binders
// returned by Buffers when the program was configured with
// FlagUniformBuffers. The choice is fixed at compile time.
type Program2D struct {
	programBase
	uniforms *Uniforms2D
	buffers  *Buffers2D
}

// CompileState2D holds a submitted but not yet linked 2D program. The
// caller may do unrelated work before finalizing, giving drivers with
// asynchronous compilers time to finish in the background.
type CompileState2D struct {
	compileState
}

// Compile2D validates the config and submits the shader sources for
// compilation without waiting for the result.
func Compile2D(env Env, cfg meshvis.Config) (*CompileState2D, error) {
	st, err := compile(env, cfg, meshvis.Dim2D)
	if err != nil {
		return nil, err
	}
	return &CompileState2D{compileState: *st}, nil
}

// Finalize consumes the compile state, checks compilation of all stages,
// links and resolves the uniform layout.
func (st *CompileState2D) Finalize() (*Program2D, error) {
	base, err := st.finalize()
	if err != nil {
		return nil, err
	}
	p := &Program2D{programBase: *base}
	if p.cfg.Flags.Has(meshvis.FlagUniformBuffers) {
		p.buffers = &Buffers2D{base: &p.programBase}
	} else {
		p.uniforms = &Uniforms2D{base: &p.programBase}
	}
	return p, nil
}

// Release frees the in-flight shader objects of an abandoned compile state.
func (st *CompileState2D) Release() { st.release() }

// New2D compiles and links a 2D visualizer synchronously.
func New2D(env Env, cfg meshvis.Config) (*Program2D, error) {
	st, err := Compile2D(env, cfg)
	if err != nil {
		return nil, err
	}
	return st.Finalize()
}

// Uniforms returns the direct uniform surface. It is a contract violation
// on a program created with uniform buffers enabled.
func (p *Program2D) Uniforms() (*Uniforms2D, error) {
	if p.uniforms == nil {
		return nil, contractErr("Program2D.Uniforms", "the shader was created with uniform buffers enabled")
	}
	return p.uniforms, nil
}

// Buffers returns the buffer binding surface. It is a contract violation on
// a program created without uniform buffers.
func (p *Program2D) Buffers() (*Buffers2D, error) {
	if p.buffers == nil {
		return nil, contractErr("Program2D.Buffers", "the shader was not created with uniform buffers enabled")
	}
	return p.buffers, nil
}

// SetViewportSize sets the viewport size the geometry shader scales line
// widths by. A silent no-op on variants without the geometry stage.
func (p *Program2D) SetViewportSize(size mgl32.Vec2) {
	p.setViewportSize(size)
}

// SetDrawOffset selects which entry of the draw buffer subsequent draws
// read. Only meaningful with uniform buffers.
func (p *Program2D) SetDrawOffset(offset uint) error {
	return p.setDrawOffset("Program2D.SetDrawOffset", offset)
}

// SetDynamicPerVertexJointCount lowers the consumed joint attribute
// components below the compiled-in counts.
func (p *Program2D) SetDynamicPerVertexJointCount(primary, secondary uint) error {
	return p.setDynamicPerVertexJointCount("Program2D.SetDynamicPerVertexJointCount", primary, secondary)
}

// BindColorMapTexture binds the ID colorization lookup texture.
func (p *Program2D) BindColorMapTexture(t Texture) error {
	return p.bindColorMapTexture("Program2D.BindColorMapTexture", t)
}

// BindObjectIdTexture binds the per-texel object ID source texture.
func (p *Program2D) BindObjectIdTexture(t Texture) error {
	return p.bindObjectIdTexture("Program2D.BindObjectIdTexture", t)
}

// Uniforms2D is the direct uniform surface of a 2D visualizer.
type Uniforms2D struct {
	base *programBase
}

func (u *Uniforms2D) SetTransformationProjectionMatrix(m mgl32.Mat3) error {
	u.base.prog.SetUniformMat3(u.base.layout.transformationProjectionMatrix, m)
	return nil
}

// SetColor sets the base color. With wireframe rendering and no other
// feature this is the face color.
func (u *Uniforms2D) SetColor(c mgl32.Vec4) error {
	if u.base.cfg.Flags&vizColorFlags() == 0 {
		return contractErr("Uniforms2D.SetColor", "the shader was not created with wireframe or object/vertex/primitive ID enabled")
	}
	u.base.prog.SetUniformVec4(u.base.layout.color, c)
	return nil
}

func (u *Uniforms2D) SetWireframeColor(c mgl32.Vec4) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagWireframe) {
		return contractErr("Uniforms2D.SetWireframeColor", "the shader was not created with wireframe enabled")
	}
	u.base.prog.SetUniformVec4(u.base.layout.wireframeColor, c)
	return nil
}

func (u *Uniforms2D) SetWireframeWidth(w float32) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagWireframe) {
		return contractErr("Uniforms2D.SetWireframeWidth", "the shader was not created with wireframe enabled")
	}
	u.base.prog.SetUniformFloat(u.base.layout.wireframeWidth, w)
	return nil
}

// SetSmoothness sets the edge antialiasing width in pixels.
func (u *Uniforms2D) SetSmoothness(s float32) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagWireframe) {
		return contractErr("Uniforms2D.SetSmoothness", "the shader was not created with wireframe enabled")
	}
	u.base.prog.SetUniformFloat(u.base.layout.smoothness, s)
	return nil
}

// SetColorMapTransformation sets the offset and per-ID scale applied to
// the color map coordinate.
func (u *Uniforms2D) SetColorMapTransformation(offset, scale float32) error {
	if !u.base.cfg.Flags.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		return contractErr("Uniforms2D.SetColorMapTransformation", "the shader was not created with object/vertex/primitive ID enabled")
	}
	u.base.prog.SetUniformVec2(u.base.layout.colorMapOffsetScale, mgl32.Vec2{offset, scale})
	return nil
}

func (u *Uniforms2D) SetTextureMatrix(m mgl32.Mat3) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagTextureTransformation) {
		return contractErr("Uniforms2D.SetTextureMatrix", "the shader was not created with texture transformation enabled")
	}
	u.base.prog.SetUniformMat3(u.base.layout.textureMatrix, m)
	return nil
}

func (u *Uniforms2D) SetTextureLayer(layer uint32) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagTextureArrays) {
		return contractErr("Uniforms2D.SetTextureLayer", "the shader was not created with texture arrays enabled")
	}
	u.base.prog.SetUniformUint(u.base.layout.textureLayer, layer)
	return nil
}

// SetObjectId sets the per-draw object ID. Not available with instanced
// object ID, where the attribute supplies it.
func (u *Uniforms2D) SetObjectId(id uint32) error {
	f := u.base.cfg.Flags
	if !f.Has(meshvis.FlagObjectId) || f.Has(meshvis.FlagInstancedObjectId) {
		return contractErr("Uniforms2D.SetObjectId", "the shader was not created with non-instanced object ID enabled")
	}
	u.base.prog.SetUniformUint(u.base.layout.objectId, id)
	return nil
}

// SetJointMatrices uploads skinning matrices starting at joint 0. Joints
// past the end of the slice keep their previous values.
func (u *Uniforms2D) SetJointMatrices(ms []mgl32.Mat3) error {
	if u.base.cfg.JointCount == 0 {
		return contractErr("Uniforms2D.SetJointMatrices", "the shader was not created with joint count enabled")
	}
	if uint(len(ms)) > u.base.cfg.JointCount {
		return contractErr("Uniforms2D.SetJointMatrices", "expected at most %d matrices, got %d", u.base.cfg.JointCount, len(ms))
	}
	u.base.prog.SetUniformMat3Slice(u.base.layout.jointMatrices, ms)
	return nil
}

// SetJointMatrix sets a single skinning matrix. The index is checked
// against the configured joint count, never clamped.
func (u *Uniforms2D) SetJointMatrix(id uint, m mgl32.Mat3) error {
	if id >= u.base.cfg.JointCount {
		return contractErr("Uniforms2D.SetJointMatrix", "joint ID %d is out of bounds for %d joints", id, u.base.cfg.JointCount)
	}
	u.base.prog.SetUniformMat3(u.base.layout.jointMatrices+int32(id), m)
	return nil
}

// SetPerInstanceJointCount sets how many joints each instance advances the
// joint ID attribute by.
func (u *Uniforms2D) SetPerInstanceJointCount(count uint) error {
	if u.base.cfg.JointCount == 0 {
		return contractErr("Uniforms2D.SetPerInstanceJointCount", "the shader was not created with joint count enabled")
	}
	u.base.prog.SetUniformUint(u.base.layout.perInstanceJointCount, uint32(count))
	return nil
}

// Buffers2D is the buffer binding surface of a 2D visualizer built with
// FlagUniformBuffers.
type Buffers2D struct {
	base *programBase
}

func (b *Buffers2D) BindTransformationProjectionBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), TransformationProjectionBufferBinding)
	return nil
}

func (b *Buffers2D) BindTransformationProjectionBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), TransformationProjectionBufferBinding, offset, size)
	return nil
}

func (b *Buffers2D) BindDrawBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), DrawBufferBinding)
	return nil
}

func (b *Buffers2D) BindDrawBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), DrawBufferBinding, offset, size)
	return nil
}

func (b *Buffers2D) BindMaterialBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), MaterialBufferBinding)
	return nil
}

func (b *Buffers2D) BindMaterialBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), MaterialBufferBinding, offset, size)
	return nil
}

func (b *Buffers2D) BindTextureTransformationBuffer(buf Buffer) error {
	if !b.base.cfg.Flags.Has(meshvis.FlagTextureTransformation) {
		return contractErr("Buffers2D.BindTextureTransformationBuffer", "the shader was not created with texture transformation enabled")
	}
	buf.Bind(b.base.bufferTarget(), TextureTransformationBufferBinding)
	return nil
}

func (b *Buffers2D) BindTextureTransformationBufferRange(buf Buffer, offset, size int) error {
	if !b.base.cfg.Flags.Has(meshvis.FlagTextureTransformation) {
		return contractErr("Buffers2D.BindTextureTransformationBufferRange", "the shader was not created with texture transformation enabled")
	}
	buf.BindRange(b.base.bufferTarget(), TextureTransformationBufferBinding, offset, size)
	return nil
}

func (b *Buffers2D) BindJointBuffer(buf Buffer) error {
	if b.base.cfg.JointCount == 0 && !b.base.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) {
		return contractErr("Buffers2D.BindJointBuffer", "the shader was not created with joint matrices enabled")
	}
	buf.Bind(b.base.bufferTarget(), JointBufferBinding)
	return nil
}

func (b *Buffers2D) BindJointBufferRange(buf Buffer, offset, size int) error {
	if b.base.cfg.JointCount == 0 && !b.base.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) {
		return contractErr("Buffers2D.BindJointBufferRange", "the shader was not created with joint matrices enabled")
	}
	buf.BindRange(b.base.bufferTarget(), JointBufferBinding, offset, size)
	return nil
}
