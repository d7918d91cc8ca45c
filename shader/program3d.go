package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyfloyd/meshvis"
)

// Program3D visualizes 3D meshes. On top of the 2D feature set it can
// render tangent, bitangent and normal direction glyphs through the
// geometry stage.
type Program3D struct {
	programBase
	uniforms *Uniforms3D
	buffers  *Buffers3D
}

// CompileState3D holds a submitted but not yet linked 3D program.
type CompileState3D struct {
	compileState
}

// Compile3D validates the config and submits the shader sources for
// compilation without waiting for the result.
func Compile3D(env Env, cfg meshvis.Config) (*CompileState3D, error) {
	st, err := compile(env, cfg, meshvis.Dim3D)
	if err != nil {
		return nil, err
	}
	return &CompileState3D{compileState: *st}, nil
}

// Finalize consumes the compile state, checks compilation of all stages,
// links and resolves the uniform layout.
func (st *CompileState3D) Finalize() (*Program3D, error) {
	base, err := st.finalize()
	if err != nil {
		return nil, err
	}
	p := &Program3D{programBase: *base}
	if p.cfg.Flags.Has(meshvis.FlagUniformBuffers) {
		p.buffers = &Buffers3D{base: &p.programBase}
	} else {
		p.uniforms = &Uniforms3D{base: &p.programBase}
	}
	return p, nil
}

// Release frees the in-flight shader objects of an abandoned compile state.
func (st *CompileState3D) Release() { st.release() }

// New3D compiles and links a 3D visualizer synchronously.
func New3D(env Env, cfg meshvis.Config) (*Program3D, error) {
	st, err := Compile3D(env, cfg)
	if err != nil {
		return nil, err
	}
	return st.Finalize()
}

// Uniforms returns the direct uniform surface. It is a contract violation
// on a program created with uniform buffers enabled.
func (p *Program3D) Uniforms() (*Uniforms3D, error) {
	if p.uniforms == nil {
		return nil, contractErr("Program3D.Uniforms", "the shader was created with uniform buffers enabled")
	}
	return p.uniforms, nil
}

// Buffers returns the buffer binding surface. It is a contract violation on
// a program created without uniform buffers.
func (p *Program3D) Buffers() (*Buffers3D, error) {
	if p.buffers == nil {
		return nil, contractErr("Program3D.Buffers", "the shader was not created with uniform buffers enabled")
	}
	return p.buffers, nil
}

// SetViewportSize sets the viewport size the geometry shader scales line
// widths by. A silent no-op on variants without the geometry stage.
func (p *Program3D) SetViewportSize(size mgl32.Vec2) {
	p.setViewportSize(size)
}

// SetDrawOffset selects which entry of the draw buffer subsequent draws
// read. Only meaningful with uniform buffers.
func (p *Program3D) SetDrawOffset(offset uint) error {
	return p.setDrawOffset("Program3D.SetDrawOffset", offset)
}

// SetDynamicPerVertexJointCount lowers the consumed joint attribute
// components below the compiled-in counts.
func (p *Program3D) SetDynamicPerVertexJointCount(primary, secondary uint) error {
	return p.setDynamicPerVertexJointCount("Program3D.SetDynamicPerVertexJointCount", primary, secondary)
}

// BindColorMapTexture binds the ID colorization lookup texture.
func (p *Program3D) BindColorMapTexture(t Texture) error {
	return p.bindColorMapTexture("Program3D.BindColorMapTexture", t)
}

// BindObjectIdTexture binds the per-texel object ID source texture.
func (p *Program3D) BindObjectIdTexture(t Texture) error {
	return p.bindObjectIdTexture("Program3D.BindObjectIdTexture", t)
}

// Uniforms3D is the direct uniform surface of a 3D visualizer.
type Uniforms3D struct {
	base *programBase
}

func (u *Uniforms3D) SetTransformationMatrix(m mgl32.Mat4) error {
	u.base.prog.SetUniformMat4(u.base.layout.transformationMatrix, m)
	return nil
}

func (u *Uniforms3D) SetProjectionMatrix(m mgl32.Mat4) error {
	u.base.prog.SetUniformMat4(u.base.layout.projectionMatrix, m)
	return nil
}

// SetNormalMatrix sets the matrix the TBN glyph directions are transformed
// by, usually the inverse transpose of the upper 3x3 transformation.
func (u *Uniforms3D) SetNormalMatrix(m mgl32.Mat3) error {
	if u.base.cfg.Flags&tbnDirectionFlags() == 0 {
		return contractErr("Uniforms3D.SetNormalMatrix", "the shader was not created with TBN direction enabled")
	}
	u.base.prog.SetUniformMat3(u.base.layout.normalMatrix, m)
	return nil
}

// SetColor sets the base color. With wireframe rendering and no other
// feature this is the face color.
func (u *Uniforms3D) SetColor(c mgl32.Vec4) error {
	if u.base.cfg.Flags&vizColorFlags() == 0 {
		return contractErr("Uniforms3D.SetColor", "the shader was not created with wireframe or object/vertex/primitive ID enabled")
	}
	u.base.prog.SetUniformVec4(u.base.layout.color, c)
	return nil
}

func (u *Uniforms3D) SetWireframeColor(c mgl32.Vec4) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagWireframe) {
		return contractErr("Uniforms3D.SetWireframeColor", "the shader was not created with wireframe enabled")
	}
	u.base.prog.SetUniformVec4(u.base.layout.wireframeColor, c)
	return nil
}

func (u *Uniforms3D) SetWireframeWidth(w float32) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagWireframe) {
		return contractErr("Uniforms3D.SetWireframeWidth", "the shader was not created with wireframe enabled")
	}
	u.base.prog.SetUniformFloat(u.base.layout.wireframeWidth, w)
	return nil
}

// SetSmoothness sets the edge antialiasing width in pixels. Shared between
// the wireframe overlay and the TBN glyphs.
func (u *Uniforms3D) SetSmoothness(s float32) error {
	f := u.base.cfg.Flags
	if !f.Has(meshvis.FlagWireframe) && f&tbnDirectionFlags() == 0 {
		return contractErr("Uniforms3D.SetSmoothness", "the shader was not created with wireframe or TBN direction enabled")
	}
	u.base.prog.SetUniformFloat(u.base.layout.smoothness, s)
	return nil
}

// SetLineWidth sets the width of the TBN direction glyph lines in pixels.
func (u *Uniforms3D) SetLineWidth(w float32) error {
	if u.base.cfg.Flags&tbnDirectionFlags() == 0 {
		return contractErr("Uniforms3D.SetLineWidth", "the shader was not created with TBN direction enabled")
	}
	u.base.prog.SetUniformFloat(u.base.layout.lineWidth, w)
	return nil
}

// SetLineLength sets the length of the TBN direction glyph lines in model
// space.
func (u *Uniforms3D) SetLineLength(l float32) error {
	if u.base.cfg.Flags&tbnDirectionFlags() == 0 {
		return contractErr("Uniforms3D.SetLineLength", "the shader was not created with TBN direction enabled")
	}
	u.base.prog.SetUniformFloat(u.base.layout.lineLength, l)
	return nil
}

// SetColorMapTransformation sets the offset and per-ID scale applied to
// the color map coordinate.
func (u *Uniforms3D) SetColorMapTransformation(offset, scale float32) error {
	if !u.base.cfg.Flags.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		return contractErr("Uniforms3D.SetColorMapTransformation", "the shader was not created with object/vertex/primitive ID enabled")
	}
	u.base.prog.SetUniformVec2(u.base.layout.colorMapOffsetScale, mgl32.Vec2{offset, scale})
	return nil
}

func (u *Uniforms3D) SetTextureMatrix(m mgl32.Mat3) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagTextureTransformation) {
		return contractErr("Uniforms3D.SetTextureMatrix", "the shader was not created with texture transformation enabled")
	}
	u.base.prog.SetUniformMat3(u.base.layout.textureMatrix, m)
	return nil
}

func (u *Uniforms3D) SetTextureLayer(layer uint32) error {
	if !u.base.cfg.Flags.Has(meshvis.FlagTextureArrays) {
		return contractErr("Uniforms3D.SetTextureLayer", "the shader was not created with texture arrays enabled")
	}
	u.base.prog.SetUniformUint(u.base.layout.textureLayer, layer)
	return nil
}

// SetObjectId sets the per-draw object ID. Not available with instanced
// object ID, where the attribute supplies it.
func (u *Uniforms3D) SetObjectId(id uint32) error {
	f := u.base.cfg.Flags
	if !f.Has(meshvis.FlagObjectId) || f.Has(meshvis.FlagInstancedObjectId) {
		return contractErr("Uniforms3D.SetObjectId", "the shader was not created with non-instanced object ID enabled")
	}
	u.base.prog.SetUniformUint(u.base.layout.objectId, id)
	return nil
}

// SetJointMatrices uploads skinning matrices starting at joint 0. Joints
// past the end of the slice keep their previous values.
func (u *Uniforms3D) SetJointMatrices(ms []mgl32.Mat4) error {
	if u.base.cfg.JointCount == 0 {
		return contractErr("Uniforms3D.SetJointMatrices", "the shader was not created with joint count enabled")
	}
	if uint(len(ms)) > u.base.cfg.JointCount {
		return contractErr("Uniforms3D.SetJointMatrices", "expected at most %d matrices, got %d", u.base.cfg.JointCount, len(ms))
	}
	u.base.prog.SetUniformMat4Slice(u.base.layout.jointMatrices, ms)
	return nil
}

// SetJointMatrix sets a single skinning matrix. The index is checked
// against the configured joint count, never clamped.
func (u *Uniforms3D) SetJointMatrix(id uint, m mgl32.Mat4) error {
	if id >= u.base.cfg.JointCount {
		return contractErr("Uniforms3D.SetJointMatrix", "joint ID %d is out of bounds for %d joints", id, u.base.cfg.JointCount)
	}
	u.base.prog.SetUniformMat4(u.base.layout.jointMatrices+int32(id), m)
	return nil
}

// SetPerInstanceJointCount sets how many joints each instance advances the
// joint ID attribute by.
func (u *Uniforms3D) SetPerInstanceJointCount(count uint) error {
	if u.base.cfg.JointCount == 0 {
		return contractErr("Uniforms3D.SetPerInstanceJointCount", "the shader was not created with joint count enabled")
	}
	u.base.prog.SetUniformUint(u.base.layout.perInstanceJointCount, uint32(count))
	return nil
}

// Buffers3D is the buffer binding surface of a 3D visualizer built with
// FlagUniformBuffers.
type Buffers3D struct {
	base *programBase
}

func (b *Buffers3D) BindProjectionBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), ProjectionBufferBinding)
	return nil
}

func (b *Buffers3D) BindProjectionBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), ProjectionBufferBinding, offset, size)
	return nil
}

func (b *Buffers3D) BindTransformationBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), TransformationBufferBinding)
	return nil
}

func (b *Buffers3D) BindTransformationBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), TransformationBufferBinding, offset, size)
	return nil
}

func (b *Buffers3D) BindDrawBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), DrawBufferBinding)
	return nil
}

func (b *Buffers3D) BindDrawBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), DrawBufferBinding, offset, size)
	return nil
}

func (b *Buffers3D) BindMaterialBuffer(buf Buffer) error {
	buf.Bind(b.base.bufferTarget(), MaterialBufferBinding)
	return nil
}

func (b *Buffers3D) BindMaterialBufferRange(buf Buffer, offset, size int) error {
	buf.BindRange(b.base.bufferTarget(), MaterialBufferBinding, offset, size)
	return nil
}

func (b *Buffers3D) BindTextureTransformationBuffer(buf Buffer) error {
	if !b.base.cfg.Flags.Has(meshvis.FlagTextureTransformation) {
		return contractErr("Buffers3D.BindTextureTransformationBuffer", "the shader was not created with texture transformation enabled")
	}
	buf.Bind(b.base.bufferTarget(), TextureTransformationBufferBinding)
	return nil
}

func (b *Buffers3D) BindTextureTransformationBufferRange(buf Buffer, offset, size int) error {
	if !b.base.cfg.Flags.Has(meshvis.FlagTextureTransformation) {
		return contractErr("Buffers3D.BindTextureTransformationBufferRange", "the shader was not created with texture transformation enabled")
	}
	buf.BindRange(b.base.bufferTarget(), TextureTransformationBufferBinding, offset, size)
	return nil
}

func (b *Buffers3D) BindJointBuffer(buf Buffer) error {
	if b.base.cfg.JointCount == 0 && !b.base.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) {
		return contractErr("Buffers3D.BindJointBuffer", "the shader was not created with joint matrices enabled")
	}
	buf.Bind(b.base.bufferTarget(), JointBufferBinding)
	return nil
}

func (b *Buffers3D) BindJointBufferRange(buf Buffer, offset, size int) error {
	if b.base.cfg.JointCount == 0 && !b.base.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) {
		return contractErr("Buffers3D.BindJointBufferRange", "the shader was not created with joint matrices enabled")
	}
	buf.BindRange(b.base.bufferTarget(), JointBufferBinding, offset, size)
	return nil
}
