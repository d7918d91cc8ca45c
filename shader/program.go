package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyfloyd/meshvis"
)

// programBase carries the state shared by the 2D and 3D variants: the
// consumed config, the negotiated version and the resolved uniform layout.
type programBase struct {
	cfg     meshvis.Config
	dim     meshvis.Dim
	env     Env
	version meshvis.Version
	prog    Program
	layout  uniformLayout
}

// compileState owns the in-flight shader objects between submission and
// link. It is finalized exactly once; finalizing transfers ownership of the
// linked program.
type compileState struct {
	base             programBase
	vert, frag, geom StageShader
	done             bool
}

// compile runs validation, source assembly and compile submission. It
// returns with the driver compiling in the background where supported.
func compile(env Env, cfg meshvis.Config, d meshvis.Dim) (*compileState, error) {
	asm, err := Assemble(cfg, d, env)
	if err != nil {
		return nil, err
	}

	st := &compileState{base: programBase{
		cfg:     cfg,
		dim:     d,
		env:     env,
		version: asm.Version,
	}}
	st.vert = createStage(env.Backend, asm.Version, StageVertex, asm.Vertex)
	st.frag = createStage(env.Backend, asm.Version, StageFragment, asm.Fragment)
	if asm.Geometry != nil {
		st.geom = createStage(env.Backend, asm.Version, StageGeometry, asm.Geometry)
	}
	return st, nil
}

func createStage(b Backend, v meshvis.Version, stage Stage, sources []string) StageShader {
	sh := b.CreateShader(v, stage)
	for _, src := range sources {
		sh.AddSource(src)
	}
	sh.SubmitCompile()
	return sh
}

// finalize checks all stage compilations, links and resolves the layout.
// The stage shaders are released in every outcome.
func (st *compileState) finalize() (*programBase, error) {
	if st.done {
		return nil, contractErr("CompileState.Finalize", "the compile state was already finalized")
	}
	st.done = true
	defer st.release()

	stages := []struct {
		sh    StageShader
		stage Stage
	}{
		{st.vert, StageVertex},
		{st.frag, StageFragment},
		{st.geom, StageGeometry},
	}
	for _, s := range stages {
		if s.sh == nil {
			continue
		}
		if ok, log := s.sh.CompileStatus(); !ok {
			return nil, CompileError{Stage: s.stage, Log: log}
		}
	}

	base := st.base
	p := base.env.Backend.CreateProgram()
	p.AttachShader(st.vert)
	p.AttachShader(st.frag)
	if st.geom != nil {
		p.AttachShader(st.geom)
	}
	bindAttributes(p, base.cfg, base.dim, base.version, base.env.Caps)
	p.SubmitLink()
	if ok, log := p.LinkStatus(); !ok {
		p.Delete()
		return nil, LinkError{Log: log}
	}

	base.prog = p
	base.layout = resolveUniforms(p, base.cfg, base.dim, base.version, base.env.Caps)
	bindTextureUnitsAndBlocks(p, base.cfg, base.dim, base.version, base.env.Caps)
	base.applyESDefaults()
	return &base, nil
}

// release frees the stage shader objects. Safe to call on an abandoned
// compile state; a linked program is unaffected.
func (st *compileState) release() {
	for _, sh := range []StageShader{st.vert, st.frag, st.geom} {
		if sh != nil {
			sh.Delete()
		}
	}
	st.vert, st.frag, st.geom = nil, nil, nil
}

// applyESDefaults primes the default uniform values on GLES-family
// contexts. Desktop GL encodes the defaults in the shader text instead.
func (b *programBase) applyESDefaults() {
	if b.env.Caps.Target() == meshvis.TargetGL || b.cfg.Flags.Has(meshvis.FlagUniformBuffers) {
		// Viewport size and draw offset start at zero either way.
		return
	}
	f := b.cfg.Flags
	l := b.layout
	p := b.prog

	if b.dim == meshvis.Dim2D {
		p.SetUniformMat3(l.transformationProjectionMatrix, mgl32.Ident3())
	} else {
		p.SetUniformMat4(l.transformationMatrix, mgl32.Ident4())
		p.SetUniformMat4(l.projectionMatrix, mgl32.Ident4())
	}
	if f&vizColorFlags() != 0 {
		p.SetUniformVec4(l.color, mgl32.Vec4{1, 1, 1, 1})
	}
	if f.Has(meshvis.FlagWireframe) {
		p.SetUniformVec4(l.wireframeColor, mgl32.Vec4{0, 0, 0, 1})
		p.SetUniformFloat(l.wireframeWidth, 1)
	}
	if f.Has(meshvis.FlagWireframe) || (b.dim == meshvis.Dim3D && f&tbnDirectionFlags() != 0) {
		p.SetUniformFloat(l.smoothness, 2)
	}
	if f.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		p.SetUniformVec2(l.colorMapOffsetScale, mgl32.Vec2{1.0 / 512.0, 1.0 / 256.0})
	}
	if b.dim == meshvis.Dim3D && f&tbnDirectionFlags() != 0 {
		p.SetUniformMat3(l.normalMatrix, mgl32.Ident3())
		p.SetUniformFloat(l.lineWidth, 1)
		p.SetUniformFloat(l.lineLength, 1)
	}
	if f.Has(meshvis.FlagDynamicPerVertexJointCount) {
		p.SetUniformUintVec2(l.perVertexJointCount, [2]uint32{
			uint32(b.cfg.PerVertexJointCount), uint32(b.cfg.SecondaryPerVertexJointCount),
		})
	}
}

// Flags returns the flags the program was built with.
func (b *programBase) Flags() meshvis.Flags { return b.cfg.Flags }

// Version returns the negotiated context version.
func (b *programBase) Version() meshvis.Version { return b.version }

// JointCount returns the configured total joint count.
func (b *programBase) JointCount() uint { return b.cfg.JointCount }

// Use makes the program current.
func (b *programBase) Use() { b.prog.Use() }

// Delete frees the linked program object.
func (b *programBase) Delete() {
	if b.prog != nil {
		b.prog.Delete()
		b.prog = nil
	}
}

func (b *programBase) setViewportSize(size mgl32.Vec2) {
	// Deliberately not an error when the stage consuming it is absent; the
	// relation to wireframe is too vague to make this a contract.
	if b.cfg.Flags&meshvis.GeometryShaderFlags(b.dim) != 0 &&
		!b.cfg.Flags.Has(meshvis.FlagNoGeometryShader) {
		b.prog.SetUniformVec2(b.layout.viewportSize, size)
	}
}

func (b *programBase) setDrawOffset(op string, offset uint) error {
	if !b.cfg.Flags.Has(meshvis.FlagUniformBuffers) {
		return contractErr(op, "the shader was not created with uniform buffers enabled")
	}
	if !b.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) && offset >= b.cfg.DrawCount {
		return contractErr(op, "draw offset %d is out of bounds for %d draws", offset, b.cfg.DrawCount)
	}
	if b.cfg.DrawCount > 1 || b.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) {
		b.prog.SetUniformUint(b.layout.drawOffset, uint32(offset))
	}
	return nil
}

func (b *programBase) setDynamicPerVertexJointCount(op string, primary, secondary uint) error {
	if !b.cfg.Flags.Has(meshvis.FlagDynamicPerVertexJointCount) {
		return contractErr(op, "the shader was not created with dynamic per-vertex joint count enabled")
	}
	if primary > b.cfg.PerVertexJointCount {
		return contractErr(op, "expected at most %d per-vertex joints, got %d", b.cfg.PerVertexJointCount, primary)
	}
	if secondary > b.cfg.SecondaryPerVertexJointCount {
		return contractErr(op, "expected at most %d secondary per-vertex joints, got %d", b.cfg.SecondaryPerVertexJointCount, secondary)
	}
	b.prog.SetUniformUintVec2(b.layout.perVertexJointCount, [2]uint32{uint32(primary), uint32(secondary)})
	return nil
}

func (b *programBase) bindColorMapTexture(op string, t Texture) error {
	if !b.cfg.Flags.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		return contractErr(op, "the shader was not created with object/vertex/primitive ID enabled")
	}
	t.Bind(ColorMapTextureUnit)
	return nil
}

func (b *programBase) bindObjectIdTexture(op string, t Texture) error {
	if !b.cfg.Flags.Has(meshvis.FlagObjectIdTexture) {
		return contractErr(op, "the shader was not created with object ID texture enabled")
	}
	t.Bind(ObjectIdTextureUnit)
	return nil
}

func (b *programBase) bufferTarget() BufferTarget {
	if b.cfg.Flags.Has(meshvis.FlagShaderStorageBuffers) {
		return TargetShaderStorage
	}
	return TargetUniform
}
