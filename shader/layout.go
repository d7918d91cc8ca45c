package shader

import (
	"github.com/polyfloyd/meshvis"
)

// Buffer binding points and texture units are allocated statically and
// shared between the 2D and 3D variants, so that buffers staying bound
// while switching between compatible programs need no rebinding.
const (
	ProjectionBufferBinding               uint32 = 0
	TransformationBufferBinding           uint32 = 1
	TransformationProjectionBufferBinding uint32 = 1
	DrawBufferBinding                     uint32 = 2
	TextureTransformationBufferBinding    uint32 = 3
	MaterialBufferBinding                 uint32 = 4
	JointBufferBinding                    uint32 = 6
)

const (
	// ColorMapTextureUnit follows the four units taken by the Phong
	// shader's material textures.
	ColorMapTextureUnit int32 = 4
	ObjectIdTextureUnit int32 = 5
)

// Vertex attribute slots, shared with the other shaders of this family.
// Bitangent, ObjectId and VertexIndex deliberately share a slot; the
// validator rejects combinations that would need two of them at once.
const (
	AttrPosition             uint32 = 0
	AttrTextureCoordinates   uint32 = 1
	AttrTangent              uint32 = 3
	AttrBitangent            uint32 = 4
	AttrObjectId             uint32 = 4
	AttrVertexIndex          uint32 = 4
	AttrNormal               uint32 = 5
	AttrJointIds             uint32 = 6
	AttrWeights              uint32 = 7
	AttrTransformationMatrix uint32 = 8
	AttrSecondaryJointIds    uint32 = 10
	AttrSecondaryWeights     uint32 = 11
	AttrTextureOffset        uint32 = 15
)

// Explicit uniform locations, fixed in the shader text whenever the context
// supports explicit uniform location. Contexts without it get the same
// numbers through queries instead.
const (
	uniformTransformationProjectionMatrix int32 = 0 // 2D
	uniformTransformationMatrix           int32 = 0 // 3D
	uniformProjectionMatrix               int32 = 1
	uniformViewportSize                   int32 = 2
	uniformNormalMatrix                   int32 = 3
	uniformColor                          int32 = 4
	uniformWireframeColor                 int32 = 5
	uniformWireframeWidth                 int32 = 6
	uniformSmoothness                     int32 = 7
	uniformLineWidth                      int32 = 8
	uniformLineLength                     int32 = 9
	uniformColorMapOffsetScale            int32 = 10
	uniformTextureMatrix                  int32 = 11
	uniformTextureLayer                   int32 = 12
	uniformObjectId                       int32 = 13
	uniformDrawOffset                     int32 = 14
	uniformPerVertexJointCount            int32 = 15
	uniformPerInstanceJointCount          int32 = 16
	// The joint matrix array sits last, its size depends on the config.
	uniformJointMatrices int32 = 17
)

// uniformLayout is the resolved mapping from uniform role to location,
// computed once after a successful link and read-only afterwards. A -1
// location makes the corresponding setter a no-op, matching inactive
// uniforms being optimized out by the compiler.
type uniformLayout struct {
	viewportSize                   int32
	transformationProjectionMatrix int32
	transformationMatrix           int32
	projectionMatrix               int32
	normalMatrix                   int32
	color                          int32
	wireframeColor                 int32
	wireframeWidth                 int32
	smoothness                     int32
	lineWidth                      int32
	lineLength                     int32
	colorMapOffsetScale            int32
	textureMatrix                  int32
	textureLayer                   int32
	objectId                       int32
	drawOffset                     int32
	perVertexJointCount            int32
	perInstanceJointCount          int32
	jointMatrices                  int32
}

func newUniformLayout() uniformLayout {
	return uniformLayout{
		viewportSize:                   -1,
		transformationProjectionMatrix: -1,
		transformationMatrix:           -1,
		projectionMatrix:               -1,
		normalMatrix:                   -1,
		color:                          -1,
		wireframeColor:                 -1,
		wireframeWidth:                 -1,
		smoothness:                     -1,
		lineWidth:                      -1,
		lineLength:                     -1,
		colorMapOffsetScale:            -1,
		textureMatrix:                  -1,
		textureLayer:                   -1,
		objectId:                       -1,
		drawOffset:                     -1,
		perVertexJointCount:            -1,
		perInstanceJointCount:          -1,
		jointMatrices:                  -1,
	}
}

// resolveUniforms fills the layout after a successful link. When the
// context has explicit uniform locations the numbers are fixed at the
// source level and no query is needed.
func resolveUniforms(p Program, cfg meshvis.Config, d meshvis.Dim, version meshvis.Version, caps meshvis.Caps) uniformLayout {
	f := cfg.Flags
	l := newUniformLayout()

	explicit := caps.Target() == meshvis.TargetGL &&
		caps.IsExtensionSupported(meshvis.ExtARBExplicitUniformLocation, version)
	loc := func(fixed int32, name string) int32 {
		if explicit {
			return fixed
		}
		return p.UniformLocation(name)
	}

	gsActive := f&meshvis.GeometryShaderFlags(d) != 0 && !f.Has(meshvis.FlagNoGeometryShader)
	if gsActive {
		// Used on the uniform buffer path too, the viewport size is usually
		// a global setting.
		l.viewportSize = loc(uniformViewportSize, "viewportSize")
	}

	if f.Has(meshvis.FlagDynamicPerVertexJointCount) {
		l.perVertexJointCount = loc(uniformPerVertexJointCount, "perVertexJointCount")
	}

	if f.Has(meshvis.FlagUniformBuffers) {
		if cfg.DrawCount > 1 || f.Has(meshvis.FlagShaderStorageBuffers) {
			l.drawOffset = loc(uniformDrawOffset, "drawOffset")
		}
		return l
	}

	if d == meshvis.Dim2D {
		l.transformationProjectionMatrix = loc(uniformTransformationProjectionMatrix, "transformationProjectionMatrix")
	} else {
		l.transformationMatrix = loc(uniformTransformationMatrix, "transformationMatrix")
		l.projectionMatrix = loc(uniformProjectionMatrix, "projectionMatrix")
	}
	if f&vizColorFlags() != 0 {
		l.color = loc(uniformColor, "color")
	}
	if f.Has(meshvis.FlagWireframe) {
		l.wireframeColor = loc(uniformWireframeColor, "wireframeColor")
		l.wireframeWidth = loc(uniformWireframeWidth, "wireframeWidth")
	}
	if f.Has(meshvis.FlagWireframe) || (d == meshvis.Dim3D && f&tbnDirectionFlags() != 0) {
		l.smoothness = loc(uniformSmoothness, "smoothness")
	}
	if f.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		l.colorMapOffsetScale = loc(uniformColorMapOffsetScale, "colorMapOffsetScale")
	}
	if f.Has(meshvis.FlagObjectIdTexture) {
		if f.Has(meshvis.FlagTextureTransformation) {
			l.textureMatrix = loc(uniformTextureMatrix, "textureMatrix")
		}
		if f.Has(meshvis.FlagTextureArrays) {
			l.textureLayer = loc(uniformTextureLayer, "textureLayer")
		}
	}
	if f.Has(meshvis.FlagObjectId) && !f.Has(meshvis.FlagInstancedObjectId) {
		l.objectId = loc(uniformObjectId, "objectId")
	}
	if d == meshvis.Dim3D && f&tbnDirectionFlags() != 0 {
		l.normalMatrix = loc(uniformNormalMatrix, "normalMatrix")
		l.lineWidth = loc(uniformLineWidth, "lineWidth")
		l.lineLength = loc(uniformLineLength, "lineLength")
	}
	if cfg.JointCount != 0 {
		l.perInstanceJointCount = loc(uniformPerInstanceJointCount, "perInstanceJointCount")
		l.jointMatrices = loc(uniformJointMatrices, "jointMatrices")
	}
	return l
}

// vizColorFlags are the features whose rendering is tinted by the color
// uniform.
func vizColorFlags() meshvis.Flags {
	return meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagObjectId) |
		meshvis.Flags(meshvis.FlagVertexId) | meshvis.Flags(meshvis.FlagPrimitiveId)
}

// bindTextureUnitsAndBlocks assigns sampler units and uniform block binding
// points after linking. Contexts with 420pack-style binding layout already
// have them fixed in the shader text.
func bindTextureUnitsAndBlocks(p Program, cfg meshvis.Config, d meshvis.Dim, version meshvis.Version, caps meshvis.Caps) {
	f := cfg.Flags
	if caps.Target() == meshvis.TargetGL &&
		caps.IsExtensionSupported(meshvis.ExtARBShadingLanguage420pack, version) {
		return
	}

	if f.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		p.SetUniformInt(p.UniformLocation("colorMapTexture"), ColorMapTextureUnit)
	}
	if f.Has(meshvis.FlagObjectIdTexture) {
		p.SetUniformInt(p.UniformLocation("objectIdTextureData"), ObjectIdTextureUnit)
	}

	if !f.Has(meshvis.FlagUniformBuffers) {
		return
	}
	bind := func(name string, binding uint32) {
		p.SetUniformBlockBinding(p.UniformBlockIndex(name), binding)
	}
	if d == meshvis.Dim2D {
		bind("TransformationProjection", TransformationProjectionBufferBinding)
	} else {
		bind("Projection", ProjectionBufferBinding)
		bind("Transformation", TransformationBufferBinding)
	}
	bind("Draw", DrawBufferBinding)
	if f.Has(meshvis.FlagTextureTransformation) {
		bind("TextureTransformation", TextureTransformationBufferBinding)
	}
	bind("Material", MaterialBufferBinding)
	if cfg.JointCount != 0 || f.Has(meshvis.FlagShaderStorageBuffers) {
		bind("Joint", JointBufferBinding)
	}
}

// bindAttributes assigns attribute slots before linking on contexts without
// explicit attribute locations in the shader text.
func bindAttributes(p Program, cfg meshvis.Config, d meshvis.Dim, version meshvis.Version, caps meshvis.Caps) {
	f := cfg.Flags
	target := caps.Target()
	if target == meshvis.TargetGL {
		if caps.IsExtensionSupported(meshvis.ExtARBExplicitAttribLocation, version) {
			return
		}
	} else if version.AtLeast(meshvis.GLES300) {
		// ES 3.0 shader text carries the locations itself.
		return
	}

	p.BindAttributeLocation(AttrPosition, "position")
	if f.Has(meshvis.FlagObjectIdTexture) {
		p.BindAttributeLocation(AttrTextureCoordinates, "textureCoordinates")
	}
	if f.Has(meshvis.FlagInstancedObjectId) {
		p.BindAttributeLocation(AttrObjectId, "instanceObjectId")
	}
	if d == meshvis.Dim3D {
		if f.HasAny(meshvis.FlagTangentDirection, meshvis.FlagBitangentFromTangentDirection) {
			p.BindAttributeLocation(AttrTangent, "tangent")
		}
		if f.Has(meshvis.FlagBitangentDirection) {
			p.BindAttributeLocation(AttrBitangent, "bitangent")
		}
		if f.HasAny(meshvis.FlagNormalDirection, meshvis.FlagBitangentFromTangentDirection) {
			p.BindAttributeLocation(AttrNormal, "normal")
		}
	}
	if cfg.PerVertexJointCount != 0 {
		p.BindAttributeLocation(AttrJointIds, "jointIds")
		p.BindAttributeLocation(AttrWeights, "weights")
	}
	if cfg.SecondaryPerVertexJointCount != 0 {
		p.BindAttributeLocation(AttrSecondaryJointIds, "secondaryJointIds")
		p.BindAttributeLocation(AttrSecondaryWeights, "secondaryWeights")
	}
	if f.Has(meshvis.FlagInstancedTransformation) {
		p.BindAttributeLocation(AttrTransformationMatrix, "instancedTransformationMatrix")
	}
	if f.Has(meshvis.FlagInstancedTextureOffset) {
		p.BindAttributeLocation(AttrTextureOffset, "instancedTextureOffset")
	}
	// The emulated vertex index is needed wherever gl_VertexID is not
	// guaranteed, which is below GL 3.1 and on ES2.
	if (target == meshvis.TargetGL && !caps.IsVersionSupported(meshvis.GL310)) ||
		version == meshvis.GLES200 {
		p.BindAttributeLocation(AttrVertexIndex, "vertexIndex")
	}
}
