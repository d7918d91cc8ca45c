package meshvis

import "fmt"

// Dim selects the two- or three-dimensional shader variant. The 3D variant
// additionally understands the TBN direction flags.
type Dim int

const (
	Dim2D Dim = 2
	Dim3D Dim = 3
)

func (d Dim) String() string {
	if d == Dim2D {
		return "2D"
	}
	return "3D"
}

// Config bundles everything that deterministically selects one shader
// source variant: the feature flags plus the sizing counts baked into the
// shader text. It is consumed once by compilation and never mutated by this
// package afterwards.
type Config struct {
	Flags Flags

	// JointCount is the total number of joint matrices, sizing the uniform
	// array or buffer. PerVertexJointCount and SecondaryPerVertexJointCount
	// are how many of the primary/secondary joint attribute components are
	// used, at most 4 each.
	JointCount                   uint
	PerVertexJointCount          uint
	SecondaryPerVertexJointCount uint

	// MaterialCount and DrawCount size the fixed-capacity material and draw
	// uniform buffers. Ignored without FlagUniformBuffers; unbounded under
	// FlagShaderStorageBuffers.
	MaterialCount uint
	DrawCount     uint
}

// NewConfig returns a Config with the given flags and the same defaults the
// original constructors use: one material, one draw, no skinning.
func NewConfig(flags Flags) Config {
	return Config{Flags: flags, MaterialCount: 1, DrawCount: 1}
}

// WithJointCount returns a copy of the config sized for skinning. Validation
// of the count invariants happens in Validate.
func (c Config) WithJointCount(total, perVertex, secondary uint) Config {
	c.JointCount = total
	c.PerVertexJointCount = perVertex
	c.SecondaryPerVertexJointCount = secondary
	return c
}

// tbnFlags are the geometry-shader-consuming direction flags, 3D only.
const tbnFlags = Flags(FlagTangentDirection) | Flags(FlagBitangentFromTangentDirection) |
	Flags(FlagBitangentDirection) | Flags(FlagNormalDirection)

// vizFlags2D and vizFlags3D are the flags that count as a visualization
// feature for the respective dimensionality.
const vizFlags2D = Flags(FlagWireframe) | Flags(FlagObjectId) | Flags(FlagVertexId) |
	Flags(FlagPrimitiveId)
const vizFlags3D = vizFlags2D | tbnFlags

// GeometryShaderFlags returns the subset of flags that require the geometry
// shader stage for the given dimensionality.
func GeometryShaderFlags(d Dim) Flags {
	if d == Dim3D {
		return Flags(FlagWireframe) | tbnFlags
	}
	return Flags(FlagWireframe)
}

// Validate checks the flag combination and sizing counts against each other
// and against the context capabilities. It must pass before any backend
// object is created; on failure no GPU resource has been touched.
func (c Config) Validate(d Dim, caps Caps) error {
	op := fmt.Sprintf("meshvis: Config.Validate(%v)", d)
	fail := func(format string, args ...interface{}) error {
		return ContractError{Op: op, Reason: fmt.Sprintf(format, args...)}
	}
	f := c.Flags

	countMutuallyExclusive := 0
	if f.Has(FlagObjectId) {
		countMutuallyExclusive++
	}
	if f.Has(FlagVertexId) {
		countMutuallyExclusive++
	}
	if f.Has(FlagPrimitiveId) {
		countMutuallyExclusive++
	}
	if countMutuallyExclusive > 1 {
		return fail("ObjectId, VertexId and PrimitiveId are mutually exclusive")
	}

	viz := vizFlags2D
	if d == Dim3D {
		viz = vizFlags3D
	} else if f&tbnFlags != 0 {
		return fail("TBN direction rendering is only available in 3D")
	}
	if f&viz&^Flags(FlagNoGeometryShader) == 0 {
		return fail("at least one visualization feature has to be enabled")
	}

	if f.Has(FlagNoGeometryShader) && f&tbnFlags != 0 {
		return fail("geometry shader has to be enabled when rendering TBN direction")
	}
	if f.Has(FlagBitangentDirection) && f.Has(FlagBitangentFromTangentDirection) {
		return fail("BitangentDirection and BitangentFromTangentDirection are mutually exclusive")
	}
	if f.Has(FlagInstancedObjectId) && f.Has(FlagBitangentDirection) {
		return fail("Bitangent attribute binding conflicts with the ObjectId attribute, use a Tangent4 attribute with instanced object ID rendering instead")
	}
	if f.Has(FlagTextureTransformation) && !f.Has(FlagObjectIdTexture) {
		return fail("texture transformation enabled but the shader is not textured")
	}
	if f.Has(FlagTextureArrays) && !f.Has(FlagObjectIdTexture) {
		return fail("texture arrays enabled but the shader is not textured")
	}

	if c.PerVertexJointCount > 4 {
		return fail("expected at most 4 per-vertex joints, got %d", c.PerVertexJointCount)
	}
	if c.SecondaryPerVertexJointCount > 4 {
		return fail("expected at most 4 secondary per-vertex joints, got %d", c.SecondaryPerVertexJointCount)
	}
	// The shader storage path has runtime-sized arrays, so the fixed counts
	// are meaningless there and deliberately not checked.
	if !f.Has(FlagShaderStorageBuffers) {
		if c.JointCount == 0 && (c.PerVertexJointCount != 0 || c.SecondaryPerVertexJointCount != 0) {
			return fail("joint count can't be zero if per-vertex joint count is nonzero")
		}
		if c.JointCount != 0 && c.PerVertexJointCount == 0 && c.SecondaryPerVertexJointCount == 0 {
			return fail("per-vertex joint count can't be zero if joint count is nonzero")
		}
		if f.Has(FlagUniformBuffers) {
			if c.MaterialCount == 0 {
				return fail("material count can't be zero")
			}
			if c.DrawCount == 0 {
				return fail("draw count can't be zero")
			}
		}
	}
	if f.Has(FlagDynamicPerVertexJointCount) &&
		c.PerVertexJointCount == 0 && c.SecondaryPerVertexJointCount == 0 {
		return fail("DynamicPerVertexJointCount enabled but the per-vertex joint count is zero")
	}
	if f.Has(FlagInstancedTransformation) && c.SecondaryPerVertexJointCount != 0 {
		return fail("TransformationMatrix attribute binding conflicts with the SecondaryJointIds attribute")
	}

	return c.validateCaps(op, d, caps)
}

func (c Config) validateCaps(op string, d Dim, caps Caps) error {
	unsupported := func(required string) error {
		return UnsupportedError{Op: op, Required: required}
	}
	f := c.Flags
	target := caps.Target()

	if f.Has(FlagUniformBuffers) {
		switch target {
		case TargetGL:
			if !caps.IsExtensionSupported(ExtARBUniformBufferObject, caps.SupportedVersion(VersionPreferenceGL)) &&
				!caps.IsVersionSupported(GL310) {
				return unsupported(ExtARBUniformBufferObject.String())
			}
		default:
			if !caps.IsVersionSupported(GLES300) {
				return unsupported("OpenGL ES 3.0")
			}
		}
	}
	if f.Has(FlagShaderStorageBuffers) {
		switch target {
		case TargetGL:
			if !caps.IsExtensionSupported(ExtARBShaderStorageBufferObject, caps.SupportedVersion(VersionPreferenceGL)) {
				return unsupported(ExtARBShaderStorageBufferObject.String())
			}
		case TargetGLES:
			if !caps.IsVersionSupported(GLES310) {
				return unsupported("OpenGL ES 3.1")
			}
		default:
			return unsupported("shader storage buffers")
		}
	}
	if f.Has(FlagMultiDraw) {
		var ext Extension
		switch target {
		case TargetGL:
			ext = ExtARBShaderDrawParameters
		case TargetGLES:
			ext = ExtANGLEMultiDraw
		default:
			ext = ExtWEBGLMultiDraw
		}
		if !caps.IsExtensionSupported(ext, caps.SupportedVersion(VersionPreference(target))) {
			return unsupported(ext.String())
		}
	}

	needsGS := f&GeometryShaderFlags(d) != 0 && !f.Has(FlagNoGeometryShader)
	if needsGS {
		switch target {
		case TargetGL:
			if !caps.IsVersionSupported(GL320) {
				return unsupported(GL320.String())
			}
			if !caps.IsExtensionSupported(ExtARBGeometryShader4, GL320) {
				return unsupported(ExtARBGeometryShader4.String())
			}
		case TargetGLES:
			if !caps.IsVersionSupported(GLES320) &&
				!caps.IsExtensionSupported(ExtEXTGeometryShader, caps.SupportedVersion(VersionPreferenceGLES)) {
				return unsupported(ExtEXTGeometryShader.String())
			}
		default:
			return unsupported("geometry shaders")
		}
	}
	if f.Has(FlagWireframe) && f.Has(FlagNoGeometryShader) &&
		target != TargetGL && !caps.IsVersionSupported(GLES300) &&
		!caps.IsExtensionSupported(ExtOESStandardDerivatives, GLES200) {
		return unsupported(ExtOESStandardDerivatives.String())
	}

	if f.Has(FlagPrimitiveId) && !f.Has(FlagPrimitiveIdFromVertexId) {
		switch target {
		case TargetGL:
			if !caps.IsVersionSupported(GL320) {
				return unsupported("gl_PrimitiveID (OpenGL 3.2)")
			}
		case TargetGLES:
			if !caps.IsVersionSupported(GLES320) {
				return unsupported("gl_PrimitiveID (OpenGL ES 3.2)")
			}
		default:
			return unsupported("gl_PrimitiveID")
		}
	}
	if f.Has(FlagTextureArrays) && !caps.IsVersionSupported(GL300) && !caps.IsVersionSupported(GLES300) {
		return unsupported("2D array textures")
	}

	return nil
}
