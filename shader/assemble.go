package shader

import (
	"fmt"

	"github.com/polyfloyd/meshvis"
)

// DefineForFlag is the stable mapping from feature flag to preprocessor
// token. Kept as data so the mapping can be audited and tested apart from
// the emission order below.
var DefineForFlag = map[meshvis.Flag]string{
	meshvis.FlagWireframe:                     "WIREFRAME_RENDERING",
	meshvis.FlagNoGeometryShader:              "NO_GEOMETRY_SHADER",
	meshvis.FlagObjectId:                      "OBJECT_ID",
	meshvis.FlagInstancedObjectId:             "INSTANCED_OBJECT_ID",
	meshvis.FlagObjectIdTexture:               "TEXTURED",
	meshvis.FlagVertexId:                      "VERTEX_ID",
	meshvis.FlagPrimitiveId:                   "PRIMITIVE_ID",
	meshvis.FlagPrimitiveIdFromVertexId:       "PRIMITIVE_ID_FROM_VERTEX_ID",
	meshvis.FlagTangentDirection:              "TANGENT_DIRECTION",
	meshvis.FlagBitangentFromTangentDirection: "BITANGENT_FROM_TANGENT_DIRECTION",
	meshvis.FlagBitangentDirection:            "BITANGENT_DIRECTION",
	meshvis.FlagNormalDirection:               "NORMAL_DIRECTION",
	meshvis.FlagTextureTransformation:         "TEXTURE_TRANSFORMATION",
	meshvis.FlagTextureArrays:                 "TEXTURE_ARRAYS",
	meshvis.FlagInstancedTransformation:       "INSTANCED_TRANSFORMATION",
	meshvis.FlagInstancedTextureOffset:        "INSTANCED_TEXTURE_OFFSET",
	meshvis.FlagUniformBuffers:                "UNIFORM_BUFFERS",
	meshvis.FlagShaderStorageBuffers:          "SHADER_STORAGE_BUFFERS",
	meshvis.FlagMultiDraw:                     "MULTI_DRAW",
	meshvis.FlagDynamicPerVertexJointCount:    "DYNAMIC_PER_VERTEX_JOINT_COUNT",
}

// Assembly is the ordered per-stage source text for one shader variant,
// ready for submission to a Backend. Geometry is nil when the variant has no
// geometry stage. Assembling the same validated config against the same
// capabilities is deterministic down to the byte.
type Assembly struct {
	Version meshvis.Version

	Vertex   []string
	Fragment []string
	Geometry []string
}

// Assemble validates the config and produces the shader sources for it. No
// backend object is touched; errors are either validation failures or
// missing resources.
func Assemble(cfg meshvis.Config, d meshvis.Dim, env Env) (*Assembly, error) {
	if err := cfg.Validate(d, env.Caps); err != nil {
		return nil, err
	}

	target := env.Caps.Target()
	version := env.Caps.SupportedVersion(meshvis.VersionPreference(target))
	if version == meshvis.VersionNone {
		return nil, meshvis.UnsupportedError{
			Op:       "shader: Assemble",
			Required: "any known context version",
		}
	}

	f := cfg.Flags
	needGS := f&meshvis.GeometryShaderFlags(d) != 0 && !f.Has(meshvis.FlagNoGeometryShader)
	if needGS {
		// Validation already checked the context, so a too-old negotiated
		// version here means the Caps implementation is inconsistent.
		minGS := meshvis.GL320
		if target != meshvis.TargetGL {
			minGS = meshvis.GLES310
		}
		if !version.AtLeast(minGS) {
			return nil, fmt.Errorf("shader: Assemble: negotiated %v but geometry shaders need at least %v", version, minGS)
		}
	}

	res := env.resources()
	a := &Assembly{Version: version}

	vert, err := assembleStage(res, version, StageVertex)
	if err != nil {
		return nil, err
	}
	frag, err := assembleStage(res, version, StageFragment)
	if err != nil {
		return nil, err
	}

	vert = append(vert, sharedDefines(cfg, version, env.Caps, StageVertex)...)
	frag = append(frag, sharedDefines(cfg, version, env.Caps, StageFragment)...)

	noGS := f.Has(meshvis.FlagNoGeometryShader) || f&meshvis.GeometryShaderFlags(d) == 0

	if d == meshvis.Dim2D {
		vert = append(vert, "#define TWO_DIMENSIONS\n")
	} else {
		vert = append(vert, "#define THREE_DIMENSIONS\n")
	}
	// NO_GEOMETRY_SHADER is defined not only when the flag is set but also
	// when nothing actually needs the stage, which keeps the checks in the
	// shader text simpler.
	if noGS {
		vert = append(vert, "#define NO_GEOMETRY_SHADER\n")
		frag = append(frag, "#define NO_GEOMETRY_SHADER\n")
	}
	if d == meshvis.Dim3D {
		if f.Has(meshvis.FlagTangentDirection) {
			vert = append(vert, "#define TANGENT_DIRECTION\n")
		}
		if f.Has(meshvis.FlagBitangentFromTangentDirection) {
			vert = append(vert, "#define BITANGENT_FROM_TANGENT_DIRECTION\n")
		}
		if f.Has(meshvis.FlagBitangentDirection) {
			vert = append(vert, "#define BITANGENT_DIRECTION\n")
		}
		if f.Has(meshvis.FlagNormalDirection) {
			vert = append(vert, "#define NORMAL_DIRECTION\n")
		}
		if f&tbnDirectionFlags() != 0 {
			frag = append(frag, "#define TBN_DIRECTION\n")
		}
	}
	// The fragment shader needs the dimension count only for the uniform
	// buffer struct layout.
	if f.Has(meshvis.FlagUniformBuffers) {
		if d == meshvis.Dim2D {
			frag = append(frag, "#define TWO_DIMENSIONS\n")
		} else {
			frag = append(frag, "#define THREE_DIMENSIONS\n")
		}
	}

	generic, err := res.GetString("generic.glsl")
	if err != nil {
		return nil, err
	}
	vertMain, err := res.GetString("MeshVisualizer.vert")
	if err != nil {
		return nil, err
	}
	fragMain, err := res.GetString("MeshVisualizer.frag")
	if err != nil {
		return nil, err
	}
	a.Vertex = append(vert, generic, vertMain)
	a.Fragment = append(frag, generic, fragMain)

	if needGS {
		geom, err := assembleGeometry(cfg, d, version, env.Caps, res)
		if err != nil {
			return nil, err
		}
		a.Geometry = geom
	}
	return a, nil
}

func tbnDirectionFlags() meshvis.Flags {
	return meshvis.Flags(meshvis.FlagTangentDirection) |
		meshvis.Flags(meshvis.FlagBitangentFromTangentDirection) |
		meshvis.Flags(meshvis.FlagBitangentDirection) |
		meshvis.Flags(meshvis.FlagNormalDirection)
}

// assembleStage produces the version-specific compatibility preamble every
// stage starts with.
func assembleStage(res Resources, v meshvis.Version, stage Stage) ([]string, error) {
	out := []string{"#version " + v.GLSLVersion() + "\n"}

	if stage == StageGeometry && v.IsES() && !v.AtLeast(meshvis.GLES320) {
		out = append(out, "#extension GL_EXT_geometry_shader: require\n")
	}
	if stage == StageFragment && v == meshvis.GLES200 {
		out = append(out, "#extension GL_OES_standard_derivatives: enable\n")
	}

	compat, err := res.GetString("compatibility.glsl")
	if err != nil {
		return nil, err
	}
	return append(out, compat), nil
}

// sharedDefines emits the feature defines common to the vertex and fragment
// stages in their fixed order. The geometry stage has its own order in
// assembleGeometry.
func sharedDefines(cfg meshvis.Config, v meshvis.Version, caps meshvis.Caps, stage Stage) []string {
	f := cfg.Flags
	var out []string
	add := func(on bool, flag meshvis.Flag) {
		if on {
			out = append(out, "#define "+DefineForFlag[flag]+"\n")
		}
	}

	add(f.Has(meshvis.FlagWireframe), meshvis.FlagWireframe)
	add(f.Has(meshvis.FlagObjectId), meshvis.FlagObjectId)
	add(f.Has(meshvis.FlagInstancedObjectId), meshvis.FlagInstancedObjectId)
	add(f.Has(meshvis.FlagObjectIdTexture), meshvis.FlagObjectIdTexture)
	add(f.Has(meshvis.FlagVertexId), meshvis.FlagVertexId)
	switch stage {
	case StageVertex:
		// The vertex stage only ever needs the emulated path.
		add(f.Has(meshvis.FlagPrimitiveIdFromVertexId), meshvis.FlagPrimitiveIdFromVertexId)
	case StageFragment:
		if f.Has(meshvis.FlagPrimitiveIdFromVertexId) {
			add(true, meshvis.FlagPrimitiveIdFromVertexId)
		} else {
			add(f.Has(meshvis.FlagPrimitiveId), meshvis.FlagPrimitiveId)
		}
	}

	if needsSubscriptingWorkaround(v, caps) {
		out = append(out, "#define SUBSCRIPTING_WORKAROUND\n")
	}

	add(f.Has(meshvis.FlagTextureTransformation), meshvis.FlagTextureTransformation)
	add(f.Has(meshvis.FlagTextureArrays), meshvis.FlagTextureArrays)
	if stage == StageVertex {
		add(f.Has(meshvis.FlagInstancedTransformation), meshvis.FlagInstancedTransformation)
		add(f.Has(meshvis.FlagInstancedTextureOffset), meshvis.FlagInstancedTextureOffset)
	}

	if stage == StageVertex && (cfg.JointCount != 0 || f.Has(meshvis.FlagShaderStorageBuffers)) {
		out = append(out, fmt.Sprintf(
			"#define JOINT_COUNT %d\n"+
				"#define PER_VERTEX_JOINT_COUNT %d\n"+
				"#define SECONDARY_PER_VERTEX_JOINT_COUNT %d\n",
			cfg.JointCount, cfg.PerVertexJointCount, cfg.SecondaryPerVertexJointCount))
		add(f.Has(meshvis.FlagDynamicPerVertexJointCount), meshvis.FlagDynamicPerVertexJointCount)
	}

	out = append(out, bufferDefines(cfg)...)
	return out
}

// bufferDefines emits the uniform buffer block shared verbatim by all
// stages that use it.
func bufferDefines(cfg meshvis.Config) []string {
	f := cfg.Flags
	if !f.Has(meshvis.FlagUniformBuffers) {
		return nil
	}
	var out []string
	if f.Has(meshvis.FlagShaderStorageBuffers) {
		out = append(out,
			"#define UNIFORM_BUFFERS\n#define SHADER_STORAGE_BUFFERS\n")
	} else {
		out = append(out, fmt.Sprintf(
			"#define UNIFORM_BUFFERS\n"+
				"#define DRAW_COUNT %d\n"+
				"#define MATERIAL_COUNT %d\n",
			cfg.DrawCount, cfg.MaterialCount))
	}
	if f.Has(meshvis.FlagMultiDraw) {
		out = append(out, "#define MULTI_DRAW\n")
	}
	return out
}

func needsSubscriptingWorkaround(v meshvis.Version, caps meshvis.Caps) bool {
	if caps.Target() == meshvis.TargetWebGL {
		return true
	}
	return caps.Target() == meshvis.TargetGLES && v == meshvis.GLES200 &&
		caps.DetectedDriver()&meshvis.DriverAngle != 0
}

// assembleGeometry builds the geometry stage sources. The maximum emitted
// vertex count is a sum over the active stage consumers: the wireframe pass
// re-emits the triangle, each direction family emits six vertices for each
// of the three corners.
func assembleGeometry(cfg meshvis.Config, d meshvis.Dim, v meshvis.Version, caps meshvis.Caps, res Resources) ([]string, error) {
	f := cfg.Flags

	maxVertices := 0
	if f.Has(meshvis.FlagWireframe) {
		maxVertices += 3
	}
	if d == meshvis.Dim3D {
		if f.Has(meshvis.FlagTangentDirection) {
			maxVertices += 3 * 6
		}
		if f.HasAny(meshvis.FlagBitangentDirection, meshvis.FlagBitangentFromTangentDirection) {
			maxVertices += 3 * 6
		}
		if f.Has(meshvis.FlagNormalDirection) {
			maxVertices += 3 * 6
		}
	}

	out, err := assembleStage(res, v, StageGeometry)
	if err != nil {
		return nil, err
	}
	out = append(out, fmt.Sprintf("#define MAX_VERTICES %d\n", maxVertices))

	add := func(on bool, flag meshvis.Flag) {
		if on {
			out = append(out, "#define "+DefineForFlag[flag]+"\n")
		}
	}
	add(f.Has(meshvis.FlagWireframe), meshvis.FlagWireframe)
	add(f.Has(meshvis.FlagObjectId), meshvis.FlagObjectId)
	add(f.Has(meshvis.FlagInstancedObjectId), meshvis.FlagInstancedObjectId)
	add(f.Has(meshvis.FlagVertexId), meshvis.FlagVertexId)
	if f.Has(meshvis.FlagPrimitiveIdFromVertexId) {
		add(true, meshvis.FlagPrimitiveIdFromVertexId)
	} else {
		add(f.Has(meshvis.FlagPrimitiveId), meshvis.FlagPrimitiveId)
	}
	if d == meshvis.Dim3D {
		add(f.Has(meshvis.FlagTangentDirection), meshvis.FlagTangentDirection)
		// Both bitangent sources render through the same geometry path.
		add(f.HasAny(meshvis.FlagBitangentDirection, meshvis.FlagBitangentFromTangentDirection),
			meshvis.FlagBitangentDirection)
		add(f.Has(meshvis.FlagNormalDirection), meshvis.FlagNormalDirection)
	}
	if d == meshvis.Dim2D {
		out = append(out, "#define TWO_DIMENSIONS\n")
	} else {
		out = append(out, "#define THREE_DIMENSIONS\n")
	}
	out = append(out, bufferDefines(cfg)...)

	main, err := res.GetString("MeshVisualizer.geom")
	if err != nil {
		return nil, err
	}
	return append(out, main), nil
}
