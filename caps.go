package meshvis

// Extension enumerates the extensions whose presence changes which shader
// variant can be built or how its uniforms are resolved.
type Extension int

const (
	ExtARBExplicitAttribLocation Extension = iota
	ExtARBExplicitUniformLocation
	ExtARBGeometryShader4
	ExtARBUniformBufferObject
	ExtARBShaderStorageBufferObject
	ExtARBShaderDrawParameters
	ExtARBShadingLanguage420pack
	ExtEXTGeometryShader
	ExtOESStandardDerivatives
	ExtANGLEMultiDraw
	ExtWEBGLMultiDraw
)

func (e Extension) String() string {
	switch e {
	case ExtARBExplicitAttribLocation:
		return "GL_ARB_explicit_attrib_location"
	case ExtARBExplicitUniformLocation:
		return "GL_ARB_explicit_uniform_location"
	case ExtARBGeometryShader4:
		return "GL_ARB_geometry_shader4"
	case ExtARBUniformBufferObject:
		return "GL_ARB_uniform_buffer_object"
	case ExtARBShaderStorageBufferObject:
		return "GL_ARB_shader_storage_buffer_object"
	case ExtARBShaderDrawParameters:
		return "GL_ARB_shader_draw_parameters"
	case ExtARBShadingLanguage420pack:
		return "GL_ARB_shading_language_420pack"
	case ExtEXTGeometryShader:
		return "GL_EXT_geometry_shader"
	case ExtOESStandardDerivatives:
		return "GL_OES_standard_derivatives"
	case ExtANGLEMultiDraw:
		return "GL_ANGLE_multi_draw"
	case ExtWEBGLMultiDraw:
		return "GL_WEBGL_multi_draw"
	}
	return "unknown extension"
}

// Driver is a set of detected driver traits that require source-level
// workarounds.
type Driver uint32

const (
	// DriverAngle marks the ANGLE GL-on-D3D translator, which miscompiles
	// dynamic array subscripts in some shader stages.
	DriverAngle Driver = 1 << 0
)

// Caps describes what the active GL context can do. It stands in for direct
// context introspection so that variant resolution is a pure function of its
// inputs and can run without a live GPU context.
type Caps interface {
	// Target reports which dialect family the context implements.
	Target() Target

	// SupportedVersion returns the first version of the preference-ordered
	// candidate list that the context supports, or VersionNone if none is.
	SupportedVersion(preferred []Version) Version

	// IsVersionSupported reports whether the context reaches the given
	// version.
	IsVersionSupported(v Version) bool

	// IsExtensionSupported reports whether the extension is usable when
	// targeting the given version.
	IsExtensionSupported(e Extension, v Version) bool

	// DetectedDriver reports driver traits needing workarounds.
	DetectedDriver() Driver
}

// StaticCaps is a fixed capability table implementing Caps. It backs the
// command line target profiles and tests; glbackend derives one from a live
// context.
type StaticCaps struct {
	ContextTarget  Target
	ContextVersion Version
	Extensions     map[Extension]bool
	Driver         Driver
}

func (c StaticCaps) Target() Target { return c.ContextTarget }

func (c StaticCaps) SupportedVersion(preferred []Version) Version {
	for _, v := range preferred {
		if c.IsVersionSupported(v) {
			return v
		}
	}
	return VersionNone
}

func (c StaticCaps) IsVersionSupported(v Version) bool {
	return c.ContextVersion.AtLeast(v)
}

func (c StaticCaps) IsExtensionSupported(e Extension, v Version) bool {
	return c.Extensions[e]
}

func (c StaticCaps) DetectedDriver() Driver { return c.Driver }

// Core promotion points outside the negotiated version range. gl330 is
// above everything this package ever negotiates, never marks extensions
// without a core promotion below GL 4.x.
const (
	gl330 Version = 330
	never Version = 1 << 15
)

// coreExtensions lists the version at which each extension entered core.
var coreExtensions = map[Extension]Version{
	ExtARBExplicitAttribLocation:  gl330,
	ExtARBUniformBufferObject:     GL310,
	ExtARBGeometryShader4:         GL320,
	ExtOESStandardDerivatives:     GLES300,
	ExtEXTGeometryShader:          GLES320,
	ExtARBShadingLanguage420pack:  never,
	ExtARBExplicitUniformLocation: never,
}

// DesktopCaps returns a StaticCaps describing a typical desktop core
// context of the given version with the listed extensions.
func DesktopCaps(v Version, exts ...Extension) StaticCaps {
	m := map[Extension]bool{}
	for e, core := range coreExtensions {
		if !core.IsES() && v.AtLeast(core) {
			m[e] = true
		}
	}
	for _, e := range exts {
		m[e] = true
	}
	return StaticCaps{ContextTarget: TargetGL, ContextVersion: v, Extensions: m}
}

// ESCaps returns a StaticCaps describing a GLES or WebGL context.
func ESCaps(t Target, v Version, exts ...Extension) StaticCaps {
	m := map[Extension]bool{}
	for e, core := range coreExtensions {
		if core.IsES() && v.AtLeast(core) {
			m[e] = true
		}
	}
	for _, e := range exts {
		m[e] = true
	}
	return StaticCaps{ContextTarget: t, ContextVersion: v, Extensions: m}
}
