package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/polyfloyd/meshvis"
)

var knownExtensions = []meshvis.Extension{
	meshvis.ExtARBExplicitAttribLocation,
	meshvis.ExtARBExplicitUniformLocation,
	meshvis.ExtARBGeometryShader4,
	meshvis.ExtARBUniformBufferObject,
	meshvis.ExtARBShaderStorageBufferObject,
	meshvis.ExtARBShaderDrawParameters,
	meshvis.ExtARBShadingLanguage420pack,
	meshvis.ExtEXTGeometryShader,
	meshvis.ExtOESStandardDerivatives,
	meshvis.ExtANGLEMultiDraw,
	meshvis.ExtWEBGLMultiDraw,
}

// ContextCaps introspects the current GL context into a capability table.
// The go-gl bindings used here are desktop core profile, so the target is
// always TargetGL; ES and WebGL tables come from meshvis.ESCaps instead.
func ContextCaps() meshvis.StaticCaps {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)

	version := meshvis.GL210
	switch {
	case major > 3 || (major == 3 && minor >= 2):
		version = meshvis.GL320
	case major == 3 && minor == 1:
		version = meshvis.GL310
	case major == 3:
		version = meshvis.GL300
	}

	present := map[string]bool{}
	var numExts int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &numExts)
	for i := int32(0); i < numExts; i++ {
		present[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = true
	}
	exts := map[meshvis.Extension]bool{}
	for _, e := range knownExtensions {
		if present[e.String()] {
			exts[e] = true
		}
	}

	var driver meshvis.Driver
	renderer := gl.GoStr(gl.GetString(gl.RENDERER))
	vendor := gl.GoStr(gl.GetString(gl.VENDOR))
	if strings.Contains(renderer, "ANGLE") || strings.Contains(vendor, "Google") {
		driver |= meshvis.DriverAngle
	}

	return meshvis.StaticCaps{
		ContextTarget:  meshvis.TargetGL,
		ContextVersion: version,
		Extensions:     exts,
		Driver:         driver,
	}
}
