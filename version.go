package meshvis

import "fmt"

// Target distinguishes the three GLSL dialect families a program can be
// built for. WebGL shares the GLES version numbers but disallows some
// features, geometry shaders most notably.
type Target int

const (
	TargetGL Target = iota
	TargetGLES
	TargetWebGL
)

func (t Target) String() string {
	switch t {
	case TargetGL:
		return "gl"
	case TargetGLES:
		return "gles"
	case TargetWebGL:
		return "webgl"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Version identifies a GL or GLES context version. Values within one track
// are ordered, so plain comparison decides whether a version is sufficient.
type Version int

const esBit = 0x10000

const (
	VersionNone Version = 0

	GL210 Version = 210
	GL300 Version = 300
	GL310 Version = 310
	GL320 Version = 320

	GLES200 Version = esBit | 200
	GLES300 Version = esBit | 300
	GLES310 Version = esBit | 310
	GLES320 Version = esBit | 320
)

// IsES reports whether the version belongs to the GLES (or WebGL) track.
func (v Version) IsES() bool { return v&esBit != 0 }

// AtLeast reports whether v is the same track as o and at least as new.
func (v Version) AtLeast(o Version) bool {
	return v.IsES() == o.IsES() && v >= o
}

func (v Version) String() string {
	n := int(v &^ esBit)
	if v.IsES() {
		return fmt.Sprintf("OpenGL ES %d.%d", n/100, n/10%10)
	}
	return fmt.Sprintf("OpenGL %d.%d", n/100, n/10%10)
}

// GLSLVersion returns the #version pragma directive matching the context
// version.
func (v Version) GLSLVersion() string {
	switch v {
	case GL210:
		return "120"
	case GL300:
		return "130"
	case GL310:
		return "140"
	case GL320:
		return "150"
	case GLES200:
		return "100"
	case GLES300:
		return "300 es"
	case GLES310:
		return "310 es"
	case GLES320:
		return "320 es"
	}
	return ""
}

// VersionPreferenceGL is the preference-ordered candidate list used for
// version negotiation on desktop GL.
var VersionPreferenceGL = []Version{GL320, GL310, GL300, GL210}

// VersionPreferenceGLES is the candidate list for GLES contexts.
var VersionPreferenceGLES = []Version{GLES320, GLES310, GLES300, GLES200}

// VersionPreferenceWebGL is the candidate list for WebGL contexts, which
// never go beyond the ES 3.0 feature level.
var VersionPreferenceWebGL = []Version{GLES300, GLES200}

// VersionPreference returns the candidate list for the given target.
func VersionPreference(t Target) []Version {
	switch t {
	case TargetGLES:
		return VersionPreferenceGLES
	case TargetWebGL:
		return VersionPreferenceWebGL
	}
	return VersionPreferenceGL
}
