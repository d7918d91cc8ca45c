package meshvis

import "testing"

func TestVersionAtLeast(t *testing.T) {
	cases := []struct {
		v, o Version
		want bool
	}{
		{GL310, GL300, true},
		{GL310, GL310, true},
		{GL210, GL300, false},
		{GLES310, GLES300, true},
		{GLES200, GLES300, false},
		// Versions never satisfy requirements from the other track, even
		// when the raw number is larger.
		{GLES320, GL210, false},
		{GL320, GLES200, false},
	}
	for _, c := range cases {
		if got := c.v.AtLeast(c.o); got != c.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", c.v, c.o, got, c.want)
		}
	}
}

func TestGLSLVersion(t *testing.T) {
	cases := []struct {
		v    Version
		want string
	}{
		{GL210, "120"},
		{GL300, "130"},
		{GL310, "140"},
		{GL320, "150"},
		{GLES200, "100"},
		{GLES300, "300 es"},
		{GLES310, "310 es"},
		{GLES320, "320 es"},
		{VersionNone, ""},
	}
	for _, c := range cases {
		if got := c.v.GLSLVersion(); got != c.want {
			t.Errorf("%v.GLSLVersion() = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	if got := GL320.String(); got != "OpenGL 3.2" {
		t.Errorf("got %q", got)
	}
	if got := GLES310.String(); got != "OpenGL ES 3.1" {
		t.Errorf("got %q", got)
	}
}

func TestVersionPreference(t *testing.T) {
	if got := VersionPreference(TargetGL)[0]; got != GL320 {
		t.Errorf("desktop preference starts at %v", got)
	}
	if got := VersionPreference(TargetGLES)[0]; got != GLES320 {
		t.Errorf("gles preference starts at %v", got)
	}
	// WebGL has no geometry shaders and nothing beyond the ES 3.0 feature
	// level, the candidate list must not reach higher.
	for _, v := range VersionPreference(TargetWebGL) {
		if v.AtLeast(GLES310) {
			t.Errorf("webgl preference contains %v", v)
		}
	}
}

func TestStaticCapsSupportedVersion(t *testing.T) {
	if got := DesktopCaps(GL310).SupportedVersion(VersionPreferenceGL); got != GL310 {
		t.Errorf("got %v, want %v", got, GL310)
	}
	if got := DesktopCaps(GL320).SupportedVersion(VersionPreferenceGL); got != GL320 {
		t.Errorf("got %v, want %v", got, GL320)
	}
	if got := ESCaps(TargetWebGL, GLES300).SupportedVersion(VersionPreference(TargetWebGL)); got != GLES300 {
		t.Errorf("got %v, want %v", got, GLES300)
	}
	if got := DesktopCaps(GL210).SupportedVersion([]Version{GL300}); got != VersionNone {
		t.Errorf("got %v, want VersionNone", got)
	}
}

func TestDesktopCapsCorePromotions(t *testing.T) {
	caps := DesktopCaps(GL310)
	if !caps.IsExtensionSupported(ExtARBUniformBufferObject, GL310) {
		t.Errorf("uniform buffers entered core in 3.1")
	}
	if caps.IsExtensionSupported(ExtARBGeometryShader4, GL310) {
		t.Errorf("geometry shaders are not core before 3.2")
	}
	if caps.IsExtensionSupported(ExtARBExplicitUniformLocation, GL310) {
		t.Errorf("explicit uniform locations never enter core in the negotiated range")
	}

	caps = DesktopCaps(GL310, ExtARBGeometryShader4)
	if !caps.IsExtensionSupported(ExtARBGeometryShader4, GL310) {
		t.Errorf("explicitly listed extension missing")
	}
}
