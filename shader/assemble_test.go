package shader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/polyfloyd/meshvis"
)

func glCaps() meshvis.Caps {
	return meshvis.DesktopCaps(meshvis.GL320)
}

func mustAssemble(t *testing.T, cfg meshvis.Config, d meshvis.Dim, caps meshvis.Caps) *Assembly {
	t.Helper()
	a, err := Assemble(cfg, d, Env{Caps: caps})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return a
}

func stageText(sources []string) string {
	return strings.Join(sources, "")
}

func TestAssembleDeterminism(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagObjectId))
	a := mustAssemble(t, cfg, meshvis.Dim3D, glCaps())
	b := mustAssemble(t, cfg, meshvis.Dim3D, glCaps())

	if stageText(a.Vertex) != stageText(b.Vertex) ||
		stageText(a.Fragment) != stageText(b.Fragment) ||
		stageText(a.Geometry) != stageText(b.Geometry) {
		t.Fatalf("two assemblies of the same config differ")
	}
}

func TestAssembleVersionPragma(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagNoGeometryShader))

	a := mustAssemble(t, cfg, meshvis.Dim3D, meshvis.DesktopCaps(meshvis.GL300))
	if a.Version != meshvis.GL300 {
		t.Fatalf("negotiated %v, want %v", a.Version, meshvis.GL300)
	}
	for _, sources := range [][]string{a.Vertex, a.Fragment} {
		if !strings.HasPrefix(sources[0], "#version 130\n") {
			t.Errorf("stage starts with %q", sources[0])
		}
	}

	a = mustAssemble(t, cfg, meshvis.Dim3D, meshvis.ESCaps(meshvis.TargetGLES, meshvis.GLES300))
	if !strings.HasPrefix(a.Vertex[0], "#version 300 es\n") {
		t.Errorf("stage starts with %q", a.Vertex[0])
	}
}

func TestAssembleGeometryStagePolicy(t *testing.T) {
	wire := meshvis.Flags(meshvis.FlagWireframe)

	a := mustAssemble(t, meshvis.NewConfig(wire), meshvis.Dim3D, glCaps())
	if a.Geometry == nil {
		t.Fatalf("wireframe on a 3.2 context should use the geometry shader")
	}

	a = mustAssemble(t, meshvis.NewConfig(wire|meshvis.Flags(meshvis.FlagNoGeometryShader)), meshvis.Dim3D, glCaps())
	if a.Geometry != nil {
		t.Fatalf("opting out should drop the geometry stage")
	}
	if !strings.Contains(stageText(a.Vertex), "#define NO_GEOMETRY_SHADER\n") ||
		!strings.Contains(stageText(a.Fragment), "#define NO_GEOMETRY_SHADER\n") {
		t.Fatalf("NO_GEOMETRY_SHADER missing from the remaining stages")
	}

	// A config whose features never touch the stage also reports the
	// stage as absent even without the opt-out flag.
	a = mustAssemble(t, meshvis.NewConfig(meshvis.Flags(meshvis.FlagObjectId)), meshvis.Dim3D, glCaps())
	if a.Geometry != nil {
		t.Fatalf("object ID alone should not use the geometry shader")
	}
	if !strings.Contains(stageText(a.Vertex), "#define NO_GEOMETRY_SHADER\n") {
		t.Fatalf("NO_GEOMETRY_SHADER missing")
	}
}

func TestAssembleMaxVertices(t *testing.T) {
	cases := []struct {
		flags meshvis.Flags
		want  int
	}{
		{meshvis.Flags(meshvis.FlagWireframe), 3},
		{meshvis.Flags(meshvis.FlagTangentDirection), 18},
		{meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagNormalDirection), 21},
		// Both bitangent sources share the same geometry path.
		{meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagTangentDirection) |
			meshvis.Flags(meshvis.FlagBitangentFromTangentDirection) |
			meshvis.Flags(meshvis.FlagNormalDirection), 57},
	}
	for _, c := range cases {
		a := mustAssemble(t, meshvis.NewConfig(c.flags), meshvis.Dim3D, glCaps())
		if a.Geometry == nil {
			t.Fatalf("%v: no geometry stage", c.flags)
		}
		want := fmt.Sprintf("#define MAX_VERTICES %d\n", c.want)
		if !strings.Contains(stageText(a.Geometry), want) {
			t.Errorf("%v: geometry stage lacks %q", c.flags, strings.TrimSpace(want))
		}
	}
}

func TestAssembleBufferDefines(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagUniformBuffers))
	cfg.DrawCount = 5
	cfg.MaterialCount = 7
	a := mustAssemble(t, cfg, meshvis.Dim3D, glCaps())
	for _, sources := range [][]string{a.Vertex, a.Fragment, a.Geometry} {
		text := stageText(sources)
		if !strings.Contains(text, "#define UNIFORM_BUFFERS\n") {
			t.Errorf("UNIFORM_BUFFERS missing")
		}
		if !strings.Contains(text, "#define DRAW_COUNT 5\n") ||
			!strings.Contains(text, "#define MATERIAL_COUNT 7\n") {
			t.Errorf("buffer capacities missing")
		}
	}

	cfg = meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagShaderStorageBuffers))
	caps := meshvis.DesktopCaps(meshvis.GL320, meshvis.ExtARBShaderStorageBufferObject)
	a = mustAssemble(t, cfg, meshvis.Dim3D, caps)
	text := stageText(a.Vertex)
	if !strings.Contains(text, "#define SHADER_STORAGE_BUFFERS\n") {
		t.Errorf("SHADER_STORAGE_BUFFERS missing")
	}
	// The static shader text references the DRAW_COUNT/MATERIAL_COUNT
	// tokens behind preprocessor guards, so only a define of them counts.
	if strings.Contains(text, "#define DRAW_COUNT ") || strings.Contains(text, "#define MATERIAL_COUNT ") {
		t.Errorf("runtime-sized arrays should not carry fixed capacities")
	}
}

func TestAssembleJointDefines(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe)).WithJointCount(16, 4, 2)
	a := mustAssemble(t, cfg, meshvis.Dim3D, glCaps())

	vert := stageText(a.Vertex)
	for _, want := range []string{
		"#define JOINT_COUNT 16\n",
		"#define PER_VERTEX_JOINT_COUNT 4\n",
		"#define SECONDARY_PER_VERTEX_JOINT_COUNT 2\n",
	} {
		if !strings.Contains(vert, want) {
			t.Errorf("vertex stage lacks %q", strings.TrimSpace(want))
		}
	}
	if strings.Contains(stageText(a.Fragment), "JOINT_COUNT") {
		t.Errorf("skinning defines leaked into the fragment stage")
	}
}

func TestAssemblePrimitiveIdDefines(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagPrimitiveIdFromVertexId))
	a := mustAssemble(t, cfg, meshvis.Dim3D, glCaps())

	if !strings.Contains(stageText(a.Vertex), "#define PRIMITIVE_ID_FROM_VERTEX_ID\n") {
		t.Errorf("vertex stage lacks the emulation define")
	}
	frag := stageText(a.Fragment)
	if !strings.Contains(frag, "#define PRIMITIVE_ID_FROM_VERTEX_ID\n") {
		t.Errorf("fragment stage lacks the emulation define")
	}
	if strings.Contains(frag, "#define PRIMITIVE_ID\n") {
		t.Errorf("the emulated path must not also define PRIMITIVE_ID")
	}

	cfg = meshvis.NewConfig(meshvis.Flags(meshvis.FlagPrimitiveId))
	a = mustAssemble(t, cfg, meshvis.Dim3D, glCaps())
	if !strings.Contains(stageText(a.Fragment), "#define PRIMITIVE_ID\n") {
		t.Errorf("fragment stage lacks PRIMITIVE_ID")
	}
	if strings.Contains(stageText(a.Vertex), "#define PRIMITIVE_ID\n") {
		t.Errorf("the vertex stage never consumes gl_PrimitiveID")
	}
}

func TestAssembleSubscriptingWorkaround(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe) | meshvis.Flags(meshvis.FlagNoGeometryShader))
	const define = "#define SUBSCRIPTING_WORKAROUND\n"

	a := mustAssemble(t, cfg, meshvis.Dim3D, meshvis.ESCaps(meshvis.TargetWebGL, meshvis.GLES300))
	if !strings.Contains(stageText(a.Vertex), define) {
		t.Errorf("WebGL should always get the workaround")
	}

	angle := meshvis.ESCaps(meshvis.TargetGLES, meshvis.GLES200, meshvis.ExtOESStandardDerivatives)
	angle.Driver |= meshvis.DriverAngle
	a = mustAssemble(t, cfg, meshvis.Dim3D, angle)
	if !strings.Contains(stageText(a.Vertex), define) {
		t.Errorf("ANGLE on ES2 should get the workaround")
	}

	plain := meshvis.ESCaps(meshvis.TargetGLES, meshvis.GLES200, meshvis.ExtOESStandardDerivatives)
	a = mustAssemble(t, cfg, meshvis.Dim3D, plain)
	if strings.Contains(stageText(a.Vertex), define) {
		t.Errorf("plain ES2 should not get the workaround")
	}

	a = mustAssemble(t, cfg, meshvis.Dim3D, glCaps())
	if strings.Contains(stageText(a.Vertex), define) {
		t.Errorf("desktop GL should not get the workaround")
	}
}

func TestAssembleDimensionDefines(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe))
	a := mustAssemble(t, cfg, meshvis.Dim2D, glCaps())
	if !strings.Contains(stageText(a.Vertex), "#define TWO_DIMENSIONS\n") {
		t.Errorf("vertex stage lacks TWO_DIMENSIONS")
	}
	// Without uniform buffers the fragment stage has no use for the
	// dimension count.
	if strings.Contains(stageText(a.Fragment), "TWO_DIMENSIONS") {
		t.Errorf("fragment stage should not know the dimension count")
	}

	cfg.Flags |= meshvis.Flags(meshvis.FlagUniformBuffers)
	a = mustAssemble(t, cfg, meshvis.Dim2D, glCaps())
	if !strings.Contains(stageText(a.Fragment), "#define TWO_DIMENSIONS\n") {
		t.Errorf("uniform buffer structs in the fragment stage need the dimension count")
	}
}

func TestAssembleES2GeometryRejected(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe))
	caps := meshvis.ESCaps(meshvis.TargetGLES, meshvis.GLES200)
	if _, err := Assemble(cfg, meshvis.Dim3D, Env{Caps: caps}); err == nil {
		t.Fatalf("expected an error, ES2 has no geometry shaders")
	}
}

func TestAssembleGeometryExtensionPragma(t *testing.T) {
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe))
	caps := meshvis.ESCaps(meshvis.TargetGLES, meshvis.GLES310, meshvis.ExtEXTGeometryShader)
	a := mustAssemble(t, cfg, meshvis.Dim3D, caps)
	if a.Geometry == nil {
		t.Fatalf("no geometry stage")
	}
	if !strings.Contains(stageText(a.Geometry), "#extension GL_EXT_geometry_shader: require\n") {
		t.Errorf("ES 3.1 geometry stage needs the extension pragma")
	}

	a = mustAssemble(t, cfg, meshvis.Dim3D, meshvis.ESCaps(meshvis.TargetGLES, meshvis.GLES320))
	if strings.Contains(stageText(a.Geometry), "GL_EXT_geometry_shader") {
		t.Errorf("ES 3.2 has geometry shaders in core")
	}
}
