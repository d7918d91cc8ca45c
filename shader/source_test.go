package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polyfloyd/meshvis"
)

func TestSourceBuf(t *testing.T) {
	b, err := SourceBuf("void main() { }").Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	if string(b) != "void main() { }" {
		t.Fatalf("got %q", b)
	}
}

func TestEmbeddedResources(t *testing.T) {
	res := EmbeddedResources()
	for _, name := range []string{
		"compatibility.glsl",
		"generic.glsl",
		"MeshVisualizer.vert",
		"MeshVisualizer.frag",
		"MeshVisualizer.geom",
	} {
		s, err := res.GetString(name)
		if err != nil {
			t.Errorf("GetString(%q): %v", name, err)
		}
		if s == "" {
			t.Errorf("GetString(%q) is empty", name)
		}
	}
	if _, err := res.GetString("nope.glsl"); err == nil {
		t.Errorf("expected an error for an unknown resource")
	}
}

func TestMapResources(t *testing.T) {
	const marker = "// buffered override\n"
	dir := t.TempDir()
	filename := filepath.Join(dir, "alt.glsl")
	if err := os.WriteFile(filename, []byte("// file override\n"), 0644); err != nil {
		t.Fatalf("%v", err)
	}
	res := MapResources{
		"compatibility.glsl": SourceBuf(marker),
		"generic.glsl":       SourceFile{Filename: filename},
	}

	s, err := res.GetString("compatibility.glsl")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if s != marker {
		t.Fatalf("in-memory override not picked up, got %q", s)
	}
	s, err = res.GetString("generic.glsl")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if s != "// file override\n" {
		t.Fatalf("file override not picked up, got %q", s)
	}

	// Unlisted names fall back to the embedded set.
	s, err = res.GetString("MeshVisualizer.vert")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if !strings.Contains(s, "void main()") {
		t.Fatalf("fallback did not return the embedded text")
	}

	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe))
	a, err := Assemble(cfg, meshvis.Dim3D, Env{Caps: glCaps(), Resources: res})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(stageText(a.Fragment), marker) {
		t.Fatalf("assembled fragment stage does not contain the override")
	}
}

func TestDirResourcesFallback(t *testing.T) {
	dir := t.TempDir()
	const marker = "// override marker\n"
	if err := os.WriteFile(filepath.Join(dir, "compatibility.glsl"), []byte(marker), 0644); err != nil {
		t.Fatalf("%v", err)
	}
	res := DirResources{Dir: dir}

	s, err := res.GetString("compatibility.glsl")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if s != marker {
		t.Fatalf("override not picked up, got %q", s)
	}

	// Files absent from the directory come from the embedded set.
	s, err = res.GetString("generic.glsl")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if !strings.Contains(s, "POSITION_ATTRIBUTE_LOCATION") {
		t.Fatalf("fallback did not return the embedded text")
	}

	// The override flows through assembly.
	cfg := meshvis.NewConfig(meshvis.Flags(meshvis.FlagWireframe))
	a, err := Assemble(cfg, meshvis.Dim3D, Env{Caps: glCaps(), Resources: res})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(stageText(a.Vertex), marker) {
		t.Fatalf("assembled vertex stage does not contain the override")
	}
}
