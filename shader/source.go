package shader

import (
	"embed"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// Stage is a programmable pipeline stage.
type Stage string

const (
	StageVertex   Stage = "vert"
	StageFragment Stage = "frag"
	StageGeometry Stage = "geom"
)

// Source is a single shader source fragment.
type Source interface {
	Contents() ([]byte, error)
}

// SourceBuf is an in-memory source fragment.
type SourceBuf string

func (s SourceBuf) Contents() ([]byte, error) {
	return []byte(s), nil
}

// SourceFile reads a source fragment from the filesystem.
type SourceFile struct {
	Filename string
}

func (s SourceFile) Contents() ([]byte, error) {
	fd, err := os.Open(s.Filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ioutil.ReadAll(fd)
}

// Resources supplies the fixed GLSL text blocks that the assembled defines
// are prepended to, keyed by file name.
type Resources interface {
	GetString(name string) (string, error)
}

//go:embed glsl/*.glsl glsl/*.vert glsl/*.frag glsl/*.geom
var embeddedGLSL embed.FS

type embeddedResources struct{}

// EmbeddedResources returns the resource set compiled into the binary.
func EmbeddedResources() Resources {
	return embeddedResources{}
}

func (embeddedResources) GetString(name string) (string, error) {
	b, err := embeddedGLSL.ReadFile("glsl/" + name)
	if err != nil {
		return "", fmt.Errorf("shader: no embedded resource named %q", name)
	}
	return string(b), nil
}

// DirResources reads resources from a directory, falling back to the
// embedded set for files not present there. Used by the command line tool's
// watch mode to try out edited shader text without recompiling the binary.
type DirResources struct {
	Dir string
}

func (d DirResources) GetString(name string) (string, error) {
	b, err := SourceFile{Filename: filepath.Join(d.Dir, name)}.Contents()
	if os.IsNotExist(err) {
		return embeddedResources{}.GetString(name)
	} else if err != nil {
		return "", err
	}
	return string(b), nil
}

// MapResources overrides individual resources with explicit sources, in
// memory or on disk, falling back to the embedded set for the rest.
type MapResources map[string]Source

func (m MapResources) GetString(name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return embeddedResources{}.GetString(name)
	}
	b, err := src.Contents()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
