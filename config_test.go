package meshvis

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	gl320 := DesktopCaps(GL320)
	cases := []struct {
		name    string
		cfg     Config
		d       Dim
		wantErr string
	}{
		{
			name: "wireframe 3D",
			cfg:  NewConfig(Flags(FlagWireframe)),
			d:    Dim3D,
		},
		{
			name: "object ID texture 2D",
			cfg:  NewConfig(Flags(FlagObjectIdTexture) | Flags(FlagTextureTransformation)),
			d:    Dim2D,
		},
		{
			name:    "ID modes are exclusive",
			cfg:     NewConfig(Flags(FlagObjectId) | Flags(FlagVertexId)),
			d:       Dim3D,
			wantErr: "mutually exclusive",
		},
		{
			name:    "superset flag trips the exclusion too",
			cfg:     NewConfig(Flags(FlagObjectIdTexture) | Flags(FlagPrimitiveId)),
			d:       Dim3D,
			wantErr: "mutually exclusive",
		},
		{
			name:    "TBN is 3D only",
			cfg:     NewConfig(Flags(FlagNormalDirection)),
			d:       Dim2D,
			wantErr: "only available in 3D",
		},
		{
			name:    "no visualization feature",
			cfg:     NewConfig(0),
			d:       Dim3D,
			wantErr: "at least one visualization feature",
		},
		{
			name:    "NoGeometryShader alone is not a feature",
			cfg:     NewConfig(Flags(FlagNoGeometryShader)),
			d:       Dim3D,
			wantErr: "at least one visualization feature",
		},
		{
			name:    "TBN needs the geometry shader",
			cfg:     NewConfig(Flags(FlagTangentDirection) | Flags(FlagNoGeometryShader)),
			d:       Dim3D,
			wantErr: "geometry shader has to be enabled",
		},
		{
			name:    "two bitangent sources",
			cfg:     NewConfig(Flags(FlagBitangentDirection) | Flags(FlagBitangentFromTangentDirection)),
			d:       Dim3D,
			wantErr: "mutually exclusive",
		},
		{
			name:    "bitangent attribute aliases the object ID slot",
			cfg:     NewConfig(Flags(FlagInstancedObjectId) | Flags(FlagBitangentDirection)),
			d:       Dim3D,
			wantErr: "conflicts with the ObjectId attribute",
		},
		{
			name:    "texture transformation without a texture",
			cfg:     NewConfig(Flags(FlagWireframe) | Flags(FlagTextureTransformation)),
			d:       Dim3D,
			wantErr: "not textured",
		},
		{
			name:    "texture arrays without a texture",
			cfg:     NewConfig(Flags(FlagWireframe) | Flags(FlagTextureArrays)),
			d:       Dim3D,
			wantErr: "not textured",
		},
		{
			name:    "too many per-vertex joints",
			cfg:     NewConfig(Flags(FlagWireframe)).WithJointCount(8, 5, 0),
			d:       Dim3D,
			wantErr: "at most 4 per-vertex joints",
		},
		{
			name:    "per-vertex joints without joint matrices",
			cfg:     NewConfig(Flags(FlagWireframe)).WithJointCount(0, 2, 0),
			d:       Dim3D,
			wantErr: "joint count can't be zero",
		},
		{
			name:    "joint matrices nothing consumes",
			cfg:     NewConfig(Flags(FlagWireframe)).WithJointCount(4, 0, 0),
			d:       Dim3D,
			wantErr: "per-vertex joint count can't be zero",
		},
		{
			name: "zero material count",
			cfg: Config{
				Flags:     Flags(FlagWireframe) | Flags(FlagUniformBuffers),
				DrawCount: 1,
			},
			d:       Dim3D,
			wantErr: "material count can't be zero",
		},
		{
			name: "storage buffers skip the count checks",
			cfg: Config{
				Flags: Flags(FlagWireframe) | Flags(FlagShaderStorageBuffers),
			},
			d: Dim3D,
		},
		{
			name:    "dynamic joint count without joints",
			cfg:     NewConfig(Flags(FlagWireframe) | Flags(FlagDynamicPerVertexJointCount)),
			d:       Dim3D,
			wantErr: "per-vertex joint count is zero",
		},
		{
			name:    "instanced transformation aliases the secondary joint slot",
			cfg:     NewConfig(Flags(FlagWireframe) | Flags(FlagInstancedTransformation)).WithJointCount(4, 2, 2),
			d:       Dim3D,
			wantErr: "conflicts with the SecondaryJointIds attribute",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			caps := Caps(gl320)
			if c.cfg.Flags.Has(FlagShaderStorageBuffers) {
				caps = DesktopCaps(GL320, ExtARBShaderStorageBufferObject)
			}
			err := c.cfg.Validate(c.d, caps)
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", c.wantErr)
			}
			var cerr ContractError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected a ContractError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error %q does not contain %q", err, c.wantErr)
			}
		})
	}
}

func TestConfigValidateCaps(t *testing.T) {
	cases := []struct {
		name     string
		cfg      Config
		d        Dim
		caps     Caps
		required string
	}{
		{
			name: "uniform buffers on a too-old desktop context",
			cfg:  NewConfig(Flags(FlagWireframe) | Flags(FlagUniformBuffers) | Flags(FlagNoGeometryShader)),
			d:    Dim3D,
			caps: DesktopCaps(GL300),

			required: "GL_ARB_uniform_buffer_object",
		},
		{
			name: "uniform buffers through the extension",
			cfg:  NewConfig(Flags(FlagWireframe) | Flags(FlagUniformBuffers) | Flags(FlagNoGeometryShader)),
			d:    Dim3D,
			caps: DesktopCaps(GL300, ExtARBUniformBufferObject),
		},
		{
			name:     "storage buffers on WebGL",
			cfg:      Config{Flags: Flags(FlagWireframe) | Flags(FlagShaderStorageBuffers) | Flags(FlagNoGeometryShader)},
			d:        Dim3D,
			caps:     ESCaps(TargetWebGL, GLES300),
			required: "shader storage buffers",
		},
		{
			name:     "multi-draw needs draw parameters",
			cfg:      NewConfig(Flags(FlagWireframe) | Flags(FlagMultiDraw) | Flags(FlagNoGeometryShader)),
			d:        Dim3D,
			caps:     DesktopCaps(GL320),
			required: "GL_ARB_shader_draw_parameters",
		},
		{
			name:     "geometry shader on WebGL",
			cfg:      NewConfig(Flags(FlagWireframe)),
			d:        Dim3D,
			caps:     ESCaps(TargetWebGL, GLES300),
			required: "geometry shaders",
		},
		{
			name: "geometry shader through EXT on ES 3.1",
			cfg:  NewConfig(Flags(FlagWireframe)),
			d:    Dim3D,
			caps: ESCaps(TargetGLES, GLES310, ExtEXTGeometryShader),
		},
		{
			name:     "ES2 wireframe needs derivatives",
			cfg:      NewConfig(Flags(FlagWireframe) | Flags(FlagNoGeometryShader)),
			d:        Dim3D,
			caps:     ESCaps(TargetGLES, GLES200),
			required: "GL_OES_standard_derivatives",
		},
		{
			name: "ES2 wireframe with derivatives",
			cfg:  NewConfig(Flags(FlagWireframe) | Flags(FlagNoGeometryShader)),
			d:    Dim3D,
			caps: ESCaps(TargetGLES, GLES200, ExtOESStandardDerivatives),
		},
		{
			name:     "gl_PrimitiveID without the emulation",
			cfg:      NewConfig(Flags(FlagPrimitiveId)),
			d:        Dim3D,
			caps:     ESCaps(TargetWebGL, GLES300),
			required: "gl_PrimitiveID",
		},
		{
			name: "emulated primitive ID works everywhere",
			cfg:  NewConfig(Flags(FlagPrimitiveIdFromVertexId)),
			d:    Dim3D,
			caps: ESCaps(TargetWebGL, GLES300),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate(c.d, c.caps)
			if c.required == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var uerr UnsupportedError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected an UnsupportedError, got %T: %v", err, err)
			}
			if !strings.Contains(uerr.Required, c.required) {
				t.Fatalf("required %q does not contain %q", uerr.Required, c.required)
			}
		})
	}
}
