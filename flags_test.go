package meshvis

import "testing"

func TestFlagSupersets(t *testing.T) {
	cases := []struct {
		super Flag
		base  Flag
	}{
		{FlagInstancedObjectId, FlagObjectId},
		{FlagObjectIdTexture, FlagObjectId},
		{FlagPrimitiveIdFromVertexId, FlagPrimitiveId},
		{FlagInstancedTextureOffset, FlagTextureTransformation},
		{FlagMultiDraw, FlagUniformBuffers},
		{FlagShaderStorageBuffers, FlagUniformBuffers},
	}
	for _, c := range cases {
		if !Flags(c.super).Has(c.base) {
			t.Errorf("%v should contain %v", c.super, c.base)
		}
		if Flags(c.base).Has(c.super) {
			t.Errorf("%v should not contain %v", c.base, c.super)
		}
		if c.super.Implies() != Flags(c.base) {
			t.Errorf("%v.Implies() = %v, want %v", c.super, c.super.Implies(), c.base)
		}
	}
}

func TestFlagImpliesMatchesBitLayout(t *testing.T) {
	for _, f := range flagOrder {
		implied := f.Implies()
		if Flags(f)&implied != implied {
			t.Errorf("%v.Implies() = %v, which is not a bit subset of %#x", f, implied, uint32(f))
		}
	}
}

func TestFlagsHas(t *testing.T) {
	fs := Flags(FlagWireframe) | Flags(FlagInstancedObjectId)
	if !fs.Has(FlagWireframe) {
		t.Errorf("expected Wireframe")
	}
	if !fs.Has(FlagObjectId) {
		t.Errorf("expected implied ObjectId")
	}
	if !fs.Has(FlagInstancedObjectId) {
		t.Errorf("expected InstancedObjectId")
	}
	if fs.Has(FlagObjectIdTexture) {
		t.Errorf("ObjectIdTexture should not be present, only its ObjectId bits are")
	}
}

func TestFlagsHasAny(t *testing.T) {
	fs := Flags(FlagVertexId)
	if !fs.HasAny(FlagObjectId, FlagVertexId, FlagPrimitiveId) {
		t.Errorf("expected VertexId to match")
	}
	if fs.HasAny(FlagObjectId, FlagPrimitiveId) {
		t.Errorf("expected no match")
	}
	if fs.HasAny() {
		t.Errorf("empty query should never match")
	}
}

func TestFlagsString(t *testing.T) {
	cases := []struct {
		fs   Flags
		want string
	}{
		{0, "Flags(0)"},
		{Flags(FlagWireframe), "Wireframe"},
		{Flags(FlagInstancedObjectId), "InstancedObjectId"},
		{Flags(FlagWireframe) | Flags(FlagObjectId), "Wireframe|ObjectId"},
		{Flags(FlagShaderStorageBuffers) | Flags(FlagMultiDraw), "ShaderStorageBuffers|MultiDraw"},
		{Flags(FlagObjectIdTexture) | Flags(FlagTextureArrays), "ObjectIdTexture|TextureArrays"},
		{Flags(1 << 20), "Flags(0x100000)"},
		{Flags(FlagWireframe) | Flags(1<<20), "Wireframe|Flags(0x100000)"},
	}
	for _, c := range cases {
		if got := c.fs.String(); got != c.want {
			t.Errorf("Flags(%#x).String() = %q, want %q", uint32(c.fs), got, c.want)
		}
	}
}

func TestFlagString(t *testing.T) {
	if got := FlagBitangentFromTangentDirection.String(); got != "BitangentFromTangentDirection" {
		t.Errorf("got %q", got)
	}
	if got := Flag(1 << 30).String(); got != "Flag(0x40000000)" {
		t.Errorf("got %q", got)
	}
}
