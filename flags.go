package meshvis

import (
	"fmt"
	"strings"
)

// Flag selects an optional visualization feature or code path of a mesh
// visualizer shader program. Some flags are defined as bit supersets of
// others, e.g. FlagInstancedObjectId contains all bits of FlagObjectId.
// Flags.Has respects these implication relations.
type Flag uint32

const (
	// FlagWireframe renders the triangle edges on top of the surface.
	FlagWireframe Flag = 1 << 0
	// FlagNoGeometryShader opts out of the geometry shader stage. Wireframe
	// rendering then needs a VertexIndex attribute instead of gl_VertexID
	// expansion and loses per-sample line width control.
	FlagNoGeometryShader Flag = 1 << 1
	// FlagVertexId colorizes the mesh by gl_VertexID through the color map.
	FlagVertexId Flag = 1 << 3
	// FlagPrimitiveId colorizes the mesh by gl_PrimitiveID.
	FlagPrimitiveId Flag = 1 << 4
	// FlagTangentDirection draws tangent direction lines from each vertex.
	FlagTangentDirection Flag = 1 << 6
	// FlagBitangentFromTangentDirection draws bitangent lines computed as a
	// cross product of the normal and a four-component tangent.
	FlagBitangentFromTangentDirection Flag = 1 << 7
	// FlagBitangentDirection draws bitangent lines from a dedicated
	// bitangent attribute.
	FlagBitangentDirection Flag = 1 << 8
	// FlagNormalDirection draws normal direction lines.
	FlagNormalDirection Flag = 1 << 9
	// FlagUniformBuffers sources per-draw, transformation and material
	// parameters from uniform buffers instead of direct uniforms.
	FlagUniformBuffers Flag = 1 << 10
	// FlagObjectId colorizes the mesh by a per-draw object ID.
	FlagObjectId Flag = 1 << 12
	// FlagTextureTransformation applies a matrix to texture coordinates.
	FlagTextureTransformation Flag = 1 << 14
	// FlagInstancedTransformation sources the transformation from an
	// instanced TransformationMatrix attribute on slots 8 to 11.
	FlagInstancedTransformation Flag = 1 << 15
	// FlagTextureArrays reads the object ID texture from a 2D array texture.
	FlagTextureArrays Flag = 1 << 17
	// FlagDynamicPerVertexJointCount allows lowering the per-vertex joint
	// counts at runtime below the compiled-in maximums.
	FlagDynamicPerVertexJointCount Flag = 1 << 18

	// FlagInstancedObjectId sources the object ID from an instanced vertex
	// attribute. Implies FlagObjectId.
	FlagInstancedObjectId Flag = (1 << 2) | FlagObjectId
	// FlagObjectIdTexture reads object IDs from a texture. Implies
	// FlagObjectId.
	FlagObjectIdTexture Flag = (1 << 13) | FlagObjectId
	// FlagPrimitiveIdFromVertexId emulates gl_PrimitiveID from gl_VertexID
	// on non-indexed meshes. Implies FlagPrimitiveId.
	FlagPrimitiveIdFromVertexId Flag = (1 << 5) | FlagPrimitiveId
	// FlagInstancedTextureOffset sources a per-instance texture offset from
	// an attribute. Implies FlagTextureTransformation.
	FlagInstancedTextureOffset Flag = (1 << 16) | FlagTextureTransformation
	// FlagMultiDraw enables gl_DrawID-based indexing into the draw buffer.
	// Implies FlagUniformBuffers.
	FlagMultiDraw Flag = (1 << 11) | FlagUniformBuffers
	// FlagShaderStorageBuffers uses runtime-sized shader storage buffers
	// instead of fixed-capacity uniform buffers. Implies FlagUniformBuffers.
	FlagShaderStorageBuffers Flag = (1 << 19) | FlagUniformBuffers
)

// Flags is a set of Flag bits.
type Flags uint32

// Has reports whether all bits of f, including the bits of any implied base
// flag, are present in the set.
func (fs Flags) Has(f Flag) bool {
	return fs&Flags(f) == Flags(f)
}

// HasAny reports whether at least one of the listed flags is fully present.
func (fs Flags) HasAny(flags ...Flag) bool {
	for _, f := range flags {
		if fs.Has(f) {
			return true
		}
	}
	return false
}

// Implies returns the base flags whose bits f contains beside its own
// distinguishing bit. The relation is encoded in the bit layout itself, this
// accessor exists so it can be audited and tested in one place.
func (f Flag) Implies() Flags {
	switch f {
	case FlagInstancedObjectId, FlagObjectIdTexture:
		return Flags(FlagObjectId)
	case FlagPrimitiveIdFromVertexId:
		return Flags(FlagPrimitiveId)
	case FlagInstancedTextureOffset:
		return Flags(FlagTextureTransformation)
	case FlagMultiDraw, FlagShaderStorageBuffers:
		return Flags(FlagUniformBuffers)
	}
	return 0
}

// flagOrder lists superset flags before the flags they imply so that
// Flags.String reports only the most specific flag of each implication
// chain.
var flagOrder = []Flag{
	FlagWireframe,
	FlagNoGeometryShader,
	FlagTangentDirection,
	FlagBitangentFromTangentDirection,
	FlagBitangentDirection,
	FlagNormalDirection,
	FlagInstancedObjectId,
	FlagObjectIdTexture,
	FlagObjectId,
	FlagVertexId,
	FlagPrimitiveIdFromVertexId,
	FlagPrimitiveId,
	FlagShaderStorageBuffers,
	FlagMultiDraw,
	FlagUniformBuffers,
	FlagInstancedTextureOffset,
	FlagTextureTransformation,
	FlagInstancedTransformation,
	FlagTextureArrays,
	FlagDynamicPerVertexJointCount,
}

func (f Flag) String() string {
	switch f {
	case FlagWireframe:
		return "Wireframe"
	case FlagNoGeometryShader:
		return "NoGeometryShader"
	case FlagObjectId:
		return "ObjectId"
	case FlagInstancedObjectId:
		return "InstancedObjectId"
	case FlagObjectIdTexture:
		return "ObjectIdTexture"
	case FlagVertexId:
		return "VertexId"
	case FlagPrimitiveId:
		return "PrimitiveId"
	case FlagPrimitiveIdFromVertexId:
		return "PrimitiveIdFromVertexId"
	case FlagTangentDirection:
		return "TangentDirection"
	case FlagBitangentFromTangentDirection:
		return "BitangentFromTangentDirection"
	case FlagBitangentDirection:
		return "BitangentDirection"
	case FlagNormalDirection:
		return "NormalDirection"
	case FlagTextureTransformation:
		return "TextureTransformation"
	case FlagInstancedTransformation:
		return "InstancedTransformation"
	case FlagInstancedTextureOffset:
		return "InstancedTextureOffset"
	case FlagUniformBuffers:
		return "UniformBuffers"
	case FlagShaderStorageBuffers:
		return "ShaderStorageBuffers"
	case FlagMultiDraw:
		return "MultiDraw"
	case FlagTextureArrays:
		return "TextureArrays"
	case FlagDynamicPerVertexJointCount:
		return "DynamicPerVertexJointCount"
	}
	return fmt.Sprintf("Flag(%#x)", uint32(f))
}

// String formats the set as pipe-separated flag names. Implication chains
// report only the most specific flag, e.g. InstancedObjectId|ObjectId prints
// as just InstancedObjectId.
func (fs Flags) String() string {
	if fs == 0 {
		return "Flags(0)"
	}
	var parts []string
	var covered Flags
	for _, f := range flagOrder {
		if fs.Has(f) && covered&Flags(f) != Flags(f) {
			parts = append(parts, f.String())
			covered |= Flags(f)
		}
	}
	if rest := fs &^ covered; rest != 0 {
		parts = append(parts, fmt.Sprintf("Flags(%#x)", uint32(rest)))
	}
	return strings.Join(parts, "|")
}
