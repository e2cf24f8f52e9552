package octree

import (
	"encoding/binary"
	"math"
)

// NodeSize is the size in bytes of one node in the storage buffer.
const NodeSize = 4

// Uniform holds the scalar inputs the shader needs to repeat the location walk over the
// uploaded arena.
type Uniform struct {
	RootSpan   float32
	MaxDepth   uint32
	RootIndex  uint32
	NodeCount  uint32
	LightCount uint32
}

// Bytes packs the uniform block in field order, little endian.
func (u Uniform) Bytes() []byte {
	out := make([]byte, 0, 20)
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(u.RootSpan))
	out = binary.LittleEndian.AppendUint32(out, u.MaxDepth)
	out = binary.LittleEndian.AppendUint32(out, u.RootIndex)
	out = binary.LittleEndian.AppendUint32(out, u.NodeCount)
	return binary.LittleEndian.AppendUint32(out, u.LightCount)
}

// Uniform returns the uniform block describing the current tree.
func (octree *Octree) Uniform() Uniform {
	return Uniform{
		RootSpan:   float32(octree.rootSpan),
		MaxDepth:   uint32(octree.maxDepth),
		RootIndex:  0,
		NodeCount:  uint32(len(octree.arena)),
		LightCount: uint32(len(octree.lights)),
	}
}

// Words returns a copy of the arena as raw words, root first.
func (octree *Octree) Words() []uint32 {
	out := make([]uint32, len(octree.arena))
	for i, node := range octree.arena {
		out[i] = uint32(node)
	}
	return out
}

// AppendWords appends the arena to dst as little endian words, ready to be copied into a
// storage buffer.
func (octree *Octree) AppendWords(dst []byte) []byte {
	for _, node := range octree.arena {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(node))
	}
	return dst
}

// AppendMaterials appends the material array to dst, four bytes per node in arena order.
func (octree *Octree) AppendMaterials(dst []byte) []byte {
	for _, m := range octree.materials {
		rgba := m.RGBA8()
		dst = append(dst, rgba[:]...)
	}
	return dst
}

// AppendLights appends the light indices to dst as little endian words.
func (octree *Octree) AppendLights(dst []byte) []byte {
	for _, idx := range octree.lights {
		dst = binary.LittleEndian.AppendUint32(dst, idx)
	}
	return dst
}
