package octree

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Material is the surface data of a node. Materials live in an array parallel to the
// arena, keyed by node index. For subdivided nodes the color is the running average of all
// leaves filled beneath them.
type Material struct {
	Color    colorful.Color
	Emissive bool

	weight uint32
}

// NewMaterial returns a non-emissive material of the given color.
func NewMaterial(c color.Color) Material {
	col, _ := colorful.MakeColor(c)
	return Material{Color: col}
}

// ParseMaterial returns a non-emissive material from a "#rrggbb" hex color.
func ParseMaterial(hex string) (Material, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return Material{}, errors.Wrapf(err, "invalid material color %q", hex)
	}
	return Material{Color: col}, nil
}

// Weight returns how many leaves contributed to the material.
func (m Material) Weight() uint32 {
	return m.weight
}

// RGBA8 packs the material into four bytes: red, green, blue, and 0xFF for emissive
// materials or 0 otherwise.
func (m Material) RGBA8() [4]byte {
	r, g, b := m.Color.Clamped().RGB255()
	var flags byte
	if m.Emissive {
		flags = 0xFF
	}
	return [4]byte{r, g, b, flags}
}

// Material returns the material stored for the node at the given arena index.
func (octree *Octree) Material(index uint32) Material {
	return octree.materials[index]
}

func (octree *Octree) setMaterial(p *PosInfo, mat Material, newLeaf bool) {
	mat.weight = 1
	octree.materials[p.Index()] = mat
	if !newLeaf {
		return
	}
	for d := p.Depth - 1; d >= 0; d-- {
		idx := p.branches[d].Index
		m := octree.materials[idx]
		m.weight++
		m.Color = m.Color.BlendRgb(mat.Color, 1/float64(m.weight))
		octree.materials[idx] = m
	}
}

// InsertLight fills the voxel holding pos with an emissive material and records it as a
// light source.
func (octree *Octree) InsertLight(pos r3.Vector, c colorful.Color) (PosInfo, error) {
	p, err := octree.InsertMaterial(pos, Material{Color: c, Emissive: true})
	if err != nil {
		return PosInfo{}, err
	}
	idx := p.Index()
	for _, existing := range octree.lights {
		if existing == idx {
			return p, nil
		}
	}
	octree.lights = append(octree.lights, idx)
	octree.logger.Debugw("added light", "index", idx, "color", c.Hex())
	return p, nil
}

// Lights returns the arena indices of every light voxel in insertion order.
func (octree *Octree) Lights() []uint32 {
	out := make([]uint32, len(octree.lights))
	copy(out, octree.lights)
	return out
}
