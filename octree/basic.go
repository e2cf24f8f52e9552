package octree

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Locate walks from the root toward pos and stops at the first node that is not subdivided,
// or at leaf depth. The returned PosInfo describes that node and the path to it. Locate
// never modifies the tree. Callers must pass a finite position; see IsFinite.
func (octree *Octree) Locate(pos r3.Vector) PosInfo {
	p := newPosInfo(octree.arena, octree.rootSpan, pos)
	for d := 1; d < octree.maxDepth; d++ {
		if !p.Node().IsSubdivided() {
			break
		}
		p.moveIntoChild(octree.arena)
	}
	return p
}

// IsFilled reports whether the voxel holding the given point is a leaf.
func (octree *Octree) IsFilled(x, y, z float64) bool {
	p := octree.Locate(r3.Vector{X: x, Y: y, Z: z})
	return p.Node().IsLeaf()
}

// Insert fills the leaf voxel holding pos, subdividing every node along the way that has
// not been split yet. Children are appended to the end of the arena, so indices returned
// by earlier calls stay valid. Inserting the same voxel again allocates nothing.
func (octree *Octree) Insert(pos r3.Vector) (PosInfo, error) {
	return octree.insert(pos, nil)
}

// InsertMaterial is like Insert but also stores mat for the leaf. The first time a leaf is
// filled its color is blended into the materials of all of its ancestors.
func (octree *Octree) InsertMaterial(pos r3.Vector, mat Material) (PosInfo, error) {
	return octree.insert(pos, &mat)
}

// blocksNeeded returns how many child blocks inserting at pos would allocate.
func (octree *Octree) blocksNeeded(pos r3.Vector) int {
	p := octree.Locate(pos)
	return octree.maxDepth - 1 - p.Depth
}

// IsFinite reports whether every coordinate of v is a real number.
func IsFinite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (octree *Octree) insert(pos r3.Vector, mat *Material) (PosInfo, error) {
	if !IsFinite(pos) {
		return PosInfo{}, errors.Wrapf(ErrNonFinitePosition, "cannot insert %v", pos)
	}
	if blocks := octree.blocksNeeded(pos); blocks > 0 {
		if lastStart := len(octree.arena) + 8*(blocks-1); lastStart > MaxChildIndex {
			octree.logger.Warnw("arena cannot address new child blocks", "arena_size", len(octree.arena), "blocks", blocks)
			return PosInfo{}, ErrArenaFull
		}
	}

	p := newPosInfo(octree.arena, octree.rootSpan, pos)
	for d := 1; d < octree.maxDepth; d++ {
		idx := p.Index()
		node := octree.arena[idx]
		if !node.IsSubdivided() {
			first := uint32(len(octree.arena))
			octree.arena = append(octree.arena, make([]Octant, 8)...)
			octree.materials = append(octree.materials, make([]Material, 8)...)
			node = node.SetLeaf(false).SetSubdivided(true).SetFirstChildIndex(first)
			octree.subdivisions++
			instrumentSubdivision()
			octree.logger.Debugw("subdivided node", "index", idx, "depth", p.Depth, "first_child", first)
		}
		node = node.SetChildOccupied(childMask(p.LocalPos, p.Span()/2), true)
		octree.arena[idx] = node
		p.refresh(octree.arena)
		p.moveIntoChild(octree.arena)
	}

	idx := p.Index()
	newLeaf := !octree.arena[idx].IsLeaf()
	octree.arena[idx] = octree.arena[idx].SetLeaf(true)
	p.refresh(octree.arena)
	if newLeaf {
		octree.leaves++
	}
	if mat != nil {
		octree.setMaterial(&p, *mat, newLeaf)
	}
	instrumentInsert(len(octree.arena))
	return p, nil
}
