package octree

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/svo/utils"
)

// BranchInfo is one frame of a traversal: the node visited at a depth, its parent, its span,
// and which of the parent's octants it occupies.
type BranchInfo struct {
	Index       uint32
	Node        Octant
	ParentIndex uint32
	Parent      Octant
	Span        float64
	Mask        uint8
}

// PosInfo is the spatial state of a traversal. LocalPos is the traversal point relative to
// the edge (minimum corner) of the current node and always lies in [0, Span()) per axis;
// PosOnEdge is the world position of that edge. The per-depth frames live in a fixed
// array, so copying a PosInfo snapshots the whole path from the root.
type PosInfo struct {
	LocalPos  r3.Vector
	PosOnEdge r3.Vector
	Depth     int

	branches [MaxDepth]BranchInfo
}

// newPosInfo starts a traversal at the root for the given point. Coordinates outside the
// root cube wrap around.
func newPosInfo(arena []Octant, rootSpan float64, pos r3.Vector) PosInfo {
	local := r3.Vector{X: floorMod(pos.X, rootSpan), Y: floorMod(pos.Y, rootSpan), Z: floorMod(pos.Z, rootSpan)}
	p := PosInfo{
		LocalPos:  local,
		PosOnEdge: pos.Sub(local),
	}
	p.branches[0] = BranchInfo{
		Node:   arena[0],
		Parent: arena[0],
		Span:   rootSpan,
	}
	return p
}

func floorMod(v, m float64) float64 {
	r := v - m*math.Floor(v/m)
	if r >= m {
		// v/m rounded up for tiny negative v
		return 0
	}
	return r
}

// Branch returns the frame of the current node.
func (p PosInfo) Branch() BranchInfo {
	return p.branches[p.Depth]
}

// BranchAt returns the frame at the given depth along the current path.
func (p PosInfo) BranchAt(depth int) BranchInfo {
	if depth < 0 || depth > p.Depth {
		panic(utils.NewDepthOverflowError(depth, p.Depth))
	}
	return p.branches[depth]
}

// Branches returns a copy of the frames from the root down to the current node.
func (p PosInfo) Branches() []BranchInfo {
	out := make([]BranchInfo, p.Depth+1)
	copy(out, p.branches[:p.Depth+1])
	return out
}

// Index returns the arena index of the current node.
func (p PosInfo) Index() uint32 {
	return p.branches[p.Depth].Index
}

// Node returns the current node as it was when the traversal reached it.
func (p PosInfo) Node() Octant {
	return p.branches[p.Depth].Node
}

// Span returns the edge length of the current node.
func (p PosInfo) Span() float64 {
	return p.branches[p.Depth].Span
}

// Mask returns the octant the current node occupies within its parent.
func (p PosInfo) Mask() uint8 {
	return p.branches[p.Depth].Mask
}

// Position returns the traversal point in world space.
func (p PosInfo) Position() r3.Vector {
	return p.PosOnEdge.Add(p.LocalPos)
}

// Center returns the world space center of the current node.
func (p PosInfo) Center() r3.Vector {
	half := p.Span() / 2
	return p.PosOnEdge.Add(r3.Vector{X: half, Y: half, Z: half})
}

// Contains reports whether a world point lies inside the current node.
func (p PosInfo) Contains(pt r3.Vector) bool {
	span := p.Span()
	d := pt.Sub(p.PosOnEdge)
	return d.X >= 0 && d.X < span && d.Y >= 0 && d.Y < span && d.Z >= 0 && d.Z < span
}

// childMask selects the octant holding local: per axis 1 if the coordinate is in the upper
// half, else 0.
func childMask(local r3.Vector, half float64) uint8 {
	var mask uint8
	if local.X >= half {
		mask |= 1
	}
	if local.Y >= half {
		mask |= 2
	}
	if local.Z >= half {
		mask |= 4
	}
	return mask
}

// childMaskToward is childMask, except that a coordinate lying on the split plane goes to
// the half that bias points into. A ray that reaches a split plane on an axis it is not
// crossing belongs to the side it travels toward, not the one it merely touches.
func childMaskToward(local r3.Vector, half float64, bias r3.Vector) uint8 {
	mask := childMask(local, half)
	lean := func(c, b float64, bit uint8) {
		if math.Abs(c-half) > tieEpsilon {
			return
		}
		switch {
		case b > 0:
			mask |= bit
		case b < 0:
			mask &^= bit
		}
	}
	lean(local.X, bias.X, 1)
	lean(local.Y, bias.Y, 2)
	lean(local.Z, bias.Z, 4)
	return mask
}

// maskOffset is the offset of the given octant's edge from its parent's edge.
func maskOffset(mask uint8, half float64) r3.Vector {
	var v r3.Vector
	if mask&1 != 0 {
		v.X = half
	}
	if mask&2 != 0 {
		v.Y = half
	}
	if mask&4 != 0 {
		v.Z = half
	}
	return v
}

// childIndex resolves the arena index of the given child of the node at index. The node is
// re-read from the arena so frames captured before an insertion still resolve.
func childIndex(arena []Octant, index uint32, mask uint8) uint32 {
	node := arena[index]
	first := node.FirstChildIndex()
	if !node.IsSubdivided() || first == 0 || int(first)+8 > len(arena) {
		panic(utils.NewArenaIndexError(index, first, len(arena)))
	}
	return first + uint32(mask)
}

// moveIntoChild descends into the child holding the traversal point.
func (p *PosInfo) moveIntoChild(arena []Octant) {
	p.enterChild(arena, childMask(p.LocalPos, p.Span()/2))
}

// enterChild descends into the given octant, keeping the traversal point fixed.
func (p *PosInfo) enterChild(arena []Octant, mask uint8) {
	if p.Depth+1 >= MaxDepth {
		panic(utils.NewDepthOverflowError(p.Depth+1, MaxDepth))
	}
	cur := p.branches[p.Depth]
	half := cur.Span / 2
	offset := maskOffset(mask, half)
	idx := childIndex(arena, cur.Index, mask)

	p.PosOnEdge = p.PosOnEdge.Add(offset)
	p.LocalPos = p.LocalPos.Sub(offset)
	p.Depth++
	p.branches[p.Depth] = BranchInfo{
		Index:       idx,
		Node:        arena[idx],
		ParentIndex: cur.Index,
		Parent:      arena[cur.Index],
		Span:        half,
		Mask:        mask,
	}
}

// moveUp reverses the last descent.
func (p *PosInfo) moveUp() {
	if p.Depth == 0 {
		panic(utils.NewDepthOverflowError(-1, MaxDepth))
	}
	frame := p.branches[p.Depth]
	offset := maskOffset(frame.Mask, frame.Span)
	p.PosOnEdge = p.PosOnEdge.Sub(offset)
	p.LocalPos = p.LocalPos.Add(offset)
	p.branches[p.Depth] = BranchInfo{}
	p.Depth--
}

// refresh re-reads the current frame's node word from the arena.
func (p *PosInfo) refresh(arena []Octant) {
	p.branches[p.Depth].Node = arena[p.branches[p.Depth].Index]
}
