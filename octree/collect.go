package octree

import "github.com/golang/geo/r3"

// Collect walks the tree depth first and returns every leaf, plus every subdivided node
// sitting at maxDepth, in octant order 0 through 7 at each branch. Each entry carries its
// full path from the root; its traversal point is the node's edge. maxDepth is clamped to
// the leaf depth of the tree.
func (octree *Octree) Collect(maxDepth int) []PosInfo {
	limit := maxDepth
	if limit > octree.maxDepth-1 {
		limit = octree.maxDepth - 1
	}
	pos := newPosInfo(octree.arena, octree.rootSpan, r3.Vector{})
	if limit < 1 || !pos.Node().IsSubdivided() {
		return nil
	}

	var (
		out  []PosInfo
		next [MaxDepth]uint8
	)
	for {
		d := pos.Depth
		if next[d] == 8 {
			if d == 0 {
				return out
			}
			pos.moveUp()
			continue
		}
		mask := next[d]
		next[d]++

		pos.enterChild(octree.arena, mask)
		pos.LocalPos = r3.Vector{}
		node := pos.Node()
		if node.IsSubdivided() && pos.Depth < limit {
			next[pos.Depth] = 0
			continue
		}
		if node.IsLeaf() || node.IsSubdivided() {
			out = append(out, pos)
		}
		pos.moveUp()
	}
}
