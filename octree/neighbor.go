package octree

import (
	"github.com/golang/geo/r3"
)

// Axis names one of the three coordinate axes by its bit in an octant mask.
type Axis uint8

// The axes, numbered by their bit position in an octant mask.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Neighbor steps from the node described by from to the diagonally adjacent node in the
// given direction. Bit i of dir set means move one node span in the positive direction
// along axis i, clear means move in the negative direction; all three axes move.
//
// The walk climbs only as far as the lowest common ancestor and then descends again, so
// it never restarts from the root. The result is at from's depth unless the destination
// region is covered by a coarser leaf or empty node, in which case that node is returned.
// It returns false if the step would leave the root cube.
//
// Stepping in dir and then in ^dir&7 returns to the starting node whenever the region
// around it is subdivided down to its depth.
func (octree *Octree) Neighbor(from PosInfo, dir uint8) (PosInfo, bool) {
	return octree.step(from, 7, dir&7)
}

// FaceNeighbor steps one node span along a single axis, in the positive direction if
// positive is set. It follows the same rules as Neighbor.
func (octree *Octree) FaceNeighbor(from PosInfo, axis Axis, positive bool) (PosInfo, bool) {
	axes := uint8(1) << axis
	var dir uint8
	if positive {
		dir = axes
	}
	return octree.step(from, axes, dir)
}

func (octree *Octree) step(from PosInfo, axes, dir uint8) (PosInfo, bool) {
	span := from.Span()
	offset := func(bit uint8) float64 {
		switch {
		case axes&bit == 0:
			return 0
		case dir&bit != 0:
			return span
		default:
			return -span
		}
	}
	delta := r3.Vector{X: offset(1), Y: offset(2), Z: offset(4)}
	return octree.moveTo(from, axes, dir, from.Position().Add(delta), from.Depth, r3.Vector{})
}

// moveTo climbs from the current node until every axis in axes can move in the direction
// given by dir without leaving the ancestor, then descends toward target through
// subdivided nodes down to at most depth. An axis moving toward the positive side escapes
// its parent when the node already sits in the upper half on that axis, and vice versa,
// so an axis keeps climbing while its bit in the node's octant mask equals its bit in dir.
// Target coordinates lying on a split plane descend into the half that bias points into.
func (octree *Octree) moveTo(from PosInfo, axes, dir uint8, target r3.Vector, depth int, bias r3.Vector) (PosInfo, bool) {
	pos := from
	pending := axes & 7
	for pending != 0 {
		if pos.Depth == 0 {
			return PosInfo{}, false
		}
		pending &^= pos.Mask() ^ dir
		pos.moveUp()
	}

	pos.refresh(octree.arena)
	pos.LocalPos = target.Sub(pos.PosOnEdge)
	for pos.Depth < depth && pos.Node().IsSubdivided() {
		pos.enterChild(octree.arena, childMaskToward(pos.LocalPos, pos.Span()/2, bias))
	}
	return pos, true
}
