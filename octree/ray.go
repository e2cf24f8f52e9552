package octree

import (
	"math"

	"github.com/golang/geo/r3"
)

// tieEpsilon is the tolerance under which two face exit distances count as the same
// crossing, so the ray passes through an edge or corner in one step. It is also how close
// a coordinate must be to a split plane to lean toward the ray's direction.
const tieEpsilon = 1e-9

// Ray is a half line starting at Origin. Dir need not be normalized.
type Ray struct {
	Origin r3.Vector
	Dir    r3.Vector
}

// RayHit describes the first leaf a ray runs into.
type RayHit struct {
	Pos PosInfo
	// Distance is measured along the normalized ray direction from the origin to the
	// point where the ray enters the leaf.
	Distance float64
	// Steps is the number of nodes visited before the hit.
	Steps int
}

// CastRay marches a ray through the tree node by node, moving from each node to the
// one adjacent to the face it exits through, until it hits a leaf. It returns false if
// the direction is zero or not finite, if the origin lies outside the root cube, if the
// ray leaves the root cube, or if maxSteps nodes were visited without a hit.
func (octree *Octree) CastRay(ray Ray, maxSteps int) (RayHit, bool) {
	hit, ok := octree.castRay(ray, maxSteps)
	instrumentRayCast(ok)
	return hit, ok
}

func (octree *Octree) castRay(ray Ray, maxSteps int) (RayHit, bool) {
	if !IsFinite(ray.Dir) || ray.Dir.Norm2() == 0 || !octree.Contains(ray.Origin.X, ray.Origin.Y, ray.Origin.Z) {
		return RayHit{}, false
	}
	dir := ray.Dir.Normalize()
	pos := octree.Locate(ray.Origin)
	point := ray.Origin
	distance := 0.0

	leafDepth := octree.maxDepth - 1
	for steps := 0; steps < maxSteps; steps++ {
		if pos.Node().IsLeaf() {
			return RayHit{Pos: pos, Distance: distance, Steps: steps}, true
		}

		t, axes, positive := exitFace(&pos, point, dir)
		exit := point.Add(dir.Mul(t))
		// snap the crossed coordinates onto the boundary, nudging negative crossings past it
		// so the point lands inside the neighbor.
		lo, hi := pos.PosOnEdge, pos.PosOnEdge.Add(r3.Vector{X: pos.Span(), Y: pos.Span(), Z: pos.Span()})
		exit.X = snap(exit.X, lo.X, hi.X, axes&1 != 0, positive&1 != 0)
		exit.Y = snap(exit.Y, lo.Y, hi.Y, axes&2 != 0, positive&2 != 0)
		exit.Z = snap(exit.Z, lo.Z, hi.Z, axes&4 != 0, positive&4 != 0)

		next, ok := octree.moveTo(pos, axes, positive, exit, leafDepth, dir)
		if !ok {
			return RayHit{}, false
		}
		distance += t
		point = exit
		pos = next
	}
	return RayHit{}, false
}

// exitFace returns the distance along dir from point to the boundary of the current node,
// the axes whose faces are crossed at that distance, and which of them are crossed on
// their positive side.
func exitFace(pos *PosInfo, point, dir r3.Vector) (float64, uint8, uint8) {
	span := pos.Span()
	edge := pos.PosOnEdge
	exits := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	comps := [3][3]float64{
		{point.X, dir.X, edge.X},
		{point.Y, dir.Y, edge.Y},
		{point.Z, dir.Z, edge.Z},
	}
	var positive uint8
	for i, c := range comps {
		p, d, e := c[0], c[1], c[2]
		switch {
		case d > 0:
			exits[i] = (e + span - p) / d
			positive |= 1 << i
		case d < 0:
			exits[i] = (e - p) / d
		}
	}

	t := math.Min(exits[0], math.Min(exits[1], exits[2]))
	var axes uint8
	for i, e := range exits {
		if e-t <= tieEpsilon {
			axes |= 1 << i
		}
	}
	return math.Max(t, 0), axes, positive & axes
}

func snap(v, lo, hi float64, crossed, positive bool) float64 {
	switch {
	case !crossed:
		return math.Min(math.Max(v, lo), math.Nextafter(hi, lo))
	case positive:
		return hi
	default:
		return math.Nextafter(lo, math.Inf(-1))
	}
}
