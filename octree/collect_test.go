package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func maskPath(p PosInfo) []uint8 {
	var path []uint8
	for _, frame := range p.Branches()[1:] {
		path = append(path, frame.Mask)
	}
	return path
}

func pathLess(a, b []uint8) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func TestCollect(t *testing.T) {
	t.Run("empty tree", func(t *testing.T) {
		octree := createNewOctree(t, 3)
		test.That(t, octree.Collect(2), test.ShouldBeEmpty)
	})

	t.Run("two leaves in octant order", func(t *testing.T) {
		octree := createNewOctree(t, 3)
		b, err := octree.Insert(r3.Vector{X: 7, Y: 7, Z: 7})
		test.That(t, err, test.ShouldBeNil)
		a, err := octree.Insert(r3.Vector{})
		test.That(t, err, test.ShouldBeNil)

		entries := octree.Collect(2)
		test.That(t, len(entries), test.ShouldEqual, 2)
		test.That(t, entries[0].Index(), test.ShouldEqual, a.Index())
		test.That(t, entries[1].Index(), test.ShouldEqual, b.Index())
		test.That(t, entries[0].PosOnEdge, test.ShouldResemble, r3.Vector{})
		test.That(t, entries[1].PosOnEdge, test.ShouldResemble, r3.Vector{X: 6, Y: 6, Z: 6})
		for _, e := range entries {
			test.That(t, e.Depth, test.ShouldEqual, 2)
			test.That(t, e.Node().IsLeaf(), test.ShouldBeTrue)
			test.That(t, e.LocalPos, test.ShouldResemble, r3.Vector{})
			test.That(t, len(e.Branches()), test.ShouldEqual, 3)
		}
	})

	t.Run("frontier at the depth limit", func(t *testing.T) {
		octree := createNewOctree(t, 3)
		_, err := octree.Insert(r3.Vector{})
		test.That(t, err, test.ShouldBeNil)
		_, err = octree.Insert(r3.Vector{X: 7, Y: 7, Z: 7})
		test.That(t, err, test.ShouldBeNil)

		entries := octree.Collect(1)
		test.That(t, len(entries), test.ShouldEqual, 2)
		test.That(t, entries[0].Depth, test.ShouldEqual, 1)
		test.That(t, entries[0].Mask(), test.ShouldEqual, 0)
		test.That(t, entries[0].Node().IsSubdivided(), test.ShouldBeTrue)
		test.That(t, entries[1].Mask(), test.ShouldEqual, 7)
		test.That(t, entries[1].PosOnEdge, test.ShouldResemble, r3.Vector{X: 4, Y: 4, Z: 4})

		test.That(t, octree.Collect(0), test.ShouldBeEmpty)
	})

	t.Run("every leaf exactly once", func(t *testing.T) {
		octree := createNewOctree(t, 5)
		for _, p := range randomPositions(octree, 250, 3) {
			_, err := octree.Insert(p)
			test.That(t, err, test.ShouldBeNil)
		}

		// a limit past the leaf depth is clamped
		entries := octree.Collect(100)
		test.That(t, len(entries), test.ShouldEqual, octree.Size())

		seen := map[uint32]bool{}
		for i, e := range entries {
			test.That(t, e.Node().IsLeaf(), test.ShouldBeTrue)
			test.That(t, seen[e.Index()], test.ShouldBeFalse)
			seen[e.Index()] = true
			test.That(t, octree.Locate(e.Center()).Index(), test.ShouldEqual, e.Index())
			if i > 0 {
				test.That(t, pathLess(maskPath(entries[i-1]), maskPath(e)), test.ShouldBeTrue)
			}
		}
	})
}
