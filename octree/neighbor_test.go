package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func dirDelta(dir uint8, span float64) r3.Vector {
	sign := func(bit uint8) float64 {
		if dir&bit != 0 {
			return span
		}
		return -span
	}
	return r3.Vector{X: sign(1), Y: sign(2), Z: sign(4)}
}

func TestNeighbor(t *testing.T) {
	octree := createNewOctree(t, 3)
	fillOctree(t, octree)
	test.That(t, octree.Size(), test.ShouldEqual, 64)
	test.That(t, octree.Len(), test.ShouldEqual, 73)

	t.Run("round trip from interior leaves", func(t *testing.T) {
		for _, x := range []float64{2, 4} {
			for _, y := range []float64{2, 4} {
				for _, z := range []float64{2, 4} {
					from := octree.Locate(r3.Vector{X: x, Y: y, Z: z})
					for dir := uint8(0); dir < 8; dir++ {
						n, ok := octree.Neighbor(from, dir)
						test.That(t, ok, test.ShouldBeTrue)
						test.That(t, n.Depth, test.ShouldEqual, from.Depth)
						test.That(t, n.Node().IsLeaf(), test.ShouldBeTrue)
						test.That(t, n.PosOnEdge, test.ShouldResemble, from.PosOnEdge.Add(dirDelta(dir, 2)))
						test.That(t, n.Index(), test.ShouldEqual, octree.Locate(n.PosOnEdge).Index())

						back, ok := octree.Neighbor(n, ^dir&7)
						test.That(t, ok, test.ShouldBeTrue)
						test.That(t, back.Index(), test.ShouldEqual, from.Index())
						test.That(t, back.Depth, test.ShouldEqual, from.Depth)
						test.That(t, back.PosOnEdge, test.ShouldResemble, from.PosOnEdge)
					}
				}
			}
		}
	})

	t.Run("stepping out of the root fails", func(t *testing.T) {
		corner := octree.Locate(r3.Vector{})
		_, ok := octree.Neighbor(corner, 0)
		test.That(t, ok, test.ShouldBeFalse)
		_, ok = octree.Neighbor(corner, 0b110)
		test.That(t, ok, test.ShouldBeFalse)
		n, ok := octree.Neighbor(corner, 7)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.PosOnEdge, test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 2})

		root := octree.Locate(r3.Vector{})
		for root.Depth > 0 {
			root.moveUp()
		}
		_, ok = octree.Neighbor(root, 7)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("face neighbors", func(t *testing.T) {
		from := octree.Locate(r3.Vector{})
		n, ok := octree.FaceNeighbor(from, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.PosOnEdge, test.ShouldResemble, r3.Vector{X: 2})
		n, ok = octree.FaceNeighbor(n, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.PosOnEdge, test.ShouldResemble, r3.Vector{X: 4})
		test.That(t, n.Node().IsLeaf(), test.ShouldBeTrue)

		n, ok = octree.FaceNeighbor(from, AxisZ, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.PosOnEdge, test.ShouldResemble, r3.Vector{Z: 2})

		_, ok = octree.FaceNeighbor(from, AxisX, false)
		test.That(t, ok, test.ShouldBeFalse)
		_, ok = octree.FaceNeighbor(octree.Locate(r3.Vector{Y: 7}), AxisY, true)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestNeighborSparse(t *testing.T) {
	octree := createNewOctree(t, 3)
	leaf, err := octree.Insert(r3.Vector{})
	test.That(t, err, test.ShouldBeNil)

	t.Run("empty sibling at the same depth", func(t *testing.T) {
		n, ok := octree.FaceNeighbor(leaf, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.Depth, test.ShouldEqual, 2)
		test.That(t, n.Node().IsEmpty(), test.ShouldBeTrue)
		test.That(t, n.PosOnEdge, test.ShouldResemble, r3.Vector{X: 2})
		test.That(t, n.Index(), test.ShouldEqual, leaf.Index()+1)

		d, ok := octree.Neighbor(leaf, 7)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, d.Index(), test.ShouldEqual, leaf.Index()+7)
	})

	t.Run("coarser node when the region is not subdivided", func(t *testing.T) {
		n, ok := octree.FaceNeighbor(leaf, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		n, ok = octree.FaceNeighbor(n, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.Depth, test.ShouldEqual, 1)
		test.That(t, n.PosOnEdge, test.ShouldResemble, r3.Vector{X: 4})
		test.That(t, n.Node().IsEmpty(), test.ShouldBeTrue)
	})

	t.Run("sees nodes inserted after the path was captured", func(t *testing.T) {
		_, err := octree.Insert(r3.Vector{X: 2})
		test.That(t, err, test.ShouldBeNil)
		n, ok := octree.FaceNeighbor(leaf, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.Node().IsLeaf(), test.ShouldBeTrue)

		far, err := octree.Insert(r3.Vector{X: 4})
		test.That(t, err, test.ShouldBeNil)
		n, ok = octree.FaceNeighbor(n, AxisX, true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, n.Index(), test.ShouldEqual, far.Index())
	})
}
