package octree

import (
	"testing"

	"go.viam.com/test"
)

func TestOctantFlags(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		o := NewOctant(false, false)
		test.That(t, o, test.ShouldEqual, Octant(0))
		test.That(t, o.IsEmpty(), test.ShouldBeTrue)
		test.That(t, o.IsLeaf(), test.ShouldBeFalse)
		test.That(t, o.IsSubdivided(), test.ShouldBeFalse)
		test.That(t, o.Type(), test.ShouldEqual, EmptyNode)
	})

	t.Run("leaf", func(t *testing.T) {
		o := NewOctant(true, false)
		test.That(t, uint32(o), test.ShouldEqual, uint32(1)<<24)
		test.That(t, o.IsLeaf(), test.ShouldBeTrue)
		test.That(t, o.Type(), test.ShouldEqual, LeafNode)
		test.That(t, o.Validate(), test.ShouldBeNil)
	})

	t.Run("subdivided", func(t *testing.T) {
		o := NewOctant(false, true)
		test.That(t, uint32(o), test.ShouldEqual, uint32(1)<<25)
		test.That(t, o.IsSubdivided(), test.ShouldBeTrue)
		test.That(t, o.Type(), test.ShouldEqual, SubdividedNode)
		test.That(t, o.Validate(), test.ShouldBeNil)
	})

	t.Run("set replaces both flags", func(t *testing.T) {
		o := NewOctant(true, false).SetChildOccupied(1, true)
		o = o.Set(false, true)
		test.That(t, o.IsLeaf(), test.ShouldBeFalse)
		test.That(t, o.IsSubdivided(), test.ShouldBeTrue)
		test.That(t, o.IsChildOccupied(1), test.ShouldBeTrue)
	})

	t.Run("both flags is invalid", func(t *testing.T) {
		o := NewOctant(true, true)
		test.That(t, o.Validate(), test.ShouldNotBeNil)
		test.That(t, Octant(1<<31).Validate(), test.ShouldNotBeNil)
	})
}

func TestOctantFields(t *testing.T) {
	o := NewOctant(false, true).SetFirstChildIndex(0xBEEF)
	test.That(t, o.FirstChildIndex(), test.ShouldEqual, 0xBEEF)
	test.That(t, o.IsSubdivided(), test.ShouldBeTrue)
	test.That(t, o.HasChildren(), test.ShouldBeFalse)

	o = o.SetChildOccupied(3, true)
	test.That(t, uint32(o)&0xFF0000, test.ShouldEqual, uint32(1)<<19)
	test.That(t, o.HasChildren(), test.ShouldBeTrue)
	test.That(t, o.IsChildOccupied(3), test.ShouldBeTrue)
	test.That(t, o.IsChildOccupied(4), test.ShouldBeFalse)

	o = o.SetChildOccupied(7, true)
	test.That(t, o.Occupancy(), test.ShouldEqual, 0b10001000)
	o = o.SetChildOccupied(3, false)
	test.That(t, o.Occupancy(), test.ShouldEqual, 0b10000000)

	// rewriting the child index leaves the other fields alone
	o = o.SetFirstChildIndex(9)
	test.That(t, o.FirstChildIndex(), test.ShouldEqual, 9)
	test.That(t, o.Occupancy(), test.ShouldEqual, 0b10000000)
	test.That(t, o.IsSubdivided(), test.ShouldBeTrue)

	t.Run("out of range values panic", func(t *testing.T) {
		test.That(t, func() { o.SetFirstChildIndex(MaxChildIndex + 1) }, test.ShouldPanic)
		test.That(t, func() { o.SetChildOccupied(8, true) }, test.ShouldPanic)
		test.That(t, func() { o.IsChildOccupied(8) }, test.ShouldPanic)
	})
}

func TestOctantDecode(t *testing.T) {
	for _, tc := range []struct {
		name string
		node Node
	}{
		{"empty", Node{Type: EmptyNode}},
		{"leaf", Node{Type: LeafNode}},
		{"subdivided", Node{Type: SubdividedNode, FirstChild: 17, Occupancy: 0b00100001}},
		{"subdivided at field limit", Node{Type: SubdividedNode, FirstChild: MaxChildIndex, Occupancy: 0xFF}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			o := tc.node.Encode()
			test.That(t, o.Validate(), test.ShouldBeNil)
			test.That(t, o.Decode(), test.ShouldResemble, tc.node)
		})
	}

	t.Run("first child is dropped for non subdivided nodes", func(t *testing.T) {
		o := Node{Type: LeafNode, FirstChild: 40}.Encode()
		test.That(t, o.FirstChildIndex(), test.ShouldEqual, 0)
		test.That(t, o.Decode().FirstChild, test.ShouldEqual, 0)
	})

	test.That(t, NewOctant(false, true).SetFirstChildIndex(1).String(),
		test.ShouldEqual, "{subdivided child:1 occupancy:00000000}")
}
