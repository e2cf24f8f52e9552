package octree

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/svo/utils"
)

// Bit layout of a packed node word. Bits 26 through 31 are reserved. The same layout is
// read by the ray tracing shader, so any change here must be mirrored there.
const (
	childIndexStart = 0
	childIndexEnd   = 16
	occupancyStart  = 16
	occupancyEnd    = 24
	leafBit         = 24
	subdividedBit   = 25

	// MaxChildIndex is the largest arena index a first-child field can hold.
	MaxChildIndex = 1<<(childIndexEnd-childIndexStart) - 1
)

// Octant is a single tree node packed into a 32-bit word: the arena index of its first
// child, an occupancy bit per child octant, and the leaf and subdivided flags.
type Octant uint32

// NewOctant returns a node with only the given flags set.
func NewOctant(leaf, subdivided bool) Octant {
	return Octant(0).Set(leaf, subdivided)
}

// Set returns the node with both flags replaced.
func (o Octant) Set(leaf, subdivided bool) Octant {
	return o.SetLeaf(leaf).SetSubdivided(subdivided)
}

// SetLeaf returns the node with the leaf flag replaced.
func (o Octant) SetLeaf(leaf bool) Octant {
	return Octant(utils.SetBitTo(uint32(o), leafBit, leaf))
}

// SetSubdivided returns the node with the subdivided flag replaced.
func (o Octant) SetSubdivided(subdivided bool) Octant {
	return Octant(utils.SetBitTo(uint32(o), subdividedBit, subdivided))
}

// IsLeaf reports whether the node is a filled voxel.
func (o Octant) IsLeaf() bool {
	return utils.CheckBit(uint32(o), leafBit)
}

// IsSubdivided reports whether the node has eight allocated children.
func (o Octant) IsSubdivided() bool {
	return utils.CheckBit(uint32(o), subdividedBit)
}

// IsEmpty reports whether neither flag is set.
func (o Octant) IsEmpty() bool {
	return !o.IsLeaf() && !o.IsSubdivided()
}

// HasChildren reports whether any child octant has been written.
func (o Octant) HasChildren() bool {
	return o.Occupancy() != 0
}

// Occupancy returns the 8-bit child occupancy mask.
func (o Octant) Occupancy() uint8 {
	return uint8(utils.ReadBitRange(uint32(o), occupancyStart, occupancyEnd))
}

// IsChildOccupied reports whether the child in the given octant has been written.
func (o Octant) IsChildOccupied(mask uint8) bool {
	return utils.CheckBit(o.Occupancy(), uint(mask))
}

// SetChildOccupied returns the node with the occupancy bit of the given octant replaced.
func (o Octant) SetChildOccupied(mask uint8, occupied bool) Octant {
	if mask > 7 {
		panic(utils.NewBitIndexError(uint(mask), 8))
	}
	return Octant(utils.SetBitTo(uint32(o), occupancyStart+uint(mask), occupied))
}

// FirstChildIndex returns the arena index of the first of the node's eight children.
func (o Octant) FirstChildIndex() uint32 {
	return utils.ReadBitRange(uint32(o), childIndexStart, childIndexEnd)
}

// SetFirstChildIndex returns the node pointing at a new child block. It panics if the
// index does not fit the 16-bit field.
func (o Octant) SetFirstChildIndex(idx uint32) Octant {
	if idx > MaxChildIndex {
		panic(errors.Errorf("child index %d does not fit in %d bits", idx, childIndexEnd-childIndexStart))
	}
	return Octant(utils.WriteBitRange(uint32(o), idx, childIndexStart, childIndexEnd))
}

// Type returns the kind of node. A word with both flags set reports SubdividedNode; use
// Validate to detect it.
func (o Octant) Type() NodeType {
	switch {
	case o.IsSubdivided():
		return SubdividedNode
	case o.IsLeaf():
		return LeafNode
	default:
		return EmptyNode
	}
}

// Validate checks that the word describes exactly one kind of node and leaves the
// reserved bits clear.
func (o Octant) Validate() error {
	if o.IsLeaf() && o.IsSubdivided() {
		return errors.Errorf("node %s is both leaf and subdivided", o)
	}
	if reserved := utils.ReadBitRange(uint32(o), subdividedBit+1, 32); reserved != 0 {
		return errors.Errorf("node %s has reserved bits %#x set", o, reserved)
	}
	return nil
}

// Decode returns the tagged view of the word.
func (o Octant) Decode() Node {
	n := Node{Type: o.Type(), Occupancy: o.Occupancy()}
	if n.Type == SubdividedNode {
		n.FirstChild = o.FirstChildIndex()
	}
	return n
}

func (o Octant) String() string {
	return fmt.Sprintf("{%s child:%d occupancy:%08b}", o.Type(), o.FirstChildIndex(), o.Occupancy())
}

// Node is the decoded form of an Octant.
type Node struct {
	Type       NodeType
	FirstChild uint32
	Occupancy  uint8
}

// Encode packs the node into a word. The first child index is only kept for subdivided
// nodes.
func (n Node) Encode() Octant {
	o := Octant(utils.WriteBitRange(0, uint32(n.Occupancy), occupancyStart, occupancyEnd))
	switch n.Type {
	case SubdividedNode:
		return o.SetSubdivided(true).SetFirstChildIndex(n.FirstChild)
	case LeafNode:
		return o.SetLeaf(true)
	default:
		return o
	}
}
