// Package octree implements a sparse voxel octree stored as a flat, append-only array of
// packed 32-bit node words. The array is uploaded verbatim to the GPU, so the tree never
// moves or frees a node once it has been allocated.
package octree

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/svo/logging"
)

// Each node in the octree is either a subdivided node whose eight children are stored
// contiguously in the arena, an empty node, or a leaf which represents a filled voxel.
const (
	EmptyNode = NodeType(iota)
	LeafNode
	SubdividedNode
)

// MaxDepth bounds the height of any tree and sizes the traversal stacks.
const MaxDepth = 16

// minDepth is the smallest tree that still subdivides its root once.
const minDepth = 2

// ErrArenaFull is returned when a new child block would start past MaxChildIndex.
var ErrArenaFull = errors.New("octree arena is full")

// ErrNonFinitePosition is returned when a position has a NaN or infinite coordinate.
var ErrNonFinitePosition = errors.New("position is not finite")

// NodeType represents the possible types of nodes in an octree.
type NodeType uint8

func (t NodeType) String() string {
	switch t {
	case EmptyNode:
		return "empty"
	case LeafNode:
		return "leaf"
	case SubdividedNode:
		return "subdivided"
	default:
		return "unknown"
	}
}

// Octree is a sparse voxel octree. The root always lives at arena index 0 and spans
// [0, 2^maxDepth) on every axis. Leaves sit at depth maxDepth-1.
//
// Insertions must be serialized by the caller and must not run concurrently with reads;
// reads may run concurrently with each other.
type Octree struct {
	logger    logging.Logger
	arena     []Octant
	materials []Material
	lights    []uint32
	rootSpan  float64
	maxDepth  int

	leaves       int
	subdivisions int
}

// New creates an octree holding a single empty root node.
func New(maxDepth int, logger logging.Logger) (*Octree, error) {
	if maxDepth < minDepth || maxDepth > MaxDepth {
		return nil, errors.Errorf("invalid max depth (%d) for octree, must be in [%d, %d]", maxDepth, minDepth, MaxDepth)
	}

	octree := &Octree{
		logger:    logger,
		arena:     []Octant{NewOctant(false, false)},
		materials: []Material{{}},
		rootSpan:  math.Ldexp(1, maxDepth),
		maxDepth:  maxDepth,
	}
	logger.Debugw("created octree", "max_depth", maxDepth, "root_span", octree.rootSpan)
	return octree, nil
}

// MaxDepth returns the configured tree height.
func (octree *Octree) MaxDepth() int {
	return octree.maxDepth
}

// RootSpan returns the edge length of the root cube.
func (octree *Octree) RootSpan() float64 {
	return octree.rootSpan
}

// LeafSpan returns the edge length of a voxel at leaf depth.
func (octree *Octree) LeafSpan() float64 {
	return math.Ldexp(octree.rootSpan, -(octree.maxDepth - 1))
}

// Len returns the number of nodes in the arena.
func (octree *Octree) Len() int {
	return len(octree.arena)
}

// Size returns the number of distinct filled leaves.
func (octree *Octree) Size() int {
	return octree.leaves
}

// Subdivisions returns the number of nodes that have been split.
func (octree *Octree) Subdivisions() int {
	return octree.subdivisions
}

// At returns the node stored at the given arena index.
func (octree *Octree) At(index uint32) Octant {
	return octree.arena[index]
}

// Contains reports whether p lies inside the root cube.
func (octree *Octree) Contains(x, y, z float64) bool {
	for _, v := range []float64{x, y, z} {
		if !(v >= 0 && v < octree.rootSpan) {
			return false
		}
	}
	return true
}

// Validate walks the whole arena and checks the structural invariants: each word is a
// single kind of node, every subdivided node points at a child block that exists, and
// occupancy bits are only set on subdivided nodes.
func (octree *Octree) Validate() error {
	for i, node := range octree.arena {
		if err := node.Validate(); err != nil {
			return errors.Wrapf(err, "arena index %d", i)
		}
		if !node.IsSubdivided() {
			if node.HasChildren() {
				return errors.Errorf("arena index %d has occupancy %08b but is not subdivided", i, node.Occupancy())
			}
			continue
		}
		first := node.FirstChildIndex()
		if first == 0 || int(first)+8 > len(octree.arena) {
			return errors.Errorf("arena index %d points at child block %d outside arena of %d nodes", i, first, len(octree.arena))
		}
	}
	return nil
}
