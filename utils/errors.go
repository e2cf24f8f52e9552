package utils

import (
	"github.com/pkg/errors"
)

// NewBitIndexError is used when a bit index does not address a bit of the word.
func NewBitIndexError(bit, width uint) error {
	return errors.Errorf("bit index %d out of range for %d-bit word", bit, width)
}

// NewBitRangeError is used when a half-open bit range is inverted or exceeds the word.
func NewBitRangeError(start, end, width uint) error {
	return errors.Errorf("bit range [%d, %d) invalid for %d-bit word", start, end, width)
}

// NewDepthOverflowError is used when a traversal would descend past the fixed depth limit.
func NewDepthOverflowError(depth, limit int) error {
	return errors.Errorf("traversal depth %d exceeds maximum depth %d", depth, limit)
}

// NewArenaIndexError is used when a node refers to a child block the arena does not hold.
func NewArenaIndexError(node, child uint32, size int) error {
	return errors.Errorf("node %d references child block at %d but arena holds %d nodes", node, child, size)
}
