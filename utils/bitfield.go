package utils

import "math/bits"

// Unsigned is the set of unsigned integer words the bit-field helpers operate on.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// BitWidth returns the number of bits in T.
func BitWidth[T Unsigned]() uint {
	return uint(bits.Len64(uint64(^T(0))))
}

func checkBitIndex[T Unsigned](bit uint) {
	if width := BitWidth[T](); bit >= width {
		panic(NewBitIndexError(bit, width))
	}
}

func checkBitRange[T Unsigned](s, e uint) {
	if width := BitWidth[T](); s > e || e > width {
		panic(NewBitRangeError(s, e, width))
	}
}

// CheckBit reports whether the given bit of v is set.
func CheckBit[T Unsigned](v T, bit uint) bool {
	checkBitIndex[T](bit)
	return (v>>bit)&1 == 1
}

// SetBit returns v with the given bit set.
func SetBit[T Unsigned](v T, bit uint) T {
	checkBitIndex[T](bit)
	return v | T(1)<<bit
}

// ClearBit returns v with the given bit cleared.
func ClearBit[T Unsigned](v T, bit uint) T {
	checkBitIndex[T](bit)
	return v &^ (T(1) << bit)
}

// FlipBit returns v with the given bit inverted.
func FlipBit[T Unsigned](v T, bit uint) T {
	checkBitIndex[T](bit)
	return v ^ T(1)<<bit
}

// SetBitTo returns v with the given bit set when on is true and cleared otherwise.
func SetBitTo[T Unsigned](v T, bit uint, on bool) T {
	if on {
		return SetBit(v, bit)
	}
	return ClearBit(v, bit)
}

// BitMask returns a mask covering the half-open bit range [s, e). A range spanning the
// whole word saturates to all ones.
func BitMask[T Unsigned](s, e uint) T {
	checkBitRange[T](s, e)
	if e-s == BitWidth[T]() {
		return ^T(0)
	}
	return (T(1)<<(e-s) - 1) << s
}

// ReadBitRange returns the bits of v in [s, e), right aligned.
func ReadBitRange[T Unsigned](v T, s, e uint) T {
	return (v & BitMask[T](s, e)) >> s
}

// WriteBitRange returns v with the bits in [s, e) replaced by the low bits of rep. Bits
// of rep that do not fit in the range are dropped; all other bits of v are preserved.
func WriteBitRange[T Unsigned](v, rep T, s, e uint) T {
	mask := BitMask[T](s, e)
	return (v &^ mask) | ((rep << s) & mask)
}
