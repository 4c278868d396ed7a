package hdl

import "math/bits"

// BitLen returns the number of bits needed to represent x (0 for x == 0).
func BitLen(x uint64) int {
	return bits.Len64(x)
}

// Log2Ceil returns ceil(log2(x)) with the hardware-library convention that
// values 0 and 1 still need one bit.
func Log2Ceil(x uint64) int {
	if x <= 1 {
		return 1
	}
	return bits.Len64(x - 1)
}

// IsPow2 reports whether x is a power of two.
func IsPow2(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// AddrWidthFor returns the address width needed to index count items.
// A single item still gets a one bit address.
func AddrWidthFor(count uint64) int {
	if count <= 1 {
		return 1
	}
	return bits.Len64(count - 1)
}

// CeilDiv returns ceil(a / b).
func CeilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// Mask returns a value with the low w bits set.
func Mask(w int) uint64 {
	if w >= MaxWidth {
		return ^uint64(0)
	}
	return 1<<uint(w) - 1
}
