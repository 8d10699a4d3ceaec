package util

import (
	"fmt"
)

// Mask returns the wraparound mask for a word of the given width (1..64).
func Mask(bits uint) uint64 {
	return ^uint64(0) >> (64 - bits)
}

// RotR rotates the low `bits` bits of x right by k. k must be below bits.
func RotR(x uint64, k, bits uint) uint64 {
	x &= Mask(bits)
	if k == 0 {
		return x
	}

	return ((x >> k) | (x << (bits - k))) & Mask(bits)
}

// RotL is the inverse of RotR.
func RotL(x uint64, k, bits uint) uint64 {
	if k == 0 {
		return x & Mask(bits)
	}

	return RotR(x, bits-k, bits)
}

// ArrayToString concatenates the words as fixed-width hex digits, one digit
// per started nibble of the word width.
func ArrayToString(arr []uint64, bits uint) string {
	ret := ""
	digits := int((bits + 3) / 4)

	for _, v := range arr {
		ret += fmt.Sprintf("%0[1]*[2]x", digits, v&Mask(bits))
	}

	return ret
}
