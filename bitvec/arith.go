// Package bitvec implements fixed-width unsigned word arithmetic twice: over
// native integers (Concrete) and over vectors of boolean circuit literals
// (Circuit). Both satisfy Arith, so code written against Arith runs unchanged
// in either mode and the two executions agree bit for bit, wraparound
// included.
package bitvec

import "fmt"

// Arith is the set of word operations the generator needs. W is one word of
// Bits() bits.
type Arith[W any] interface {
	Bits() int

	// Const lifts a public value into a word. Bits above the width are dropped.
	Const(v uint64) W

	Xor(a, b W) W
	And(a, b W) W

	// Add is addition modulo 2^Bits; the final carry is discarded.
	Add(a, b W) W

	// Mul is multiplication truncated to the low Bits bits.
	Mul(a, b W) W

	// RotR rotates right by k, 0 <= k < Bits.
	RotR(a W, k int) W

	// Odd returns 2a+1 modulo 2^Bits: a constant one shifted in at the bottom,
	// the top bit of a dropped.
	Odd(a W) W
}

func checkWidth(bits int) {
	if bits < 1 || bits > 64 {
		panic(fmt.Sprintf("bitvec: word width %d outside 1..64", bits))
	}
}
