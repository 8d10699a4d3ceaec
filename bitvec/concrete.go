package bitvec

import "github.com/xor-shift/tangosat/util"

var _ Arith[uint64] = Concrete{}

// Concrete is the native-integer arithmetic mode. Words are uint64 values
// whose bits above the width are always zero.
type Concrete struct {
	bits uint
	mask uint64
}

func NewConcrete(bits int) Concrete {
	checkWidth(bits)

	return Concrete{
		bits: uint(bits),
		mask: util.Mask(uint(bits)),
	}
}

func (c Concrete) Bits() int { return int(c.bits) }

func (c Concrete) Const(v uint64) uint64 { return v & c.mask }

func (c Concrete) Xor(a, b uint64) uint64 { return (a ^ b) & c.mask }

func (c Concrete) And(a, b uint64) uint64 { return a & b & c.mask }

func (c Concrete) Add(a, b uint64) uint64 { return (a + b) & c.mask }

// Mul relies on uint64 multiplication wrapping modulo 2^64; the low bits of
// the product are the same as those of the shift-add network in Circuit.Mul.
func (c Concrete) Mul(a, b uint64) uint64 { return (a * b) & c.mask }

func (c Concrete) RotR(a uint64, k int) uint64 {
	return util.RotR(a, uint(k), c.bits)
}

func (c Concrete) Odd(a uint64) uint64 { return (a<<1 | 1) & c.mask }
