package tango

import "github.com/xor-shift/tangosat/bitvec"

// Core runs single generator rounds in one arithmetic mode.
type Core[W any] struct {
	arith bitvec.Arith[W]
	half  int

	rawBits5 W
	rawBitsA W
}

func NewCore[W any](arith bitvec.Arith[W]) Core[W] {
	bits := arith.Bits()

	return Core[W]{
		arith:    arith,
		half:     bits / 2,
		rawBits5: arith.Const(RawBits5(bits)),
		rawBitsA: arith.Const(RawBitsA(bits)),
	}
}

// Step consumes (seed, lcg, h) and returns the next seed, lcg and hash lane
// together with the round output.
func (c Core[W]) Step(seed, lcg, h W) (W, W, W, W) {
	a := c.arith

	seed = a.Mul(seed, a.Odd(lcg))
	rs := a.RotR(seed, c.half)
	h = a.Add(h, a.Add(rs, c.rawBitsA))
	lcg = a.Add(lcg, a.Add(seed, c.rawBits5))
	seed = a.Xor(seed, h)
	out := a.Xor(lcg, rs)

	return seed, lcg, h, out
}
