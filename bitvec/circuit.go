package bitvec

import (
	"fmt"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Vec is a word in symbolic mode: one circuit literal per bit, least
// significant first.
type Vec []z.Lit

var _ Arith[Vec] = (*Circuit)(nil)

// Circuit is the symbolic arithmetic mode. Every operation adds gates to the
// underlying combinational circuit C and returns the literals of the result.
type Circuit struct {
	C *logic.C

	bits   int
	inputs int
}

func NewCircuit(bits int) *Circuit {
	checkWidth(bits)

	return &Circuit{
		C:    logic.NewC(),
		bits: bits,
	}
}

func (c *Circuit) Bits() int { return c.bits }

// Inputs is the number of free variables declared with Var so far.
func (c *Circuit) Inputs() int { return c.inputs }

// Var declares a word of fresh, unconstrained circuit inputs.
func (c *Circuit) Var() Vec {
	v := make(Vec, c.bits)

	for i := range v {
		v[i] = c.C.Lit()
	}
	c.inputs += c.bits

	return v
}

func (c *Circuit) bit(b bool) z.Lit {
	if b {
		return c.C.T
	}

	return c.C.F
}

func (c *Circuit) Const(v uint64) Vec {
	ret := make(Vec, c.bits)

	for i := range ret {
		ret[i] = c.bit((v>>uint(i))&1 == 1)
	}

	return ret
}

func (c *Circuit) check(op string, a, b Vec) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("bitvec: %s of vectors with %d and %d bits", op, len(a), len(b)))
	}
}

func (c *Circuit) Xor(a, b Vec) Vec {
	c.check("xor", a, b)

	ret := make(Vec, len(a))
	for i := range a {
		ret[i] = c.C.Xor(a[i], b[i])
	}

	return ret
}

func (c *Circuit) And(a, b Vec) Vec {
	c.check("and", a, b)

	ret := make(Vec, len(a))
	for i := range a {
		ret[i] = c.C.And(a[i], b[i])
	}

	return ret
}

// fullAdder returns the sum and carry-out bits of a + b + carryIn.
func (c *Circuit) fullAdder(a, b, carryIn z.Lit) (sum, carryOut z.Lit) {
	ab := c.C.Xor(a, b)
	sum = c.C.Xor(ab, carryIn)
	carryOut = c.C.Or(c.C.And(a, b), c.C.And(carryIn, ab))

	return
}

// add is a ripple-carry adder over vectors of any common length.
func (c *Circuit) add(a, b Vec) Vec {
	ret := make(Vec, len(a))
	carry := c.C.F

	for i := range a {
		ret[i], carry = c.fullAdder(a[i], b[i], carry)
	}

	return ret
}

func (c *Circuit) Add(a, b Vec) Vec {
	c.check("add", a, b)

	return c.add(a, b)
}

// Mul is the truncated shift-add multiplier. Row i adds a[i]&b, shifted left
// by i, into the top len(a)-i bits of the partial product; the bits of b that
// would be shifted past the width never enter the network.
func (c *Circuit) Mul(a, b Vec) Vec {
	c.check("mul", a, b)

	n := len(a)
	ret := make(Vec, n)
	for j := range b {
		ret[j] = c.C.And(a[0], b[j])
	}

	for i := 1; i < n; i++ {
		addend := make(Vec, n-i)
		for j := range addend {
			addend[j] = c.C.And(a[i], b[j])
		}

		copy(ret[i:], c.add(ret[i:], addend))
	}

	return ret
}

func (c *Circuit) RotR(a Vec, k int) Vec {
	n := len(a)
	ret := make(Vec, 0, n)

	ret = append(ret, a[k:]...)
	ret = append(ret, a[:k]...)

	return ret
}

func (c *Circuit) Odd(a Vec) Vec {
	ret := make(Vec, 0, len(a))

	ret = append(ret, c.C.T)
	ret = append(ret, a[:len(a)-1]...)

	return ret
}

// Pin returns the literals that must all hold for a to equal the constant v.
func (c *Circuit) Pin(a Vec, v uint64) []z.Lit {
	ret := make([]z.Lit, len(a))

	for i, m := range a {
		if (v>>uint(i))&1 == 1 {
			ret[i] = m
		} else {
			ret[i] = m.Not()
		}
	}

	return ret
}
