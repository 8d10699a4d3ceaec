package bitvec

import "github.com/go-air/gini/z"

// Valuer reports the value of a literal under some assignment of the circuit
// inputs. sat.Model implements it.
type Valuer interface {
	Value(m z.Lit) bool
}

// Decode reads a vector as an unsigned integer, bit 0 least significant.
func Decode(v Vec, val Valuer) uint64 {
	var ret uint64

	for i, m := range v {
		if val.Value(m) {
			ret |= 1 << uint(i)
		}
	}

	return ret
}

// ConstValue decodes a vector made only of the constant literals. The second
// result is false if any bit depends on a circuit input.
func (c *Circuit) ConstValue(v Vec) (uint64, bool) {
	var ret uint64

	for i, m := range v {
		switch m {
		case c.C.T:
			ret |= 1 << uint(i)
		case c.C.F:
		default:
			return 0, false
		}
	}

	return ret, true
}
