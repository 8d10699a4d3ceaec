package bitvec

import (
	"testing"

	"github.com/go-air/gini/z"
	"github.com/xor-shift/tangosat/sat"
	"github.com/xor-shift/tangosat/util/rng"
)

type opCase struct {
	name     string
	concrete func(c Concrete, a, b uint64) uint64
	symbolic func(c *Circuit, a, b Vec) Vec
}

var ops = []opCase{
	{"xor", Concrete.Xor, (*Circuit).Xor},
	{"and", Concrete.And, (*Circuit).And},
	{"add", Concrete.Add, (*Circuit).Add},
	{"mul", Concrete.Mul, (*Circuit).Mul},
	{"odd", func(c Concrete, a, _ uint64) uint64 { return c.Odd(a) }, func(c *Circuit, a, _ Vec) Vec { return c.Odd(a) }},
	{"rotr-half", func(c Concrete, a, _ uint64) uint64 { return c.RotR(a, c.Bits()/2) }, func(c *Circuit, a, _ Vec) Vec { return c.RotR(a, c.Bits()/2) }},
	{"rotr-1", func(c Concrete, a, _ uint64) uint64 { return c.RotR(a, 1) }, func(c *Circuit, a, _ Vec) Vec { return c.RotR(a, 1) }},
}

// operandPairs is exhaustive for narrow words and a fixed pseudo-random
// sample otherwise, always including the wraparound corners.
func operandPairs(bits int) [][2]uint64 {
	mask := uint64(1)<<uint(bits) - 1
	var ret [][2]uint64

	if bits <= 4 {
		for a := uint64(0); a <= mask; a++ {
			for b := uint64(0); b <= mask; b++ {
				ret = append(ret, [2]uint64{a, b})
			}
		}
		return ret
	}

	ret = append(ret, [2]uint64{mask, mask}, [2]uint64{mask, 1}, [2]uint64{0, mask}, [2]uint64{mask >> 1, 2})

	r := rng.NewXoshiro256PP(uint64(bits))
	for i := 0; i < 40; i++ {
		ret = append(ret, [2]uint64{r.Word(uint(bits)), r.Word(uint(bits))})
	}

	return ret
}

func TestArithmeticDuality(t *testing.T) {
	var backend sat.Gini

	for _, bits := range []int{2, 4, 8, 16} {
		con := NewConcrete(bits)

		for _, op := range ops {
			circ := NewCircuit(bits)
			a, b := circ.Var(), circ.Var()
			out := op.symbolic(circ, a, b)

			if len(out) != bits {
				t.Fatalf("bits=%d %s: result has %d bits", bits, op.name, len(out))
			}

			f := &sat.CNF{}
			circ.C.ToCnf(f)
			f.Unit(circ.C.T)

			for _, pair := range operandPairs(bits) {
				x, y := pair[0], pair[1]

				var assume []z.Lit
				assume = append(assume, circ.Pin(a, x)...)
				assume = append(assume, circ.Pin(b, y)...)

				status, model, err := backend.Solve(f, assume...)
				if err != nil || status != sat.Sat {
					t.Fatalf("bits=%d %s(%#x, %#x): %s %v", bits, op.name, x, y, status, err)
				}

				want := op.concrete(con, x, y)
				if got := Decode(out, model); got != want {
					t.Fatalf("bits=%d %s(%#x, %#x): symbolic %#x, concrete %#x", bits, op.name, x, y, got, want)
				}
			}
		}
	}
}

func TestConcreteWraparound(t *testing.T) {
	c := NewConcrete(4)

	if got := c.Add(0xf, 1); got != 0 {
		t.Errorf("0xf+1 = %#x, want 0", got)
	}
	if got := c.Mul(0xf, 0xf); got != 1 {
		t.Errorf("0xf*0xf = %#x, want 1", got)
	}
	if got := c.Odd(0xf); got != 0xf {
		t.Errorf("odd(0xf) = %#x, want 0xf", got)
	}
	if got := c.Const(0x1234); got != 4 {
		t.Errorf("const(0x1234) = %#x, want 4", got)
	}

	c64 := NewConcrete(64)
	if got := c64.Add(^uint64(0), 2); got != 1 {
		t.Errorf("64-bit add wrapped to %#x", got)
	}
}

func TestRotationBijective(t *testing.T) {
	for _, bits := range []int{2, 4, 8, 16} {
		con := NewConcrete(bits)
		circ := NewCircuit(bits)
		half := bits / 2

		for _, pair := range operandPairs(bits) {
			x := pair[0]
			if got := con.RotR(con.RotR(x, half), half); got != x {
				t.Fatalf("bits=%d: rotr(rotr(%#x)) = %#x", bits, x, got)
			}

			v := circ.Const(x)
			back := circ.RotR(circ.RotR(v, half), half)
			for i := range v {
				if back[i] != v[i] {
					t.Fatalf("bits=%d: symbolic rotation moved bit %d", bits, i)
				}
			}
		}
	}
}

func TestDecodeEncodeIdempotent(t *testing.T) {
	for _, bits := range []int{2, 4, 8} {
		circ := NewCircuit(bits)
		mask := uint64(1)<<uint(bits) - 1

		for v := uint64(0); v <= mask; v++ {
			vec := circ.Const(v)

			got, ok := circ.ConstValue(vec)
			if !ok || got != v {
				t.Fatalf("bits=%d: ConstValue(Const(%d)) = %d, %v", bits, v, got, ok)
			}

			again := circ.Const(got)
			for i := range vec {
				if again[i] != vec[i] {
					t.Fatalf("bits=%d v=%d: re-encoded bit %d differs", bits, v, i)
				}
			}
		}
	}
}

func TestConstValueRejectsInputs(t *testing.T) {
	circ := NewCircuit(4)
	if _, ok := circ.ConstValue(circ.Var()); ok {
		t.Fatal("a vector of free inputs decoded as a constant")
	}
	if circ.Inputs() != 4 {
		t.Fatalf("Inputs() = %d, want 4", circ.Inputs())
	}
}

func TestMismatchedWidthsPanic(t *testing.T) {
	circ := NewCircuit(4)

	defer func() {
		if recover() == nil {
			t.Fatal("adding a 4-bit and a 3-bit vector did not panic")
		}
	}()

	circ.Add(circ.Var(), circ.Var()[:3])
}

func TestPinLiterals(t *testing.T) {
	circ := NewCircuit(4)
	a := circ.Var()
	pins := circ.Pin(a, 0x5)

	for i, m := range pins {
		wantPos := (0x5>>uint(i))&1 == 1
		if m.IsPos() != wantPos || m.Var() != a[i].Var() {
			t.Errorf("bit %d: pin %v for input %v", i, m, a[i])
		}
	}
}
