package tango

import "github.com/xor-shift/tangosat/bitvec"

// Observer receives the four whitening outputs of an observed iteration.
// group counts observed iterations from zero.
type Observer[W any] func(group int, out [WhiteningLanes]W)

// Generator is the full generator state: the keyed generator with its hash
// array, and the whitening generators with theirs.
type Generator[W any] struct {
	core   Core[W]
	arith  bitvec.Arith[W]
	params Params

	seed, lcg W
	hash      []W
	x         int

	whiteSeed [WhiteningLanes]W
	whiteLCG  [WhiteningLanes]W
	hash2     [WhiteningLanes]W
	x2        int
}

// NewGenerator sets up the initial state. hash must have Params.HC lanes;
// it is copied. Whitening seeds other than the first, every lcg and the
// whitening hash array start at zero.
func NewGenerator[W any](arith bitvec.Arith[W], p Params, seed, seed1 W, hash []W) *Generator[W] {
	if len(hash) != p.HC {
		panic("tango: hash array length does not match params")
	}

	zero := arith.Const(0)

	g := &Generator[W]{
		core:   NewCore(arith),
		arith:  arith,
		params: p,
		seed:   seed,
		lcg:    zero,
		hash:   append([]W(nil), hash...),
	}

	for i := range g.whiteSeed {
		g.whiteSeed[i] = zero
		g.whiteLCG[i] = zero
		g.hash2[i] = zero
	}
	g.whiteSeed[0] = seed1

	return g
}

// step advances the keyed generator on the current lane without moving x.
func (g *Generator[W]) step() W {
	lane := g.x % g.params.HC

	var out W
	g.seed, g.lcg, g.hash[lane], out = g.core.Step(g.seed, g.lcg, g.hash[lane])

	return out
}

// WarmUp runs the warm-up rounds. x is not advanced, so every round reads and
// rewrites lane 0.
func (g *Generator[W]) WarmUp() {
	for i := 0; i < WarmUpRounds; i++ {
		g.step()
	}
}

// InjectNonce runs HC rounds, folding the next nonce word into seed and lcg
// before every even round until the nonce is used up.
func (g *Generator[W]) InjectNonce() {
	iv := g.params.IV
	pos := 0

	for i := 0; i < g.params.HC; i++ {
		if i%2 == 0 && pos < len(iv) {
			word := g.arith.Const(iv[pos])
			g.seed = g.arith.Xor(g.seed, word)
			g.lcg = g.arith.Xor(g.lcg, word)
			pos++
		}

		g.step()
		g.x++
	}
}

// Observe runs HC2+NumObs iterations of two keyed rounds followed by one round
// of each whitening generator, and reports the whitening outputs of the last
// NumObs iterations to fn. The keyed outputs feed the fourth whitening seed.
func (g *Generator[W]) Observe(fn Observer[W]) {
	a := g.arith

	for i := 0; i < g.params.HC2+g.params.NumObs; i++ {
		out1 := g.step()
		g.x++
		out2 := g.step()
		g.x++

		g.whiteSeed[3] = a.Xor(g.whiteSeed[3], a.Xor(out1, out2))

		var outs [WhiteningLanes]W
		for lane := 0; lane < WhiteningLanes; lane++ {
			j := (g.x2 + lane) % WhiteningLanes
			g.whiteSeed[lane], g.whiteLCG[lane], g.hash2[j], outs[lane] = g.core.Step(g.whiteSeed[lane], g.whiteLCG[lane], g.hash2[j])
		}
		g.x2++

		if i >= g.params.HC2 && fn != nil {
			fn(i-g.params.HC2, outs)
		}
	}
}

// Run is WarmUp, InjectNonce and Observe in sequence.
func (g *Generator[W]) Run(fn Observer[W]) {
	g.WarmUp()
	g.InjectNonce()
	g.Observe(fn)
}

// Lanes returns a copy of the keyed hash array.
func (g *Generator[W]) Lanes() []W {
	return append([]W(nil), g.hash...)
}

// Cursor returns the keyed and whitening lane cursors.
func (g *Generator[W]) Cursor() (x, x2 int) {
	return g.x, g.x2
}

// State returns the keyed generator's seed and lcg.
func (g *Generator[W]) State() (seed, lcg W) {
	return g.seed, g.lcg
}
