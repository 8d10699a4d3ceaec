package keyrec

import (
	"fmt"

	"github.com/go-air/gini/z"
	"github.com/xor-shift/tangosat/bitvec"
	"github.com/xor-shift/tangosat/sat"
	"github.com/xor-shift/tangosat/tango"
)

// Problem is the constraint set of one recovery: the circuit of the symbolic
// run, the unknown key vectors and the clauses pinning its outputs.
type Problem struct {
	Params  tango.Params
	Circuit *bitvec.Circuit

	Seed  bitvec.Vec
	Seed1 bitvec.Vec
	Hash  []bitvec.Vec

	CNF  *sat.CNF
	Pins int
}

// Assemble builds the symbolic run over fresh unknowns for seed, seed1 and the
// first HCI hash lanes and pins every whitening output bit to obs.
func Assemble(p tango.Params, obs Observations) (*Problem, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if len(obs) != p.ObservationCount() {
		return nil, fmt.Errorf("got %d observations, params produce %d", len(obs), p.ObservationCount())
	}

	c := bitvec.NewCircuit(p.Bits)
	pr := &Problem{
		Params:  p,
		Circuit: c,
		Seed:    c.Var(),
		Seed1:   c.Var(),
		CNF:     &sat.CNF{},
	}

	lanes := make([]bitvec.Vec, p.HC)
	for i := range lanes {
		if i < p.HCI {
			lanes[i] = c.Var()
			pr.Hash = append(pr.Hash, lanes[i])
		} else {
			lanes[i] = c.Const(0)
		}
	}

	var pins []z.Lit
	g := tango.NewGenerator[bitvec.Vec](c, p, pr.Seed, pr.Seed1, lanes)
	g.Run(func(group int, out [tango.WhiteningLanes]bitvec.Vec) {
		for j, v := range out {
			pins = append(pins, c.Pin(v, obs[group*tango.WhiteningLanes+j])...)
		}
	})

	c.C.ToCnf(pr.CNF)
	pr.CNF.Unit(c.C.T)
	for _, m := range pins {
		pr.CNF.Unit(m)
	}
	pr.Pins = len(pins)

	for _, v := range pr.unknowns() {
		for _, m := range v {
			pr.CNF.Reserve(m.Var())
		}
	}

	return pr, nil
}

func (pr *Problem) unknowns() []bitvec.Vec {
	return append([]bitvec.Vec{pr.Seed, pr.Seed1}, pr.Hash...)
}

// Decode reads the unknown key words out of a model.
func (pr *Problem) Decode(model bitvec.Valuer) Key {
	key := Key{
		Seed:  bitvec.Decode(pr.Seed, model),
		Seed1: bitvec.Decode(pr.Seed1, model),
		Hash:  make([]uint64, len(pr.Hash)),
	}

	for i, v := range pr.Hash {
		key.Hash[i] = bitvec.Decode(v, model)
	}

	return key
}
