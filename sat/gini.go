package sat

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Gini solves with the go-air/gini CDCL solver.
type Gini struct{}

func (Gini) Name() string { return "gini" }

func (Gini) Solve(f *CNF, assumptions ...z.Lit) (Status, Model, error) {
	g := gini.New()

	for _, clause := range f.Clauses {
		for _, m := range clause {
			g.Add(m)
		}
		g.Add(z.LitNull)
	}

	// gini sizes itself from the literals it has seen; a tautology on the
	// highest variable makes reserved and assumed variables addressable.
	top := z.Var(f.NumVars())
	for _, m := range assumptions {
		if m.Var() > top {
			top = m.Var()
		}
	}
	if top > f.MaxVar() {
		g.Add(top.Pos())
		g.Add(top.Neg())
		g.Add(z.LitNull)
	}

	g.Assume(assumptions...)

	switch g.Solve() {
	case 1:
		model := make(Model, int(top)+1)
		for v := z.Var(1); v <= top; v++ {
			model[v] = g.Value(v.Pos())
		}
		return Sat, model, nil
	case -1:
		return Unsat, nil, nil
	}

	return Unknown, nil, ErrUnknown
}
