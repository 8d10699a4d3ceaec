package sat

import (
	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini/z"
)

// Gophersat solves with crillab/gophersat. The clauses are handed over in
// DIMACS integer form.
type Gophersat struct{}

func (Gophersat) Name() string { return "gophersat" }

func (Gophersat) Solve(f *CNF, assumptions ...z.Lit) (Status, Model, error) {
	clauses := make([][]int, 0, len(f.Clauses)+len(assumptions))

	for _, clause := range f.Clauses {
		ints := make([]int, len(clause))
		for i, m := range clause {
			ints[i] = m.Dimacs()
		}
		clauses = append(clauses, ints)
	}

	for _, m := range assumptions {
		clauses = append(clauses, []int{m.Dimacs()})
	}

	s := solver.New(solver.ParseSlice(clauses))

	switch s.Solve() {
	case solver.Sat:
		values := s.Model()
		model := make(Model, f.NumVars()+1)
		for i, b := range values {
			if i+1 < len(model) {
				model[i+1] = b
			}
		}
		return Sat, model, nil
	case solver.Unsat:
		return Unsat, nil, nil
	}

	return Unknown, nil, ErrUnknown
}
