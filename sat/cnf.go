// Package sat is the boolean satisfiability service used by key recovery: a
// clause collector the circuit is exported into, and interchangeable solver
// backends.
package sat

import "github.com/go-air/gini/z"

// CNF accumulates clauses. It implements the gini inter.Adder interface, so a
// logic.C can be Tseitin-exported straight into it with ToCnf; clause
// variables are then the circuit's own variables.
type CNF struct {
	Clauses [][]z.Lit

	cur      []z.Lit
	maxVar   z.Var
	reserved z.Var
}

// Add appends m to the current clause; z.LitNull terminates the clause.
func (f *CNF) Add(m z.Lit) {
	if m == z.LitNull {
		f.Clauses = append(f.Clauses, f.cur)
		f.cur = nil
		return
	}

	if v := m.Var(); v > f.maxVar {
		f.maxVar = v
	}

	f.cur = append(f.cur, m)
}

// Unit adds the single-literal clause {m}.
func (f *CNF) Unit(m z.Lit) {
	f.Add(m)
	f.Add(z.LitNull)
}

// Reserve makes sure models cover variable v even if it occurs in no clause,
// e.g. a key bit the observations never reach.
func (f *CNF) Reserve(v z.Var) {
	if v > f.reserved {
		f.reserved = v
	}
}

// MaxVar is the largest variable occurring in a clause.
func (f *CNF) MaxVar() z.Var { return f.maxVar }

// NumVars is the number of variables a model for f covers.
func (f *CNF) NumVars() int {
	if f.reserved > f.maxVar {
		return int(f.reserved)
	}

	return int(f.maxVar)
}

func (f *CNF) Len() int { return len(f.Clauses) }
