package sat

import (
	"fmt"

	"github.com/go-air/gini/z"
)

// Backend decides a CNF. Assumptions are extra unit clauses for this call
// only. A Sat status always comes with a model; Unsat is a verdict, not an
// error.
type Backend interface {
	Name() string
	Solve(f *CNF, assumptions ...z.Lit) (Status, Model, error)
}

const DefaultBackend = "gini"

func ByName(name string) (Backend, error) {
	switch name {
	case "", "gini":
		return Gini{}, nil
	case "gophersat":
		return Gophersat{}, nil
	}

	return nil, fmt.Errorf("unknown solver backend %q (want gini or gophersat)", name)
}

func Names() []string {
	return []string{"gini", "gophersat"}
}
