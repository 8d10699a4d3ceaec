package sat

import (
	"errors"

	"github.com/go-air/gini/z"
)

// ErrUnknown is returned when a backend stops without deciding the problem.
var ErrUnknown = errors.New("solver returned no verdict")

type Status int

const (
	Unknown Status = iota
	Sat
	Unsat
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Model is a satisfying assignment indexed by variable; index 0 is unused.
// Variables outside the model read as false.
type Model []bool

func (m Model) Value(l z.Lit) bool {
	v := int(l.Var())
	val := v < len(m) && m[v]

	if !l.IsPos() {
		return !val
	}

	return val
}
