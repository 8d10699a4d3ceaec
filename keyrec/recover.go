package keyrec

import (
	"time"

	"github.com/xor-shift/tangosat/sat"
	"github.com/xor-shift/tangosat/tango"
)

// Stats describes the size of a recovery problem and the time spent solving.
type Stats struct {
	Unknowns     int
	Gates        int
	Vars         int
	Clauses      int
	Observations int
	SolveTime    time.Duration
}

// Result is the outcome of a recovery. Key is only meaningful when Status is
// sat.Sat. An unsat status means no key reproduces the observations.
type Result struct {
	Status sat.Status
	Key    Key

	// Consistent is set when Key reproduces every observation.
	Consistent bool

	// Exact is set by Attack when Key equals the key that produced the
	// observations. With too few observations a consistent key may differ.
	Exact bool

	Stats Stats
}

// Recover solves for the key behind obs.
func Recover(p tango.Params, obs Observations, backend sat.Backend) (Result, error) {
	pr, err := Assemble(p, obs)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Stats: Stats{
			Unknowns:     pr.Circuit.Inputs(),
			Gates:        pr.Circuit.C.Len(),
			Vars:         pr.CNF.NumVars(),
			Clauses:      pr.CNF.Len(),
			Observations: len(obs),
		},
	}

	start := time.Now()
	status, model, err := backend.Solve(pr.CNF)
	res.Stats.SolveTime = time.Since(start)
	res.Status = status

	if err != nil {
		return res, err
	}

	if status == sat.Sat {
		res.Key = pr.Decode(model)
		res.Consistent = Verify(p, res.Key, obs)
	}

	return res, nil
}

// Attack simulates a run with key, then recovers a key from its observations
// and compares it with key.
func Attack(p tango.Params, key Key, backend sat.Backend) (Result, error) {
	obs, err := Simulate(p, key)
	if err != nil {
		return Result{}, err
	}

	res, err := Recover(p, obs, backend)
	if err != nil {
		return res, err
	}

	res.Exact = res.Status == sat.Sat && res.Key.Equal(key, p)

	return res, nil
}
