package keyrec

import (
	"github.com/xor-shift/tangosat/sat"
	"github.com/xor-shift/tangosat/tango"
	"github.com/xor-shift/tangosat/util/rng"
)

// Trial is one attack on a randomly drawn key.
type Trial struct {
	Index  int
	Key    Key
	Result Result
}

// RandomKey draws seed, seed1 and HCI hash words from r.
func RandomKey(p tango.Params, r *rng.Xoshiro256PPState) Key {
	bits := uint(p.Bits)

	return Key{
		Seed:  r.Word(bits),
		Seed1: r.Word(bits),
		Hash:  r.Words(p.HCI, bits),
	}
}

// Trials attacks n random keys under the same public parameters. Each trial
// draws from its own jumped xoshiro256++ stream, so trial i's key does not
// depend on n.
func Trials(p tango.Params, n int, seed uint64, backend sat.Backend) ([]Trial, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := rng.NewXoshiro256PP(seed)
	ret := make([]Trial, 0, n)

	for i := 0; i < n; i++ {
		stream := *r
		key := RandomKey(p, &stream)

		res, err := Attack(p, key, backend)
		if err != nil {
			return ret, err
		}

		ret = append(ret, Trial{Index: i, Key: key, Result: res})
		r.Jump128()
	}

	return ret, nil
}
