// Package keyrec recovers generator key material from observed outputs: it
// records the observation log of a concrete run, rebuilds the same run as a
// circuit over unknown key bits, pins the circuit outputs to the log and asks
// a SAT backend for a key.
package keyrec

import (
	"fmt"

	"github.com/xor-shift/tangosat/bitvec"
	"github.com/xor-shift/tangosat/tango"
	"github.com/xor-shift/tangosat/util"
)

// Key is the secret part of a run's initial state. Hash holds the leading
// hash lanes; only the first Params.HCI of them are keyed, the remaining
// lanes start at zero.
type Key struct {
	Seed  uint64   `json:"seed" mapstructure:"seed"`
	Seed1 uint64   `json:"seed1" mapstructure:"seed1"`
	Hash  []uint64 `json:"hash" mapstructure:"hash"`
}

// Observations is the ordered log of whitening outputs, four per observed
// iteration.
type Observations []uint64

func (k Key) checkFor(p tango.Params) error {
	if len(k.Hash) < p.HCI {
		return fmt.Errorf("key has %d hash words, params need %d", len(k.Hash), p.HCI)
	}

	return nil
}

// Masked truncates the key to the word width and to the keyed lanes.
func (k Key) Masked(p tango.Params) Key {
	mask := p.Mask()
	ret := Key{
		Seed:  k.Seed & mask,
		Seed1: k.Seed1 & mask,
		Hash:  make([]uint64, 0, p.HCI),
	}

	for i := 0; i < p.HCI && i < len(k.Hash); i++ {
		ret.Hash = append(ret.Hash, k.Hash[i]&mask)
	}

	return ret
}

// Equal compares two keys on the material a recovery solves for.
func (k Key) Equal(o Key, p tango.Params) bool {
	a, b := k.Masked(p), o.Masked(p)

	if a.Seed != b.Seed || a.Seed1 != b.Seed1 || len(a.Hash) != len(b.Hash) {
		return false
	}

	for i := range a.Hash {
		if a.Hash[i] != b.Hash[i] {
			return false
		}
	}

	return true
}

func (k Key) String() string {
	return fmt.Sprintf("seed=%d seed1=%d hash=%v", k.Seed, k.Seed1, k.Hash)
}

// Hex renders the key words as one hex string, seed first.
func (k Key) Hex(p tango.Params) string {
	m := k.Masked(p)
	return util.ArrayToString(append([]uint64{m.Seed, m.Seed1}, m.Hash...), uint(p.Bits))
}

// Simulate runs the schedule concretely and returns the observation log.
func Simulate(p tango.Params, key Key) (Observations, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := key.checkFor(p); err != nil {
		return nil, err
	}

	arith := bitvec.NewConcrete(p.Bits)
	key = key.Masked(p)

	lanes := make([]uint64, p.HC)
	copy(lanes, key.Hash)

	obs := make(Observations, 0, p.ObservationCount())
	g := tango.NewGenerator[uint64](arith, p, key.Seed, key.Seed1, lanes)
	g.Run(func(_ int, out [tango.WhiteningLanes]uint64) {
		obs = append(obs, out[:]...)
	})

	return obs, nil
}

// Verify reports whether key reproduces obs exactly.
func Verify(p tango.Params, key Key, obs Observations) bool {
	got, err := Simulate(p, key)
	if err != nil || len(got) != len(obs) {
		return false
	}

	for i := range got {
		if got[i] != obs[i]&p.Mask() {
			return false
		}
	}

	return true
}
