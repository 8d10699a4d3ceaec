// Package tango implements the keystream generator core and the schedule that
// drives it, once, against bitvec.Arith so the same code produces concrete
// outputs and their symbolic circuits.
package tango

import (
	"errors"
	"fmt"

	"github.com/xor-shift/tangosat/util"
)

const (
	// WarmUpRounds is the number of core steps run before nonce injection.
	WarmUpRounds = 5

	// WhiteningLanes is the number of parallel output generators, and the
	// size of their shared hash array.
	WhiteningLanes = 4
)

var (
	ErrOddWidth     = errors.New("word width must be even")
	ErrWidthRange   = errors.New("word width must be between 2 and 64")
	ErrNoLanes      = errors.New("hash array needs at least one lane")
	ErrUnknownLanes = errors.New("unknown lane count exceeds the hash array")
	ErrNonceTooLong = errors.New("nonce has more words than injection slots")
)

// Params is the immutable configuration of one run.
type Params struct {
	Bits   int      // word width, even
	HC     int      // hash array lanes
	HC2    int      // whitening iterations discarded before observing
	HCI    int      // leading hash lanes holding key material
	NumObs int      // observation groups, 4 words each
	IV     []uint64 // public nonce words
}

func (p Params) Validate() error {
	switch {
	case p.Bits < 2 || p.Bits > 64:
		return fmt.Errorf("%w (got %d)", ErrWidthRange, p.Bits)
	case p.Bits%2 != 0:
		return fmt.Errorf("%w (got %d)", ErrOddWidth, p.Bits)
	case p.HC < 1:
		return ErrNoLanes
	case p.HCI < 0 || p.HCI > p.HC:
		return fmt.Errorf("%w (hci=%d, hc=%d)", ErrUnknownLanes, p.HCI, p.HC)
	case len(p.IV) > p.InjectionSlots():
		return fmt.Errorf("%w (%d words, %d slots)", ErrNonceTooLong, len(p.IV), p.InjectionSlots())
	case p.HC2 < 0 || p.NumObs < 0:
		return fmt.Errorf("negative iteration count (hc2=%d, num_obs=%d)", p.HC2, p.NumObs)
	}

	return nil
}

func (p Params) Half() int { return p.Bits / 2 }

func (p Params) Mask() uint64 { return util.Mask(uint(p.Bits)) }

// InjectionSlots is the number of even iterations in the nonce phase.
func (p Params) InjectionSlots() int { return (p.HC + 1) / 2 }

// Iterations is the number of outer schedule steps of a full run.
func (p Params) Iterations() int { return WarmUpRounds + p.HC + p.HC2 + p.NumObs }

// ObservationCount is the length of the observation log of a full run.
func (p Params) ObservationCount() int { return WhiteningLanes * p.NumObs }

// UnknownBits is the number of key bits a recovery solves for.
func (p Params) UnknownBits() int { return (2 + p.HCI) * p.Bits }

// RawBits5 repeats the bit pair 01 across the width.
func RawBits5(bits int) uint64 {
	var ret uint64

	for i := 0; i < bits/2; i++ {
		ret = ret<<2 | 0x1
	}

	return ret
}

// RawBitsA repeats the bit pair 10 across the width.
func RawBitsA(bits int) uint64 {
	var ret uint64

	for i := 0; i < bits/2; i++ {
		ret = ret<<2 | 0x2
	}

	return ret
}
