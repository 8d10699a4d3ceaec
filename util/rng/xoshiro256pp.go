package rng

import (
	"fmt"

	"github.com/xor-shift/tangosat/util"
)

type Xoshiro256PPState struct {
	State [4]uint64
}

// NewXoshiro256PP seeds the generator from a single word through splitmix64,
// so that small or zero seeds still give a non-degenerate state.
func NewXoshiro256PP(seed uint64) *Xoshiro256PPState {
	state := Xoshiro256PPState{}

	for i := range state.State {
		state.State[i] = splitMix64(&seed)
	}

	return &state
}

// Next advances the state and returns the xoshiro256++ output.
// https://prng.di.unimi.it/xoshiro256plusplus.c
func (state *Xoshiro256PPState) Next() uint64 {
	s := &state.State
	ret := GenericRotLeft(s[0]+s[3], 23) + s[0]

	t := s[1] << 17
	s[2], s[3] = s[2]^s[0], s[3]^s[1]
	s[1], s[0] = s[1]^s[2], s[0]^s[3]
	s[2] ^= t
	s[3] = GenericRotLeft(s[3], 45)

	return ret
}

// Word returns the next output truncated to a word of the given width.
func (state *Xoshiro256PPState) Word(bits uint) uint64 {
	return state.Next() & util.Mask(bits)
}

// Words fills a fresh slice with n words of the given width.
func (state *Xoshiro256PPState) Words(n int, bits uint) []uint64 {
	ret := make([]uint64, n)

	for i := range ret {
		ret[i] = state.Word(bits)
	}

	return ret
}

// Jump128 is equivalent to 2^128 calls to Next; it is used to give every
// trial its own non-overlapping stream.
func (state *Xoshiro256PPState) Jump128() {
	var jump = [4]uint64{
		0x180ec6d33cfd0aba,
		0xd5a61266f0c9392c,
		0xa9582618e03fc9aa,
		0x39abdc4529b1661c,
	}

	jumpImpl(state.State[:], jump[:], state.Next)
}

func (state *Xoshiro256PPState) String() string {
	s := ""

	for i := 0; i < 4; i++ {
		s += fmt.Sprintf("%016X", state.State[i])
	}

	return s
}
