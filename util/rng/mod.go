// Package rng holds the pseudo-random sources used to draw trial keys and
// nonces. None of them are meant for cryptographic use.
package rng

import "unsafe"

func GenericRotLeft[T uint8 | uint16 | uint32 | uint64](x T, k int) T {
	bitWidth := int(unsafe.Sizeof(x) * 8)
	return (x << k) | (x >> (bitWidth - k))
}

// jumpImpl xors together the states visited at the set bits of table and
// leaves the result in state. next must advance state by one output.
func jumpImpl(state []uint64, table []uint64, next func() uint64) {
	acc := make([]uint64, len(state))

	for _, word := range table {
		for b := 0; b < 64; b++ {
			if word&(uint64(1)<<b) != 0 {
				for j := range acc {
					acc[j] ^= state[j]
				}
			}
			_ = next()
		}
	}

	copy(state, acc)
}

// splitMix64 expands a single seed word into well-mixed state words.
// https://prng.di.unimi.it/splitmix64.c
func splitMix64(x *uint64) uint64 {
	*x += 0x9e3779b97f4a7c15
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
