package domain

import "math/rand/v2"

// RNG is the randomness the wheel needs. It is not cryptographically secure.
type RNG interface {
	IntN(n int) int
	Float64() float64
}

// NewSeededRNG returns a deterministic source for tests and replays.
func NewSeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRNG struct{}

// NewRNG returns the runtime-seeded global source.
func NewRNG() RNG {
	return globalRNG{}
}

func (globalRNG) IntN(n int) int { return rand.IntN(n) }

func (globalRNG) Float64() float64 { return rand.Float64() }
