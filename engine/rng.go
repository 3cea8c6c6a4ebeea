package engine

import "math/rand"

// Random is the source of every random decision in a session. Tests inject
// scripted implementations; sessions running in parallel each own one.
type Random interface {
	// Roll returns a random integer in [1, sides].
	Roll(sides int) int
	// WeightedSelect returns an index chosen by weighted random selection.
	WeightedSelect(weights []int) int
	// Chance returns true with the given percent probability.
	Chance(percent int) bool
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r.pos++
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Chance rolls a d100 and returns true when it lands at or under percent.
// Percentages of 0 or less never succeed; 100 or more always do.
func (r *RNG) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.Roll(100) <= percent
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
