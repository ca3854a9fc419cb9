// Package rng provides the deterministic random source used by the rules engine.
//
// The engine never reads from a global generator. Every dispatch builds a Source
// from the seed stored in the game state and writes the advanced seed back, so a
// game replayed from the same seed and action log reaches the same state.
package rng

// Source yields uniformly distributed floats in [0, 1).
type Source interface {
	Float64() float64
	// Seed returns the generator's current state for persisting between dispatches.
	Seed() uint32
}

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgMask       = 0x7fffffff
)

// LCG is a 31-bit linear congruential generator.
type LCG struct {
	state uint32
}

// NewLCG creates a generator starting from seed.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed & lcgMask}
}

// Float64 advances the generator and returns the next value.
func (l *LCG) Float64() float64 {
	l.state = (l.state*lcgMultiplier + lcgIncrement) & lcgMask
	// Divide by 2^31 so the result never reaches 1.0.
	return float64(l.state) / float64(lcgMask+1)
}

// Seed returns the current state.
func (l *LCG) Seed() uint32 {
	return l.state
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// D20 rolls a twenty-sided die.
func D20(src Source) int {
	return Intn(src, 20) + 1
}

// Shuffle returns a shuffled copy of items using Fisher-Yates.
func Shuffle[T any](src Source, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
