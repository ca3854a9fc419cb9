package rng

// Sequence replays a fixed list of values, cycling when exhausted.
// Use it in tests to force specific die rolls.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence creates a Sequence. With no values it always returns 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Rolls builds a Sequence whose D20 results are exactly the given faces.
func Rolls(faces ...int) *Sequence {
	values := make([]float64, len(faces))
	for i, face := range faces {
		// Center of the face's interval so float error cannot push it to a neighbor.
		values[i] = (float64(face) - 0.5) / 20
	}
	return NewSequence(values...)
}

// Float64 returns the next value in the sequence.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Seed returns how many values were consumed. Sequences are not resumable from a seed.
func (s *Sequence) Seed() uint32 {
	return uint32(s.next)
}
