package game

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness provider behind RandomRange.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n must be positive.
	Intn(n int) int
}

// RandomRange draws uniformly distributed integers from inclusive ranges.
// It is safe for concurrent use.
type RandomRange struct {
	mu  sync.Mutex
	src Source
}

// NewRandomRange wraps src. A nil src falls back to a time-seeded math/rand generator.
func NewRandomRange(src Source) *RandomRange {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomRange{src: src}
}

// NextInt returns an integer uniformly distributed in [min, max].
// Callers must guarantee min <= max; an empty range panics.
func (r *RandomRange) NextInt(min, max int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.src.Intn(max-min+1)
}

// Shuffle permutes values in place (Fisher-Yates).
func (r *RandomRange) Shuffle(values []int) {
	for i := len(values) - 1; i > 0; i-- {
		j := r.NextInt(0, i)
		values[i], values[j] = values[j], values[i]
	}
}
