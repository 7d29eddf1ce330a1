// Package random provides injectable randomness for the simulation parts of
// scoring and live-state generation.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws the random values used by the scorer and simulator
type Source interface {
	// IntRange returns a uniform integer in [lo, hi].
	IntRange(lo, hi int) int
	// Uniform returns a uniform float in [lo, hi].
	Uniform(lo, hi float64) float64
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// MathSource is a Source backed by math/rand, safe for concurrent use
type MathSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a MathSource seeded from the wall clock.
func New() *MathSource {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a MathSource with a fixed seed
func NewSeeded(seed int64) *MathSource {
	return &MathSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *MathSource) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *MathSource) Uniform(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + (hi-lo)*s.rng.Float64()
}

func (s *MathSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Neutral pins every simulated signal to its zero-impact value: full squad
// availability, midpoint news impact and no random events.
type Neutral struct{}

func (Neutral) IntRange(_, hi int) int { return hi }

func (Neutral) Uniform(lo, hi float64) float64 { return (lo + hi) / 2 }

// Float64 returns a value above every event threshold so nothing fires.
func (Neutral) Float64() float64 { return 0.999999 }

// Sequence replays a fixed list of Float64 draws, then falls back to Neutral.
// IntRange and Uniform behave like Neutral.
type Sequence struct {
	Neutral
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence returns a Sequence over values
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.values) {
		return s.Neutral.Float64()
	}
	v := s.values[s.pos]
	s.pos++
	return v
}
