// Package random provides the injectable randomness used by the simulation.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// Intn maps one draw onto [0, n).
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Between maps one draw onto [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Locked is a seeded source safe for use from several goroutines.
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a source seeded with seed.
func New(seed uint64) *Locked {
	return &Locked{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Sequence replays fixed draws, then repeats the last one. Used to script
// deterministic runs.
type Sequence struct {
	mu    sync.Mutex
	draws []float64
	pos   int
}

// NewSequence returns a source replaying draws in order.
func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: draws}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.draws) == 0 {
		return 0
	}
	if s.pos >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	v := s.draws[s.pos]
	s.pos++
	return v
}

// Used returns how many scripted draws have been consumed.
func (s *Sequence) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
