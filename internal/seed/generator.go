// Package seed fabricates the synthetic datasets the dashboard runs on.
package seed

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the random source the generators draw from
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Generator produces seed data from an injectable random source and clock.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng Rand
	now func() time.Time
}

// NewGenerator creates a Generator. A nil rng uses the runtime's global
// source and a nil now uses time.Now.
func NewGenerator(rng Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = globalRand{}
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// NewSeeded returns a Generator whose output is reproducible for a given seed
func NewSeeded(seed uint64, now func() time.Time) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now)
}

// Now returns the generator's current time in UTC
func (g *Generator) Now() time.Time {
	return g.now().UTC()
}

func (g *Generator) float() float64 {
	return g.rng.Float64()
}

// between returns round(min + u*(max-min)), inclusive of both ends
func (g *Generator) between(min, max int) int {
	return min + int(roundHalfUp(g.float()*float64(max-min)))
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }
