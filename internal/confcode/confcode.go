// Package confcode issues the short numeric codes that gate joining an
// appointment that already has a leader. Codes are shared with a known group
// and are not authentication secrets, so a non-cryptographic source is used.
package confcode

import (
	"math/rand/v2"
	"sync"
)

// Length is the number of digits in a code.
const Length = 6

type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a generator seeded from the runtime's random source.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a deterministic generator, for tests.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate returns Length independently uniform digits, leading zeros kept.
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b [Length]byte
	for i := range b {
		b[i] = byte('0' + g.rnd.IntN(10))
	}
	return string(b[:])
}

// GenerateExcept returns a code that differs from prev.
func (g *Generator) GenerateExcept(prev string) string {
	for {
		if c := g.Generate(); c != prev {
			return c
		}
	}
}

// Valid reports whether s has the shape of a code.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
