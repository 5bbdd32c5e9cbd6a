package sim

import (
	"math"
	"math/rand"
)

// maxIgnition keeps ignited cells below the top quantization bin.
const maxIgnition = 0.9999

// Igniter fills the ignitable span of the bottom row each tick.
type Igniter interface {
	Next(dst []float64)
}

// RandomIgniter draws a fresh shaped row every tick.
type RandomIgniter struct {
	rng      *rand.Rand
	curve    []float64
	bias     float64
	strength float64
}

// NewRandomIgniter shapes n uniform draws with (1 - spread*x^2)^3 over x in [-1,1].
func NewRandomIgniter(n int, p Params, rng *rand.Rand) *RandomIgniter {
	return &RandomIgniter{
		rng:      rng,
		curve:    biasCurve(n, p.BiasSpread),
		bias:     p.Bias,
		strength: p.Strength,
	}
}

func (g *RandomIgniter) Next(dst []float64) {
	for i := range dst {
		v := g.bias*g.curve[i] + (1-g.bias)*g.rng.Float64()
		dst[i] = clip(v*g.strength, 0, maxIgnition)
	}
}

// CachedIgniter replays a fixed pool of rows round-robin, so the forcing is
// periodic with period Len().
type CachedIgniter struct {
	pool [][]float64
	next int
}

// NewCachedIgniter draws size rows of width n from src up front.
func NewCachedIgniter(src Igniter, n, size int) *CachedIgniter {
	pool := make([][]float64, size)
	for i := range pool {
		pool[i] = make([]float64, n)
		src.Next(pool[i])
	}
	return &CachedIgniter{pool: pool}
}

func (g *CachedIgniter) Next(dst []float64) {
	copy(dst, g.pool[g.next])
	g.next++
	if g.next == len(g.pool) {
		g.next = 0
	}
}

func (g *CachedIgniter) Len() int { return len(g.pool) }

// Constant ignites every cell with the same value.
type Constant float64

func (c Constant) Next(dst []float64) {
	for i := range dst {
		dst[i] = float64(c)
	}
}

func biasCurve(n int, spread float64) []float64 {
	curve := make([]float64, n)
	for i := range curve {
		x := -1.0
		if n > 1 {
			x = -1 + 2*float64(i)/float64(n-1)
		}
		curve[i] = math.Pow(1-spread*x*x, 3)
	}
	return curve
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
