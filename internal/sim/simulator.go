package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/rykrr/pyfire/internal/flame"
)

// parallelCells is the field size above which diffusion fans out over rows.
const parallelCells = 1 << 14

type Simulator struct {
	params  Params
	width   int
	height  int
	taps    []tap
	field   *Field
	scratch *Field
	igniter Igniter
	seed    []float64
	rng     *rand.Rand
	workers int
	ticks   int
}

type Option func(*Simulator)

// WithIgniter replaces the ignition source derived from Params.
func WithIgniter(g Igniter) Option {
	return func(s *Simulator) { s.igniter = g }
}

// WithRand sets the random source used to build the default igniter.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// WithWorkers bounds the goroutines used for diffusion; 1 forces the serial path.
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// New builds a simulator for a width x height display with a zeroed field.
func New(width, height int, p Params, opts ...Option) (*Simulator, error) {
	if err := p.Validate(width, height); err != nil {
		return nil, err
	}
	k, err := NewKernel(p.Kernel, p.Alpha)
	if err != nil {
		return nil, err
	}

	rows := height + p.Clip
	s := &Simulator{
		params:  p,
		width:   width,
		height:  height,
		taps:    k.taps(),
		field:   NewField(rows, width),
		scratch: NewField(rows, width),
		seed:    make([]float64, width-2*p.Margin),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.igniter == nil {
		if s.rng == nil {
			s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		var g Igniter = NewRandomIgniter(len(s.seed), p, s.rng)
		if p.CacheSize > 0 {
			g = NewCachedIgniter(g, len(s.seed), p.CacheSize)
		}
		s.igniter = g
	}
	if s.workers == 0 && rows*width < parallelCells {
		s.workers = 1
	}
	return s, nil
}

// Step advances the field by one tick.
func (s *Simulator) Step() {
	s.diffuse()
	s.coolAndSaturate()
	s.ignite()
	s.ticks++
}

func (s *Simulator) diffuse() {
	rows := s.field.rows - 1
	ParallelFor(rows, 8, s.workers, func(start, end int) {
		s.convolveRows(start, end)
	})
	copy(s.field.data[:rows*s.width], s.scratch.data[:rows*s.width])
}

// convolveRows writes the zero-padded convolution of rows [start, end) into
// scratch. Out-of-range neighbors contribute nothing.
func (s *Simulator) convolveRows(start, end int) {
	src, cols, nrows := s.field, s.width, s.field.rows
	for r := start; r < end; r++ {
		out := s.scratch.row(r)
		for c := 0; c < cols; c++ {
			sum := 0.0
			for _, t := range s.taps {
				sr, sc := r+t.dr, c+t.dc
				if sr < 0 || sr >= nrows || sc < 0 || sc >= cols {
					continue
				}
				sum += t.w * src.data[sr*cols+sc]
			}
			out[c] = sum
		}
	}
}

func (s *Simulator) coolAndSaturate() {
	beta, eps, delta := s.params.Beta, s.params.Epsilon, s.params.Delta
	for i, v := range s.field.data {
		v *= beta
		s.field.data[i] = (1-eps)*v + eps*v*math.Tanh(delta*v)
	}
}

func (s *Simulator) ignite() {
	s.igniter.Next(s.seed)
	last := s.field.row(s.field.rows - 1)
	copy(last[s.params.Margin:s.width-s.params.Margin], s.seed)
}

// Field exposes the current field read-only.
func (s *Simulator) Field() flame.Grid { return s.field }

func (s *Simulator) Ticks() int  { return s.ticks }
func (s *Simulator) Width() int  { return s.width }
func (s *Simulator) Height() int { return s.height }
