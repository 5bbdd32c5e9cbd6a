package metrics

import (
	"math"

	"github.com/rykrr/pyfire/internal/flame"
)

// Metric accumulates a scalar over observed fields.
type Metric interface {
	Name() string
	Observe(g flame.Grid, tick int)
	Value() float64
	Reset()
}

// Mean is the average cell value of g.
func Mean(g flame.Grid) float64 {
	n := g.Rows() * g.Cols()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			sum += g.At(r, c)
		}
	}
	return sum / float64(n)
}

// Peak is the largest cell value of g, 0 for an empty grid.
func Peak(g flame.Grid) float64 {
	peak := 0.0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			peak = math.Max(peak, g.At(r, c))
		}
	}
	return peak
}

// Coverage is the fraction of cells at or above threshold.
func Coverage(g flame.Grid, threshold float64) float64 {
	n := g.Rows() * g.Cols()
	if n == 0 {
		return 0
	}
	lit := 0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.At(r, c) >= threshold {
				lit++
			}
		}
	}
	return float64(lit) / float64(n)
}

// Lit is the fraction of frame cells drawn in a colour other than 0.
func Lit(f flame.Frame) float64 {
	n := f.Width() * f.Height()
	if n == 0 {
		return 0
	}
	lit := 0
	for r := 0; r < f.Height(); r++ {
		for _, c := range f.Row(r) {
			if c.Color != 0 {
				lit++
			}
		}
	}
	return float64(lit) / float64(n)
}

type MeanHeat struct {
	total   float64
	samples int
}

func NewMeanHeat() *MeanHeat { return &MeanHeat{} }

func (m *MeanHeat) Name() string { return "mean_heat" }

func (m *MeanHeat) Observe(g flame.Grid, _ int) {
	m.total += Mean(g)
	m.samples++
}

func (m *MeanHeat) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanHeat) Reset() { *m = MeanHeat{} }

type PeakHeat struct {
	peak float64
}

func NewPeakHeat() *PeakHeat { return &PeakHeat{} }

func (p *PeakHeat) Name() string { return "peak_heat" }

func (p *PeakHeat) Observe(g flame.Grid, _ int) { p.peak = math.Max(p.peak, Peak(g)) }

func (p *PeakHeat) Value() float64 { return p.peak }

func (p *PeakHeat) Reset() { p.peak = 0 }

// CoverageRatio averages Coverage over every observation.
type CoverageRatio struct {
	threshold float64
	total     float64
	samples   int
}

func NewCoverage(threshold float64) *CoverageRatio {
	return &CoverageRatio{threshold: threshold}
}

func (c *CoverageRatio) Name() string { return "coverage" }

func (c *CoverageRatio) Observe(g flame.Grid, _ int) {
	c.total += Coverage(g, c.threshold)
	c.samples++
}

func (c *CoverageRatio) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *CoverageRatio) Reset() {
	c.total = 0
	c.samples = 0
}

// Series keeps the most recent values of fn, one per observation.
type Series struct {
	name     string
	fn       func(flame.Grid) float64
	capacity int
	values   []float64
}

// NewSeries records up to capacity values; capacity <= 0 keeps everything.
func NewSeries(name string, fn func(flame.Grid) float64, capacity int) *Series {
	return &Series{name: name, fn: fn, capacity: capacity}
}

func (s *Series) Name() string { return s.name }

func (s *Series) Observe(g flame.Grid, _ int) { s.Push(s.fn(g)) }

// Push appends v directly.
func (s *Series) Push(v float64) {
	s.values = append(s.values, v)
	if s.capacity > 0 && len(s.values) > s.capacity {
		s.values = s.values[len(s.values)-s.capacity:]
	}
}

// Value is the latest value.
func (s *Series) Value() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

func (s *Series) Values() []float64 { return append([]float64(nil), s.values...) }

func (s *Series) Len() int { return len(s.values) }

func (s *Series) Reset() { s.values = s.values[:0] }
