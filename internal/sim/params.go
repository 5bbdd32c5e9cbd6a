package sim

import (
	"github.com/rykrr/pyfire/internal/flame"
)

// Params are the immutable constants of one run.
type Params struct {
	Alpha      float64 // kernel scale
	Beta       float64 // global per-tick cooling
	Epsilon    float64 // blend between linear and saturating cooling
	Delta      float64 // saturation steepness
	Strength   float64 // max ignition magnitude
	Bias       float64 // weight of the shaping curve in the ignition row
	BiasSpread float64
	Margin     int // columns on each edge that never ignite
	Clip       int // hidden bottom rows
	CacheSize  int // pre-generated ignition rows; 0 draws fresh rows every tick
	Kernel     [5][5]float64
}

// DefaultParams mirrors the classic fire.
func DefaultParams() Params {
	return Params{
		Alpha:      1.0,
		Beta:       1.0,
		Epsilon:    1.0,
		Delta:      5.0,
		Strength:   1.0,
		Bias:       0.0,
		BiasSpread: 0.2,
		Margin:     5,
		Clip:       3,
		Kernel:     KernelPresets["classic"],
	}
}

// Validate checks p against a display of width x height cells.
func (p Params) Validate(width, height int) error {
	switch {
	case width < 1:
		return flame.Configf("width", "must be at least 1, got %d", width)
	case height < 1:
		return flame.Configf("height", "must be at least 1, got %d", height)
	case p.Clip < 1:
		return flame.Configf("clip", "must be at least 1, got %d", p.Clip)
	case p.Margin < 1:
		return flame.Configf("margin", "must be at least 1, got %d", p.Margin)
	case 2*p.Margin >= width:
		return flame.Configf("margin", "2*margin (%d) must be less than width (%d)", 2*p.Margin, width)
	case p.Strength < 0 || p.Strength > 1:
		return flame.Configf("strength", "must be in [0,1], got %g", p.Strength)
	case p.Alpha < 0:
		return flame.Configf("alpha", "must be non-negative, got %g", p.Alpha)
	case p.Beta < 0:
		return flame.Configf("beta", "must be non-negative, got %g", p.Beta)
	case p.Epsilon < 0 || p.Epsilon > 1:
		return flame.Configf("epsilon", "must be in [0,1], got %g", p.Epsilon)
	case p.Bias < 0 || p.Bias > 1:
		return flame.Configf("bias", "must be in [0,1], got %g", p.Bias)
	case p.CacheSize < 0:
		return flame.Configf("cache", "must be non-negative, got %d", p.CacheSize)
	}
	_, err := NewKernel(p.Kernel, p.Alpha)
	return err
}
