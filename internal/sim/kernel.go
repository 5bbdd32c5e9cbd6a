package sim

import (
	"sort"
	"strings"

	"github.com/rykrr/pyfire/internal/flame"
)

const kernelSize = 5

// Kernel is a normalized 5x5 convolution kernel scaled by alpha.
// Row 0 pulls heat from two rows below, row 1 from the row below.
type Kernel [kernelSize][kernelSize]float64

// KernelPresets are raw (unnormalized) weights by name.
var KernelPresets = map[string][5][5]float64{
	"classic": {
		{1, 2, 3, 2, 1},
		{1, 0, 4, 0, 1},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	},
	"soft": {
		{0, 1, 2, 1, 0},
		{1, 2, 6, 2, 1},
		{0, 1, 0, 1, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	},
}

// KernelPreset returns the raw weights for name.
func KernelPreset(name string) ([5][5]float64, error) {
	w, ok := KernelPresets[name]
	if !ok {
		return w, flame.Configf("kernel", "unknown kernel %q (available: %s)", name, strings.Join(KernelNames(), ", "))
	}
	return w, nil
}

func KernelNames() []string {
	names := make([]string, 0, len(KernelPresets))
	for name := range KernelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewKernel normalizes weights to sum 1 and scales them by alpha.
func NewKernel(weights [5][5]float64, alpha float64) (Kernel, error) {
	var k Kernel
	sum := 0.0
	for i := range weights {
		for j, w := range weights[i] {
			if w < 0 {
				return k, flame.Configf("kernel", "weight [%d][%d] is negative (%g)", i, j, w)
			}
			sum += w
		}
	}
	if sum == 0 {
		return k, flame.Configf("kernel", "weights sum to zero")
	}
	for i := range weights {
		for j, w := range weights[i] {
			k[i][j] = w / sum * alpha
		}
	}
	return k, nil
}

// Sum returns the total weight, alpha for a normalized kernel.
func (k Kernel) Sum() float64 {
	s := 0.0
	for i := range k {
		for _, w := range k[i] {
			s += w
		}
	}
	return s
}

type tap struct {
	dr, dc int
	w      float64
}

// taps lists the non-zero weights as source offsets. Convolution flips the
// kernel, so entry [i][j] reads from (r+2-i, c+2-j).
func (k Kernel) taps() []tap {
	half := kernelSize / 2
	var out []tap
	for i := range k {
		for j, w := range k[i] {
			if w != 0 {
				out = append(out, tap{dr: half - i, dc: half - j, w: w})
			}
		}
	}
	return out
}
