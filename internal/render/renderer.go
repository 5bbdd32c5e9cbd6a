package render

import (
	"fmt"
	"math"

	"github.com/rykrr/pyfire/internal/flame"
)

// Policy decides what happens to a cell whose bin falls outside the palette.
type Policy int

const (
	// Clamp pins out-of-range bins to the nearest valid index.
	Clamp Policy = iota
	// Strict fails the frame with a *flame.QuantizationError.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Clamp:
		return "clamp"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Renderer quantizes heat fields into frames. It holds no per-frame state.
type Renderer struct {
	palette *Palette
	policy  Policy
}

func New(p *Palette, policy Policy) *Renderer {
	return &Renderer{palette: p, policy: policy}
}

func (r *Renderer) Palette() *Palette { return r.palette }
func (r *Renderer) Policy() Policy    { return r.policy }

// Render quantizes every row of g except the bottom clip rows.
func (r *Renderer) Render(g flame.Grid, clip int) (flame.Frame, error) {
	rows, cols := g.Rows()-clip, g.Cols()
	if rows < 0 {
		rows = 0
	}
	cells := make([]flame.Cell, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			bin, err := r.quantize(g.At(y, x), y, x)
			if err != nil {
				return flame.Frame{}, err
			}
			cells[y*cols+x] = r.palette.cells[bin]
		}
	}
	return flame.NewFrame(cols, rows, cells), nil
}

func (r *Renderer) quantize(v float64, row, col int) (int, error) {
	f := math.Floor(v * Bins)
	if f >= 0 && f < Bins {
		return int(f), nil
	}
	if r.policy == Strict {
		bin := math.MaxInt32
		if f < 0 {
			bin = math.MinInt32
		} else if f < math.MaxInt32 {
			bin = int(f)
		}
		return 0, &flame.QuantizationError{Row: row, Col: col, Bin: bin, Bins: Bins}
	}
	if f >= Bins {
		return Bins - 1, nil
	}
	// negative or NaN
	return 0, nil
}
