package flame

import (
	"errors"
	"testing"
)

func solid(w, h int, c Cell) Frame {
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = c
	}
	return NewFrame(w, h, cells)
}

func TestFrame_Equal(t *testing.T) {
	a := solid(3, 2, Cell{Color: 196, Glyph: '░'})
	b := solid(3, 2, Cell{Color: 196, Glyph: '░'})
	c := solid(3, 2, Cell{Color: 202, Glyph: '░'})
	d := solid(2, 3, Cell{Color: 196, Glyph: '░'})

	tests := []struct {
		name  string
		x, y  Frame
		equal bool
	}{
		{"identical content", a, b, true},
		{"different color", a, c, false},
		{"transposed dimensions", a, d, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Equal(tt.y); got != tt.equal {
				t.Errorf("Equal() = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestFrame_HashIsContentDerived(t *testing.T) {
	a := solid(4, 4, Cell{Color: 0, Glyph: ' '})
	b := solid(4, 4, Cell{Color: 0, Glyph: ' '})
	if a.Hash() != b.Hash() {
		t.Errorf("equal frames hashed differently: %x vs %x", a.Hash(), b.Hash())
	}

	cells := make([]Cell, 16)
	for i := range cells {
		cells[i] = Cell{Glyph: ' '}
	}
	cells[5] = Cell{Color: 226, Glyph: '█'}
	c := NewFrame(4, 4, cells)
	if c.Hash() == a.Hash() {
		t.Error("single-cell change did not change the hash")
	}
	if c.At(1, 1) != (Cell{Color: 226, Glyph: '█'}) {
		t.Errorf("At(1,1) = %v", c.At(1, 1))
	}
}

func TestFrame_RowIsCopy(t *testing.T) {
	f := solid(2, 2, Cell{Color: 1, Glyph: 'x'})
	row := f.Row(0)
	row[0] = Cell{Color: 9, Glyph: 'y'}
	if f.At(0, 0) != (Cell{Color: 1, Glyph: 'x'}) {
		t.Error("mutating Row() leaked into the frame")
	}
}

func TestNewFrame_PanicsOnBadLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewFrame(2, 2, make([]Cell, 3))
}

func TestErrors(t *testing.T) {
	var err error = Configf("margin", "2*margin (%d) must be less than width (%d)", 10, 8)
	if !errors.Is(err, ErrConfiguration) {
		t.Error("ConfigError should unwrap to ErrConfiguration")
	}
	expected := "flame: invalid configuration: margin: 2*margin (10) must be less than width (8)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	err = &QuantizationError{Row: 1, Col: 2, Bin: 10, Bins: 10}
	if !errors.Is(err, ErrQuantizationOverflow) {
		t.Error("QuantizationError should unwrap to ErrQuantizationOverflow")
	}
	var qe *QuantizationError
	if !errors.As(err, &qe) || qe.Bin != 10 {
		t.Error("errors.As failed for QuantizationError")
	}
}
