package flame

import (
	"encoding/binary"
	"hash/fnv"
)

// Cell is one rendered position: a 256-color code and a glyph.
type Cell struct {
	Color uint8
	Glyph rune
}

// Grid is a read-only view of a heat field. Row 0 is the top.
type Grid interface {
	Rows() int
	Cols() int
	At(row, col int) float64
}

// Frame is an immutable Height x Width block of cells.
type Frame struct {
	width, height int
	cells         []Cell
	sum           uint64
}

// NewFrame takes ownership of cells, which must hold width*height entries
// in row-major order.
func NewFrame(width, height int, cells []Cell) Frame {
	if len(cells) != width*height {
		panic("flame: cell count does not match frame dimensions")
	}
	return Frame{width: width, height: height, cells: cells, sum: hashCells(width, height, cells)}
}

func (f Frame) Width() int  { return f.width }
func (f Frame) Height() int { return f.height }

// Hash is the FNV-1a content hash of the frame, stable across runs.
func (f Frame) Hash() uint64 { return f.sum }

// IsZero reports whether f is the zero Frame.
func (f Frame) IsZero() bool { return f.cells == nil }

func (f Frame) At(row, col int) Cell {
	return f.cells[row*f.width+col]
}

// Row returns a copy of one row.
func (f Frame) Row(row int) []Cell {
	out := make([]Cell, f.width)
	copy(out, f.cells[row*f.width:(row+1)*f.width])
	return out
}

// Equal compares dimensions and cell content.
func (f Frame) Equal(other Frame) bool {
	if f.width != other.width || f.height != other.height || f.sum != other.sum {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func hashCells(width, height int, cells []Cell) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(height))
	h.Write(buf[:])
	for _, c := range cells {
		buf[0] = c.Color
		binary.LittleEndian.PutUint32(buf[1:5], uint32(c.Glyph))
		h.Write(buf[:5])
	}
	return h.Sum64()
}
