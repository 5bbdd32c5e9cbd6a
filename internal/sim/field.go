package sim

// Field is a dense row-major grid of heat values.
type Field struct {
	rows, cols int
	data       []float64
}

func NewField(rows, cols int) *Field {
	return &Field{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (f *Field) Rows() int { return f.rows }
func (f *Field) Cols() int { return f.cols }

func (f *Field) At(row, col int) float64 {
	return f.data[row*f.cols+col]
}

func (f *Field) row(r int) []float64 {
	return f.data[r*f.cols : (r+1)*f.cols]
}
