package endf

import "encoding/json"

// Matrix2D is a dense row-major matrix that grows on assignment and
// remembers which elements were written.
type Matrix2D struct {
	rows    [][]float64
	written [][]bool
}

func NewMatrix2D() *Matrix2D {
	return &Matrix2D{}
}

// Set stores v at (i, j), growing the matrix as needed.
func (m *Matrix2D) Set(i, j int, v float64) {
	m.rows = Grow(m.rows, i+1)
	m.written = Grow(m.written, i+1)
	m.rows[i] = Grow(m.rows[i], j+1)
	m.written[i] = Grow(m.written[i], j+1)
	m.rows[i][j] = v
	m.written[i][j] = true
}

// At returns the element at (i, j), or 0 outside the written area.
func (m *Matrix2D) At(i, j int) float64 {
	if i < 0 || i >= len(m.rows) || j < 0 || j >= len(m.rows[i]) {
		return 0
	}
	return m.rows[i][j]
}

// Has reports whether (i, j) was written since the last ClearRead.
func (m *Matrix2D) Has(i, j int) bool {
	if i < 0 || i >= len(m.written) || j < 0 || j >= len(m.written[i]) {
		return false
	}
	return m.written[i][j]
}

// ClearRead forgets which elements were written, keeping their values.
func (m *Matrix2D) ClearRead() {
	for _, row := range m.written {
		clear(row)
	}
}

// Rows returns the row slices; they alias the matrix storage.
func (m *Matrix2D) Rows() [][]float64 {
	return m.rows
}

func (m *Matrix2D) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.rows)
}
