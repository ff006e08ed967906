package dense

import (
	"math"
	"math/rand"
)

// Matrix is a dense column-major matrix of float64 values.
//
// Rows and Cols are the logical dimensions. Ld is the leading dimension: the
// number of elements between the starts of two consecutive columns, so the
// element at (row r, column c) lives at Data[c*Ld+r]. For freshly allocated
// matrices Ld equals Rows.
//
// Matrix performs no bounds checking beyond what Go's slice types provide;
// out-of-range indices panic.
type Matrix struct {
	Rows, Cols int
	Ld         int
	Data       []float64
}

// New allocates a rows×cols matrix initialised to zero.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic("dense: negative dimension")
	}
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Ld:   rows,
		Data: make([]float64, rows*cols),
	}
}

// FromData wraps existing column-major data as a matrix. The slice length
// must equal rows*cols; the matrix aliases data rather than copying it.
func FromData(rows, cols int, data []float64) *Matrix {
	if rows*cols != len(data) {
		panic("dense: data length mismatch")
	}
	return &Matrix{Rows: rows, Cols: cols, Ld: rows, Data: data}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*m.Ld+i] = 1
	}
	return m
}

// At returns the element at (row r, column c).
func (m *Matrix) At(r, c int) float64 {
	return m.Data[c*m.Ld+r]
}

// Set assigns v to the element at (row r, column c).
func (m *Matrix) Set(r, c int, v float64) {
	m.Data[c*m.Ld+r] = v
}

// Col returns the storage of column c as a length-Rows slice.
func (m *Matrix) Col(c int) []float64 {
	return m.Data[c*m.Ld : c*m.Ld+m.Rows]
}

// Clone returns a deep copy of m with a tight leading dimension.
func (m *Matrix) Clone() *Matrix {
	out := New(m.Rows, m.Cols)
	for c := 0; c < m.Cols; c++ {
		copy(out.Col(c), m.Col(c))
	}
	return out
}

// FillRand fills m with uniform values in [-1, 1) from a deterministic seed.
func FillRand(m *Matrix, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = rng.Float64()*2 - 1
	}
}

// MaxAbsDiff returns the largest absolute element-wise difference between a
// and b. The matrices must have identical dimensions.
func MaxAbsDiff(a, b *Matrix) float64 {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic("dense: dimension mismatch")
	}
	var maxAbs float64
	for c := 0; c < a.Cols; c++ {
		for r := 0; r < a.Rows; r++ {
			d := math.Abs(a.At(r, c) - b.At(r, c))
			if d > maxAbs {
				maxAbs = d
			}
		}
	}
	return maxAbs
}
