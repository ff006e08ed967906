package qr

import "github.com/pdcrl/parqr/internal/dense"

// Reference factorizes m in place with a single sequential unblocked
// Householder pass over all pivots. It produces exactly the result the
// scheduled factorization must match and serves as the test oracle and the
// one-tile fast path.
func Reference(m *dense.Matrix, s *Scratch) Status {
	k := m.Rows
	if m.Cols < k {
		k = m.Cols
	}
	return Panel(m, s, 0, k, m.Cols)
}

// Pivots returns the number of pivots a factorization of m eliminates.
func Pivots(m *dense.Matrix) int {
	if m.Rows < m.Cols {
		return m.Rows
	}
	return m.Cols
}

// ApplyQT applies Qᵀ to every column of x, where Q is the orthogonal factor
// implicit in the factored matrix f: reflector vectors below f's diagonal
// plus the scalars in s. npivots bounds how many reflectors are applied.
//
// With x a copy of the original matrix this reproduces R; with x the
// identity it yields Qᵀ, whose rows are orthonormal.
func ApplyQT(f *dense.Matrix, s *Scratch, npivots int, x *dense.Matrix) {
	if f.Rows != x.Rows {
		panic("qr: row count mismatch")
	}
	for p := 0; p < npivots; p++ {
		up := s.Up[p]
		b := s.B[p]
		if b == 0 {
			// Truncated panel: no reflector stored for this or any later pivot.
			return
		}
		for j := 0; j < x.Cols; j++ {
			sm := x.At(p, j) * up
			for i := p + 1; i < f.Rows; i++ {
				sm += x.At(i, j) * f.At(i, p)
			}
			if sm == 0.0 {
				continue
			}
			sm *= b
			x.Set(p, j, x.At(p, j)+sm*up)
			for i := p + 1; i < f.Rows; i++ {
				x.Set(i, j, x.At(i, j)+sm*f.At(i, p))
			}
		}
	}
}

// UpperTriangle returns a copy of f with everything strictly below the
// diagonal of the first npivots columns zeroed: the R factor, separated from
// the reflector vectors stored beneath it.
func UpperTriangle(f *dense.Matrix, npivots int) *dense.Matrix {
	r := f.Clone()
	for c := 0; c < npivots && c < r.Cols; c++ {
		for i := c + 1; i < r.Rows; i++ {
			r.Set(i, c, 0)
		}
	}
	return r
}
