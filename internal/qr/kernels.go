// Package qr implements the Householder elimination kernels executed by the
// task scheduler, plus a sequential reference factorization used as a test
// oracle.
//
// The factorization is the classic Lawson–Hanson h12 formulation: for each
// pivot p a reflector H = I + b·v·vᵀ is built from the pivot column, with
// v = (up, A[p+1:, p]) and the two scalars up and b stored in a Scratch
// shared by all tasks. Applying the reflectors in pivot order to the whole
// matrix leaves the upper-triangular factor R in place; the reflector
// vectors stay below the diagonal.
package qr

import (
	"math"

	"github.com/pdcrl/parqr/internal/dense"
)

// Scratch holds the per-pivot reflector scalars. Entry p is written exactly
// once, by the panel that owns pivot p, and read by every later update task
// covering that pivot. The scheduler's dependency flags order those accesses.
type Scratch struct {
	Up, B []float64
}

// NewScratch allocates scratch for n pivots, zero initialised.
func NewScratch(n int) *Scratch {
	return &Scratch{
		Up: make([]float64, n),
		B:  make([]float64, n),
	}
}

// Panel factorizes pivots [rowStart, rowEnd) of m in place and applies each
// reflector to the trailing columns up to colEnd. For every completed pivot
// it records up and b in s.
//
// If a pivot column has zero magnitude, or its reflector scalar b is
// non-negative, the panel stops at that pivot and reports it in the returned
// Status; pivots before the stop point are fully applied and their scratch
// entries valid.
func Panel(m *dense.Matrix, s *Scratch, rowStart, rowEnd, colEnd int) Status {
	n := m.Rows
	ld := m.Ld
	a := m.Data

	for p := rowStart; p < rowEnd; p++ {
		// Maximum magnitude and scaled sum of squares of the pivot column,
		// below and including the diagonal. The explicit scaling keeps the
		// norm from overflowing.
		cl := math.Abs(a[p*ld+p])
		sm1 := 0.0
		for k := p + 1; k < n; k++ {
			sm := math.Abs(a[p*ld+k])
			sm1 += sm * sm
			cl = math.Max(sm, cl)
		}
		if cl <= 0.0 {
			return Status{Kind: StatusPivotZero, Pivot: p}
		}
		clinv := 1.0 / cl

		d := a[p*ld+p] * clinv
		sm := d*d + sm1*clinv*clinv
		cl *= math.Sqrt(sm)

		// Pick the sign opposite the diagonal entry so up = a_pp - cl never
		// cancels.
		if a[p*ld+p] > 0.0 {
			cl = -cl
		}
		up := a[p*ld+p] - cl
		a[p*ld+p] = cl

		b := up * a[p*ld+p]
		if b >= 0.0 {
			return Status{Kind: StatusPivotUnreflectable, Pivot: p}
		}
		b = 1.0 / b

		s.Up[p] = up
		s.B[p] = b

		applyReflector(a, ld, n, p, up, b, p+1, colEnd)
	}
	return Status{Kind: StatusOK}
}

// Update applies the reflectors of pivots [rowStart, rowEnd), previously
// built by a panel, to columns [colStart, colEnd) of m. It only reads the
// scratch, never writes it.
func Update(m *dense.Matrix, s *Scratch, rowStart, rowEnd, colStart, colEnd int) {
	n := m.Rows
	ld := m.Ld
	a := m.Data

	for p := rowStart; p < rowEnd; p++ {
		applyReflector(a, ld, n, p, s.Up[p], s.B[p], colStart, colEnd)
	}
}

// applyReflector applies pivot p's reflector to columns [colStart, colEnd)
// of the column-major array a. The reflector vector is (up, a[p*ld+p+1:...]),
// i.e. the pivot column below the diagonal, which the panel leaves in place.
func applyReflector(a []float64, ld, n, p int, up, b float64, colStart, colEnd int) {
	for j := colStart; j < colEnd; j++ {
		sm := a[j*ld+p] * up
		for i := p + 1; i < n; i++ {
			sm += a[j*ld+i] * a[p*ld+i]
		}
		if sm == 0.0 {
			continue
		}
		sm *= b
		a[j*ld+p] += sm * up
		for i := p + 1; i < n; i++ {
			a[j*ld+i] += sm * a[p*ld+i]
		}
	}
}
