package qr

import "fmt"

// StatusKind classifies the outcome of a panel factorization.
type StatusKind int

const (
	// StatusOK means every pivot in the panel's range was reflected.
	StatusOK StatusKind = iota
	// StatusPivotZero means a pivot column had exactly zero magnitude. The
	// column is already eliminated; the panel stops at that pivot and all
	// earlier pivots remain valid.
	StatusPivotZero
	// StatusPivotUnreflectable means the reflector scalar b came out
	// non-negative, so no effective reflection exists for that pivot. The
	// panel stops there.
	StatusPivotUnreflectable
)

// Status reports how far a panel factorization got. Pivot is only
// meaningful when Kind is not StatusOK: it is the pivot index at which the
// panel stopped, with all pivots strictly before it fully applied.
type Status struct {
	Kind  StatusKind
	Pivot int
}

// Degenerate reports whether the panel stopped before completing its range.
func (s Status) Degenerate() bool { return s.Kind != StatusOK }

func (s Status) String() string {
	switch s.Kind {
	case StatusOK:
		return "ok"
	case StatusPivotZero:
		return fmt.Sprintf("zero pivot column at %d", s.Pivot)
	case StatusPivotUnreflectable:
		return fmt.Sprintf("unreflectable pivot at %d", s.Pivot)
	}
	return fmt.Sprintf("unknown status %d", int(s.Kind))
}
