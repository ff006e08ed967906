// Package sched turns a blocked Householder QR factorization into a 2-D
// grid of tasks and executes it on a fixed pool of workers that discover
// the dependency graph dynamically.
//
// Grid orientation: column j of the grid is a pivot block (Alpha pivot rows
// eliminated together), row i is a block of Beta matrix columns. The cell
// on the diagonal of a pivot block holds its Panel task (build reflectors,
// apply them inside the block's own columns); the cells below hold the
// Update tasks that apply those reflectors to trailing column blocks. Cells
// above the diagonal do not exist.
//
// Execution order is enforced solely through a grid of atomic completion
// flags: task (i,j) may run only once (i,j-1) has completed, and a pivot
// block's Panel releases the rest of its grid column when it finishes. Two
// tasks whose column ranges overlap are never in flight together; that
// exclusion is a property of the graph, not of any lock.
package sched

import "fmt"

// Kind distinguishes the two task payloads.
type Kind int

const (
	// KindPanel computes Householder reflectors for a block of pivots and
	// applies them within the block's own column tile.
	KindPanel Kind = iota + 1
	// KindUpdate applies previously built reflectors to a trailing column
	// tile.
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindPanel:
		return "panel"
	case KindUpdate:
		return "update"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Task is one unit of work. Tasks are built once during grid construction
// and never mutated afterwards; workers and the release logic only read
// them.
type Task struct {
	// Row and Col are the grid coordinates: Row indexes column blocks,
	// Col indexes pivot blocks.
	Row, Col int

	Kind Kind

	// RowStart/RowEnd is the half-open pivot range this task eliminates or
	// applies; ColStart/ColEnd the half-open matrix column range it writes.
	RowStart, RowEnd int
	ColStart, ColEnd int

	// Priority orders the ready queue, higher first. Seq is the grid
	// insertion order and breaks priority ties deterministically.
	Priority int
	Seq      int

	// RequeueNext marks the task whose completion makes the next pivot
	// block's Panel runnable.
	RequeueNext bool
}

func (t *Task) String() string {
	return fmt.Sprintf("%s(%d,%d) pivots [%d,%d) cols [%d,%d)",
		t.Kind, t.Row, t.Col, t.RowStart, t.RowEnd, t.ColStart, t.ColEnd)
}
