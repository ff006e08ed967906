package sched

import "errors"

var (
	// ErrBadTile indicates a non-positive tile size.
	ErrBadTile = errors.New("sched: tile sizes must be positive")
	// ErrTileMismatch indicates Beta is not a multiple of Alpha, which the
	// grid geometry requires.
	ErrTileMismatch = errors.New("sched: beta must be a multiple of alpha")
	// ErrEmptyMatrix indicates a matrix with no rows or columns.
	ErrEmptyMatrix = errors.New("sched: matrix must have at least one row and one column")
)

// Grid is the immutable task table: a rows×cols grid of tasks, nil where no
// task exists (above the block diagonal). Built once before any worker
// starts, read-only afterwards.
type Grid struct {
	Rows, Cols int

	// Alpha is the pivot block size, Beta the column block size.
	Alpha, Beta int

	tasks []*Task
	total int
}

// diagRow returns the grid row holding pivot block j's Panel: the row of
// the column block that contains the pivots' own columns.
func (g *Grid) diagRow(j int) int {
	return j * g.Alpha / g.Beta
}

// BuildGrid constructs the task grid for an R×C matrix with pivot block
// size alpha and column block size beta. Final tiles truncate at the matrix
// bounds, so non-multiple dimensions are fine.
func BuildGrid(matRows, matCols, alpha, beta int) (*Grid, error) {
	if matRows < 1 || matCols < 1 {
		return nil, ErrEmptyMatrix
	}
	if alpha < 1 || beta < 1 {
		return nil, ErrBadTile
	}
	if beta%alpha != 0 {
		return nil, ErrTileMismatch
	}

	pivots := matRows
	if matCols < pivots {
		pivots = matCols
	}
	rows := (matCols + beta - 1) / beta
	cols := (pivots + alpha - 1) / alpha

	g := &Grid{
		Rows:  rows,
		Cols:  cols,
		Alpha: alpha,
		Beta:  beta,
		tasks: make([]*Task, rows*cols),
	}

	seq := 0
	for j := 0; j < cols; j++ {
		rowStart := j * alpha
		rowEnd := rowStart + alpha
		if rowEnd > pivots {
			rowEnd = pivots
		}
		diag := g.diagRow(j)

		for i := diag; i < rows; i++ {
			colStart := i * beta
			colEnd := colStart + beta
			if colEnd > matCols {
				colEnd = matCols
			}

			t := &Task{
				Row:      i,
				Col:      j,
				Kind:     KindUpdate,
				RowStart: rowStart,
				RowEnd:   rowEnd,
				ColStart: colStart,
				ColEnd:   colEnd,
				// Earlier pivot blocks first, and within a block the cells
				// nearest the diagonal, so the critical path stays hot.
				Priority: (cols-j)*(rows+1) + (rows - i),
				Seq:      seq,
			}
			if i == diag {
				t.Kind = KindPanel
			}
			if j+1 < cols && i == g.diagRow(j+1) {
				t.RequeueNext = true
			}
			g.tasks[i*cols+j] = t
			g.total++
			seq++
		}
	}
	return g, nil
}

// At returns the task at grid cell (i, j), or nil if the cell is absent or
// out of range.
func (g *Grid) At(i, j int) *Task {
	if i < 0 || i >= g.Rows || j < 0 || j >= g.Cols {
		return nil
	}
	return g.tasks[i*g.Cols+j]
}

// Total returns the number of tasks in the grid.
func (g *Grid) Total() int { return g.total }

// Counts returns the number of Panel and Update tasks.
func (g *Grid) Counts() (panels, updates int) {
	for _, t := range g.tasks {
		switch {
		case t == nil:
		case t.Kind == KindPanel:
			panels++
		default:
			updates++
		}
	}
	return panels, updates
}
