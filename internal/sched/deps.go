package sched

import "sync/atomic"

// depTable is the grid of per-task completion flags: the only cross-worker
// synchronization for the matrix buffer and pivot scratch. A flag goes
// false→true exactly once, stored by the worker that finished the task;
// atomic.Bool gives the store release and the load acquire semantics, so a
// worker that observes true also observes every matrix write the completed
// task made.
type depTable struct {
	rows, cols int
	flags      []atomic.Bool
}

func newDepTable(rows, cols int) *depTable {
	return &depTable{
		rows:  rows,
		cols:  cols,
		flags: make([]atomic.Bool, rows*cols),
	}
}

func (d *depTable) get(i, j int) bool {
	return d.flags[i*d.cols+j].Load()
}

func (d *depTable) set(i, j int) {
	d.flags[i*d.cols+j].Store(true)
}

// allSet reports whether every flag is set; used by tests and the final
// sanity check after the pool joins.
func (d *depTable) allSet(g *Grid) bool {
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			if g.At(i, j) != nil && !d.get(i, j) {
				return false
			}
		}
	}
	return true
}
