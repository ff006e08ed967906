package sched

import (
	"errors"
	"testing"
)

func TestBuildGridSquare(t *testing.T) {
	g, err := BuildGrid(100, 100, 20, 20)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if g.Rows != 5 || g.Cols != 5 {
		t.Fatalf("grid shape = %dx%d, want 5x5", g.Rows, g.Cols)
	}
	if g.Total() != 15 {
		t.Fatalf("total = %d, want 15", g.Total())
	}
	panels, updates := g.Counts()
	if panels != 5 || updates != 10 {
		t.Fatalf("counts = %d panels, %d updates, want 5 and 10", panels, updates)
	}

	// Diagonal cells are panels, cells below are updates, cells above absent.
	for j := 0; j < g.Cols; j++ {
		for i := 0; i < g.Rows; i++ {
			task := g.At(i, j)
			switch {
			case i < j:
				if task != nil {
					t.Fatalf("unexpected task above the diagonal at (%d,%d)", i, j)
				}
			case i == j:
				if task == nil || task.Kind != KindPanel {
					t.Fatalf("cell (%d,%d) = %v, want a panel", i, j, task)
				}
			default:
				if task == nil || task.Kind != KindUpdate {
					t.Fatalf("cell (%d,%d) = %v, want an update", i, j, task)
				}
			}
		}
	}
}

func TestBuildGridErrors(t *testing.T) {
	if _, err := BuildGrid(0, 10, 20, 20); !errors.Is(err, ErrEmptyMatrix) {
		t.Fatalf("empty matrix: err = %v, want ErrEmptyMatrix", err)
	}
	if _, err := BuildGrid(10, 10, 0, 20); !errors.Is(err, ErrBadTile) {
		t.Fatalf("zero alpha: err = %v, want ErrBadTile", err)
	}
	if _, err := BuildGrid(10, 10, 20, -1); !errors.Is(err, ErrBadTile) {
		t.Fatalf("negative beta: err = %v, want ErrBadTile", err)
	}
	if _, err := BuildGrid(10, 10, 3, 10); !errors.Is(err, ErrTileMismatch) {
		t.Fatalf("beta not a multiple: err = %v, want ErrTileMismatch", err)
	}
}

func TestBuildGridSingleTile(t *testing.T) {
	g, err := BuildGrid(10, 10, 20, 20)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if g.Rows != 1 || g.Cols != 1 || g.Total() != 1 {
		t.Fatalf("grid = %dx%d with %d tasks, want a single cell", g.Rows, g.Cols, g.Total())
	}
	task := g.At(0, 0)
	if task.Kind != KindPanel {
		t.Fatalf("single task kind = %v, want panel", task.Kind)
	}
	if task.RequeueNext {
		t.Fatal("single task must not requeue a successor")
	}
	if task.RowStart != 0 || task.RowEnd != 10 || task.ColStart != 0 || task.ColEnd != 10 {
		t.Fatalf("single task ranges = %v, want the whole matrix", task)
	}
}

func TestBuildGridTruncatedTiles(t *testing.T) {
	g, err := BuildGrid(50, 45, 20, 20)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if g.Rows != 3 || g.Cols != 3 {
		t.Fatalf("grid shape = %dx%d, want 3x3", g.Rows, g.Cols)
	}
	last := g.At(2, 2)
	if last.RowStart != 40 || last.RowEnd != 45 {
		t.Fatalf("last pivot range = [%d,%d), want [40,45)", last.RowStart, last.RowEnd)
	}
	if last.ColStart != 40 || last.ColEnd != 45 {
		t.Fatalf("last column range = [%d,%d), want [40,45)", last.ColStart, last.ColEnd)
	}
}

func TestBuildGridWideBeta(t *testing.T) {
	// Two pivot blocks share each column block when beta is 2*alpha.
	g, err := BuildGrid(80, 80, 20, 40)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if g.Rows != 2 || g.Cols != 4 {
		t.Fatalf("grid shape = %dx%d, want 2x4", g.Rows, g.Cols)
	}
	if g.Total() != 6 {
		t.Fatalf("total = %d, want 6", g.Total())
	}
	for j, want := range []int{0, 0, 1, 1} {
		if got := g.diagRow(j); got != want {
			t.Fatalf("diagRow(%d) = %d, want %d", j, got, want)
		}
	}
	// The cell before each next panel carries the requeue mark, even when
	// that cell is itself a panel.
	for _, tc := range []struct {
		i, j int
		want bool
	}{
		{0, 0, true}, {1, 0, false},
		{0, 1, false}, {1, 1, true},
		{1, 2, true},
		{1, 3, false},
	} {
		task := g.At(tc.i, tc.j)
		if task == nil {
			t.Fatalf("missing task at (%d,%d)", tc.i, tc.j)
		}
		if task.RequeueNext != tc.want {
			t.Fatalf("RequeueNext at (%d,%d) = %v, want %v", tc.i, tc.j, task.RequeueNext, tc.want)
		}
	}
}

func TestGridPriorityOrder(t *testing.T) {
	g, err := BuildGrid(120, 120, 20, 20)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	// Every task of pivot block j outranks every task of block j+1, and
	// within a block the cell nearest the diagonal ranks highest.
	for j := 0; j < g.Cols; j++ {
		for i := j + 1; i < g.Rows; i++ {
			above, task := g.At(i-1, j), g.At(i, j)
			if above.Priority <= task.Priority {
				t.Fatalf("(%d,%d) priority %d not below (%d,%d) priority %d",
					i, j, task.Priority, i-1, j, above.Priority)
			}
		}
		if j+1 < g.Cols {
			lowest := g.At(g.Rows-1, j)
			highest := g.At(j+1, j+1)
			if highest.Priority >= lowest.Priority {
				t.Fatalf("block %d panel priority %d outranks block %d tail priority %d",
					j+1, highest.Priority, j, lowest.Priority)
			}
		}
	}
}

func TestGridAtOutOfRange(t *testing.T) {
	g, err := BuildGrid(40, 40, 20, 20)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if g.At(c[0], c[1]) != nil {
			t.Fatalf("At(%d,%d) returned a task out of range", c[0], c[1])
		}
	}
}
