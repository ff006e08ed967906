package sched

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pdcrl/parqr/internal/dense"
	"github.com/pdcrl/parqr/internal/logger"
	"github.com/pdcrl/parqr/internal/qr"
)

// Default tile sizes; both inherited from the reference configuration of
// the algorithm.
const (
	DefaultAlpha = 20
	DefaultBeta  = 20
)

var (
	// ErrNilMatrix indicates New was handed a nil matrix.
	ErrNilMatrix = errors.New("sched: nil matrix")
	// ErrInvariant indicates the invariant checker caught a violation of
	// the dependency contract during the run.
	ErrInvariant = errors.New("sched: dependency contract violated")
)

// Options configures a factorization run.
type Options struct {
	// Alpha is the pivot block size, Beta the column block size. Zero means
	// the default. Beta must be a multiple of Alpha.
	Alpha, Beta int

	// Workers is the fixed pool size; zero means GOMAXPROCS.
	Workers int

	// Check enables the runtime invariant checker (gate flags, at-most-once
	// execution, in-flight write disjointness). Meant for tests and debug
	// runs; it serializes task entry/exit on a mutex.
	Check bool

	// Log receives run-level events. Nil means the default logger.
	Log logger.Logger
}

// TaskStatus pairs a task with the kernel status it finished with. Only
// degenerate statuses are retained on the result.
type TaskStatus struct {
	Task   *Task
	Status qr.Status
}

// Result describes a completed factorization. The factored matrix itself is
// the buffer passed to New, mutated in place: R in the upper triangle,
// reflector vectors below it, reflector scalars in the scratch.
type Result struct {
	RunID   string
	Elapsed time.Duration
	Tasks   int
	Workers int

	// Degenerate lists every panel that stopped early on a degenerate
	// pivot. Empty for full-rank inputs.
	Degenerate []TaskStatus
}

// Scheduler owns all state shared by the worker pool for one run: the
// matrix, the pivot scratch, the task grid, the dependency flags and the
// two queues. Build it with New, run it once with Run.
type Scheduler struct {
	mat     *dense.Matrix
	scratch *qr.Scratch
	grid    *Grid
	deps    *depTable

	ready readyQueue
	wait  waitQueue

	completed atomic.Int64
	total     int64

	check *checker
	log   logger.Logger

	workers int

	mu         sync.Mutex
	degenerate []TaskStatus
}

// New builds a scheduler for factorizing m in place.
func New(m *dense.Matrix, opts Options) (*Scheduler, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	alpha, beta := opts.Alpha, opts.Beta
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if beta == 0 {
		beta = DefaultBeta
	}

	grid, err := BuildGrid(m.Rows, m.Cols, alpha, beta)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > grid.Total() {
		workers = grid.Total()
	}

	log := opts.Log
	if log == nil {
		log = logger.Default()
	}

	s := &Scheduler{
		mat:     m,
		scratch: qr.NewScratch(qr.Pivots(m)),
		grid:    grid,
		deps:    newDepTable(grid.Rows, grid.Cols),
		total:   int64(grid.Total()),
		log:     log,
		workers: workers,
	}
	if opts.Check {
		s.check = newChecker(s.deps)
	}
	return s, nil
}

// Scratch returns the pivot scratch, valid after Run for reconstructing the
// orthogonal factor.
func (s *Scheduler) Scratch() *qr.Scratch { return s.scratch }

// Grid returns the task grid.
func (s *Scheduler) Grid() *Grid { return s.grid }

// Run seeds the first panel, starts the worker pool and blocks until the
// factorization completes or ctx is cancelled. It may be called once.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	runID := "run_" + uuid.NewString()
	panels, updates := s.grid.Counts()
	s.log.Info("factorization scheduled",
		"run_id", runID,
		"rows", s.mat.Rows, "cols", s.mat.Cols,
		"grid_rows", s.grid.Rows, "grid_cols", s.grid.Cols,
		"panels", panels, "updates", updates,
		"workers", s.workers)

	s.ready.push(s.grid.At(0, 0))

	start := time.Now()
	errs := make([]error, s.workers)
	var wg sync.WaitGroup
	wg.Add(s.workers)
	for w := 0; w < s.workers; w++ {
		go func(id int) {
			defer wg.Done()
			errs[id] = s.workerLoop(ctx)
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if s.check != nil {
		if v := s.check.report(); len(v) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvariant, v)
		}
	}
	if !s.deps.allSet(s.grid) || s.ready.len() != 0 || s.wait.len() != 0 {
		return nil, fmt.Errorf("%w: pool exited with unfinished tasks", ErrInvariant)
	}

	s.log.Info("factorization complete",
		"run_id", runID, "elapsed", elapsed, "degenerate", len(s.degenerate))

	return &Result{
		RunID:      runID,
		Elapsed:    elapsed,
		Tasks:      s.grid.Total(),
		Workers:    s.workers,
		Degenerate: append([]TaskStatus(nil), s.degenerate...),
	}, nil
}

// workerLoop is the per-worker control loop: one non-blocking probe of each
// queue per iteration, then a termination check against the completed-task
// counter. Nothing in the loop blocks; an idle iteration yields the
// processor and retries.
func (s *Scheduler) workerLoop(ctx context.Context) error {
	for {
		idle := true

		if t, ok := s.ready.tryPop(); ok {
			idle = false
			s.execute(t)
		}

		// Re-test one parked task. Its gate is the cell in the previous
		// grid column on the same row.
		if t, ok := s.wait.tryPop(); ok {
			idle = false
			if s.deps.get(t.Row, t.Col-1) {
				s.ready.push(t)
			} else {
				s.wait.push(t)
			}
		}

		if s.completed.Load() == s.total {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if idle {
			runtime.Gosched()
		}
	}
}

// execute runs a task's kernel, publishes its completion flag and releases
// any successors that flag makes runnable.
func (s *Scheduler) execute(t *Task) {
	if s.check != nil {
		s.check.enter(t)
	}

	switch t.Kind {
	case KindPanel:
		st := qr.Panel(s.mat, s.scratch, t.RowStart, t.RowEnd, t.ColEnd)
		if st.Degenerate() {
			s.recordDegenerate(t, st)
		}
	case KindUpdate:
		qr.Update(s.mat, s.scratch, t.RowStart, t.RowEnd, t.ColStart, t.ColEnd)
	}

	if s.check != nil {
		s.check.exit(t)
	}
	s.deps.set(t.Row, t.Col)

	if t.Kind == KindPanel {
		// The panel is the single release point for its grid column: every
		// cell below goes to ready if its gate is already satisfied, and to
		// the wait queue for re-testing otherwise.
		for k := t.Row + 1; k < s.grid.Rows; k++ {
			next := s.grid.At(k, t.Col)
			if t.Col == 0 || s.deps.get(k, t.Col-1) {
				s.ready.push(next)
			} else {
				s.wait.push(next)
			}
		}
	}
	if t.RequeueNext {
		if next := s.grid.At(s.grid.diagRow(t.Col+1), t.Col+1); next != nil {
			s.ready.push(next)
		}
	}

	s.completed.Add(1)
}

func (s *Scheduler) recordDegenerate(t *Task, st qr.Status) {
	s.log.Warn("degenerate pivot", "task", t.String(), "status", st.String())
	s.mu.Lock()
	s.degenerate = append(s.degenerate, TaskStatus{Task: t, Status: st})
	s.mu.Unlock()
}
