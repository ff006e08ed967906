package sched

import (
	"fmt"
	"sync"
)

// checker validates the scheduler's concurrency contract while tasks run.
// It is only wired in when Options.Check is set: every worker reports task
// entry and exit, and the checker verifies that
//
//   - a task's gate flag (same row, previous column) was set before it ran,
//   - no task executes twice, and
//   - no two in-flight tasks have overlapping write column ranges.
//
// The last check is the "ownership token" for the shared matrix buffer: a
// task is licensed to mutate exactly its [ColStart, ColEnd) columns, and
// the dependency graph must never license two overlapping tasks at once.
type checker struct {
	deps *depTable

	mu         sync.Mutex
	inflight   map[*Task]struct{}
	executed   map[*Task]struct{}
	violations []string
}

func newChecker(deps *depTable) *checker {
	return &checker{
		deps:     deps,
		inflight: make(map[*Task]struct{}),
		executed: make(map[*Task]struct{}),
	}
}

func (c *checker) enter(t *Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Col > 0 && !c.deps.get(t.Row, t.Col-1) {
		c.violations = append(c.violations,
			fmt.Sprintf("%v ran before its gate (%d,%d) completed", t, t.Row, t.Col-1))
	}
	if _, ok := c.executed[t]; ok {
		c.violations = append(c.violations, fmt.Sprintf("%v executed twice", t))
	}
	c.executed[t] = struct{}{}

	for other := range c.inflight {
		if t.ColStart < other.ColEnd && other.ColStart < t.ColEnd {
			c.violations = append(c.violations,
				fmt.Sprintf("%v overlaps in-flight %v", t, other))
		}
	}
	c.inflight[t] = struct{}{}
}

func (c *checker) exit(t *Task) {
	c.mu.Lock()
	delete(c.inflight, t)
	c.mu.Unlock()
}

// report returns every recorded violation.
func (c *checker) report() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.violations...)
}
