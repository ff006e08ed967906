package sched

import (
	"container/heap"
	"sync"
)

// taskHeap orders tasks by descending Priority, with ascending Seq as the
// deterministic tie-break.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].Seq < h[j].Seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*Task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// readyQueue is the eligible-to-run collection: a mutex-guarded max-heap
// with non-blocking pop, shared by all workers.
type readyQueue struct {
	mu sync.Mutex
	h  taskHeap
}

func (q *readyQueue) push(t *Task) {
	q.mu.Lock()
	heap.Push(&q.h, t)
	q.mu.Unlock()
}

// tryPop removes and returns the highest-priority task, or reports false if
// the queue is empty. It never blocks.
func (q *readyQueue) tryPop() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 {
		return nil, false
	}
	return heap.Pop(&q.h).(*Task), true
}

func (q *readyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h)
}

// waitQueue holds tasks whose predecessor flag has not yet been observed
// set. It is a re-check ring, not a blocking wait list: workers pop one
// entry, re-test its dependency and either promote it or push it back.
type waitQueue struct {
	mu    sync.Mutex
	items []*Task
}

func (q *waitQueue) push(t *Task) {
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()
}

func (q *waitQueue) tryPop() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	t := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return t, true
}

func (q *waitQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
