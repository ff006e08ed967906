package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdcrl/parqr/internal/dense"
)

// jobRecord pairs the public resource with the factored matrix, which is
// only serialized out on request.
type jobRecord struct {
	fact   Factorization
	result *dense.Matrix
}

// JobStore holds factorization jobs for the lifetime of the server.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*jobRecord
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*jobRecord)}
}

// Create registers a queued job for req and returns its resource.
func (s *JobStore) Create(req *FactorizationRequest, alpha, beta, workers int, now time.Time) Factorization {
	fact := Factorization{
		ID:        "fact_" + uuid.NewString(),
		Object:    "factorization",
		CreatedAt: now.Unix(),
		Status:    statusQueued,
		Rows:      req.Rows,
		Cols:      req.Cols,
		Alpha:     alpha,
		Beta:      beta,
		Workers:   workers,
	}
	s.mu.Lock()
	s.jobs[fact.ID] = &jobRecord{fact: fact}
	s.mu.Unlock()
	return fact
}

// Get returns the resource for id, with the factored matrix attached when
// includeMatrix is set and the job completed.
func (s *JobStore) Get(id string, includeMatrix bool) (Factorization, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok {
		return Factorization{}, false
	}
	fact := rec.fact
	if includeMatrix && rec.result != nil {
		payload := &MatrixPayload{Rows: rec.result.Rows, Cols: rec.result.Cols}
		for c := 0; c < rec.result.Cols; c++ {
			payload.Data = append(payload.Data, rec.result.Col(c)...)
		}
		fact.Matrix = payload
	}
	return fact, true
}

// update applies fn to the stored job under the lock.
func (s *JobStore) update(id string, fn func(*jobRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.jobs[id]; ok {
		fn(rec)
	}
}
