// Package api exposes factorization runs over HTTP: submit a matrix, poll
// the job, fetch the factored result.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/pdcrl/parqr/internal/dense"
	"github.com/pdcrl/parqr/internal/logger"
	"github.com/pdcrl/parqr/internal/sched"
)

// Server wires the job store and scheduler behind the REST surface.
type Server struct {
	store *JobStore
	log   logger.Logger

	// Alpha and Beta are the tile sizes used when a request leaves them
	// unspecified.
	Alpha, Beta int
}

// NewServer creates a Server around store. log may be nil.
func NewServer(store *JobStore, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		store: store,
		log:   log,
		Alpha: sched.DefaultAlpha,
		Beta:  sched.DefaultBeta,
	}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/factorizations", s.handleCreate)
	e.GET("/v1/factorizations/:id", s.handleGet)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleCreate(c *echo.Context) error {
	var req FactorizationRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return writeBadRequest(c, fmt.Sprintf("decode request: %v", err))
	}
	if req.Rows < 1 || req.Cols < 1 {
		return writeBadRequest(c, "rows and cols must be positive")
	}
	if req.Data != nil && len(req.Data) != req.Rows*req.Cols {
		return writeBadRequest(c, fmt.Sprintf("data length %d does not match %d×%d",
			len(req.Data), req.Rows, req.Cols))
	}

	m := buildMatrix(&req)

	alpha, beta := req.Alpha, req.Beta
	if alpha == 0 {
		alpha = s.Alpha
	}
	if beta == 0 {
		beta = s.Beta
	}

	scheduler, err := sched.New(m, sched.Options{
		Alpha:   alpha,
		Beta:    beta,
		Workers: req.Workers,
		Log:     s.log,
	})
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	fact := s.store.Create(&req, alpha, beta, req.Workers, time.Now())
	s.store.update(fact.ID, func(rec *jobRecord) {
		rec.fact.Status = statusRunning
	})
	go s.runJob(fact.ID, m, scheduler)

	fact.Status = statusRunning
	return c.JSON(http.StatusAccepted, fact)
}

// runJob executes the factorization off the request goroutine and records
// the outcome in the store.
func (s *Server) runJob(id string, m *dense.Matrix, scheduler *sched.Scheduler) {
	res, err := scheduler.Run(context.Background())
	s.store.update(id, func(rec *jobRecord) {
		if err != nil {
			rec.fact.Status = statusFailed
			rec.fact.Error = err.Error()
			return
		}
		rec.fact.Status = statusCompleted
		rec.fact.Tasks = res.Tasks
		rec.fact.ElapsedMS = float64(res.Elapsed.Microseconds()) / 1e3
		for _, d := range res.Degenerate {
			rec.fact.DegeneratePivots = append(rec.fact.DegeneratePivots, DegeneratePivot{
				Pivot:  d.Status.Pivot,
				Reason: d.Status.String(),
			})
		}
		rec.result = m
	})
	if err != nil {
		s.log.Error("factorization job failed", "job", id, "err", err)
	}
}

func (s *Server) handleGet(c *echo.Context) error {
	include := c.QueryParam("include") == "matrix"
	fact, ok := s.store.Get(c.Param("id"), include)
	if !ok {
		return writeNotFound(c, "no such factorization")
	}
	return c.JSON(http.StatusOK, fact)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func buildMatrix(req *FactorizationRequest) *dense.Matrix {
	if req.Data != nil {
		data := make([]float64, len(req.Data))
		copy(data, req.Data)
		return dense.FromData(req.Rows, req.Cols, data)
	}
	m := dense.New(req.Rows, req.Cols)
	seed := int64(1)
	if req.Seed != nil {
		seed = *req.Seed
	}
	dense.FillRand(m, seed)
	return m
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": apiError{Message: msg, Type: errType},
	})
}
