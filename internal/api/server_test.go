package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/pdcrl/parqr/internal/dense"
	"github.com/pdcrl/parqr/internal/logger"
	"github.com/pdcrl/parqr/internal/qr"
)

func newTestEcho() *echo.Echo {
	server := NewServer(NewJobStore(), logger.Text(io.Discard, slog.LevelError))
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// awaitJob polls the job until it leaves the running state.
func awaitJob(t *testing.T, e *echo.Echo, id string) Factorization {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec := doJSON(t, e, http.MethodGet, "/v1/factorizations/"+id, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var fact Factorization
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fact))
		if fact.Status != statusQueued && fact.Status != statusRunning {
			return fact
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s still %s after deadline", id, fact.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFactorizationLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodPost, "/v1/factorizations",
		`{"rows": 30, "cols": 30, "seed": 4, "alpha": 10, "beta": 10, "workers": 2}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var created Factorization
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.ID, "fact_"), "id = %q", created.ID)
	require.Equal(t, "factorization", created.Object)
	require.Equal(t, statusRunning, created.Status)
	require.Equal(t, 10, created.Alpha)

	fact := awaitJob(t, e, created.ID)
	require.Equal(t, statusCompleted, fact.Status)
	require.Equal(t, 6, fact.Tasks)
	require.Empty(t, fact.DegeneratePivots)
	require.Nil(t, fact.Matrix)
}

func TestFactorizationIncludeMatrix(t *testing.T) {
	t.Parallel()

	// Submit explicit data so the returned factors can be checked against a
	// local sequential factorization of the same values.
	m := dense.New(6, 6)
	dense.FillRand(m, 8)
	body, err := json.Marshal(FactorizationRequest{Rows: 6, Cols: 6, Data: m.Data})
	require.NoError(t, err)

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodPost, "/v1/factorizations", string(body))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var created Factorization
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	fact := awaitJob(t, e, created.ID)
	require.Equal(t, statusCompleted, fact.Status)

	rec = doJSON(t, e, http.MethodGet, "/v1/factorizations/"+created.ID+"?include=matrix", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var withMatrix Factorization
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withMatrix))
	require.NotNil(t, withMatrix.Matrix)
	require.Equal(t, 6, withMatrix.Matrix.Rows)

	want := m.Clone()
	qr.Reference(want, qr.NewScratch(qr.Pivots(want)))
	got := dense.FromData(withMatrix.Matrix.Rows, withMatrix.Matrix.Cols, withMatrix.Matrix.Data)
	require.Zero(t, dense.MaxAbsDiff(want, got))
}

func TestCreateFactorizationRejectsBadRequests(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	for name, body := range map[string]string{
		"not json":       `{"rows":`,
		"missing dims":   `{"data": [1, 2]}`,
		"data mismatch":  `{"rows": 2, "cols": 2, "data": [1, 2, 3]}`,
		"bad tile sizes": `{"rows": 10, "cols": 10, "alpha": 3, "beta": 10}`,
		"negative alpha": `{"rows": 10, "cols": 10, "alpha": -1}`,
	} {
		rec := doJSON(t, e, http.MethodPost, "/v1/factorizations", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "%s: %s", name, rec.Body.String())

		var envelope struct {
			Error apiError `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.Equal(t, "invalid_request_error", envelope.Error.Type, name)
		require.NotEmpty(t, envelope.Error.Message, name)
	}
}

func TestGetFactorizationNotFound(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodGet, "/v1/factorizations/fact_missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
