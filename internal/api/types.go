package api

// FactorizationRequest is the body of POST /v1/factorizations. The matrix
// comes either inline (column-major data) or as a seed for a random fill,
// which is mainly useful for benchmarking a deployment.
type FactorizationRequest struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data,omitempty"`
	Seed *int64    `json:"seed,omitempty"`

	Alpha   int `json:"alpha,omitempty"`
	Beta    int `json:"beta,omitempty"`
	Workers int `json:"workers,omitempty"`
}

// DegeneratePivot reports a panel that stopped early.
type DegeneratePivot struct {
	Pivot  int    `json:"pivot"`
	Reason string `json:"reason"`
}

// MatrixPayload carries a matrix in responses, column-major like requests.
type MatrixPayload struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Factorization is the job resource returned by the API.
type Factorization struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	CreatedAt int64  `json:"created_at"`
	Status    string `json:"status"`

	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	Alpha   int `json:"alpha"`
	Beta    int `json:"beta"`
	Workers int `json:"workers"`

	Tasks            int               `json:"tasks,omitempty"`
	ElapsedMS        float64           `json:"elapsed_ms,omitempty"`
	DegeneratePivots []DegeneratePivot `json:"degenerate_pivots,omitempty"`
	Error            string            `json:"error,omitempty"`

	// Matrix holds the R factor when the client asks for it with
	// ?include=matrix on a completed job.
	Matrix *MatrixPayload `json:"matrix,omitempty"`
}

// apiError is the error envelope, {"error": {...}}.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

const (
	statusQueued    = "queued"
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)
