package dense

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrBadHeader indicates a text matrix file whose first line is not
	// "rows cols" with positive integers.
	ErrBadHeader = errors.New("dense: malformed matrix header")
	// ErrShortData indicates a matrix file with fewer values than rows*cols.
	ErrShortData = errors.New("dense: not enough matrix values")
)

// jsonMatrix is the on-disk JSON form: values are column-major, matching the
// in-memory layout.
type jsonMatrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Load reads a matrix from path. Files ending in .json are decoded as
// {"rows": r, "cols": c, "data": [...]} with column-major data; anything
// else is parsed as whitespace-separated text with a "rows cols" header
// line followed by rows*cols values in column-major order.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dense: open %s: %w", path, err)
	}
	defer f.Close()

	var m *Matrix
	if strings.EqualFold(filepath.Ext(path), ".json") {
		m, err = decodeJSON(f)
	} else {
		m, err = decodeText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("dense: %s: %w", path, err)
	}
	return m, nil
}

func decodeJSON(r io.Reader) (*Matrix, error) {
	var jm jsonMatrix
	if err := json.NewDecoder(r).Decode(&jm); err != nil {
		return nil, err
	}
	if jm.Rows <= 0 || jm.Cols <= 0 {
		return nil, ErrBadHeader
	}
	if len(jm.Data) < jm.Rows*jm.Cols {
		return nil, ErrShortData
	}
	return FromData(jm.Rows, jm.Cols, jm.Data[:jm.Rows*jm.Cols]), nil
}

func decodeText(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<24)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	var rows, cols int
	for _, dst := range []*int{&rows, &cols} {
		tok, ok := next()
		if !ok {
			return nil, ErrBadHeader
		}
		if _, err := fmt.Sscanf(tok, "%d", dst); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadHeader, tok)
		}
	}
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadHeader
	}

	m := New(rows, cols)
	for i := range m.Data {
		tok, ok := next()
		if !ok {
			return nil, ErrShortData
		}
		if _, err := fmt.Sscanf(tok, "%g", &m.Data[i]); err != nil {
			return nil, fmt.Errorf("dense: bad value %q: %w", tok, err)
		}
	}
	return m, sc.Err()
}

// Save writes m to path in the format implied by its extension (see Load).
func (m *Matrix) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dense: create %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return m.encodeJSON(f)
	}
	return m.encodeText(f)
}

func (m *Matrix) encodeJSON(w io.Writer) error {
	jm := jsonMatrix{Rows: m.Rows, Cols: m.Cols, Data: make([]float64, 0, m.Rows*m.Cols)}
	for c := 0; c < m.Cols; c++ {
		jm.Data = append(jm.Data, m.Col(c)...)
	}
	return json.NewEncoder(w).Encode(&jm)
}

func (m *Matrix) encodeText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", m.Rows, m.Cols); err != nil {
		return err
	}
	for c := 0; c < m.Cols; c++ {
		for r := 0; r < m.Rows; r++ {
			if _, err := fmt.Fprintf(bw, "%.17g\n", m.At(r, c)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
