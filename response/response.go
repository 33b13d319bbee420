package response

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyMatrix is returned when the response matrix has no rows or no columns.
	ErrEmptyMatrix = errors.New("response: empty response matrix")

	// ErrRaggedMatrix is returned when the rows of the response matrix have unequal lengths.
	ErrRaggedMatrix = errors.New("response: ragged response matrix")

	// ErrNegativeEntry is returned when a response matrix entry is negative.
	ErrNegativeEntry = errors.New("response: negative matrix entry")

	// ErrNonFinite is returned when a response matrix entry is NaN or ±Inf.
	ErrNonFinite = errors.New("response: non-finite matrix entry")

	// ErrDimensionMismatch is returned when a vector length disagrees with the matrix shape.
	ErrDimensionMismatch = errors.New("response: dimension mismatch")
)

// Model is a dense, immutable response matrix with its cached per-bin
// sensitivity (column-sum) vector. The zero value is not usable; construct
// with NewModel.
type Model struct {
	channels int // number of detector channels (rows)
	bins     int // number of energy bins (columns)

	rows [][]float64 // row-major copy of R, channels×bins
	sens []float64   // sens[j] = Σ_i R[i][j], computed once in NewModel
}

// NewModel validates rows as a channels×bins response matrix, deep-copies it,
// and precomputes the sensitivity vector. The input is never retained, so the
// caller may reuse or mutate it afterwards.
//
// Validation: at least one row and one column, rectangular shape, and every
// entry finite and ≥ 0. Violations return the sentinels documented in doc.go.
//
// Complexity: O(channels·bins) time and space.
func NewModel(rows [][]float64) (*Model, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	channels := len(rows)
	bins := len(rows[0])

	m := &Model{
		channels: channels,
		bins:     bins,
		rows:     make([][]float64, channels),
		sens:     make([]float64, bins),
	}

	for i, row := range rows {
		if len(row) != bins {
			return nil, fmt.Errorf("response: row %d has %d columns, row 0 has %d: %w", i, len(row), bins, ErrRaggedMatrix)
		}
		m.rows[i] = make([]float64, bins)
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("response: entry [%d][%d] = %v: %w", i, j, v, ErrNonFinite)
			}
			if v < 0 {
				return nil, fmt.Errorf("response: entry [%d][%d] = %v: %w", i, j, v, ErrNegativeEntry)
			}
			m.rows[i][j] = v
			m.sens[j] += v
		}
	}

	return m, nil
}

// Channels reports the number of detector channels (matrix rows).
func (m *Model) Channels() int { return m.channels }

// Bins reports the number of energy bins (matrix columns).
func (m *Model) Bins() int { return m.bins }

// Forward applies the response matrix to a spectrum:
// estimate[i] = Σ_j R[i][j]·spectrum[j]. The result is freshly allocated.
//
// Returns ErrDimensionMismatch (wrapped with lengths) when len(spectrum)
// differs from the bin count.
//
// Complexity: O(channels·bins).
func (m *Model) Forward(spectrum []float64) ([]float64, error) {
	if len(spectrum) != m.bins {
		return nil, fmt.Errorf("response: spectrum has %d bins, matrix has %d: %w", len(spectrum), m.bins, ErrDimensionMismatch)
	}

	estimate := make([]float64, m.channels)
	for i, row := range m.rows {
		var sum float64
		for j, v := range row {
			sum += v * spectrum[j]
		}
		estimate[i] = sum
	}

	return estimate, nil
}

// Backproject applies the transpose of the response matrix to a per-channel
// ratio vector: correction[j] = Σ_i R[i][j]·ratio[i]. The transpose is never
// materialized; the loop walks the stored rows directly.
//
// Returns ErrDimensionMismatch (wrapped with lengths) when len(ratio)
// differs from the channel count.
//
// Complexity: O(channels·bins).
func (m *Model) Backproject(ratio []float64) ([]float64, error) {
	if len(ratio) != m.channels {
		return nil, fmt.Errorf("response: ratio has %d channels, matrix has %d: %w", len(ratio), m.channels, ErrDimensionMismatch)
	}

	correction := make([]float64, m.bins)
	for i, row := range m.rows {
		r := ratio[i]
		for j, v := range row {
			correction[j] += v * r
		}
	}

	return correction, nil
}

// Sensitivity returns a copy of the cached per-bin sensitivity vector
// sens[j] = Σ_i R[i][j]. The copy is defensive: mutating it does not affect
// the model.
//
// Complexity: O(bins) for the copy; the sums themselves were computed once
// in NewModel.
func (m *Model) Sensitivity() []float64 {
	out := make([]float64, m.bins)
	copy(out, m.sens)

	return out
}

// At returns R[i][j] without bounds checking beyond the slice's own; it is a
// convenience for metric calculators and tests.
func (m *Model) At(i, j int) float64 { return m.rows[i][j] }
