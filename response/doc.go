// Package response owns the dense detector response matrix R and the three
// linear operations the unfolding loop needs from it.
//
// The matrix maps per-bin neutron flux to expected per-channel count rate:
// rows are detector channels (one per moderator configuration), columns are
// energy bins. For a Nested Neutron Spectrometer this is on the order of
// 8 channels by 52 bins — small and dense, so every operation is a plain
// O(channels·bins) loop with no sparse or BLAS machinery behind it.
//
// # API
//
//	m, err := response.NewModel(rows)     // validate once, cache sensitivity
//	est, err := m.Forward(spectrum)       // est[i] = Σ_j R[i][j]·spectrum[j]
//	cor, err := m.Backproject(ratio)      // cor[j] = Σ_i R[i][j]·ratio[i]
//	sens := m.Sensitivity()               // sens[j] = Σ_i R[i][j], cached
//
// A Model is immutable after construction and safe to share across
// concurrent solver runs; the sensitivity vector is computed exactly once
// in NewModel.
//
// # Errors
//
//	ErrEmptyMatrix       — no rows, or rows with no columns
//	ErrRaggedMatrix      — rows of unequal length
//	ErrNegativeEntry     — an entry below zero
//	ErrNonFinite         — NaN or ±Inf entry
//	ErrDimensionMismatch — vector length disagrees with the matrix shape
//
// All shape violations are fatal and detected before any arithmetic runs.
package response
