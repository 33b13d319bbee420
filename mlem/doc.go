// Package mlem implements the multiplicative iterative unfolding algorithms
// that turn a measurement vector and a response model into a spectrum
// estimate: plain MLEM (Maximum-Likelihood Expectation-Maximization) and its
// regularized MAP (Maximum A Posteriori) variant.
//
// # Algorithm
//
// Per iteration k, with spectrum s, measurements d and response model R:
//
//	estimate  = R·s                           (forward projection)
//	ratio[i]  = d[i] / estimate[i]            (convergence signal)
//	corr      = Rᵀ·ratio                      (backprojection)
//	s[j]     *= corr[j] / denom[j]
//
// where denom[j] is the cached sensitivity Σ_i R[i][j] for MLEM, and
// sensitivity[j] + β·penalty[j] for MAP with a one-step-late smoothness
// penalty evaluated on the current estimate. β = 0 takes the exact MLEM
// arithmetic path, so both variants produce bit-identical trajectories.
//
// The iteration stops as soon as every channel's ratio lies strictly inside
// the open band (1−tol, 1+tol) — see Within — or after Cutoff iterations.
// Because every factor in the update is non-negative for non-negative
// inputs, no iterate can ever drive a bin negative.
//
// # Resuming
//
// The solver's entire state is the spectrum vector. Calling Solve with a
// previous Result's Spectrum as the initial estimate continues the
// trajectory exactly: k1 iterations followed by k2 more equals k1+k2
// iterations from scratch. Package sweep relies on this to scan iteration
// counts without recomputation.
//
// # API
//
//	opts := mlem.DefaultOptions()
//	opts.Cutoff = 100
//	opts.Tolerance = 0.001
//	res, err := mlem.Solve(model, measured, initial, opts)
//	// res.Spectrum, res.Ratio, res.Iterations, res.Status
//
// # Errors
//
//	ErrBadCutoff / ErrBadTolerance / ErrBadBeta — invalid settings,
//	  rejected by Options.Validate before any iteration
//	ErrUnknownPrior      — prior name not in the registry (fail-fast)
//	ErrDimensionMismatch — measured/initial lengths disagree with the model
//	ErrBadInput          — negative or non-finite measured/initial entries
//	ErrUnstable          — zero/negative forward estimate or non-positive
//	  MAP denominator; the wrapping InstabilityError carries the iteration,
//	  the channel or bin index, and the offending value
package mlem
