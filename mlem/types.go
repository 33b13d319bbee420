package mlem

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadCutoff is returned when Options.Cutoff is below one.
	ErrBadCutoff = errors.New("mlem: cutoff must be a positive iteration count")

	// ErrBadTolerance is returned when Options.Tolerance is outside (0, 1).
	ErrBadTolerance = errors.New("mlem: tolerance must satisfy 0 < tol < 1")

	// ErrBadBeta is returned when Options.Beta is negative or non-finite.
	ErrBadBeta = errors.New("mlem: beta must be finite and non-negative")

	// ErrUnknownPrior is returned when Options.Prior names no registered prior.
	ErrUnknownPrior = errors.New("mlem: unknown prior")

	// ErrDimensionMismatch is returned when the measurement or initial-spectrum
	// length disagrees with the response model's shape.
	ErrDimensionMismatch = errors.New("mlem: dimension mismatch")

	// ErrBadInput is returned when a measurement or initial-spectrum entry is
	// negative, NaN or ±Inf.
	ErrBadInput = errors.New("mlem: input vector entries must be finite and non-negative")

	// ErrUnstable is the sentinel matched (via errors.Is) by every
	// InstabilityError the solver produces.
	ErrUnstable = errors.New("mlem: numerical instability")
)

// InstabilityError reports a fatal numerical condition inside the iteration:
// a zero or negative forward estimate, or a non-positive MAP denominator.
// It wraps ErrUnstable and carries enough context to diagnose the failure
// without re-running.
type InstabilityError struct {
	Iteration int     // 1-indexed iteration in which the condition occurred
	Index     int     // channel index (estimate) or bin index (denominator)
	Quantity  string  // "forward estimate" or "denominator"
	Value     float64 // the offending value
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("mlem: iteration %d: %s at index %d is %v", e.Iteration, e.Quantity, e.Index, e.Value)
}

// Unwrap lets errors.Is(err, ErrUnstable) match.
func (e *InstabilityError) Unwrap() error { return ErrUnstable }

// Status is the terminal state of a solver run.
type Status int

const (
	// Converged: every channel ratio ended strictly inside (1−tol, 1+tol).
	Converged Status = iota

	// MaxIterationsReached: the iteration budget ran out first.
	MaxIterationsReached
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Converged:
		return "Converged"
	case MaxIterationsReached:
		return "MaxIterationsReached"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Options configures one solver run.
//
// Fields:
//   - Cutoff    — maximum number of iterations (≥ 1).
//   - Tolerance — relative convergence band half-width; the run converges
//     when every channel ratio is strictly inside (1−Tolerance, 1+Tolerance).
//   - Beta      — regularization weight; 0 selects plain MLEM, > 0 selects
//     the MAP variant.
//   - Prior     — registered prior name used when Beta > 0 (see Priors).
type Options struct {
	Cutoff    int
	Tolerance float64
	Beta      float64
	Prior     string
}

// DefaultOptions returns production-safe defaults: a generous iteration
// budget, a 1% convergence band, no regularization, quadratic prior.
func DefaultOptions() Options {
	return Options{
		Cutoff:    4000,
		Tolerance: 0.01,
		Beta:      0,
		Prior:     PriorQuadratic,
	}
}

// Validate checks the settings and resolves the prior name against the
// registry. It fails before any numerical work: an unknown prior is a
// configuration error, never a mid-run surprise.
func (o Options) Validate() error {
	if o.Cutoff < 1 {
		return fmt.Errorf("mlem: cutoff %d: %w", o.Cutoff, ErrBadCutoff)
	}
	if math.IsNaN(o.Tolerance) || o.Tolerance <= 0 || o.Tolerance >= 1 {
		return fmt.Errorf("mlem: tolerance %v: %w", o.Tolerance, ErrBadTolerance)
	}
	if math.IsNaN(o.Beta) || math.IsInf(o.Beta, 0) || o.Beta < 0 {
		return fmt.Errorf("mlem: beta %v: %w", o.Beta, ErrBadBeta)
	}
	if _, err := lookupPrior(o.Prior); err != nil {
		return err
	}

	return nil
}

// Result is the outcome of a solver run. Spectrum and Ratio are stable
// copies owned by the caller; the solver keeps no reference to them.
type Result struct {
	// Spectrum is the reconstructed per-bin flux at termination.
	Spectrum []float64

	// Ratio is the final per-channel measured/estimated quotient — the
	// convergence signal of the last executed iteration.
	Ratio []float64

	// Correction is the final per-bin backprojected correction vector.
	Correction []float64

	// Penalty is the final per-bin regularization term. Nil for plain MLEM
	// (Beta == 0); populated for MAP runs for diagnostic consumption.
	Penalty []float64

	// Iterations is the number of iterations actually executed (≤ Cutoff).
	Iterations int

	// Status reports how the run terminated.
	Status Status
}
