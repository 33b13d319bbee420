package mlem

import (
	"fmt"
	"math"

	"github.com/spectrolab/unfold/response"
)

// Solve runs the multiplicative iterative unfolding loop — MLEM when
// opts.Beta == 0, MAP otherwise — from the given initial spectrum until
// every channel ratio sits strictly inside the tolerance band or the
// iteration budget is spent.
//
// measured must have the model's channel count, initial the model's bin
// count; both must be finite and non-negative throughout. All shape and
// settings validation happens before the first iteration.
//
// The solver's state is the spectrum alone: passing a previous Result's
// Spectrum as initial with Cutoff = k2 continues the original trajectory
// exactly, as if the first run had been given k1+k2 iterations.
//
// Errors: validation sentinels from Options.Validate, ErrDimensionMismatch,
// ErrBadInput, and *InstabilityError (wrapping ErrUnstable) when a forward
// estimate or a MAP denominator becomes non-positive mid-run.
//
// Complexity: O(Iterations·channels·bins) time, O(channels+bins) space.
func Solve(model *response.Model, measured, initial []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("mlem: nil response model: %w", ErrBadInput)
	}
	if len(measured) != model.Channels() {
		return nil, fmt.Errorf("mlem: %d measurements, model has %d channels: %w", len(measured), model.Channels(), ErrDimensionMismatch)
	}
	if len(initial) != model.Bins() {
		return nil, fmt.Errorf("mlem: initial spectrum has %d bins, model has %d: %w", len(initial), model.Bins(), ErrDimensionMismatch)
	}
	if err := checkNonNegative("measurement", measured); err != nil {
		return nil, err
	}
	if err := checkNonNegative("initial spectrum", initial); err != nil {
		return nil, err
	}

	prior, err := lookupPrior(opts.Prior)
	if err != nil {
		return nil, err
	}

	bins := model.Bins()
	sens := model.Sensitivity()

	// Working state. spectrum is mutated in place across iterations; every
	// other vector is ephemeral per iteration.
	spectrum := make([]float64, bins)
	copy(spectrum, initial)

	ratio := make([]float64, model.Channels())
	var correction []float64

	// penalty is only evaluated on the MAP path; Beta == 0 must reproduce
	// the MLEM arithmetic bit for bit, so the penalty term never enters.
	var penalty []float64
	if opts.Beta > 0 {
		penalty = make([]float64, bins)
	}

	iterations := 0
	status := MaxIterationsReached

	for k := 1; k <= opts.Cutoff; k++ {
		estimate, ferr := model.Forward(spectrum)
		if ferr != nil {
			return nil, ferr
		}
		for i, e := range estimate {
			if math.IsNaN(e) || e <= 0 {
				return nil, &InstabilityError{Iteration: k, Index: i, Quantity: "forward estimate", Value: e}
			}
			ratio[i] = measured[i] / e
		}

		correction, err = model.Backproject(ratio)
		if err != nil {
			return nil, err
		}

		if opts.Beta > 0 {
			prior(spectrum, penalty)
		}

		for j := 0; j < bins; j++ {
			denom := sens[j]
			if opts.Beta > 0 {
				denom += opts.Beta * penalty[j]
			}
			if math.IsNaN(denom) || denom <= 0 {
				return nil, &InstabilityError{Iteration: k, Index: j, Quantity: "denominator", Value: denom}
			}
			spectrum[j] *= correction[j] / denom
		}

		iterations = k
		if Within(ratio, opts.Tolerance) {
			status = Converged

			break
		}
	}

	res := &Result{
		Spectrum:   spectrum,
		Ratio:      append([]float64(nil), ratio...),
		Correction: correction,
		Iterations: iterations,
		Status:     status,
	}
	if opts.Beta > 0 {
		res.Penalty = append([]float64(nil), penalty...)
	}

	return res, nil
}

// checkNonNegative rejects NaN, ±Inf and negative entries with ErrBadInput,
// naming the vector and index in the wrapped message.
func checkNonNegative(what string, v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return fmt.Errorf("mlem: %s entry %d = %v: %w", what, i, x, ErrBadInput)
		}
	}

	return nil
}
