package uncertainty

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/spectrolab/unfold/mlem"
	"github.com/spectrolab/unfold/response"
)

var (
	// ErrBadTrials is returned when Options.Trials is below one.
	ErrBadTrials = errors.New("uncertainty: trials must be a positive count")

	// ErrBadWorkers is returned when Options.Workers is negative.
	ErrBadWorkers = errors.New("uncertainty: workers must be non-negative")

	// ErrBadMeasurement is returned when a measured rate is negative, NaN or ±Inf.
	ErrBadMeasurement = errors.New("uncertainty: measured rates must be finite and non-negative")

	// ErrDimensionMismatch is returned when the measurement, initial or
	// reference vector length disagrees with the response model.
	ErrDimensionMismatch = errors.New("uncertainty: dimension mismatch")

	// ErrNoTrials is returned when DiscardUnstable dropped every trial,
	// leaving nothing to aggregate.
	ErrNoTrials = errors.New("uncertainty: all resampling trials were discarded")
)

// ScalarFunc derives a scalar parameter of interest (e.g. dose) from a
// reconstructed spectrum. It must be pure: trials evaluate it concurrently.
type ScalarFunc func(spectrum []float64) (float64, error)

// Options configures an uncertainty estimate.
//
// Fields:
//   - Trials          — number of Poisson resampling trials (typically ~1000).
//   - Seed            — run seed; 0 selects a fixed default so zero-value
//     configurations stay reproducible. Same seed ⇒ identical Report,
//     independent of Workers.
//   - Workers         — concurrent trial limit; 0 means GOMAXPROCS.
//   - DiscardUnstable — drop trials that hit numerical instability instead
//     of aborting the whole estimate.
type Options struct {
	Trials          int
	Seed            uint64
	Workers         int
	DiscardUnstable bool
}

// DefaultOptions returns the historical defaults: 1000 trials, fixed seed,
// one worker per CPU, abort on the first unstable trial.
func DefaultOptions() Options {
	return Options{
		Trials:          1000,
		Seed:            0,
		Workers:         0,
		DiscardUnstable: false,
	}
}

// Validate checks the resampling settings.
func (o Options) Validate() error {
	if o.Trials < 1 {
		return fmt.Errorf("uncertainty: trials %d: %w", o.Trials, ErrBadTrials)
	}
	if o.Workers < 0 {
		return fmt.Errorf("uncertainty: workers %d: %w", o.Workers, ErrBadWorkers)
	}

	return nil
}

// Report is the aggregated outcome of a resampling run.
type Report struct {
	// Spectrum[j] is the RMS deviation of the trial spectra from the single
	// reference estimate at bin j — deliberately NOT a sample standard
	// deviation about the ensemble mean (historical definition, see doc.go).
	Spectrum []float64

	// Scalar is the RMS deviation of the trial scalar values from the
	// reference scalar; only meaningful when HasScalar is true.
	Scalar    float64
	HasScalar bool

	// Trials counts the trials that contributed to the aggregates;
	// Discarded counts unstable trials dropped under DiscardUnstable.
	// Trials + Discarded equals the configured trial count.
	Trials    int
	Discarded int
}

// Estimate reruns the given solver configuration on Poisson-perturbed
// copies of the measurement vector and aggregates the per-bin (and
// optionally per-scalar) RMS deviation from the reference spectrum.
//
// reference must be the spectrum produced by running solver on (model,
// measured, initial) — the reference run itself is not repeated here.
// scalar may be nil when no scalar uncertainty is wanted.
//
// The trial loop is embarrassingly parallel: each trial draws from its own
// derived random stream and shares only the read-only model, so the Report
// is identical for any Workers value.
func Estimate(model *response.Model, measured, initial, reference []float64, solver mlem.Options, scalar ScalarFunc, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := solver.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("uncertainty: nil response model: %w", ErrDimensionMismatch)
	}
	if len(measured) != model.Channels() {
		return nil, fmt.Errorf("uncertainty: %d measurements, model has %d channels: %w", len(measured), model.Channels(), ErrDimensionMismatch)
	}
	if len(initial) != model.Bins() {
		return nil, fmt.Errorf("uncertainty: initial spectrum has %d bins, model has %d: %w", len(initial), model.Bins(), ErrDimensionMismatch)
	}
	if len(reference) != model.Bins() {
		return nil, fmt.Errorf("uncertainty: reference spectrum has %d bins, model has %d: %w", len(reference), model.Bins(), ErrDimensionMismatch)
	}
	for i, v := range measured {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("uncertainty: measured rate %d = %v: %w", i, v, ErrBadMeasurement)
		}
	}

	var refScalar float64
	if scalar != nil {
		var err error
		refScalar, err = scalar(reference)
		if err != nil {
			return nil, fmt.Errorf("uncertainty: reference scalar: %w", err)
		}
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Per-trial slots; index by trial so aggregation order is fixed and
	// independent of goroutine scheduling.
	spectra := make([][]float64, opts.Trials)
	scalars := make([]float64, opts.Trials)
	dropped := make([]bool, opts.Trials)

	var g errgroup.Group
	g.SetLimit(workers)
	for t := 0; t < opts.Trials; t++ {
		t := t
		g.Go(func() error {
			synth := resample(measured, trialSource(opts.Seed, t))

			res, err := mlem.Solve(model, synth, initial, solver)
			if err != nil {
				if opts.DiscardUnstable && errors.Is(err, mlem.ErrUnstable) {
					dropped[t] = true

					return nil
				}

				return fmt.Errorf("uncertainty: trial %d: %w", t, err)
			}
			spectra[t] = res.Spectrum

			if scalar != nil {
				scalars[t], err = scalar(res.Spectrum)
				if err != nil {
					return fmt.Errorf("uncertainty: trial %d scalar: %w", t, err)
				}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bins := model.Bins()
	sq := make([]float64, bins)
	var sqScalar float64
	kept := 0
	for t := 0; t < opts.Trials; t++ {
		if dropped[t] {
			continue
		}
		kept++
		for j, v := range spectra[t] {
			d := v - reference[j]
			sq[j] += d * d
		}
		if scalar != nil {
			d := scalars[t] - refScalar
			sqScalar += d * d
		}
	}
	if kept == 0 {
		return nil, ErrNoTrials
	}

	rep := &Report{
		Spectrum:  make([]float64, bins),
		Trials:    kept,
		Discarded: opts.Trials - kept,
		HasScalar: scalar != nil,
	}
	n := float64(kept)
	for j := range sq {
		rep.Spectrum[j] = math.Sqrt(sq[j] / n)
	}
	if scalar != nil {
		rep.Scalar = math.Sqrt(sqScalar / n)
	}

	return rep, nil
}

// resample draws one synthetic measurement vector: each channel is an
// independent Poisson variate whose mean is the real measured rate. A zero
// rate stays exactly zero.
func resample(measured []float64, src rand.Source) []float64 {
	synth := make([]float64, len(measured))
	for i, lambda := range measured {
		if lambda == 0 {
			continue
		}
		p := distuv.Poisson{Lambda: lambda, Src: src}
		synth[i] = p.Rand()
	}

	return synth
}
