package sweep

import (
	"github.com/spectrolab/unfold/metrics"
	"github.com/spectrolab/unfold/mlem"
	"github.com/spectrolab/unfold/response"
)

// Aux carries the optional vectors some parameters of interest consume:
// ICRP dose-conversion factors for total_dose, an external reference
// spectrum for rms / nrmsd / chi_squared_g. Leave unused fields nil; a POI
// that needs a missing vector fails with metrics.ErrMissingInput.
type Aux struct {
	ICRP      []float64
	Reference []float64
}

// Series is the outcome of an mlem-mode sweep: one POI (or derivative)
// value per sampled iteration count.
type Series struct {
	Iterations []int
	Values     []float64
}

// Surface is the outcome of a map-mode sweep: Values[b][n] is the POI at
// Betas[b] and Iterations[n].
type Surface struct {
	Betas      []float64
	Iterations []int
	Values     [][]float64
}

// Trend is the outcome of a trend-mode sweep: Baseline holds the real
// measured rates (cps flavour) or all-ones (ratio flavour), and Rows[n]
// the reconstructed counterpart at Iterations[n].
type Trend struct {
	Iterations []int
	Baseline   []float64
	Rows       [][]float64
}

// Corrections is the outcome of a correction_factors-mode sweep: Rows[n]
// is the per-bin backprojected correction vector at Iterations[n].
type Corrections struct {
	Iterations []int
	Rows       [][]float64
}

// Outcome bundles the result of Run; exactly one of the mode fields is
// non-nil, matching Algorithm.
type Outcome struct {
	Algorithm   string
	Series      *Series
	Surface     *Surface
	Trend       *Trend
	Corrections *Corrections
}

// Run validates cfg once and dispatches to the selected sweep mode.
func Run(model *response.Model, measured, initial []float64, aux Aux, cfg Config) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := &Outcome{Algorithm: cfg.Algorithm}
	var err error
	switch cfg.Algorithm {
	case AlgorithmMLEM:
		out.Series, err = RunMLEM(model, measured, initial, aux, cfg)
	case AlgorithmMAP:
		out.Surface, err = RunMAP(model, measured, initial, aux, cfg)
	case AlgorithmTrend:
		out.Trend, err = RunTrend(model, measured, initial, cfg)
	case AlgorithmCorrectionFactors:
		out.Corrections, err = RunCorrectionFactors(model, measured, initial, cfg)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// scan walks the iteration grid with the solver's resume property: the
// spectrum is carried forward between samples and only the iteration delta
// is re-run. visit is called once per sampled count with the segment's
// final solver result (state after exactly grid[idx] total iterations).
func scan(model *response.Model, measured, initial []float64, beta float64, cfg Config, grid []int, visit func(idx int, res *mlem.Result) error) error {
	current := append([]float64(nil), initial...)

	var last *mlem.Result
	prev := 0
	for idx, n := range grid {
		// The grid is strictly increasing and starts ≥ 1, so the first
		// segment always runs and last is never nil inside visit.
		if extra := n - prev; extra > 0 {
			res, err := mlem.Solve(model, measured, current, cfg.solverOptions(extra, beta))
			if err != nil {
				return err
			}
			current = res.Spectrum
			last = res
		}
		prev = n

		if err := visit(idx, last); err != nil {
			return err
		}
	}

	return nil
}

// RunMLEM samples a parameter of interest over the iteration grid, reusing
// the evolving spectrum between samples. With cfg.Derivatives the series is
// replaced by its finite-difference slope, aligned with Iterations[1:]
// (the first sample has no slope by contract).
func RunMLEM(model *response.Model, measured, initial []float64, aux Aux, cfg Config) (*Series, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	poi, err := metrics.Lookup(cfg.POI)
	if err != nil {
		return nil, err
	}

	grid := iterationGrid(cfg.MinIterations, cfg.MaxIterations, cfg.Increment)
	values := make([]float64, len(grid))

	err = scan(model, measured, initial, 0, cfg, grid, func(idx int, res *mlem.Result) error {
		v, perr := poi(metrics.Inputs{
			Spectrum:  res.Spectrum,
			Measured:  measured,
			Ratio:     res.Ratio,
			Reference: aux.Reference,
			ICRP:      aux.ICRP,
			Penalty:   res.Penalty,
			Model:     model,
			DOF:       cfg.DOF,
		})
		if perr != nil {
			return perr
		}
		values[idx] = v

		return nil
	})
	if err != nil {
		return nil, err
	}

	if cfg.Derivatives {
		slopes, derr := metrics.Derivatives(values, grid)
		if derr != nil {
			return nil, derr
		}

		return &Series{Iterations: grid[1:], Values: slopes}, nil
	}

	return &Series{Iterations: grid, Values: values}, nil
}

// RunMAP samples a parameter of interest over the full (beta ×
// iteration-count) surface. The spectrum is re-initialized for every beta;
// within one beta row the iteration grid resumes incrementally exactly as
// in RunMLEM.
func RunMAP(model *response.Model, measured, initial []float64, aux Aux, cfg Config) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	poi, err := metrics.Lookup(cfg.POI)
	if err != nil {
		return nil, err
	}

	betas := betaGrid(cfg.MinBeta, cfg.MaxBeta)
	grid := iterationGrid(cfg.MinIterations, cfg.MaxIterations, cfg.Increment)

	surface := &Surface{
		Betas:      betas,
		Iterations: grid,
		Values:     make([][]float64, len(betas)),
	}
	for b, beta := range betas {
		row := make([]float64, len(grid))
		err = scan(model, measured, initial, beta, cfg, grid, func(idx int, res *mlem.Result) error {
			v, perr := poi(metrics.Inputs{
				Spectrum:  res.Spectrum,
				Measured:  measured,
				Ratio:     res.Ratio,
				Reference: aux.Reference,
				ICRP:      aux.ICRP,
				Penalty:   res.Penalty,
				Model:     model,
				DOF:       cfg.DOF,
			})
			if perr != nil {
				return perr
			}
			row[idx] = v

			return nil
		})
		if err != nil {
			return nil, err
		}
		surface.Values[b] = row
	}

	return surface, nil
}

// RunTrend samples the reconstructed measured data per iteration count:
// cps rows hold measured[i]/ratio[i] (the forward-projected rate), ratio
// rows hold the raw convergence ratios. Channels whose ratio is zero
// produce a zero cps entry rather than an infinity.
func RunTrend(model *response.Model, measured, initial []float64, cfg Config) (*Trend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := iterationGrid(cfg.MinIterations, cfg.MaxIterations, cfg.Increment)
	trend := &Trend{
		Iterations: grid,
		Rows:       make([][]float64, len(grid)),
	}

	trend.Baseline = make([]float64, len(measured))
	if cfg.TrendType == TrendCPS {
		copy(trend.Baseline, measured)
	} else {
		for i := range trend.Baseline {
			trend.Baseline[i] = 1
		}
	}

	err := scan(model, measured, initial, 0, cfg, grid, func(idx int, res *mlem.Result) error {
		row := make([]float64, len(res.Ratio))
		for i, r := range res.Ratio {
			if cfg.TrendType == TrendCPS {
				if r != 0 {
					row[i] = measured[i] / r
				}
			} else {
				row[i] = r
			}
		}
		trend.Rows[idx] = row

		return nil
	})
	if err != nil {
		return nil, err
	}

	return trend, nil
}

// RunCorrectionFactors samples the per-bin backprojected correction vector
// per iteration count — the multiplicative pressure the measurements still
// exert on each bin.
func RunCorrectionFactors(model *response.Model, measured, initial []float64, cfg Config) (*Corrections, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := iterationGrid(cfg.MinIterations, cfg.MaxIterations, cfg.Increment)
	out := &Corrections{
		Iterations: grid,
		Rows:       make([][]float64, len(grid)),
	}

	err := scan(model, measured, initial, 0, cfg, grid, func(idx int, res *mlem.Result) error {
		out.Rows[idx] = append([]float64(nil), res.Correction...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
