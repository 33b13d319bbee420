package sweep

import (
	"errors"
	"fmt"
	"math"

	"github.com/spectrolab/unfold/metrics"
	"github.com/spectrolab/unfold/mlem"
)

// Algorithm selectors accepted by Config.Algorithm. These are the
// historical configuration-file identifiers.
const (
	AlgorithmMLEM              = "mlem"
	AlgorithmMAP               = "map"
	AlgorithmTrend             = "trend"
	AlgorithmCorrectionFactors = "correction_factors"
)

// Trend flavours accepted by Config.TrendType.
const (
	// TrendCPS compares reconstructed count rates (measured/ratio) against
	// the real measured rates.
	TrendCPS = "cps"

	// TrendRatio compares the raw measured/estimated ratios against unity.
	TrendRatio = "ratio"
)

var (
	// ErrUnknownAlgorithm is returned for an unregistered Algorithm name.
	ErrUnknownAlgorithm = errors.New("sweep: unknown algorithm")

	// ErrUnknownTrendType is returned for an unregistered TrendType name.
	ErrUnknownTrendType = errors.New("sweep: unknown trend type")

	// ErrBadIterationRange is returned when the MinIterations /
	// MaxIterations / Increment triple is not a valid ascending grid.
	ErrBadIterationRange = errors.New("sweep: invalid iteration range")

	// ErrBadBetaRange is returned when the MinBeta / MaxBeta pair does not
	// span at least one positive decade.
	ErrBadBetaRange = errors.New("sweep: invalid beta range")
)

// Config describes one diagnostic sweep. Validate resolves every name field
// through its registry, so a validated Config cannot fail on configuration
// grounds mid-sweep.
type Config struct {
	// Algorithm selects the sweep mode: mlem, map, trend, correction_factors.
	Algorithm string

	// POI names the parameter of interest (metrics registry) for the mlem
	// and map modes.
	POI string

	// TrendType selects cps or ratio rows for the trend mode.
	TrendType string

	// Iteration grid: MinIterations, MinIterations+step, …, MaxIterations,
	// with (MaxIterations−MinIterations)/Increment + 1 samples.
	MinIterations, MaxIterations, Increment int

	// Tolerance is the solver convergence band. A sweep usually wants the
	// full iteration grid, so pick a tolerance tight enough that early
	// convergence cannot truncate the scan.
	Tolerance float64

	// Beta decade grid bounds for the map mode (MinBeta > 0).
	MinBeta, MaxBeta float64

	// Prior is the MAP prior name (mlem registry) for the map mode.
	Prior string

	// Derivatives replaces the mlem-mode POI series with its
	// finite-difference slope series.
	Derivatives bool

	// DOF is the degrees-of-freedom count forwarded to reduced χ².
	DOF int
}

// DefaultConfig returns a ready-to-edit baseline: an MLEM sweep of total
// fluence over 1000…10000 iterations in steps of 1000.
func DefaultConfig() Config {
	return Config{
		Algorithm:     AlgorithmMLEM,
		POI:           metrics.POITotalFluence,
		TrendType:     TrendRatio,
		MinIterations: 1000,
		MaxIterations: 10000,
		Increment:     1000,
		Tolerance:     1e-6,
		MinBeta:       1e-10,
		MaxBeta:       1e-8,
		Prior:         mlem.PriorQuadratic,
		Derivatives:   false,
		DOF:           1,
	}
}

// Validate fails fast on every configuration error: unknown algorithm,
// POI, trend type or prior name, and malformed iteration or beta ranges.
func (c Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmMLEM, AlgorithmMAP:
		if _, err := metrics.Lookup(c.POI); err != nil {
			return err
		}
	case AlgorithmTrend:
		if c.TrendType != TrendCPS && c.TrendType != TrendRatio {
			return fmt.Errorf("sweep: trend type %q: %w", c.TrendType, ErrUnknownTrendType)
		}
	case AlgorithmCorrectionFactors:
		// no extra names to resolve
	default:
		return fmt.Errorf("sweep: algorithm %q: %w", c.Algorithm, ErrUnknownAlgorithm)
	}

	if c.MinIterations < 1 || c.MaxIterations < c.MinIterations || c.Increment < 1 {
		return fmt.Errorf("sweep: min %d, max %d, increment %d: %w", c.MinIterations, c.MaxIterations, c.Increment, ErrBadIterationRange)
	}

	// Solver settings are validated through the solver's own gate so the
	// two packages can never drift apart.
	if err := c.solverOptions(1, 0).Validate(); err != nil {
		return err
	}

	if c.Algorithm == AlgorithmMAP {
		if err := c.solverOptions(1, c.MinBeta).Validate(); err != nil {
			return err
		}
		if math.IsNaN(c.MinBeta) || math.IsNaN(c.MaxBeta) || c.MinBeta <= 0 || c.MaxBeta < c.MinBeta {
			return fmt.Errorf("sweep: beta range [%v, %v]: %w", c.MinBeta, c.MaxBeta, ErrBadBetaRange)
		}
	}

	return nil
}

// solverOptions builds the solver settings for one resume segment.
func (c Config) solverOptions(cutoff int, beta float64) mlem.Options {
	return mlem.Options{
		Cutoff:    cutoff,
		Tolerance: c.Tolerance,
		Beta:      beta,
		Prior:     c.Prior,
	}
}
