package metrics

import (
	"errors"
	"fmt"
)

// ErrBadSeries is returned when a derivative series is too short or its
// iteration counts are not strictly increasing.
var ErrBadSeries = errors.New("metrics: derivative series needs ≥ 2 points with strictly increasing iteration counts")

// Derivatives computes the finite-difference slope of a parameter-of-interest
// series sampled at increasing iteration counts:
//
//	out[i−1] = (poi[i] − poi[i−1]) / (iterations[i] − iterations[i−1])
//
// for i ≥ 1. There is no slope for the first sample, so index 0 is omitted
// by contract: the result has len(poi)−1 entries, aligned with
// iterations[1:]. Requires len(poi) == len(iterations) ≥ 2 and strictly
// increasing iteration counts.
func Derivatives(poi []float64, iterations []int) ([]float64, error) {
	if len(poi) != len(iterations) {
		return nil, fmt.Errorf("metrics: %d POI values, %d iteration counts: %w", len(poi), len(iterations), ErrDimensionMismatch)
	}
	if len(poi) < 2 {
		return nil, ErrBadSeries
	}

	out := make([]float64, len(poi)-1)
	for i := 1; i < len(poi); i++ {
		step := iterations[i] - iterations[i-1]
		if step <= 0 {
			return nil, fmt.Errorf("metrics: iteration counts %d → %d at index %d: %w", iterations[i-1], iterations[i], i, ErrBadSeries)
		}
		out[i-1] = (poi[i] - poi[i-1]) / float64(step)
	}

	return out, nil
}
