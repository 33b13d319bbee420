package mlem

import (
	"fmt"
	"sort"
)

// Registered prior names for the MAP variant. The penalty is evaluated
// one-step-late: on the current spectrum estimate, entering the next
// update's denominator as sensitivity[j] + β·penalty[j].
const (
	// PriorQuadratic is the second-difference smoothness prior:
	// penalty[j] = 2·s[j] − s[j−1] − s[j+1], reduced to the single existing
	// neighbour difference at the spectrum edges. Penalizes curvature.
	PriorQuadratic = "quadratic"

	// PriorMedianRoot is the median-root prior: penalty[j] =
	// (s[j] − med[j]) / med[j] with med[j] the median of the
	// three-bin neighbourhood around j (two bins at the edges). Zero where
	// the local median is zero. Pulls each bin toward its local median,
	// preserving monotonic structures better than quadratic smoothing.
	PriorMedianRoot = "median-root"
)

// priorFunc fills penalty (len == len(spectrum)) from the current spectrum
// estimate. Implementations must not allocate or retain either slice.
type priorFunc func(spectrum, penalty []float64)

var priors = map[string]priorFunc{
	PriorQuadratic:  quadraticPenalty,
	PriorMedianRoot: medianRootPenalty,
}

// Priors lists the registered prior names in sorted order.
func Priors() []string {
	names := make([]string, 0, len(priors))
	for name := range priors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// lookupPrior resolves a prior name, wrapping ErrUnknownPrior with the
// offending name and the allowed set.
func lookupPrior(name string) (priorFunc, error) {
	fn, ok := priors[name]
	if !ok {
		return nil, fmt.Errorf("mlem: prior %q (known: %v): %w", name, Priors(), ErrUnknownPrior)
	}

	return fn, nil
}

func quadraticPenalty(spectrum, penalty []float64) {
	n := len(spectrum)
	if n == 1 {
		penalty[0] = 0

		return
	}
	penalty[0] = spectrum[0] - spectrum[1]
	penalty[n-1] = spectrum[n-1] - spectrum[n-2]
	for j := 1; j < n-1; j++ {
		penalty[j] = 2*spectrum[j] - spectrum[j-1] - spectrum[j+1]
	}
}

func medianRootPenalty(spectrum, penalty []float64) {
	n := len(spectrum)
	for j := 0; j < n; j++ {
		med := localMedian(spectrum, j)
		if med > 0 {
			penalty[j] = (spectrum[j] - med) / med
		} else {
			penalty[j] = 0
		}
	}
}

// localMedian returns the median of the up-to-three-bin window centred on j.
// Two-element edge windows use the midpoint.
func localMedian(s []float64, j int) float64 {
	n := len(s)
	switch {
	case n == 1:
		return s[0]
	case j == 0:
		return (s[0] + s[1]) / 2
	case j == n-1:
		return (s[n-2] + s[n-1]) / 2
	default:
		return median3(s[j-1], s[j], s[j+1])
	}
}

func median3(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}

	return b
}
