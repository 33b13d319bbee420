package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/spectrolab/unfold/response"
)

var (
	// ErrDimensionMismatch is returned when two vectors that must share a
	// length do not.
	ErrDimensionMismatch = errors.New("metrics: dimension mismatch")

	// ErrEmptyVector is returned when a calculator needs at least one entry.
	ErrEmptyVector = errors.New("metrics: empty vector")

	// ErrDomain is returned when an input value falls outside a calculator's
	// documented domain (e.g. a non-positive estimate under χ², a
	// non-positive reference bin under the deviance statistic).
	ErrDomain = errors.New("metrics: value outside calculator domain")

	// ErrBadDOF is returned when a degrees-of-freedom count is below one.
	ErrBadDOF = errors.New("metrics: degrees of freedom must be positive")
)

// doseScale converts a summed pSv/s fluence-rate contribution into mSv/hr.
const doseScale = 3600 * 1e-9

// TotalFlux sums the per-bin fluence rates of a spectrum.
func TotalFlux(spectrum []float64) float64 {
	return floats.Sum(spectrum)
}

// Dose folds a spectrum with per-bin ICRP fluence-to-dose conversion
// factors (pSv·cm²) and scales the total to an ambient dose equivalent
// rate in mSv/hr.
func Dose(spectrum, icrp []float64) (float64, error) {
	if len(spectrum) != len(icrp) {
		return 0, fmt.Errorf("metrics: spectrum has %d bins, ICRP factors %d: %w", len(spectrum), len(icrp), ErrDimensionMismatch)
	}
	if len(spectrum) == 0 {
		return 0, ErrEmptyVector
	}

	return floats.Dot(spectrum, icrp) * doseScale, nil
}

// MaxRatio reports the largest absolute deviation of the ratio vector
// from unity: max_i |ratio[i] − 1|.
func MaxRatio(ratio []float64) (float64, error) {
	if len(ratio) == 0 {
		return 0, ErrEmptyVector
	}
	var max float64
	for _, r := range ratio {
		if d := math.Abs(r - 1); d > max {
			max = d
		}
	}

	return max, nil
}

// AvgRatio reports the mean absolute deviation of the ratio vector from
// unity: (1/m)·Σ_i |ratio[i] − 1|.
func AvgRatio(ratio []float64) (float64, error) {
	if len(ratio) == 0 {
		return 0, ErrEmptyVector
	}
	var sum float64
	for _, r := range ratio {
		sum += math.Abs(r - 1)
	}

	return sum / float64(len(ratio)), nil
}

// ChiSquared is the Pearson goodness-of-fit between the measurements and
// the forward-projected spectrum: Σ_i (measured[i] − estimate[i])² /
// estimate[i]. Every estimate must be strictly positive (ErrDomain).
func ChiSquared(spectrum, measured []float64, model *response.Model) (float64, error) {
	if model == nil {
		return 0, fmt.Errorf("metrics: nil response model: %w", ErrDomain)
	}
	if len(measured) != model.Channels() {
		return 0, fmt.Errorf("metrics: %d measurements, model has %d channels: %w", len(measured), model.Channels(), ErrDimensionMismatch)
	}
	estimate, err := model.Forward(spectrum)
	if err != nil {
		return 0, err
	}

	var chi2 float64
	for i, e := range estimate {
		if math.IsNaN(e) || e <= 0 {
			return 0, fmt.Errorf("metrics: forward estimate %d = %v: %w", i, e, ErrDomain)
		}
		d := measured[i] - e
		chi2 += d * d / e
	}

	return chi2, nil
}

// ReducedChiSquared divides the Pearson χ² by a configured
// degrees-of-freedom count (≥ 1, ErrBadDOF otherwise).
func ReducedChiSquared(spectrum, measured []float64, model *response.Model, dof int) (float64, error) {
	if dof < 1 {
		return 0, fmt.Errorf("metrics: dof %d: %w", dof, ErrBadDOF)
	}
	chi2, err := ChiSquared(spectrum, measured, model)
	if err != nil {
		return 0, err
	}

	return chi2 / float64(dof), nil
}

// RMS is the raw bin-wise sum of squared deviations between a spectrum and
// an externally supplied reference spectrum: Σ_j (s[j] − ref[j])².
func RMS(spectrum, reference []float64) (float64, error) {
	if len(spectrum) != len(reference) {
		return 0, fmt.Errorf("metrics: spectrum has %d bins, reference %d: %w", len(spectrum), len(reference), ErrDimensionMismatch)
	}
	if len(spectrum) == 0 {
		return 0, ErrEmptyVector
	}

	var sum float64
	for j, s := range spectrum {
		d := s - reference[j]
		sum += d * d
	}

	return sum, nil
}

// NRMSD is the root-mean-square deviation between spectrum and reference,
// normalized by the reference mean: sqrt(Σ(s−ref)²/n) / mean(ref).
// The reference mean must be strictly positive (ErrDomain).
func NRMSD(spectrum, reference []float64) (float64, error) {
	sum, err := RMS(spectrum, reference)
	if err != nil {
		return 0, err
	}
	n := float64(len(reference))
	mean := floats.Sum(reference) / n
	if math.IsNaN(mean) || mean <= 0 {
		return 0, fmt.Errorf("metrics: reference mean %v: %w", mean, ErrDomain)
	}

	return math.Sqrt(sum/n) / mean, nil
}

// ChiSquaredG is the Poisson-deviance statistic between a spectrum and a
// reference spectrum: 2·Σ_j [ s[j]·ln(s[j]/ref[j]) − (s[j] − ref[j]) ],
// with the s → 0 limit of a term taken as 2·ref[j]. Every reference bin
// must be strictly positive and every spectrum bin non-negative
// (ErrDomain).
func ChiSquaredG(spectrum, reference []float64) (float64, error) {
	if len(spectrum) != len(reference) {
		return 0, fmt.Errorf("metrics: spectrum has %d bins, reference %d: %w", len(spectrum), len(reference), ErrDimensionMismatch)
	}
	if len(spectrum) == 0 {
		return 0, ErrEmptyVector
	}

	var g float64
	for j, s := range spectrum {
		r := reference[j]
		if math.IsNaN(r) || r <= 0 {
			return 0, fmt.Errorf("metrics: reference bin %d = %v: %w", j, r, ErrDomain)
		}
		switch {
		case math.IsNaN(s) || s < 0:
			return 0, fmt.Errorf("metrics: spectrum bin %d = %v: %w", j, s, ErrDomain)
		case s == 0:
			g += 2 * r
		default:
			g += 2 * (s*math.Log(s/r) - (s - r))
		}
	}

	return g, nil
}

// JFactor is a composite score combining fit quality and spectral
// smoothness:
//
//	J = (1/m)·Σ_i measured[i]·(ratio[i]−1)²/ratio[i]  +  (1/n)·Σ_j Δ²s[j]²
//
// The first term equals the Pearson χ² per channel when ratio is the
// solver's measured/estimated quotient (estimate = measured/ratio); the
// second is the squared second difference of the spectrum per bin. Every
// ratio entry must be strictly positive (ErrDomain).
func JFactor(spectrum, measured, ratio []float64) (float64, error) {
	if len(measured) != len(ratio) {
		return 0, fmt.Errorf("metrics: %d measurements, %d ratio entries: %w", len(measured), len(ratio), ErrDimensionMismatch)
	}
	if len(measured) == 0 || len(spectrum) == 0 {
		return 0, ErrEmptyVector
	}

	var fit float64
	for i, r := range ratio {
		if math.IsNaN(r) || r <= 0 {
			return 0, fmt.Errorf("metrics: ratio entry %d = %v: %w", i, r, ErrDomain)
		}
		d := r - 1
		fit += measured[i] * d * d / r
	}
	fit /= float64(len(measured))

	var smooth float64
	for j := 1; j < len(spectrum)-1; j++ {
		d2 := spectrum[j-1] - 2*spectrum[j] + spectrum[j+1]
		smooth += d2 * d2
	}
	smooth /= float64(len(spectrum))

	return fit + smooth, nil
}

// TotalEnergyCorrection sums the MAP penalty vector. Diagnostic only: it
// tracks how much regularization pressure the prior exerted at termination.
func TotalEnergyCorrection(penalty []float64) float64 {
	return floats.Sum(penalty)
}
