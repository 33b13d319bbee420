package metrics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spectrolab/unfold/response"
)

// Parameter-of-interest names accepted by Lookup. These are the historical
// configuration-file identifiers, kept verbatim so existing setups keep
// working.
const (
	POITotalFluence          = "total_fluence"
	POITotalDose             = "total_dose"
	POIMaxRatio              = "max_mlem_ratio"
	POIAvgRatio              = "avg_mlem_ratio"
	POIReducedChiSquared     = "reduced_chi_squared"
	POIRMS                   = "rms"
	POINRMSD                 = "nrmsd"
	POIChiSquaredG           = "chi_squared_g"
	POIJFactor               = "j_factor"
	POITotalEnergyCorrection = "total_energy_correction"
)

var (
	// ErrUnknownMetric is returned by Lookup for an unregistered name.
	ErrUnknownMetric = errors.New("metrics: unknown parameter of interest")

	// ErrMissingInput is returned when a Func is invoked without a vector
	// its calculator requires (e.g. "rms" without a reference spectrum).
	ErrMissingInput = errors.New("metrics: missing input for parameter of interest")
)

// Inputs bundles everything a registered calculator may consume. Callers
// fill only what they have; each Func validates its own requirements before
// any numerical work.
type Inputs struct {
	Spectrum  []float64       // reconstructed spectrum
	Measured  []float64       // measurement vector (counts per second)
	Ratio     []float64       // final measured/estimated ratio
	Reference []float64       // externally supplied reference spectrum
	ICRP      []float64       // per-bin fluence-to-dose conversion factors
	Penalty   []float64       // MAP penalty vector
	Model     *response.Model // response model
	DOF       int             // degrees of freedom for reduced χ²
}

// Func is a resolved parameter-of-interest calculator.
type Func func(in Inputs) (float64, error)

var registry = map[string]Func{
	POITotalFluence: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POITotalFluence); err != nil {
			return 0, err
		}

		return TotalFlux(in.Spectrum), nil
	},
	POITotalDose: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POITotalDose); err != nil {
			return 0, err
		}
		if err := need(in.ICRP, "ICRP factors", POITotalDose); err != nil {
			return 0, err
		}

		return Dose(in.Spectrum, in.ICRP)
	},
	POIMaxRatio: func(in Inputs) (float64, error) {
		if err := need(in.Ratio, "ratio", POIMaxRatio); err != nil {
			return 0, err
		}

		return MaxRatio(in.Ratio)
	},
	POIAvgRatio: func(in Inputs) (float64, error) {
		if err := need(in.Ratio, "ratio", POIAvgRatio); err != nil {
			return 0, err
		}

		return AvgRatio(in.Ratio)
	},
	POIReducedChiSquared: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POIReducedChiSquared); err != nil {
			return 0, err
		}
		if err := need(in.Measured, "measurements", POIReducedChiSquared); err != nil {
			return 0, err
		}
		if in.Model == nil {
			return 0, fmt.Errorf("metrics: %q needs a response model: %w", POIReducedChiSquared, ErrMissingInput)
		}

		return ReducedChiSquared(in.Spectrum, in.Measured, in.Model, in.DOF)
	},
	POIRMS: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POIRMS); err != nil {
			return 0, err
		}
		if err := need(in.Reference, "reference spectrum", POIRMS); err != nil {
			return 0, err
		}

		return RMS(in.Spectrum, in.Reference)
	},
	POINRMSD: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POINRMSD); err != nil {
			return 0, err
		}
		if err := need(in.Reference, "reference spectrum", POINRMSD); err != nil {
			return 0, err
		}

		return NRMSD(in.Spectrum, in.Reference)
	},
	POIChiSquaredG: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POIChiSquaredG); err != nil {
			return 0, err
		}
		if err := need(in.Reference, "reference spectrum", POIChiSquaredG); err != nil {
			return 0, err
		}

		return ChiSquaredG(in.Spectrum, in.Reference)
	},
	POIJFactor: func(in Inputs) (float64, error) {
		if err := need(in.Spectrum, "spectrum", POIJFactor); err != nil {
			return 0, err
		}
		if err := need(in.Measured, "measurements", POIJFactor); err != nil {
			return 0, err
		}
		if err := need(in.Ratio, "ratio", POIJFactor); err != nil {
			return 0, err
		}

		return JFactor(in.Spectrum, in.Measured, in.Ratio)
	},
	POITotalEnergyCorrection: func(in Inputs) (float64, error) {
		if err := need(in.Penalty, "penalty vector", POITotalEnergyCorrection); err != nil {
			return 0, err
		}

		return TotalEnergyCorrection(in.Penalty), nil
	},
}

// Lookup resolves a parameter-of-interest name to its calculator. Unknown
// names fail here — at configuration time — wrapping ErrUnknownMetric with
// the offending name and the registered set.
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("metrics: %q (known: %v): %w", name, Names(), ErrUnknownMetric)
	}

	return fn, nil
}

// Names lists the registered parameter-of-interest names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// need reports ErrMissingInput when a required vector was not supplied.
func need(v []float64, what, poi string) error {
	if v == nil {
		return fmt.Errorf("metrics: %q needs %s: %w", poi, what, ErrMissingInput)
	}

	return nil
}
