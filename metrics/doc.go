// Package metrics provides the pure, deterministic calculators that turn a
// reconstructed spectrum (plus measurements, ratio, reference spectrum or
// penalty vector) into reportable scalars — the "parameters of interest" of
// an unfolding run — together with a finite-difference derivative helper.
//
// Every calculator is total over its documented domain: it either returns a
// value or an error, never a partial result. Length mismatches return
// ErrDimensionMismatch; values outside a calculator's domain (for example a
// non-positive forward estimate under χ²) return ErrDomain.
//
// # Registry
//
// Calculators are also exposed behind a validated name registry keyed by the
// historical parameter-of-interest names:
//
//	total_fluence, total_dose, max_mlem_ratio, avg_mlem_ratio,
//	reduced_chi_squared, rms, nrmsd, chi_squared_g, j_factor,
//	total_energy_correction
//
// Lookup resolves a name to a Func once, at configuration time; an unknown
// name fails with ErrUnknownMetric before any numerical work begins. A Func
// consumes an Inputs bundle and reports ErrMissingInput when a required
// vector was not supplied — again before touching the numbers.
//
// # Units
//
// Dose assumes per-bin fluence rates in n·cm⁻²·s⁻¹ and ICRP conversion
// factors in pSv·cm²; the result is an ambient dose equivalent rate in
// mSv/hr (pSv/s → mSv/hr scale: 3600·1e−9).
package metrics
