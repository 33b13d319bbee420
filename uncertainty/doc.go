// Package uncertainty propagates the Poisson counting noise of the measured
// data through the nonlinear unfolding solver by Monte-Carlo resampling.
//
// # Procedure
//
// For each of N trials, every channel of the real measurement vector is
// replaced by an independent draw from a Poisson distribution whose mean is
// that channel's measured rate; the same solver configuration that produced
// the reference spectrum is re-run on the synthetic vector. Per bin j the
// reported uncertainty is
//
//	u[j] = sqrt( mean_t( (spectrum_t[j] − reference[j])² ) )
//
// — the root-mean-square deviation of the trial spectra from the single
// reference estimate, NOT the sample standard deviation about the
// ensemble's own mean. Downstream consumers depend on this historical
// definition, so it is preserved verbatim; see Report. The same RMS form
// applies to the optional scalar parameter (e.g. dose).
//
// # Determinism and parallelism
//
// Trials are mutually independent and run on a bounded worker pool. Each
// trial owns a private random stream derived from (Seed, trial index) by a
// SplitMix64-style mix, so a given Seed produces an identical Report for
// any Workers setting, and results are aggregated in trial order. There is
// no process-wide generator and no shared mutable state between trials
// beyond the read-only response model.
//
// # Failed trials
//
// A trial that hits numerical instability aborts the whole estimate by
// default, with the trial index in the error chain. Setting
// Options.DiscardUnstable instead drops that single trial and counts it in
// Report.Discarded — an explicit policy, never a silent one. RMS
// denominators use the kept-trial count.
package uncertainty
