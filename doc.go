// Package unfold is an in-memory engine for reconstructing neutron
// energy-flux spectra from a handful of detector-channel count rates,
// together with the statistical machinery that makes the result usable:
// Monte-Carlo uncertainty propagation and scalar figures of merit.
//
// 🚀 What is unfold?
//
//	A small, deterministic library built around an EM-type fixed-point
//	iteration:
//		• response/    — dense response matrix: forward projection,
//		  backprojection, cached per-bin sensitivity
//		• mlem/        — MLEM and MAP (regularized) multiplicative
//		  solvers with a strict per-channel convergence band
//		• uncertainty/ — Poisson-resampling uncertainty estimator with
//		  reproducible, parallel-safe per-trial random streams
//		• metrics/     — parameters of interest (dose, χ², RMS deviation,
//		  J-factor, …) behind a validated name registry
//		• sweep/       — diagnostic sweeps of a parameter of interest over
//		  iteration counts and regularization weights
//
// ✨ Why choose unfold?
//
//   - Deterministic – same seed, same report, regardless of worker count
//   - Fail-fast – shapes, settings and metric names are validated before
//     any numerical work starts
//   - Non-negative by construction – the multiplicative update can never
//     drive a bin below zero
//   - Small and dense – built for order-of-ten channels by tens of energy
//     bins; no sparse machinery, no GPU, no linear-algebra framework
//
// The engine performs no file I/O, no text formatting and no rendering.
// Reading response matrices, measurement files and ICRP conversion tables,
// and reporting the results, belong to the calling program.
//
//	go get github.com/spectrolab/unfold
package unfold
