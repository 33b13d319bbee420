// Package sweep runs the diagnostic modes that study how a reconstruction
// evolves with iteration count and regularization weight, without ever
// recomputing a trajectory from scratch.
//
// # Modes
//
//	mlem               — a parameter of interest sampled at a grid of
//	                     iteration counts; optionally its finite-difference
//	                     derivative series
//	map                — the same parameter over a (beta × iteration-count)
//	                     surface, the spectrum re-initialized per beta
//	trend              — reconstructed per-channel measurements (or their
//	                     ratios to the real data) per iteration count
//	correction_factors — the per-bin backprojected correction vector per
//	                     iteration count
//
// The iteration scan exploits the solver's resume property: after sampling
// at N₁, the spectrum is carried forward and only N₂−N₁ further iterations
// are run to sample at N₂, which is exactly equivalent to a fresh N₂-long
// run. Beta grids cover each decade between MinBeta and MaxBeta with ten
// linearly spaced values.
//
// All mode, parameter-of-interest and prior names are resolved against
// their registries by Config.Validate before any solve starts; an unknown
// name can never fail a sweep midway. Results are returned as in-memory
// tables — rendering and CSV writing belong to the caller.
package sweep
