package mlem

import "math"

// Within is the convergence predicate shared by the MLEM and MAP loops:
// it reports whether every entry of ratio lies strictly inside the open
// band (1−tol, 1+tol). A single channel outside the band — or any NaN —
// forces another iteration. An empty ratio vector is never within
// tolerance.
//
// Complexity: O(channels), short-circuiting on the first failing channel.
func Within(ratio []float64, tol float64) bool {
	if len(ratio) == 0 {
		return false
	}
	for _, r := range ratio {
		if math.IsNaN(r) || r <= 1-tol || r >= 1+tol {
			return false
		}
	}

	return true
}
