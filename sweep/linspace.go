package sweep

import "math"

// iterationGrid returns the sampled iteration counts min, …, max with
// (max−min)/incr + 1 evenly spaced integer entries. Matches the historical
// linearly-spaced integer grid: the step is computed in floating point and
// each sample rounded, so a range that is not an exact multiple of incr
// still lands on both endpoints.
func iterationGrid(min, max, incr int) []int {
	if max == min {
		return []int{min}
	}
	n := (max-min)/incr + 1
	if n < 2 {
		return []int{min, max}
	}

	step := float64(max-min) / float64(n-1)
	out := make([]int, n)
	for i := range out {
		out[i] = min + int(math.Round(float64(i)*step))
	}
	out[n-1] = max

	return out
}

// betaGrid covers each decade between min and max with ten linearly spaced
// values: min, 2·min, …, 10·min, then the next decade, and so on. Matches
// the historical decade grid used by the MAP surface sweep.
func betaGrid(min, max float64) []float64 {
	decades := int(math.Round(math.Log10(max / min)))
	if decades < 1 {
		decades = 1
	}

	out := make([]float64, 0, 10*decades)
	current := min
	for d := 0; d < decades; d++ {
		step := (current*10 - current) / 9
		for i := 0; i < 10; i++ {
			out = append(out, current+float64(i)*step)
		}
		current *= 10
	}

	return out
}
