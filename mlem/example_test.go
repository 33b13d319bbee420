package mlem_test

import (
	"fmt"

	"github.com/spectrolab/unfold/mlem"
	"github.com/spectrolab/unfold/response"
)

// ExampleSolve reconstructs a two-bin spectrum through an identity response:
// the unfolded flux reproduces the measurements themselves.
func ExampleSolve() {
	model, err := response.NewModel([][]float64{
		{1, 0},
		{0, 1},
	})
	if err != nil {
		fmt.Println("model:", err)

		return
	}

	opts := mlem.DefaultOptions()
	opts.Cutoff = 100
	opts.Tolerance = 0.001

	res, err := mlem.Solve(model, []float64{4, 9}, []float64{1, 1}, opts)
	if err != nil {
		fmt.Println("solve:", err)

		return
	}

	fmt.Printf("spectrum=%v status=%v iterations=%d\n", res.Spectrum, res.Status, res.Iterations)
	// Output:
	// spectrum=[4 9] status=Converged iterations=2
}
