package mlem_test

import (
	"math"
	"testing"

	"github.com/spectrolab/unfold/mlem"
	"github.com/spectrolab/unfold/response"
)

// benchModel builds a deterministic 8-channel × 52-bin response with broad
// overlapping peaks, the shape class a moderated detector set produces.
func benchModel(b *testing.B) (*response.Model, []float64, []float64) {
	b.Helper()

	const channels, bins = 8, 52
	rows := make([][]float64, channels)
	for i := range rows {
		rows[i] = make([]float64, bins)
		centre := float64(i) * float64(bins-1) / float64(channels-1)
		for j := range rows[i] {
			d := float64(j) - centre
			rows[i][j] = math.Exp(-d * d / 50)
		}
	}
	model, err := response.NewModel(rows)
	if err != nil {
		b.Fatal(err)
	}

	truth := make([]float64, bins)
	for j := range truth {
		truth[j] = 1 + math.Sin(float64(j)/7)*0.5
	}
	measured, err := model.Forward(truth)
	if err != nil {
		b.Fatal(err)
	}

	initial := make([]float64, bins)
	for j := range initial {
		initial[j] = 1
	}

	return model, measured, initial
}

func BenchmarkSolve(b *testing.B) {
	model, measured, initial := benchModel(b)
	opts := mlem.DefaultOptions()
	opts.Cutoff = 200
	opts.Tolerance = 1e-9

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mlem.Solve(model, measured, initial, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveMAP(b *testing.B) {
	model, measured, initial := benchModel(b)
	opts := mlem.DefaultOptions()
	opts.Cutoff = 200
	opts.Tolerance = 1e-9
	opts.Beta = 1e-5
	opts.Prior = mlem.PriorQuadratic

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mlem.Solve(model, measured, initial, opts); err != nil {
			b.Fatal(err)
		}
	}
}
