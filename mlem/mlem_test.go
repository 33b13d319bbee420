package mlem_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrolab/unfold/mlem"
	"github.com/spectrolab/unfold/response"
)

// identity2 builds the 2×2 identity response model used by the basic
// reconstruction tests.
func identity2(t *testing.T) *response.Model {
	t.Helper()
	m, err := response.NewModel([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)

	return m
}

// TestSolve_IdentityConverges verifies the canonical sanity case: with an
// identity response the reconstruction must reproduce the measurements
// themselves, converging long before the iteration budget.
func TestSolve_IdentityConverges(t *testing.T) {
	opts := mlem.DefaultOptions()
	opts.Cutoff = 100
	opts.Tolerance = 0.001

	res, err := mlem.Solve(identity2(t), []float64{4, 9}, []float64{1, 1}, opts)
	require.NoError(t, err)

	assert.Equal(t, mlem.Converged, res.Status)
	assert.Less(t, res.Iterations, 100, "identity must converge well under the cutoff")
	assert.InDelta(t, 4, res.Spectrum[0], 1e-12)
	assert.InDelta(t, 9, res.Spectrum[1], 1e-12)
	for i, r := range res.Ratio {
		assert.InDelta(t, 1, r, opts.Tolerance, "final ratio %d must sit in the band", i)
	}
}

// TestSolve_DimensionMismatch verifies that mismatched vector lengths fail
// with ErrDimensionMismatch before any iteration runs.
func TestSolve_DimensionMismatch(t *testing.T) {
	rows := make([][]float64, 7)
	for i := range rows {
		rows[i] = []float64{1, 1, 1}
	}
	model, err := response.NewModel(rows)
	require.NoError(t, err)

	_, err = mlem.Solve(model, make([]float64, 8), []float64{1, 1, 1}, mlem.DefaultOptions())
	assert.ErrorIs(t, err, mlem.ErrDimensionMismatch, "8 measurements against 7 channels")

	_, err = mlem.Solve(model, make([]float64, 7), []float64{1, 1}, mlem.DefaultOptions())
	assert.ErrorIs(t, err, mlem.ErrDimensionMismatch, "2 initial bins against 3")
}

// TestSolve_RejectsBadVectors verifies that negative and non-finite input
// entries fail with ErrBadInput.
func TestSolve_RejectsBadVectors(t *testing.T) {
	model := identity2(t)

	_, err := mlem.Solve(model, []float64{-1, 2}, []float64{1, 1}, mlem.DefaultOptions())
	assert.ErrorIs(t, err, mlem.ErrBadInput, "negative measurement")

	_, err = mlem.Solve(model, []float64{1, 2}, []float64{math.NaN(), 1}, mlem.DefaultOptions())
	assert.ErrorIs(t, err, mlem.ErrBadInput, "NaN initial spectrum")

	_, err = mlem.Solve(nil, []float64{1, 2}, []float64{1, 1}, mlem.DefaultOptions())
	assert.ErrorIs(t, err, mlem.ErrBadInput, "nil model")
}

// TestSolve_NonNegativeSpectrum verifies the multiplicative update never
// produces a negative bin, whatever the iteration count.
func TestSolve_NonNegativeSpectrum(t *testing.T) {
	model, err := response.NewModel([][]float64{
		{1.0, 0.5, 0.1},
		{0.2, 1.0, 0.4},
		{0.1, 0.3, 1.0},
	})
	require.NoError(t, err)
	measured := []float64{7.3, 4.1, 9.8}
	initial := []float64{1, 1, 1}

	for _, cutoff := range []int{1, 2, 5, 20, 100} {
		opts := mlem.DefaultOptions()
		opts.Cutoff = cutoff
		opts.Tolerance = 1e-9

		res, serr := mlem.Solve(model, measured, initial, opts)
		require.NoError(t, serr)
		for j, s := range res.Spectrum {
			assert.GreaterOrEqual(t, s, 0.0, "cutoff %d bin %d", cutoff, j)
		}
	}
}

// TestSolve_ExactFitConverges verifies that measurements generated from a
// known spectrum drive every channel ratio into the band.
func TestSolve_ExactFitConverges(t *testing.T) {
	model, err := response.NewModel([][]float64{{1, 2}, {3, 1}})
	require.NoError(t, err)

	// true spectrum [2, 1] → measured = R·s = [4, 7]
	opts := mlem.DefaultOptions()
	opts.Cutoff = 500
	opts.Tolerance = 0.01

	res, err := mlem.Solve(model, []float64{4, 7}, []float64{1, 1}, opts)
	require.NoError(t, err)
	assert.Equal(t, mlem.Converged, res.Status)
	for i, r := range res.Ratio {
		assert.InDelta(t, 1, r, opts.Tolerance, "channel %d", i)
	}
}

// TestSolve_ResumeAdditivity verifies the resume contract: k1 iterations
// followed by k2 more from the produced spectrum equals k1+k2 from scratch,
// bit for bit.
func TestSolve_ResumeAdditivity(t *testing.T) {
	model, err := response.NewModel([][]float64{{1, 0.5}, {0.2, 1}})
	require.NoError(t, err)
	measured := []float64{5.5, 5.6}
	initial := []float64{1, 1}

	opts := mlem.DefaultOptions()
	opts.Tolerance = 1e-12

	opts.Cutoff = 10
	full, err := mlem.Solve(model, measured, initial, opts)
	require.NoError(t, err)

	opts.Cutoff = 4
	first, err := mlem.Solve(model, measured, initial, opts)
	require.NoError(t, err)

	opts.Cutoff = 6
	second, err := mlem.Solve(model, measured, first.Spectrum, opts)
	require.NoError(t, err)

	assert.Equal(t, full.Spectrum, second.Spectrum, "resumed trajectory must match the uninterrupted one exactly")
	assert.Equal(t, full.Ratio, second.Ratio)
}

// TestSolve_MAPZeroBetaEqualsMLEM verifies that Beta = 0 with any registered
// prior reproduces the plain MLEM arithmetic bit for bit.
func TestSolve_MAPZeroBetaEqualsMLEM(t *testing.T) {
	model, err := response.NewModel([][]float64{{1, 0.5}, {0.2, 1}})
	require.NoError(t, err)
	measured := []float64{5.5, 5.6}
	initial := []float64{1, 1}

	plain := mlem.DefaultOptions()
	plain.Cutoff = 25
	plain.Tolerance = 1e-12

	zeroBeta := plain
	zeroBeta.Beta = 0
	zeroBeta.Prior = mlem.PriorMedianRoot

	a, err := mlem.Solve(model, measured, initial, plain)
	require.NoError(t, err)
	b, err := mlem.Solve(model, measured, initial, zeroBeta)
	require.NoError(t, err)

	assert.Equal(t, a.Spectrum, b.Spectrum)
	assert.Equal(t, a.Ratio, b.Ratio)
	assert.Equal(t, a.Iterations, b.Iterations)
	assert.Nil(t, b.Penalty, "zero beta must not evaluate the prior")
}

// TestSolve_MAPPopulatesPenalty verifies that a positive Beta returns the
// final penalty vector and still reconstructs a consistent spectrum.
func TestSolve_MAPPopulatesPenalty(t *testing.T) {
	model, err := response.NewModel([][]float64{{1, 0.5}, {0.2, 1}})
	require.NoError(t, err)

	opts := mlem.DefaultOptions()
	opts.Cutoff = 50
	opts.Tolerance = 1e-6
	opts.Beta = 1e-4
	opts.Prior = mlem.PriorQuadratic

	res, err := mlem.Solve(model, []float64{5.5, 5.6}, []float64{1, 1}, opts)
	require.NoError(t, err)
	require.Len(t, res.Penalty, 2)
	for j, s := range res.Spectrum {
		assert.False(t, math.IsNaN(s), "bin %d", j)
		assert.GreaterOrEqual(t, s, 0.0, "bin %d", j)
	}
}

// TestSolve_InstabilityZeroEstimate verifies that a dead response row (zero
// forward estimate) fails with a detailed InstabilityError on iteration one.
func TestSolve_InstabilityZeroEstimate(t *testing.T) {
	model, err := response.NewModel([][]float64{{1, 0}, {0, 0}})
	require.NoError(t, err)

	_, err = mlem.Solve(model, []float64{3, 2}, []float64{1, 1}, mlem.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, mlem.ErrUnstable)

	var ie *mlem.InstabilityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Iteration)
	assert.Equal(t, 1, ie.Index)
	assert.Equal(t, "forward estimate", ie.Quantity)
	assert.Equal(t, 0.0, ie.Value)
}

// TestSolve_InstabilityNegativeDenominator verifies that an aggressive Beta
// driving a MAP denominator non-positive fails with an InstabilityError
// naming the denominator.
func TestSolve_InstabilityNegativeDenominator(t *testing.T) {
	opts := mlem.DefaultOptions()
	opts.Beta = 1
	opts.Prior = mlem.PriorQuadratic

	// quadratic penalty of [1, 10] is [-9, 9]; sens is [1, 1], so the first
	// bin's denominator is 1 + 1·(−9) = −8.
	_, err := mlem.Solve(identity2(t), []float64{1, 10}, []float64{1, 10}, opts)
	require.Error(t, err)

	var ie *mlem.InstabilityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "denominator", ie.Quantity)
	assert.Equal(t, 0, ie.Index)
	assert.InDelta(t, -8, ie.Value, 1e-12)
}

// TestOptions_Validate enumerates the validation sentinels.
func TestOptions_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*mlem.Options)
		want   error
	}{
		{"zero cutoff", func(o *mlem.Options) { o.Cutoff = 0 }, mlem.ErrBadCutoff},
		{"negative cutoff", func(o *mlem.Options) { o.Cutoff = -3 }, mlem.ErrBadCutoff},
		{"zero tolerance", func(o *mlem.Options) { o.Tolerance = 0 }, mlem.ErrBadTolerance},
		{"tolerance one", func(o *mlem.Options) { o.Tolerance = 1 }, mlem.ErrBadTolerance},
		{"NaN tolerance", func(o *mlem.Options) { o.Tolerance = math.NaN() }, mlem.ErrBadTolerance},
		{"negative beta", func(o *mlem.Options) { o.Beta = -1e-9 }, mlem.ErrBadBeta},
		{"infinite beta", func(o *mlem.Options) { o.Beta = math.Inf(1) }, mlem.ErrBadBeta},
		{"unknown prior", func(o *mlem.Options) { o.Prior = "entropy" }, mlem.ErrUnknownPrior},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := mlem.DefaultOptions()
			tc.mutate(&opts)
			assert.ErrorIs(t, opts.Validate(), tc.want)
		})
	}

	assert.NoError(t, mlem.DefaultOptions().Validate(), "defaults must validate")
}

// TestSolve_ValidatesBeforeWork verifies that a bad configuration fails even
// when the numerical inputs are also bad: settings are checked first.
func TestSolve_ValidatesBeforeWork(t *testing.T) {
	opts := mlem.DefaultOptions()
	opts.Cutoff = 0

	_, err := mlem.Solve(nil, nil, nil, opts)
	assert.True(t, errors.Is(err, mlem.ErrBadCutoff))
}

// TestStatus_String covers the Stringer, including out-of-range values.
func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Converged", mlem.Converged.String())
	assert.Equal(t, "MaxIterationsReached", mlem.MaxIterationsReached.String())
	assert.Equal(t, "Status(7)", mlem.Status(7).String())
}
