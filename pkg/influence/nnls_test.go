package influence

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
)

func TestNNLSClampsNegativeComponent(t *testing.T) {
	// Unconstrained least squares gives (2, -1).
	a := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	b := mat.NewVecDense(3, []float64{2, -1, 1})

	x, residual, err := NNLS(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, x.AtVec(0), 1e-12)
	assert.Equal(t, 0.0, x.AtVec(1))
	assert.InDelta(t, math.Sqrt(1.5), residual, 1e-12)
}

func TestNNLSMatchesUnconstrainedWhenPositive(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
	b := mat.NewVecDense(2, []float64{4, 7})

	x, residual, err := NNLS(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1, x.AtVec(0), 1e-12)
	assert.InDelta(t, 2, x.AtVec(1), 1e-12)
	assert.InDelta(t, 0, residual, 1e-12)
}

func TestNNLSAllNegative(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	x, residual, err := NNLS(a, mat.NewVecDense(2, []float64{-1, -2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, x.RawVector().Data)
	assert.InDelta(t, math.Sqrt(5), residual, 1e-12)
}

func TestNNLSShapeMismatch(t *testing.T) {
	_, _, err := NNLS(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), mat.NewVecDense(3, nil))
	assert.Error(t, err)
}

func TestNonnegativeNormalForces(t *testing.T) {
	b := NewBuilder(nil)
	ctx := context.Background()
	forces := []geom.Point2D{geom.Pt(0, 0), geom.Pt(0.01, 0.005)}
	displacements := grid(3, 0.005)
	expected := []float64{3, 0.5}

	fd, err := b.ForcesToDisplacements(ctx, forces, displacements, greens.Normal, attrs)
	require.NoError(t, err)
	var reading mat.VecDense
	reading.MulVec(fd, mat.NewVecDense(2, expected))

	got, err := b.NonnegativeNormalForces(ctx, displacements, reading.RawVector().Data, forces, attrs)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range expected {
		assert.InEpsilon(t, expected[i], got[i], 1e-6)
	}

	_, err = b.NonnegativeNormalForces(ctx, displacements, []float64{1}, forces, attrs)
	assert.Error(t, err)
}
