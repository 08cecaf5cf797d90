package influence

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/love"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/skin"
)

var attrs = skin.Attributes{H: 0.002, E: 300000, Nu: 0.5, TaxelArea: greens.DefaultNodeArea}

func grid(n int, pitch float64) []geom.Point2D {
	var ps []geom.Point2D
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ps = append(ps, geom.Pt(float64(i)*pitch, float64(j)*pitch))
		}
	}
	return ps
}

func TestForcesToDisplacementsLayout(t *testing.T) {
	forces := []geom.Point2D{geom.Pt(0.1, 0.1), geom.Pt(0.11, 0.095)}
	displacements := []geom.Point2D{geom.Pt(0.105, 0.107), geom.Pt(0.1, 0.1), geom.Pt(0.09, 0.12)}
	b := NewBuilder(nil)
	b.Workers = 2

	for _, dims := range []greens.Dims{greens.Full, greens.Row, greens.Column, greens.Normal} {
		m, err := b.ForcesToDisplacements(context.Background(), forces, displacements, dims, attrs)
		require.NoError(t, err)
		rows, cols := m.Dims()
		require.Equal(t, len(displacements)*dims.Displacement, rows)
		require.Equal(t, len(forces)*dims.Force, cols)

		for i, d := range displacements {
			for j, f := range forces {
				block := greens.EvaluateOffset(d.Sub(f), attrs.Material()).Block(dims)
				for r := range block {
					for c := range block[r] {
						assert.Equal(t, block[r][c], m.At(i*dims.Displacement+r, j*dims.Force+c),
							"dims %v, node pair (%d, %d), entry (%d, %d)", dims, i, j, r, c)
					}
				}
			}
		}
	}
}

func TestForcesToDisplacementsErrors(t *testing.T) {
	b := NewBuilder(nil)
	nodes := grid(2, 0.005)

	_, err := b.ForcesToDisplacements(context.Background(), nodes, nodes, greens.Dims{Force: 2, Displacement: 3}, attrs)
	assert.Equal(t, greens.ErrUnsupportedDim, errors.Cause(err))

	_, err = b.ForcesToDisplacements(context.Background(), nil, nodes, greens.Normal, attrs)
	assert.Equal(t, ErrNoNodes, errors.Cause(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.ForcesToDisplacements(ctx, nodes, nodes, greens.Normal, attrs)
	assert.Equal(t, context.Canceled, err)
}

func TestInvalidAttributesRejected(t *testing.T) {
	b := NewBuilder(nil)
	nodes := grid(2, 0.005)
	ctx := context.Background()

	for _, bad := range []skin.Attributes{
		{H: 0.002, E: 0, Nu: 0.5, TaxelArea: greens.DefaultNodeArea},
		{H: 0, E: 300000, Nu: 0.5, TaxelArea: greens.DefaultNodeArea},
		{H: 0.002, E: 300000, Nu: 0.5},
	} {
		_, err := b.ForcesToDisplacements(ctx, nodes, nodes, greens.Normal, bad)
		assert.Equal(t, skin.ErrInvalidAttributes, errors.Cause(err), "%+v", bad)
		_, err = b.DisplacementsToForces(ctx, nodes, nodes, greens.Full, bad)
		assert.Equal(t, skin.ErrInvalidAttributes, errors.Cause(err), "%+v", bad)
		_, err = b.PressuresToDisplacements(ctx, nodes, 0.005, 0.005, nodes, bad)
		assert.Equal(t, skin.ErrInvalidAttributes, errors.Cause(err), "%+v", bad)
		_, err = b.DisplacementsToPressures(ctx, nodes, nodes, 0.005, 0.005, bad)
		assert.Equal(t, skin.ErrInvalidAttributes, errors.Cause(err), "%+v", bad)
	}
}

func TestCompressibleLayerWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := NewBuilder(zap.New(core))
	nodes := grid(2, 0.005)

	_, err := b.ForcesToDisplacements(context.Background(), nodes, nodes, greens.Normal, attrs)
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len())

	compressible := attrs
	compressible.Nu = 0.3
	_, err = b.ForcesToDisplacements(context.Background(), nodes, nodes, greens.Normal, compressible)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}

func expectIdentity(t *testing.T, m mat.Matrix, tol float64) {
	t.Helper()
	rows, cols := m.Dims()
	require.Equal(t, rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := 0.0
			if i == j {
				expected = 1
			}
			if v := m.At(i, j); v < expected-tol || v > expected+tol {
				t.Errorf("Entry (%d, %d) = %v, expected %v", i, j, v, expected)
			}
		}
	}
}

func TestDisplacementsToForcesInvertsSquare(t *testing.T) {
	b := NewBuilder(nil)
	nodes := grid(3, 0.005)
	ctx := context.Background()

	fd, err := b.ForcesToDisplacements(ctx, nodes, nodes, greens.Normal, attrs)
	require.NoError(t, err)
	df, err := b.DisplacementsToForces(ctx, nodes, nodes, greens.Normal, attrs)
	require.NoError(t, err)

	var product mat.Dense
	product.Mul(df, fd)
	expectIdentity(t, &product, 1e-8)
}

func TestDisplacementsToForcesLeastSquares(t *testing.T) {
	b := NewBuilder(nil)
	forces := []geom.Point2D{geom.Pt(0, 0), geom.Pt(0.01, 0.005)}
	displacements := grid(2, 0.006)
	ctx := context.Background()

	fd, err := b.ForcesToDisplacements(ctx, forces, displacements, greens.Normal, attrs)
	require.NoError(t, err)
	df, err := b.DisplacementsToForces(ctx, displacements, forces, greens.Normal, attrs)
	require.NoError(t, err)

	rows, cols := df.Dims()
	assert.Equal(t, len(forces), rows)
	assert.Equal(t, len(displacements), cols)

	var product mat.Dense
	product.Mul(df, fd)
	expectIdentity(t, &product, 1e-8)
}

func TestPinvRankDeficient(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	p, err := Pinv(a)
	require.NoError(t, err)

	// A * A+ * A == A holds even when A is singular.
	var apa, tmp mat.Dense
	tmp.Mul(a, p)
	apa.Mul(&tmp, a)
	assert.True(t, mat.EqualApprox(a, &apa, 1e-12))
}

func TestPressuresToDisplacements(t *testing.T) {
	b := NewBuilder(nil)
	pressures := grid(2, 0.005)
	displacements := []geom.Point2D{geom.Pt(0.001, 0.001), geom.Pt(0.004, 0.0025), geom.Pt(0.0025, 0.006)}
	ctx := context.Background()

	pd, err := b.PressuresToDisplacements(ctx, pressures, 0.005, 0.005, displacements, attrs)
	require.NoError(t, err)
	rows, cols := pd.Dims()
	require.Equal(t, len(displacements), rows)
	require.Equal(t, len(pressures), cols)

	patch := love.Patch{A: 0.0025, B: 0.0025}
	for i, d := range displacements {
		for j, p := range pressures {
			o := d.Sub(p)
			assert.Equal(t, love.Displacement(patch, attrs.Layer(), o.DX, o.DY), pd.At(i, j))
		}
	}

	_, err = b.PressuresToDisplacements(ctx, pressures, 0, 0.005, displacements, attrs)
	assert.Error(t, err)

	dp, err := b.DisplacementsToPressures(ctx, pressures, pressures, 0.005, 0.005, attrs)
	require.NoError(t, err)
	square, err := b.PressuresToDisplacements(ctx, pressures, 0.005, 0.005, pressures, attrs)
	require.NoError(t, err)
	var product mat.Dense
	product.Mul(dp, square)
	expectIdentity(t, &product, 1e-6)
}

func TestEvaluateBatch(t *testing.T) {
	var offsets []geom.Offset
	for i := 0; i < 1000; i++ {
		offsets = append(offsets, geom.Offset{DX: float64(i%37-18) * 0.001, DY: float64(i%11-5) * 0.002})
	}
	m := attrs.Material()

	for _, workers := range []int{0, 1, 3, 8, 2000} {
		tensors, err := EvaluateBatch(context.Background(), offsets, m, workers)
		require.NoError(t, err)
		require.Len(t, tensors, len(offsets))
		for i, o := range offsets {
			if tensors[i] != greens.EvaluateOffset(o, m) {
				t.Fatalf("workers=%d: result %d does not match sequential evaluation", workers, i)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EvaluateBatch(ctx, offsets, m, 4)
	assert.Equal(t, context.Canceled, err)

	tensors, err := EvaluateBatch(context.Background(), nil, m, 4)
	assert.NoError(t, err)
	assert.Empty(t, tensors)
}
