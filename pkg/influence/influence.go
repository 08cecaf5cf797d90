// Package influence assembles the linear maps between loads on one set of
// skin nodes and displacements on another.
package influence

import (
	"context"
	"math"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/love"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/skin"
)

var (
	ErrNoNodes  = errors.New("no nodes")
	ErrSingular = errors.New("singular value decomposition failed")
)

// incompressible is the Poisson's ratio the Boussinesq closed forms assume.
const incompressible = 0.5

type Builder struct {
	Logger *zap.Logger
	// Workers bounds the goroutines used to fill a matrix; 0 means GOMAXPROCS.
	Workers int
}

func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{Logger: logger}
}

func (b *Builder) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// ForcesToDisplacements returns the matrix that maps a vector of forces on the
// force nodes to the displacements at the displacement nodes. Rows are
// displacement node-major (dims.Displacement per node), columns force
// node-major (dims.Force per node).
func (b *Builder) ForcesToDisplacements(
	ctx context.Context,
	forces, displacements []geom.Point2D,
	dims greens.Dims,
	attrs skin.Attributes,
) (*mat.Dense, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if len(forces) == 0 || len(displacements) == 0 {
		return nil, errors.Wrapf(ErrNoNodes, "%d force nodes, %d displacement nodes", len(forces), len(displacements))
	}
	if math.Abs(attrs.Nu-incompressible) >= 1e-3 {
		b.logger().Warn("Forces-to-displacements equations are only valid for an incompressible layer",
			zap.Float64("nu", attrs.Nu))
	}
	material := attrs.Material()

	rows := len(displacements) * dims.Displacement
	cols := len(forces) * dims.Force
	ret := mat.NewDense(rows, cols, nil)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())
	for j := range forces {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := range displacements {
				block := greens.EvaluateOffset(displacements[i].Sub(forces[j]), material).Block(dims)
				for r, row := range block {
					for c, v := range row {
						ret.Set(i*dims.Displacement+r, j*dims.Force+c, v)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.logger().Debug("Built forces-to-displacements matrix", zap.Int("rows", rows), zap.Int("cols", cols))
	return ret, nil
}

// DisplacementsToForces returns the least-squares inverse of
// ForcesToDisplacements.
func (b *Builder) DisplacementsToForces(
	ctx context.Context,
	displacements, forces []geom.Point2D,
	dims greens.Dims,
	attrs skin.Attributes,
) (*mat.Dense, error) {
	fd, err := b.ForcesToDisplacements(ctx, forces, displacements, dims, attrs)
	if err != nil {
		return nil, err
	}
	return Pinv(fd)
}

// PressuresToDisplacements maps uniform pressures on rectangular cells of size
// cellDX x cellDY centred on the pressure nodes to normal displacements at
// the displacement nodes.
func (b *Builder) PressuresToDisplacements(
	ctx context.Context,
	pressures []geom.Point2D,
	cellDX, cellDY float64,
	displacements []geom.Point2D,
	attrs skin.Attributes,
) (*mat.Dense, error) {
	if len(pressures) == 0 || len(displacements) == 0 {
		return nil, errors.Wrapf(ErrNoNodes, "%d pressure nodes, %d displacement nodes", len(pressures), len(displacements))
	}
	if !(cellDX > 0) || !(cellDY > 0) {
		return nil, errors.Errorf("pressure cells must have a positive size, got %v x %v", cellDX, cellDY)
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	patch := love.Patch{A: cellDX / 2, B: cellDY / 2}
	layer := attrs.Layer()

	ret := mat.NewDense(len(displacements), len(pressures), nil)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())
	for j := range pressures {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := range displacements {
				o := displacements[i].Sub(pressures[j])
				ret.Set(i, j, love.Displacement(patch, layer, o.DX, o.DY))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.logger().Debug("Built pressures-to-displacements matrix",
		zap.Int("rows", len(displacements)), zap.Int("cols", len(pressures)))
	return ret, nil
}

func (b *Builder) DisplacementsToPressures(
	ctx context.Context,
	displacements, pressures []geom.Point2D,
	cellDX, cellDY float64,
	attrs skin.Attributes,
) (*mat.Dense, error) {
	pd, err := b.PressuresToDisplacements(ctx, pressures, cellDX, cellDY, displacements, attrs)
	if err != nil {
		return nil, err
	}
	return Pinv(pd)
}

// NonnegativeNormalForces finds the non-negative normal forces on the force
// nodes that best explain a reading of normal displacements.
func (b *Builder) NonnegativeNormalForces(
	ctx context.Context,
	displacements []geom.Point2D,
	values []float64,
	forces []geom.Point2D,
	attrs skin.Attributes,
) ([]float64, error) {
	if len(values) != len(displacements) {
		return nil, errors.Errorf("%d displacement nodes but %d values", len(displacements), len(values))
	}
	fd, err := b.ForcesToDisplacements(ctx, forces, displacements, greens.Normal, attrs)
	if err != nil {
		return nil, err
	}
	x, residual, err := NNLS(fd, mat.NewVecDense(len(values), append([]float64(nil), values...)))
	if err != nil {
		return nil, err
	}
	b.logger().Debug("Solved non-negative normal forces", zap.Float64("residual", residual))
	return x.RawVector().Data, nil
}

// Pinv returns the Moore-Penrose pseudo-inverse of a. Singular values below
// max(rows, cols) * eps * largest are treated as zero.
func Pinv(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, ErrSingular
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	rows, cols := a.Dims()
	tol := float64(max(rows, cols)) * values[0] * epsilon
	inv := make([]float64, len(values))
	for i, s := range values {
		if s > tol {
			inv[i] = 1 / s
		}
	}

	// V * diag(inv) * U^T
	var vs mat.Dense
	vs.Apply(func(_, j int, x float64) float64 { return x * inv[j] }, &v)
	var ret mat.Dense
	ret.Mul(&vs, u.T())
	return &ret, nil
}

const epsilon = 2.220446049250313e-16
