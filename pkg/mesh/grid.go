package mesh

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
)

// RegularSquare lays a grid of pitch d over the bounding box of points. Each
// axis gets ceil(extent/d) nodes and the grid is centred on the box. Nodes
// are ordered x-major and all values are zero.
func RegularSquare(points []geom.Point2D, d float64) (*Mesh, error) {
	if !(d > 0) {
		return nil, errors.Wrapf(ErrMalformedMesh, "grid pitch must be > 0, got %v", d)
	}
	if len(points) == 0 {
		return nil, errors.Wrap(ErrMalformedMesh, "no points to cover")
	}
	x0, y0 := points[0].X, points[0].Y
	x1, y1 := x0, y0
	for _, p := range points[1:] {
		x0, x1 = math.Min(x0, p.X), math.Max(x1, p.X)
		y0, y1 = math.Min(y0, p.Y), math.Max(y1, p.Y)
	}
	if !(x1 > x0) || !(y1 > y0) {
		return nil, errors.Wrapf(ErrMalformedMesh, "points span a degenerate box [%v, %v] x [%v, %v]", x0, x1, y0, y1)
	}

	nx := int(math.Ceil((x1 - x0) / d))
	ny := int(math.Ceil((y1 - y0) / d))
	ox := x0 - (float64(nx)*d-(x1-x0))/2
	oy := y0 - (float64(ny)*d-(y1-y0))/2

	m := &Mesh{
		DX:     d,
		DY:     d,
		X:      make([]float64, 0, nx*ny),
		Y:      make([]float64, 0, nx*ny),
		Values: make([]float64, nx*ny),
	}
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			m.X = append(m.X, ox+float64(ix)*d)
			m.Y = append(m.Y, oy+float64(iy)*d)
		}
	}
	return m, nil
}

func (m *Mesh) Points() []geom.Point2D {
	ps := make([]geom.Point2D, len(m.X))
	for i := range ps {
		ps[i] = geom.Pt(m.X[i], m.Y[i])
	}
	return ps
}
