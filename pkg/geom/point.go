package geom

import "github.com/quartercastle/vector"

// Point2D is a planar node position in metres.
type Point2D struct {
	X, Y float64
}

func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Sub returns the offset that takes q to p, i.e. p - q.
func (p Point2D) Sub(q Point2D) Offset {
	d := p.Vector().Sub(q.Vector())
	return Offset{DX: d[0], DY: d[1]}
}

func (p Point2D) Add(o Offset) Point2D {
	return Point2D{X: p.X + o.DX, Y: p.Y + o.DY}
}

func (p Point2D) Vector() vector.Vector {
	return vector.Vector{p.X, p.Y}
}

// Distance returns the planar distance between p and q.
func Distance(p, q Point2D) float64 {
	return p.Vector().Sub(q.Vector()).Magnitude()
}

// Offset is the planar difference between an observation point and a load
// point. The vertical component is implicitly the layer thickness.
type Offset struct {
	DX, DY float64
}

func (o Offset) Length() float64 {
	return vector.Vector{o.DX, o.DY}.Magnitude()
}
