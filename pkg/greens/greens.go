// Package greens evaluates the Boussinesq-Cerruti influence coefficients of an
// elastic layer of thickness h: the displacement at an observation node due to
// a unit point load at another node.
package greens

import (
	"math"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
)

const (
	// SameNodeTolerance is the absolute distance on each axis under which the
	// load and observation nodes are treated as coincident.
	SameNodeTolerance = 1e-4

	// Psi is the quarter contact-area factor of the self-influence term.
	Psi = 0.25

	// DefaultNodeArea is the sample node area the golden fixtures use.
	DefaultNodeArea = 0.002
)

// DefaultNodeRadius is NodeRadius(DefaultNodeArea), pinned to the literal the
// fixtures were generated with.
const DefaultNodeRadius = 0.0309019361618552

// Axis indexes the rows and columns of a Tensor.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// NodeRadius returns the equivalent node radius z0 = sqrt(3*area/(2*pi)).
func NodeRadius(area float64) float64 {
	return math.Sqrt(3 * area / (2 * math.Pi))
}

// Material holds the layer constants. Thickness and Modulus must be positive;
// NodeRadius is only used for coincident nodes.
type Material struct {
	Thickness  float64
	Modulus    float64
	NodeRadius float64
}

func NewMaterial(thickness, modulus, nodeArea float64) Material {
	return Material{
		Thickness:  thickness,
		Modulus:    modulus,
		NodeRadius: NodeRadius(nodeArea),
	}
}

// Tensor maps the three components of a unit load to the three displacement
// components: T[displacement][force].
type Tensor struct {
	T        [3][3]float64
	SameNode bool
}

func (t Tensor) At(displacement, force Axis) float64 {
	return t.T[displacement][force]
}

func (t Tensor) ZZ() float64 {
	return t.T[Z][Z]
}

// IsSameNode reports whether an offset falls in the coincident-node branch.
func IsSameNode(dx, dy float64) bool {
	return math.Abs(dx) < SameNodeTolerance && math.Abs(dy) < SameNodeTolerance
}

// Evaluate returns the influence tensor for a load at offset (dx, dy) from
// the observation node. Invalid material constants are not reported; NaN and
// Inf propagate to the result.
func Evaluate(dx, dy float64, m Material) Tensor {
	if IsSameNode(dx, dy) {
		return sameNode(m)
	}
	return differentNode(dx, dy, m)
}

func EvaluateOffset(o geom.Offset, m Material) Tensor {
	return Evaluate(o.DX, o.DY, m)
}

func sameNode(m Material) Tensor {
	k := Psi / m.NodeRadius
	xy := 9 / (4 * math.Pi * m.Modulus) * k
	z := 9 / (2 * math.Pi * m.Modulus) * k

	var t Tensor
	t.SameNode = true
	t.T[X][X] = xy
	t.T[Y][Y] = xy
	t.T[Z][Z] = z
	return t
}

func differentNode(dx, dy float64, m Material) Tensor {
	h := m.Thickness
	dx2, dy2, h2 := dx*dx, dy*dy, h*h

	r2 := dx2 + dy2
	rh2 := r2 + h2
	invR := 1 / math.Sqrt(r2)
	invR3 := invR * invR * invR
	invRh := 1 / math.Sqrt(rh2)
	invRh3 := invRh * invRh * invRh

	c := 3 / (4 * math.Pi * m.Modulus)

	xy := c * (dx*dy*invR3 - dx*dy*invRh3)
	xz := -c * (dx * h * invRh3)
	yz := -c * (dy * h * invRh3)

	var t Tensor
	t.T[X][X] = c * ((2*dx2+dy2)*invR3 - (2*dx2+dy2+h2)*invRh3)
	t.T[Y][Y] = c * ((dx2+2*dy2)*invR3 - (dx2+2*dy2+h2)*invRh3)
	t.T[Z][Z] = c * (invR - (r2+2*h2)*invRh3)
	t.T[X][Y], t.T[Y][X] = xy, xy
	t.T[X][Z], t.T[Z][X] = xz, xz
	t.T[Y][Z], t.T[Z][Y] = yz, yz
	return t
}
