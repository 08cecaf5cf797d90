// Package response synthesizes the readings a skin would produce for a known
// contact, for use as simulated input.
package response

import (
	"math"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
)

type Model interface {
	Response(p geom.Point2D) float64
}

// Gaussian is a bump of height Amplitude centred on (X0, Y0).
type Gaussian struct {
	X0        float64 `mapstructure:"x0"`
	Y0        float64 `mapstructure:"y0"`
	SigmaX    float64 `mapstructure:"sigmaX"`
	SigmaY    float64 `mapstructure:"sigmaY"`
	Amplitude float64 `mapstructure:"amplitude"`
}

func DefaultGaussian() Gaussian {
	return Gaussian{X0: 0.01, Y0: -0.01, SigmaX: 0.01, SigmaY: 0.01, Amplitude: 1000}
}

func (g Gaussian) Response(p geom.Point2D) float64 {
	dx := p.X - g.X0
	dy := p.Y - g.Y0
	v := g.Amplitude * math.Exp(-dx*dx/(2*g.SigmaX*g.SigmaX)-dy*dy/(2*g.SigmaY*g.SigmaY))
	if v > 0 {
		return v
	}
	return 0
}

// Load is a normal point force applied at (X, Y).
type Load struct {
	X     float64 `mapstructure:"x"`
	Y     float64 `mapstructure:"y"`
	Force float64 `mapstructure:"force"`
}

func (l Load) Position() geom.Point2D {
	return geom.Pt(l.X, l.Y)
}

func DefaultLoads() []Load {
	return []Load{
		{X: 0.023, Y: -0.023, Force: 20},
		{X: 0.015, Y: 0.005, Force: 15},
	}
}

// Deformation is the compression of the layer under a set of normal point
// loads.
type Deformation struct {
	Loads    []Load
	Material greens.Material
}

func (d Deformation) Response(p geom.Point2D) float64 {
	var res float64
	for _, l := range d.Loads {
		res += Compliance(p.Sub(l.Position()), d.Material) * l.Force
	}
	return res
}

// Compliance is the normal compression at offset o per unit normal load.
// The general-case zz coefficient is negative by convention while the
// coincident-node one is positive, so only the former is negated.
func Compliance(o geom.Offset, m greens.Material) float64 {
	t := greens.EvaluateOffset(o, m)
	if t.SameNode {
		return t.ZZ()
	}
	return -t.ZZ()
}

func Sample(m Model, points []geom.Point2D) []float64 {
	vs := make([]float64, len(points))
	for i, p := range points {
		vs[i] = m.Response(p)
	}
	return vs
}

// ToRaw converts a response to a raw 16-bit reading, truncating toward zero
// and saturating at the ends of the range.
func ToRaw(v float64) uint16 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}

func ToRawAll(vs []float64) []uint16 {
	raw := make([]uint16, len(vs))
	for i, v := range vs {
		raw[i] = ToRaw(v)
	}
	return raw
}
