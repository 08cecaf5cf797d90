// Package love implements Love's closed-form solution for the normal
// displacement under a uniformly loaded rectangle on an elastic half-space.
package love

import "math"

const eps = 1e-8

// Layer holds the elastic constants of the skin layer.
type Layer struct {
	Thickness float64
	Modulus   float64
	Poisson   float64
}

// Patch is a rectangle of half-widths A (along x) and B (along y) centred on
// the origin, carrying unit pressure.
type Patch struct {
	A, B float64
}

// Displacement returns the normal compression of the layer at (x, y) relative
// to the centre of p: the half-space displacement at the surface minus the one
// at the layer's depth.
func Displacement(p Patch, l Layer, x, y float64) float64 {
	return Coefficient(p, l.Modulus, l.Poisson, x, y, 0) -
		Coefficient(p, l.Modulus, l.Poisson, x, y, l.Thickness)
}

// Coefficient is the half-space displacement at (x, y, z) due to unit pressure
// on p.
func Coefficient(p Patch, e, nu, x, y, z float64) float64 {
	a, b := p.A, p.B
	ret := ((1 - nu*nu) / (math.Pi * e)) *
		((l(1, b, a, x, y, z) - l(2, b, a, x, y, z)) -
			(l(1, -b, a, x, y, z) - l(2, -b, a, x, y, z)))

	if !almostZero(z) {
		ret += (z * (1 + nu) / (2 * math.Pi * e)) *
			(math.Atan((a-x)*(b-y)/(z*r0(1, b, a, x, y, z))) +
				math.Atan((a+x)*(b-y)/(z*r0(2, b, a, x, y, z))) -
				(math.Atan((a-x)*(-b-y)/(z*r0(1, -b, a, x, y, z))) +
					math.Atan((a+x)*(-b-y)/(z*r0(2, -b, a, x, y, z)))))
	}
	return ret
}

func almostZero(v float64) bool {
	return math.Abs(v) < eps
}

// sign is +1 for j == 1 and -1 for j == 2.
func sign(j int) float64 {
	if j == 1 {
		return 1
	}
	return -1
}

// edge is the distance from x to the j-th edge of the patch along x.
func edge(j int, a, x float64) float64 {
	return a - sign(j)*x
}

func r0(j int, yp, a, x, y, z float64) float64 {
	ex := edge(j, a, x)
	dy := yp - y
	return math.Sqrt(ex*ex + dy*dy + z*z)
}

func beta0(j int, a, x, z float64) float64 {
	ex := edge(j, a, x)
	return math.Sqrt(ex*ex + z*z)
}

func psi0(j int, yp, a, x, y, z float64) float64 {
	return (yp - y) / (r0(j, yp, a, x, y, z) + beta0(j, a, x, z))
}

// safeLog returns 0 when coeff is ~0, coeff*log(arg) otherwise.
func safeLog(coeff, arg float64) float64 {
	if almostZero(coeff) {
		return 0
	}
	return coeff * math.Log(arg)
}

func l(j int, yp, a, x, y, z float64) float64 {
	dy := yp - y
	s := sign(j)
	psi := psi0(j, yp, a, x, y, z)

	ret := safeLog(dy, s*a-x+r0(j, yp, a, x, y, z)) - dy + safeLog(s*a-x, (1+psi)/(1-psi))

	if !almostZero(z) {
		var arg float64
		if math.Abs(x-s*a) < eps {
			arg = psi
		} else {
			arg = z * psi / (s*a - x + beta0(j, a, x, z))
		}
		ret += 2 * z * math.Atan(arg)
	}
	return ret
}
