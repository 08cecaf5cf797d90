package influence

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrNotConverged = errors.New("non-negative least squares did not converge")

// NNLS solves min |a*x - b| subject to x >= 0 with the Lawson-Hanson active
// set method. It returns the solution and the residual norm.
func NNLS(a mat.Matrix, b mat.Vector) (*mat.VecDense, float64, error) {
	m, n := a.Dims()
	if b.Len() != m {
		return nil, 0, errors.Errorf("right-hand side has %d entries, matrix has %d rows", b.Len(), m)
	}
	tol := 10 * epsilon * mat.Norm(a, 1) * float64(max(m, n))

	x := make([]float64, n)
	passive := make([]bool, n)
	w := make([]float64, n)
	gradient := func() {
		var r, g mat.VecDense
		r.MulVec(a, mat.NewVecDense(n, x))
		r.SubVec(b, &r)
		g.MulVec(a.T(), &r)
		copy(w, g.RawVector().Data)
	}

	maxIter := 3 * n
	for iter := 0; ; iter++ {
		gradient()
		j, best := -1, tol
		for i := range w {
			if !passive[i] && w[i] > best {
				j, best = i, w[i]
			}
		}
		if j < 0 {
			break
		}
		if iter >= maxIter {
			return nil, 0, errors.Wrapf(ErrNotConverged, "after %d iterations", iter)
		}
		passive[j] = true

		for {
			s, err := passiveSolve(a, b, passive)
			if err != nil {
				return nil, 0, err
			}
			alpha := math.Inf(1)
			for i := range s {
				if passive[i] && s[i] <= 0 {
					step := 0.0
					if d := x[i] - s[i]; d > 0 {
						step = x[i] / d
					}
					alpha = math.Min(alpha, step)
				}
			}
			if math.IsInf(alpha, 1) {
				copy(x, s)
				break
			}
			for i := range x {
				x[i] += alpha * (s[i] - x[i])
				if passive[i] && x[i] <= tol {
					passive[i] = false
					x[i] = 0
				}
			}
		}
	}

	var r mat.VecDense
	r.MulVec(a, mat.NewVecDense(n, x))
	r.SubVec(b, &r)
	return mat.NewVecDense(n, x), floats.Norm(r.RawVector().Data, 2), nil
}

// passiveSolve returns the unconstrained least-squares solution over the
// passive columns of a, zero elsewhere.
func passiveSolve(a mat.Matrix, b mat.Vector, passive []bool) ([]float64, error) {
	m, n := a.Dims()
	var cols []int
	for i, p := range passive {
		if p {
			cols = append(cols, i)
		}
	}
	sub := mat.NewDense(m, len(cols), nil)
	for c, j := range cols {
		for i := 0; i < m; i++ {
			sub.Set(i, c, a.At(i, j))
		}
	}
	pinv, err := Pinv(sub)
	if err != nil {
		return nil, err
	}
	var z mat.VecDense
	z.MulVec(pinv, b)

	s := make([]float64, n)
	for c, j := range cols {
		s[j] = z.AtVec(c)
	}
	return s, nil
}
