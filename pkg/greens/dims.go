package greens

import "github.com/pkg/errors"

var ErrUnsupportedDim = errors.New("unsupported dimensionality")

// Dims selects which part of a Tensor is used: Force is the number of load
// components per node and Displacement the number of displacement
// components per node. Each must be 1 (normal only) or 3.
type Dims struct {
	Force        int
	Displacement int
}

var (
	Full   = Dims{Force: 3, Displacement: 3}
	Row    = Dims{Force: 3, Displacement: 1}
	Column = Dims{Force: 1, Displacement: 3}
	Normal = Dims{Force: 1, Displacement: 1}
)

func (d Dims) Validate() error {
	if d.Force != 1 && d.Force != 3 {
		return errors.Wrapf(ErrUnsupportedDim, "force components per node: %d", d.Force)
	}
	if d.Displacement != 1 && d.Displacement != 3 {
		return errors.Wrapf(ErrUnsupportedDim, "displacement components per node: %d", d.Displacement)
	}
	return nil
}

func axes(n int) []Axis {
	if n == 1 {
		return []Axis{Z}
	}
	return []Axis{X, Y, Z}
}

// Block returns the Displacement x Force sub-matrix of t selected by d.
// d must be valid.
func (t Tensor) Block(d Dims) [][]float64 {
	rows := axes(d.Displacement)
	cols := axes(d.Force)
	b := make([][]float64, len(rows))
	for i, r := range rows {
		b[i] = make([]float64, len(cols))
		for j, c := range cols {
			b[i][j] = t.T[r][c]
		}
	}
	return b
}

// Reduce flattens the block selected by d column by column, i.e. the force
// axis is the outer loop: xx,yx,zx, xy,yy,zy, xz,yz,zz for the full tensor,
// zx,zy,zz for a row, xz,yz,zz for a column and zz alone for Normal.
func (t Tensor) Reduce(d Dims) []float64 {
	rows := axes(d.Displacement)
	cols := axes(d.Force)
	out := make([]float64, 0, len(rows)*len(cols))
	for _, c := range cols {
		for _, r := range rows {
			out = append(out, t.T[r][c])
		}
	}
	return out
}
