package mesh

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var ErrMalformedMesh = errors.New("malformed mesh")

// Mesh is a set of scalar values sampled on a rectangular grid of pitch
// DX x DY. X, Y and Values are parallel.
type Mesh struct {
	DX, DY float64
	X, Y   []float64
	Values []float64
}

func (m *Mesh) Len() int {
	return len(m.Values)
}

func (m *Mesh) Validate() error {
	if !(m.DX > 0) {
		return errors.Wrapf(ErrMalformedMesh, "dx must be > 0, got %v", m.DX)
	}
	if !(m.DY > 0) {
		return errors.Wrapf(ErrMalformedMesh, "dy must be > 0, got %v", m.DY)
	}
	if len(m.X) != len(m.Y) || len(m.X) != len(m.Values) {
		return errors.Wrapf(ErrMalformedMesh, "x,y,v vectors have different lengths: %d,%d,%d",
			len(m.X), len(m.Y), len(m.Values))
	}
	if len(m.Values) == 0 {
		return errors.Wrap(ErrMalformedMesh, "mesh is empty")
	}
	return nil
}

// Bounds returns the ranges of X, Y and Values.
func (m *Mesh) Bounds() (minX, maxX, minY, maxY, minV, maxV float64) {
	return slices.Min(m.X), slices.Max(m.X),
		slices.Min(m.Y), slices.Max(m.Y),
		slices.Min(m.Values), slices.Max(m.Values)
}

// Read parses a mesh dump. The first line holds exactly two floats, dx and
// dy; the next three lines hold the x coordinates, the y coordinates and the
// values.
func Read(r io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var lines []string
	for len(lines) < 4 && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading mesh")
	}
	if len(lines) < 4 {
		return nil, errors.Wrapf(ErrMalformedMesh, "expected 4 lines, got %d", len(lines))
	}

	pitch, err := parseFloats(lines[0])
	if err != nil || len(pitch) != 2 {
		return nil, errors.Wrapf(ErrMalformedMesh,
			"the first line must contain exactly two floats. Line '%s' does not", lines[0])
	}
	m := &Mesh{DX: pitch[0], DY: pitch[1]}
	for i, dst := range []*[]float64{&m.X, &m.Y, &m.Values} {
		*dst, err = parseFloats(lines[i+1])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedMesh, "line %d: %v", i+2, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Write dumps m in the format Read parses.
func (m *Mesh) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	writeLine := func(vs ...float64) {
		for i, v := range vs {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	writeLine(m.DX, m.DY)
	writeLine(m.X...)
	writeLine(m.Y...)
	writeLine(m.Values...)
	return bw.Flush()
}
