package skin

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
)

// MinCalibrationFields is the number of floats a calibration-cache row needs
// to describe a taxel.
const MinCalibrationFields = 11

// Record is one taxel row of a calibration cache.
type Record struct {
	Line     int
	Position r3.Vec
	Normal   r3.Vec
	// Fields holds every float of the row, including position and normal.
	Fields []float64
}

// Planar projects the taxel onto the skin plane by dropping z.
func (r Record) Planar() geom.Point2D {
	return geom.Pt(r.Position.X, r.Position.Y)
}

// ReadCalibrationCache parses a calibration cache. Blank, short or
// unparsable rows are skipped and their 1-based line numbers returned in
// skipped; rows of any length are read, and only a read failure aborts.
func ReadCalibrationCache(r io.Reader) (records []Record, skipped []int, err error) {
	br := bufio.NewReader(r)
	line := 0
	for {
		text, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return records, skipped, errors.Wrapf(readErr, "reading calibration cache after line %d", line)
		}
		if readErr == io.EOF && text == "" {
			return records, skipped, nil
		}
		line++
		rec, ok := parseRecord(text)
		if !ok {
			skipped = append(skipped, line)
		} else {
			rec.Line = line
			records = append(records, rec)
		}
		if readErr == io.EOF {
			return records, skipped, nil
		}
	}
}

func parseRecord(text string) (Record, bool) {
	fields := strings.Fields(text)
	if len(fields) < MinCalibrationFields {
		return Record{}, false
	}
	floats := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Record{}, false
		}
		floats[i] = v
	}
	return Record{
		Position: r3.Vec{X: floats[0], Y: floats[1], Z: floats[2]},
		Normal:   r3.Vec{X: floats[3], Y: floats[4], Z: floats[5]},
		Fields:   floats,
	}, true
}

func PlanarPositions(records []Record) []geom.Point2D {
	ps := make([]geom.Point2D, len(records))
	for i, r := range records {
		ps[i] = r.Planar()
	}
	return ps
}
