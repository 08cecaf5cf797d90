package skin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
)

func TestAttributesValidate(t *testing.T) {
	assert.NoError(t, DefaultAttributes().Validate())

	radiusOnly := Attributes{H: 0.002, E: 300000, Nu: 0.5, TaxelRadius: 0.002}
	assert.NoError(t, radiusOnly.Validate())
	assert.InDelta(t, 1.2566e-05, radiusOnly.NodeArea(), 1e-9)

	for _, a := range []Attributes{
		{H: 0, E: 210000, TaxelArea: 1e-5},
		{H: 0.002, E: -1, TaxelArea: 1e-5},
		{H: 0.002, E: 210000},
		{H: 0.002, E: 210000, TaxelArea: 1e-5, Nu: 0.7},
	} {
		err := a.Validate()
		if errors.Cause(err) != ErrInvalidAttributes {
			t.Errorf("Attributes %+v should be invalid, got %v", a, err)
		}
	}
}

func TestAttributesMaterial(t *testing.T) {
	a := Attributes{H: 0.002, E: 300000, TaxelArea: greens.DefaultNodeArea}
	m := a.Material()
	assert.Equal(t, 0.002, m.Thickness)
	assert.Equal(t, 300000.0, m.Modulus)
	assert.InDelta(t, greens.DefaultNodeRadius, m.NodeRadius, 1e-15)
}

const sampleDocument = `
nodes:
  - relative_position:
      - 0.010000
      - -0.020000
    value: 12.500000
  - relative_position:
      - 0.015000
      - 0.005000
    value: 0.000000

attributes:
  h: 0.002
  E: 210000
  taxelArea: 1.2566e-05
`

func TestReadDocument(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(sampleDocument))
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, geom.Pt(0.01, -0.02), doc.Nodes[0].Position())
	assert.Equal(t, []float64{12.5, 0}, doc.Values())
	assert.Equal(t, Attributes{H: 0.002, E: 210000, TaxelArea: 1.2566e-05}, doc.Attributes)
}

func TestReadDocumentCells(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(strings.Replace(sampleDocument, "nodes:", "cells:", 1)))
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
}

func TestReadDocumentErrors(t *testing.T) {
	for name, input := range map[string]string{
		"no attributes":  "nodes: []\n",
		"short position": "nodes:\n  - relative_position: [0.1]\n    value: 1\nattributes:\n  h: 0.002\n  E: 1\n",
		"both lists":     "nodes: []\ncells: []\nattributes:\n  h: 0.002\n  E: 1\n",
		"missing value":  "nodes:\n  - relative_position: [0.1, 0.2]\nattributes:\n  h: 0.002\n  E: 1\n",
		"not yaml":       "nodes: [\n",
	} {
		_, err := ReadDocument(strings.NewReader(input))
		assert.Error(t, err, name)
	}
}

func TestWriteDocument(t *testing.T) {
	doc, err := NewDocument(DefaultAttributes(),
		[]geom.Point2D{geom.Pt(0.01, -0.02), geom.Pt(0.015, 0.005)},
		[]float64{12.5, 0})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	assert.Contains(t, buf.String(), "relative_position: [0.01, -0.02]")
	assert.Contains(t, buf.String(), "taxelArea: 1.2566e-05")

	back, err := ReadDocument(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	_, err = NewDocument(DefaultAttributes(), []geom.Point2D{geom.Pt(0, 0)}, nil)
	assert.Error(t, err)
}

const sampleCache = `# calibration cache
0.010 -0.020 0.001 0 0 1 1 2 3 4 5
0.015 0.005 0.001 0 0 1 1 2 3 4 5 6

0.020 0.005 0.001 0 0 1 1 2
0.025 oops 0.001 0 0 1 1 2 3 4 5
-0.030 0.040 0.002 0.1 0.2 0.9 1 2 3 4 5
`

func TestReadCalibrationCache(t *testing.T) {
	records, skipped, err := ReadCalibrationCache(strings.NewReader(sampleCache))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 5, 6}, skipped)
	require.Len(t, records, 3)

	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, geom.Pt(0.010, -0.020), records[0].Planar())
	assert.Len(t, records[1].Fields, 12)
	assert.Equal(t, 7, records[2].Line)
	assert.Equal(t, 0.9, records[2].Normal.Z)
	assert.Equal(t, []geom.Point2D{geom.Pt(0.010, -0.020), geom.Pt(0.015, 0.005), geom.Pt(-0.030, 0.040)},
		PlanarPositions(records))
}

func TestReadCalibrationCacheLongRow(t *testing.T) {
	good := "0.010 -0.020 0.001 0 0 1 1 2 3 4 5\n"
	long := strings.Repeat("9", 1200*1024) + "\n"
	input := good + long + "0.015 0.005 0.001 0 0 1 1 2 3 4 5"

	records, skipped, err := ReadCalibrationCache(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[1].Line)
	assert.Equal(t, geom.Pt(0.015, 0.005), records[1].Planar())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadCalibrationCacheReadError(t *testing.T) {
	_, _, err := ReadCalibrationCache(failingReader{})
	assert.Error(t, err)
}

type constantModel float64

func (c constantModel) Response(geom.Point2D) float64 {
	return float64(c)
}

func TestProviders(t *testing.T) {
	records, _, err := ReadCalibrationCache(strings.NewReader(sampleCache))
	require.NoError(t, err)

	sim := NewSimulatedProvider(records, DefaultAttributes(), constantModel(4))
	assert.Equal(t, []float64{4, 4, 4}, sim.Values())

	doc, err := Snapshot(sim)
	require.NoError(t, err)

	var p Provider = NewDocumentProvider(doc)
	assert.Equal(t, sim.Nodes(), p.Nodes())
	assert.Equal(t, sim.Values(), p.Values())
	assert.Equal(t, DefaultAttributes(), p.Attributes())
}
