package skin

import (
	"io"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
)

// Node is one taxel in a skin document: its position relative to the patch
// origin and the value it reads.
type Node struct {
	RelativePosition []float64 `yaml:"relative_position,flow"`
	Value            float64    `yaml:"value"`
}

func (n Node) Position() geom.Point2D {
	return geom.Pt(n.RelativePosition[0], n.RelativePosition[1])
}

// Document is the YAML form of a skin snapshot.
type Document struct {
	Nodes      []Node     `yaml:"nodes"`
	Attributes Attributes `yaml:"attributes"`
}

type rawNode struct {
	RelativePosition []float64 `yaml:"relative_position"`
	Value            *float64  `yaml:"value"`
}

type rawDocument struct {
	Nodes      []rawNode   `yaml:"nodes"`
	Cells      []rawNode   `yaml:"cells"`
	Attributes *Attributes `yaml:"attributes"`
}

func NewDocument(attrs Attributes, points []geom.Point2D, values []float64) (*Document, error) {
	if len(points) != len(values) {
		return nil, errors.Errorf("%d positions but %d values", len(points), len(values))
	}
	doc := &Document{Attributes: attrs, Nodes: make([]Node, len(points))}
	for i, p := range points {
		doc.Nodes[i] = Node{RelativePosition: []float64{p.X, p.Y}, Value: values[i]}
	}
	return doc, nil
}

// ReadDocument parses a skin document. Older documents name the node list
// "cells"; both spellings are accepted.
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading skin document")
	}
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing skin document")
	}
	if raw.Attributes == nil {
		return nil, errors.New("skin document must contain 'attributes'")
	}
	nodes := raw.Nodes
	if nodes == nil {
		nodes = raw.Cells
	} else if raw.Cells != nil {
		return nil, errors.New("skin document has both 'nodes' and 'cells'")
	}
	doc := &Document{Attributes: *raw.Attributes, Nodes: make([]Node, len(nodes))}
	for i, n := range nodes {
		if len(n.RelativePosition) != 2 {
			return nil, errors.Errorf("node %d: relative_position must have 2 coordinates, got %d",
				i, len(n.RelativePosition))
		}
		if n.Value == nil {
			return nil, errors.Errorf("node %d has no value", i)
		}
		doc.Nodes[i] = Node{RelativePosition: n.RelativePosition, Value: *n.Value}
	}
	return doc, nil
}

func (d *Document) Write(w io.Writer) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "encoding skin document")
	}
	_, err = w.Write(data)
	return err
}

func (d *Document) Positions() []geom.Point2D {
	ps := make([]geom.Point2D, len(d.Nodes))
	for i, n := range d.Nodes {
		ps[i] = n.Position()
	}
	return ps
}

func (d *Document) Values() []float64 {
	vs := make([]float64, len(d.Nodes))
	for i, n := range d.Nodes {
		vs[i] = n.Value
	}
	return vs
}
