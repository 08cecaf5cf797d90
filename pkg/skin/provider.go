package skin

import (
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/response"
)

// Provider is a source of taxel readings: where the taxels are, what they
// currently read and what the covering layer is made of.
type Provider interface {
	Nodes() []geom.Point2D
	Values() []float64
	Attributes() Attributes
}

// DocumentProvider serves a fixed snapshot loaded from a skin document.
type DocumentProvider struct {
	doc *Document
}

func NewDocumentProvider(doc *Document) *DocumentProvider {
	return &DocumentProvider{doc: doc}
}

func (p *DocumentProvider) Nodes() []geom.Point2D {
	return p.doc.Positions()
}

func (p *DocumentProvider) Values() []float64 {
	return p.doc.Values()
}

func (p *DocumentProvider) Attributes() Attributes {
	return p.doc.Attributes
}

// SimulatedProvider stands in for real hardware: taxel positions come from a
// calibration cache and readings from a response model.
type SimulatedProvider struct {
	nodes []geom.Point2D
	attrs Attributes
	model response.Model
}

func NewSimulatedProvider(records []Record, attrs Attributes, model response.Model) *SimulatedProvider {
	return &SimulatedProvider{
		nodes: PlanarPositions(records),
		attrs: attrs,
		model: model,
	}
}

func (p *SimulatedProvider) Nodes() []geom.Point2D {
	return p.nodes
}

func (p *SimulatedProvider) Values() []float64 {
	vs := make([]float64, len(p.nodes))
	for i, n := range p.nodes {
		vs[i] = p.model.Response(n)
	}
	return vs
}

func (p *SimulatedProvider) Attributes() Attributes {
	return p.attrs
}

// Snapshot captures the provider's current state as a document.
func Snapshot(p Provider) (*Document, error) {
	return NewDocument(p.Attributes(), p.Nodes(), p.Values())
}
