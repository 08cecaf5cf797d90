package skin

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/love"
)

var ErrInvalidAttributes = errors.New("invalid skin attributes")

// Sample values used by the simulated-input generators. They are test data,
// callers should supply their own.
const (
	DefaultThickness = 0.002
	DefaultModulus   = 210000
	DefaultPoisson   = 0.5
	DefaultTaxelArea = 1.2566e-05
)

// Attributes describes the elastomer layer covering the taxels.
type Attributes struct {
	// Thickness of the elastomer layer.
	H float64 `yaml:"h" mapstructure:"h"`
	// Young's modulus of the elastomer.
	E  float64 `yaml:"E" mapstructure:"E"`
	Nu float64 `yaml:"nu,omitempty" mapstructure:"nu"`
	// TaxelArea wins over TaxelRadius when both are set; taxels are circular.
	TaxelArea   float64 `yaml:"taxelArea,omitempty" mapstructure:"taxelArea"`
	TaxelRadius float64 `yaml:"taxelRadius,omitempty" mapstructure:"taxelRadius"`
}

func DefaultAttributes() Attributes {
	return Attributes{
		H:         DefaultThickness,
		E:         DefaultModulus,
		Nu:        DefaultPoisson,
		TaxelArea: DefaultTaxelArea,
	}
}

func (a Attributes) NodeArea() float64 {
	if a.TaxelArea > 0 {
		return a.TaxelArea
	}
	return math.Pi * a.TaxelRadius * a.TaxelRadius
}

func (a Attributes) Validate() error {
	switch {
	case !(a.H > 0):
		return errors.Wrapf(ErrInvalidAttributes, "thickness h must be positive, got %v", a.H)
	case !(a.E > 0):
		return errors.Wrapf(ErrInvalidAttributes, "modulus E must be positive, got %v", a.E)
	case !(a.NodeArea() > 0):
		return errors.Wrapf(ErrInvalidAttributes, "taxel area must be positive (taxelArea %v, taxelRadius %v)",
			a.TaxelArea, a.TaxelRadius)
	case a.Nu < 0 || a.Nu > 0.5:
		return errors.Wrapf(ErrInvalidAttributes, "Poisson's ratio nu must be in [0, 0.5], got %v", a.Nu)
	}
	return nil
}

func (a Attributes) Material() greens.Material {
	return greens.NewMaterial(a.H, a.E, a.NodeArea())
}

func (a Attributes) Layer() love.Layer {
	return love.Layer{Thickness: a.H, Modulus: a.E, Poisson: a.Nu}
}
