// fixturegen prints the reference coefficient vectors used by the greens
// tests, as Go or C++ source.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/skin"
)

var (
	node1     = geom.Pt(0.1, 0.1)
	node2Diff = geom.Pt(0.105, 0.107)
	node2Same = geom.Pt(0.1, 0.1)
)

var CLI struct {
	Lang     string  `enum:"go,cpp" default:"go" help:"Output language (go or cpp)."`
	H        float64 `default:"0.002" help:"Layer thickness."`
	Modulus  float64 `default:"300000" help:"Elastic modulus."`
	NodeArea float64 `default:"0.002" help:"Taxel area used for the coincident-node radius."`
}

type fixture struct {
	name   string
	values []float64
}

func fixtures(m greens.Material) []fixture {
	diff := greens.EvaluateOffset(node2Diff.Sub(node1), m)
	same := greens.EvaluateOffset(node2Same.Sub(node1), m)

	var fs []fixture
	for _, t := range []struct {
		prefix string
		tensor greens.Tensor
	}{{"diff", diff}, {"same", same}} {
		for _, d := range []greens.Dims{greens.Full, greens.Row, greens.Column, greens.Normal} {
			fs = append(fs, fixture{
				name:   fmt.Sprintf("%s_%d_%d", t.prefix, d.Displacement, d.Force),
				values: t.tensor.Reduce(d),
			})
		}
	}
	return fs
}

func formatValues(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// goName turns diff_1_3 into expectedDiff13.
func goName(name string) string {
	parts := strings.Split(name, "_")
	return "expected" + strings.ToUpper(parts[0][:1]) + parts[0][1:] + strings.Join(parts[1:], "")
}

func writeFixtures(w io.Writer, lang string, fs []fixture) error {
	switch lang {
	case "go":
		if _, err := fmt.Fprintln(w, "var ("); err != nil {
			return err
		}
		for _, f := range fs {
			if _, err := fmt.Fprintf(w, "\t%s = []float64{%s}\n", goName(f.name), formatValues(f.values)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, ")")
		return err
	case "cpp":
		for _, f := range fs {
			if _, err := fmt.Fprintf(w, "std::vector<double> expected_%s = {%s};\n", f.name, formatValues(f.values)); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Errorf("unknown language %q", lang)
}

// material validates the layer constants the same way skin documents are
// validated before any coefficient is evaluated.
func material(h, modulus, nodeArea float64) (greens.Material, error) {
	attrs := skin.Attributes{H: h, E: modulus, Nu: skin.DefaultPoisson, TaxelArea: nodeArea}
	if err := attrs.Validate(); err != nil {
		return greens.Material{}, err
	}
	return attrs.Material(), nil
}

func main() {
	k := kong.Parse(&CLI, kong.Description("Print reference Green's function coefficients."))

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	m, err := material(CLI.H, CLI.Modulus, CLI.NodeArea)
	if err != nil {
		logger.Error("Invalid layer constants", zap.Error(err))
		k.FatalIfErrorf(err)
	}
	if err := writeFixtures(os.Stdout, CLI.Lang, fixtures(m)); err != nil {
		logger.Error("Failed to write fixtures", zap.Error(err))
		k.FatalIfErrorf(err)
	}
	logger.Debug("Wrote fixtures", zap.String("lang", CLI.Lang), zap.Float64("nodeRadius", m.NodeRadius))
}
