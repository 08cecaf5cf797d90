// solve turns a skin document of normal displacements into forces or
// pressures on a regular grid and writes them as a mesh file for plotmesh.
package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/influence"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/mesh"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/skin"
)

const (
	Forces            = "forces"
	NonnegativeForces = "nonnegative-forces"
	Pressures         = "pressures"
)

var CLI struct {
	Document string  `arg:"" type:"existingfile" help:"Skin document with normal displacement readings."`
	Method   string  `enum:"forces,nonnegative-forces,pressures" default:"forces" help:"What to solve for."`
	Pitch    float64 `default:"0.005" help:"Pitch of the output grid."`
	Out      string  `short:"o" type:"path" help:"Output mesh file; stdout when omitted."`
	Workers  int     `help:"Goroutines used to build the influence matrix; 0 means GOMAXPROCS."`
}

func solve(ctx context.Context, b *influence.Builder, p skin.Provider, method string, pitch float64) (*mesh.Mesh, error) {
	attrs := p.Attributes()
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	grid, err := mesh.RegularSquare(p.Nodes(), pitch)
	if err != nil {
		return nil, err
	}
	reading := p.Values()

	var m *mat.Dense
	switch method {
	case Forces:
		m, err = b.DisplacementsToForces(ctx, p.Nodes(), grid.Points(), greens.Normal, attrs)
	case Pressures:
		m, err = b.DisplacementsToPressures(ctx, p.Nodes(), grid.Points(), pitch, pitch, attrs)
	case NonnegativeForces:
		values, err := b.NonnegativeNormalForces(ctx, p.Nodes(), reading, grid.Points(), attrs)
		if err != nil {
			return nil, err
		}
		grid.Values = values
		return grid, nil
	default:
		return nil, errors.Errorf("unknown method %q", method)
	}
	if err != nil {
		return nil, err
	}

	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(len(reading), reading))
	copy(grid.Values, out.RawVector().Data)
	return grid, nil
}

func run(ctx context.Context, logger *zap.Logger, path, method string, pitch float64, workers int, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open skin document")
	}
	defer f.Close()
	doc, err := skin.ReadDocument(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	b := influence.NewBuilder(logger)
	b.Workers = workers
	grid, err := solve(ctx, b, skin.NewDocumentProvider(doc), method, pitch)
	if err != nil {
		return err
	}
	logger.Info("Solved", zap.String("method", method), zap.Int("taxels", len(doc.Nodes)), zap.Int("gridNodes", grid.Len()))
	return grid.Write(w)
}

func main() {
	k := kong.Parse(&CLI, kong.Description("Solve a displacement reading for forces or pressures."))

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var w io.Writer = os.Stdout
	if CLI.Out != "" {
		f, err := os.Create(CLI.Out)
		k.FatalIfErrorf(err)
		defer f.Close()
		w = f
	}
	if err := run(context.Background(), logger, CLI.Document, CLI.Method, CLI.Pitch, CLI.Workers, w); err != nil {
		logger.Error("Failed to solve", zap.Error(err))
		k.FatalIfErrorf(err)
	}
}
