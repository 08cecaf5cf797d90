// plotmesh renders a mesh file as a 3-D bar chart PNG.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/barchart"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/mesh"
)

var CLI struct {
	MeshFile string `arg:"" type:"existingfile" help:"Mesh file: 'dx dy' followed by lines of xs, ys and values."`
	Title    string `arg:"" optional:"" help:"Chart title; defaults to the file name."`
	Out      string `short:"o" type:"path" help:"Output PNG; defaults to the mesh file with a .png extension."`
	Width    int    `default:"800"`
	Height   int    `default:"600"`
}

func outputPath(meshFile, out string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(meshFile, filepath.Ext(meshFile)) + ".png"
}

func plot(logger *zap.Logger, meshFile, title, out string, width, height int) error {
	f, err := os.Open(meshFile)
	if err != nil {
		return errors.Wrap(err, "failed to open mesh")
	}
	defer f.Close()

	m, err := mesh.Read(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", meshFile)
	}
	if title == "" {
		title = filepath.Base(meshFile)
	}

	img := barchart.Render(m, barchart.Options{Width: width, Height: height, Title: title, Logger: logger})
	path := outputPath(meshFile, out)
	if err := barchart.SavePNG(path, img); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Info("Wrote chart", zap.String("path", path), zap.Int("bars", m.Len()))
	return nil
}

func main() {
	k := kong.Parse(&CLI, kong.Description("Plot a mesh of values as 3-D bars."))

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	k.FatalIfErrorf(plot(logger, CLI.MeshFile, CLI.Title, CLI.Out, CLI.Width, CLI.Height))
}
