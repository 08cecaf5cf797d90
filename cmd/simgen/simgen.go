// simgen samples a synthetic contact at the taxel positions of a calibration
// cache and prints the readings as a C header or a skin document.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/config"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/response"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/skin"
)

const headerC = `
#ifndef SIMULATED_INPUT_H
#define SIMULATED_INPUT_H

static uint16_t simulated_input[] = {
`

const tailC = `0 // dummy element because actual last element has a comma after it
};
#endif /* SIMULATED_INPUT_H */
`

type Context struct {
	Log    *zap.Logger
	Config *config.Config
	Out    io.Writer
}

type Input struct {
	Format string `enum:"c,yaml,none" default:"c" help:"Output format (c, yaml or none)."`
	Cache  string `arg:"" optional:"" help:"Calibration cache; stdin when omitted or '-'."`
}

type GaussianCmd struct {
	Input
}

func (c *GaussianCmd) Run(ctx *Context) error {
	return c.emit(ctx, ctx.Config.Gaussian)
}

type PeaksCmd struct {
	Input
}

func (c *PeaksCmd) Run(ctx *Context) error {
	return c.emit(ctx, response.Deformation{
		Loads:    ctx.Config.Loads,
		Material: ctx.Config.Skin.Material(),
	})
}

var CLI struct {
	Config string `type:"path" help:"YAML config file; CM_* environment variables override it."`

	Gaussian GaussianCmd `cmd:"" help:"Readings of a Gaussian bump."`
	Peaks    PeaksCmd    `cmd:"" help:"Compression of the layer under point loads."`
}

func (in *Input) open() (io.ReadCloser, error) {
	if in.Cache == "" || in.Cache == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(in.Cache)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open calibration cache")
	}
	return f, nil
}

func (in *Input) emit(ctx *Context, model response.Model) error {
	r, err := in.open()
	if err != nil {
		return err
	}
	defer r.Close()

	records, skipped, err := skin.ReadCalibrationCache(r)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		ctx.Log.Warn("Skipped calibration rows", zap.Ints("lines", skipped))
	}
	ctx.Log.Info("Loaded calibration cache", zap.Int("taxels", len(records)))

	provider := skin.NewSimulatedProvider(records, ctx.Config.Skin, model)
	return write(ctx.Out, in.Format, provider)
}

func write(w io.Writer, format string, p skin.Provider) error {
	switch format {
	case "none":
		p.Values()
		return nil
	case "c":
		return writeC(w, response.ToRawAll(p.Values()))
	case "yaml":
		doc, err := skin.Snapshot(p)
		if err != nil {
			return err
		}
		return doc.Write(w)
	}
	return errors.Errorf("unrecognised output format %q", format)
}

func writeC(w io.Writer, raw []uint16) error {
	if _, err := io.WriteString(w, headerC); err != nil {
		return err
	}
	for _, v := range raw {
		if _, err := fmt.Fprintf(w, "%d,\n", v); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, tailC)
	return err
}

func main() {
	k := kong.Parse(&CLI, kong.Description("Generate simulated taxel readings."))

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(CLI.Config)
	k.FatalIfErrorf(err)

	err = k.Run(&Context{Log: logger, Config: cfg, Out: os.Stdout})
	k.FatalIfErrorf(err)
}
