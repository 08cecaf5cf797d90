// Package barchart draws a mesh of scalar values as a field of 3-D bars in
// an oblique projection.
package barchart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/mesh"
)

// BarFill is the fraction of the grid pitch each bar's base covers.
const BarFill = 0.9

type Options struct {
	Width, Height int
	Title         string
	Logger        *zap.Logger
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 600}
}

const (
	margin = 60.0
	// Depth axis foreshortening and angle of the oblique projection.
	depthScale = 0.5
	depthAngle = math.Pi / 6
)

type bar struct {
	u, w, h float64 // normalized position and height
	t       float64 // colormap parameter
}

// Render draws m. The mesh must be valid.
func Render(m *mesh.Mesh, opts Options) image.Image {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if m.DX != m.DY {
		logger.Warn("dx != dy; bars have a square base of side (dx+dy)/2",
			zap.Float64("dx", m.DX), zap.Float64("dy", m.DY))
	}
	d := (m.DX + m.DY) / 2

	minX, maxX, minY, maxY, minV, maxV := m.Bounds()
	span := math.Max(maxX-minX, maxY-minY) + d
	vRange := maxV - minV
	if vRange == 0 {
		vRange = 1
	}

	bars := make([]bar, m.Len())
	for i := range bars {
		t := (m.Values[i] - minV) / vRange
		bars[i] = bar{
			u: (m.X[i] - minX + d/2) / span,
			w: (m.Y[i] - minY + d/2) / span,
			h: t,
			t: t,
		}
	}
	// Painter's order: furthest rows first, then left to right.
	slices.SortFunc(bars, func(a, b bar) int {
		switch {
		case a.w > b.w:
			return -1
		case a.w < b.w:
			return 1
		case a.u < b.u:
			return -1
		case a.u > b.u:
			return 1
		}
		return 0
	})

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	p := newProjection(float64(opts.Width), float64(opts.Height))
	side := BarFill * d / span

	drawFloor(dc, p)
	for _, b := range bars {
		drawBar(dc, p, b, side)
	}

	dc.SetRGB(0, 0, 0)
	if opts.Title != "" {
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, margin/3, 0.5, 0.5)
	}
	dc.DrawString(fmt.Sprintf("x: [%g, %g]", minX, maxX), margin/2, float64(opts.Height)-margin/2)
	dc.DrawString(fmt.Sprintf("y: [%g, %g]", minY, maxY), margin/2, float64(opts.Height)-margin/2+14)
	dc.DrawString(fmt.Sprintf("v: [%g, %g]", minV, maxV), float64(opts.Width)/2, float64(opts.Height)-margin/2)
	drawColorbar(dc, float64(opts.Width), float64(opts.Height))
	return dc.Image()
}

// projection maps normalized (u, w, h), each in [0, 1], to image coordinates.
type projection struct {
	scale, ox, oy float64
}

func newProjection(width, height float64) projection {
	dx := math.Cos(depthAngle) * depthScale
	dy := math.Sin(depthAngle) * depthScale
	// The unit cube spans (1+dx) horizontally and (1+dy) vertically.
	scale := math.Min((width-3*margin)/(1+dx), (height-2*margin)/(1+dy))
	return projection{
		scale: scale,
		ox:    margin,
		oy:    height - margin,
	}
}

func (p projection) at(u, w, h float64) (float64, float64) {
	x := p.ox + p.scale*(u+w*math.Cos(depthAngle)*depthScale)
	y := p.oy - p.scale*(h+w*math.Sin(depthAngle)*depthScale)
	return x, y
}

func polygon(dc *gg.Context, p projection, pts ...[3]float64) {
	dc.NewSubPath()
	for i, pt := range pts {
		x, y := p.at(pt[0], pt[1], pt[2])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func drawFloor(dc *gg.Context, p projection) {
	polygon(dc, p, [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, [3]float64{1, 1, 0}, [3]float64{0, 1, 0})
	dc.SetRGB(0.95, 0.95, 0.95)
	dc.FillPreserve()
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func drawBar(dc *gg.Context, p projection, b bar, side float64) {
	u0, u1 := b.u-side/2, b.u+side/2
	w0, w1 := b.w-side/2, b.w+side/2
	c := Jet(b.t)

	faces := []struct {
		shade float64
		pts   [][3]float64
	}{
		// front
		{0.8, [][3]float64{{u0, w0, 0}, {u1, w0, 0}, {u1, w0, b.h}, {u0, w0, b.h}}},
		// right
		{0.6, [][3]float64{{u1, w0, 0}, {u1, w1, 0}, {u1, w1, b.h}, {u1, w0, b.h}}},
		// top
		{1, [][3]float64{{u0, w0, b.h}, {u1, w0, b.h}, {u1, w1, b.h}, {u0, w1, b.h}}},
	}
	for _, f := range faces {
		polygon(dc, p, f.pts...)
		dc.SetColor(shade(c, f.shade))
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 0.3)
		dc.SetLineWidth(0.5)
		dc.Stroke()
	}
}

func drawColorbar(dc *gg.Context, width, height float64) {
	const steps = 64
	x := width - margin
	top, bottom := margin, height-margin
	step := (bottom - top) / steps
	for i := 0; i < steps; i++ {
		dc.SetColor(Jet(1 - float64(i)/(steps-1)))
		dc.DrawRectangle(x, top+float64(i)*step, margin/3, step+1)
		dc.Fill()
	}
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

// Jet maps t in [0, 1] onto the blue-cyan-yellow-red colormap. Values
// outside the range are clamped.
func Jet(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	channel := func(centre float64) uint8 {
		v := 1.5 - math.Abs(4*t-centre)
		v = math.Max(0, math.Min(1, v))
		return uint8(math.Round(v * 255))
	}
	return color.RGBA{R: channel(3), G: channel(2), B: channel(1), A: 255}
}

func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}
