// Package export writes responses and pole/zero maps as PNG or SVG images
// with gonum/plot.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

var (
	ErrNoData        = errors.New("export: nothing to plot")
	ErrUnknownFormat = errors.New("export: unknown image format")
)

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

var palette = []color.Color{
	color.RGBA{R: 0x00, G: 0x77, B: 0xbe, A: 0xff},
	color.RGBA{R: 0xff, G: 0x47, B: 0x57, A: 0xff},
	color.RGBA{R: 0x5f, G: 0xd0, B: 0x68, A: 0xff},
	color.RGBA{R: 0xff, G: 0xc0, B: 0x48, A: 0xff},
}

type Series struct {
	Name   string
	Times  []float64
	Values []float64
}

// Chart is a set of time responses sharing axes.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	// Reference draws a dashed horizontal line, e.g. the final value.
	Reference *float64
}

// Format maps a file name to "png" or "svg".
func Format(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "svg":
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

func (c Chart) build() (*plot.Plot, error) {
	if len(c.Series) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	xmin, xmax := 0.0, 0.0
	for i, s := range c.Series {
		if len(s.Times) != len(s.Values) {
			return nil, fmt.Errorf("export: series %q has %d times but %d values", s.Name, len(s.Times), len(s.Values))
		}
		if len(s.Times) == 0 {
			return nil, fmt.Errorf("%w: series %q is empty", ErrNoData, s.Name)
		}
		pts := make(plotter.XYs, len(s.Times))
		for k := range s.Times {
			pts[k].X = s.Times[k]
			pts[k].Y = s.Values[k]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("export: series %q: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = palette[i%len(palette)]
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
		xmin = min(xmin, s.Times[0])
		xmax = max(xmax, s.Times[len(s.Times)-1])
	}

	if c.Reference != nil {
		ref, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: *c.Reference}, {X: xmax, Y: *c.Reference}})
		if err != nil {
			return nil, err
		}
		ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		ref.LineStyle.Color = color.Gray{Y: 0x80}
		p.Add(ref)
	}
	p.Legend.Top = true
	return p, nil
}

// WriteTo renders the chart in format ("png" or "svg") to w.
func (c Chart) WriteTo(w io.Writer, format string, width, height vg.Length) error {
	p, err := c.build()
	if err != nil {
		return err
	}
	return render(p, w, format, width, height)
}

// Save writes the chart to path, picking the format from the extension.
func (c Chart) Save(path string, width, height vg.Length) error {
	if _, err := Format(path); err != nil {
		return err
	}
	p, err := c.build()
	if err != nil {
		return err
	}
	width, height = size(width, height)
	return p.Save(width, height, path)
}

func render(p *plot.Plot, w io.Writer, format string, width, height vg.Length) error {
	if format != "png" && format != "svg" {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	width, height = size(width, height)
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func size(width, height vg.Length) (vg.Length, vg.Length) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

// PoleZeroMap plots poles as crosses and zeros as rings on the s-plane.
type PoleZeroMap struct {
	Title string
	Poles []complex128
	Zeros []complex128
}

func (m PoleZeroMap) build() (*plot.Plot, error) {
	if len(m.Poles) == 0 && len(m.Zeros) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = m.Title
	p.X.Label.Text = "Re(s)"
	p.Y.Label.Text = "Im(s)"
	p.Add(plotter.NewGrid())

	add := func(name string, roots []complex128, glyph draw.GlyphDrawer, c color.Color) error {
		if len(roots) == 0 {
			return nil
		}
		pts := make(plotter.XYs, len(roots))
		for i, r := range roots {
			pts[i].X, pts[i].Y = real(r), imag(r)
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Shape = glyph
		sc.GlyphStyle.Radius = vg.Points(5)
		sc.GlyphStyle.Color = c
		p.Add(sc)
		p.Legend.Add(name, sc)
		return nil
	}
	if err := add("poles", m.Poles, draw.CrossGlyph{}, palette[1]); err != nil {
		return nil, err
	}
	if err := add("zeros", m.Zeros, draw.RingGlyph{}, palette[0]); err != nil {
		return nil, err
	}

	// Imaginary axis.
	axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: p.Y.Min}, {X: 0, Y: p.Y.Max}})
	if err != nil {
		return nil, err
	}
	axis.LineStyle.Color = color.Gray{Y: 0x80}
	p.Add(axis)
	p.Legend.Top = true
	return p, nil
}

func (m PoleZeroMap) WriteTo(w io.Writer, format string, width, height vg.Length) error {
	p, err := m.build()
	if err != nil {
		return err
	}
	return render(p, w, format, width, height)
}

func (m PoleZeroMap) Save(path string, width, height vg.Length) error {
	if _, err := Format(path); err != nil {
		return err
	}
	p, err := m.build()
	if err != nil {
		return err
	}
	width, height = size(width, height)
	return p.Save(width, height, path)
}
