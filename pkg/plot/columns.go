package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// maxCategoryTicks bounds the tick labels drawn for a text x column
const maxCategoryTicks = 25

var columnPointColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// RenderColumns draws one column against another. A non-numeric x column,
// such as name, is plotted by row position with the cell text as ticks.
func (r *Renderer) RenderColumns(w io.Writer, src Source, xColumn, yColumn string) error {
	ys, err := src.Float64s(yColumn)
	if err != nil {
		return fmt.Errorf("y column must be numeric: %w", err)
	}

	var xs []float64
	var ticks []gplot.Tick
	if numeric, err := src.Float64s(xColumn); err == nil {
		xs = numeric
	} else {
		labels, err := src.Strings(xColumn)
		if err != nil {
			return err
		}
		xs = make([]float64, len(labels))
		step := int(math.Max(1, math.Ceil(float64(len(labels))/maxCategoryTicks)))
		for i, label := range labels {
			xs[i] = float64(i + 1)
			if i%step == 0 {
				ticks = append(ticks, gplot.Tick{Value: xs[i], Label: label})
			}
		}
	}

	points := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			continue
		}
		points = append(points, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(points) == 0 {
		return ErrNoPoints
	}

	p := gplot.New()
	p.Title.Text = fmt.Sprintf("Scatter Plot: %s vs %s", xColumn, yColumn)
	p.X.Label.Text = xColumn
	p.Y.Label.Text = yColumn
	if ticks != nil {
		p.X.Tick.Marker = gplot.ConstantTicks(ticks)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Color = columnPointColor

	p.Add(plotter.NewGrid(), scatter)

	// image sizes are in pixels, vg lengths in points at 96 dpi
	width := vg.Length(r.Width) * vg.Inch / 96
	height := vg.Length(r.Height) * vg.Inch / 96
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
