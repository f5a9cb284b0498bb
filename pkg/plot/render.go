package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Mode selects the scatter projection
type Mode string

const (
	Mode2D Mode = "2d"
	Mode3D Mode = "3d"
)

// ErrNoPoints is returned when nothing with finite coordinates can be drawn
var ErrNoPoints = errors.New("no points to plot")

// ParseMode accepts "2d" or "3d"; empty selects 3d
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Mode3D:
		return Mode3D, nil
	case Mode2D:
		return Mode2D, nil
	}
	return "", fmt.Errorf("unknown plot mode %q, expected 2d or 3d", s)
}

// Renderer draws figures as PNG images
type Renderer struct {
	Width  int
	Height int
	Camera Camera
}

// NewRenderer creates a renderer producing width x height images
func NewRenderer(width, height int) *Renderer {
	if width <= colorBarWidth+100 {
		width = 900
	}
	if height <= 100 {
		height = 700
	}
	return &Renderer{Width: width, Height: height, Camera: DefaultCamera}
}

// pointStyle renders dots only, coloured per point
func pointStyle(colors []drawing.Color, dotWidth float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    dotWidth,
		DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
			if index < len(colors) {
				return colors[index]
			}
			return missingColor
		},
	}
}

// Render writes fig as a PNG scatter with a colour bar
func (r *Renderer) Render(w io.Writer, fig *Figure, mode Mode) error {
	scale, err := LookupColorScale(fig.ColorScale)
	if err != nil {
		return err
	}

	var ch chart.Chart
	switch mode {
	case Mode2D:
		ch, err = r.scatter2D(fig, scale)
	case Mode3D:
		ch, err = r.scatter3D(fig, scale)
	default:
		return fmt.Errorf("unknown plot mode %q", mode)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return attachColorBar(w, &buf, scale, fig.Range, fig.Column)
}

func (r *Renderer) baseChart(title string) chart.Chart {
	return chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 12},
		Width:      r.Width - colorBarWidth,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
	}
}

func (r *Renderer) scatter2D(fig *Figure, scale ColorScale) (chart.Chart, error) {
	var xs, ys []float64
	var colors []drawing.Color
	for _, p := range fig.Points {
		if !finite(p.Position) {
			continue
		}
		xs = append(xs, p.Position.X)
		ys = append(ys, p.Position.Y)
		colors = append(colors, scale.Map(p.Value, fig.Range.Min, fig.Range.Max))
	}
	if len(xs) == 0 {
		return chart.Chart{}, ErrNoPoints
	}

	ch := r.baseChart(fig.Title)
	ch.XAxis = chart.XAxis{Name: "X-Axis", Range: paddedRange(xs)}
	ch.YAxis = chart.YAxis{Name: "Y-Axis", Range: paddedRange(ys)}
	ch.Series = []chart.Series{
		chart.ContinuousSeries{
			Name:    fig.Column,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colors, 6),
		},
	}
	return ch, nil
}

func (r *Renderer) scatter3D(fig *Figure, scale ColorScale) (chart.Chart, error) {
	positions := make([]r3.Vector, 0, len(fig.Points))
	values := make([]float64, 0, len(fig.Points))
	for _, p := range fig.Points {
		if finite(p.Position) {
			positions = append(positions, p.Position)
			values = append(values, p.Value)
		}
	}
	if len(positions) == 0 {
		return chart.Chart{}, ErrNoPoints
	}

	center := centroid(positions)
	flat := r.Camera.project(positions, center)

	// far points first so near ones are drawn on top
	order := make([]int, len(flat))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return flat[order[a]].Depth > flat[order[b]].Depth })

	xs := make([]float64, len(order))
	ys := make([]float64, len(order))
	colors := make([]drawing.Color, len(order))
	for k, i := range order {
		xs[k] = flat[i].X
		ys[k] = flat[i].Y
		colors[k] = scale.Map(values[i], fig.Range.Min, fig.Range.Max)
	}

	series := r.axisGuides(positions, center)
	allX, allY := append([]float64{}, xs...), append([]float64{}, ys...)
	for _, s := range series {
		if cs, ok := s.(chart.ContinuousSeries); ok {
			allX = append(allX, cs.XValues...)
			allY = append(allY, cs.YValues...)
		}
	}
	series = append(series, chart.ContinuousSeries{
		Name:    fig.Column,
		XValues: xs,
		YValues: ys,
		Style:   pointStyle(colors, 5),
	})

	ch := r.baseChart(fig.Title)
	ch.XAxis = chart.XAxis{Style: chart.Hidden(), Range: paddedRange(allX)}
	ch.YAxis = chart.YAxis{Style: chart.Hidden(), Range: paddedRange(allY)}
	ch.Series = series
	return ch, nil
}

// axisGuides draws the width, distance and height edges of the bounding box
// from its lower corner, labelled like the room views.
func (r *Renderer) axisGuides(positions []r3.Vector, center r3.Vector) []chart.Series {
	lo, hi := bounds(positions)
	ends := []struct {
		label string
		end   r3.Vector
	}{
		{"Width (x)", r3.Vector{X: hi.X, Y: lo.Y, Z: lo.Z}},
		{"Distance (z)", r3.Vector{X: lo.X, Y: lo.Y, Z: hi.Z}},
		{"Height (y)", r3.Vector{X: lo.X, Y: hi.Y, Z: lo.Z}},
	}

	guideStyle := chart.Style{
		StrokeColor: drawing.ColorFromHex("9E9E9E"),
		StrokeWidth: 1,
	}

	var series []chart.Series
	var notes []chart.Value2
	for _, e := range ends {
		flat := r.Camera.project([]r3.Vector{lo, e.end}, center)
		series = append(series, chart.ContinuousSeries{
			Name:    e.label,
			XValues: []float64{flat[0].X, flat[1].X},
			YValues: []float64{flat[0].Y, flat[1].Y},
			Style:   guideStyle,
		})
		notes = append(notes, chart.Value2{XValue: flat[1].X, YValue: flat[1].Y, Label: e.label})
	}
	series = append(series, chart.AnnotationSeries{Annotations: notes})
	return series
}

// paddedRange widens [min, max] by 5% on each side; a degenerate range gets
// a unit width so the chart can still place the points.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if hi-lo < 1e-9 {
		return &chart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
