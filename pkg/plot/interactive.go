package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes fig as a standalone page with a rotatable 3D scatter.
// Points keep the colours computed by the figure's colour scale.
func (r *Renderer) RenderHTML(w io.Writer, fig *Figure) error {
	data := make([]opts.Chart3DData, 0, len(fig.Points))
	for _, p := range fig.Points {
		if !finite(p.Position) {
			continue
		}
		pos := roomAxes(p.Position)
		data = append(data, opts.Chart3DData{
			Name:      p.Label + ": " + formatValue(p.Value),
			Value:     []interface{}{pos.X, pos.Y, pos.Z},
			ItemStyle: &opts.ItemStyle{Color: p.Color},
		})
	}
	if len(data) == 0 {
		return ErrNoPoints
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fig.Title,
			Width:     fmt.Sprintf("%dpx", r.Width),
			Height:    fmt.Sprintf("%dpx", r.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fig.Title,
			Subtitle: fmt.Sprintf("%s, colour range [%s, %s]", fig.ColorScale, formatValue(fig.Range.Min), formatValue(fig.Range.Max)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "Width (x)"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Distance (z)"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Height (y)"}),
	)
	scatter.AddSeries(fig.Column, data)

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func formatValue(v float64) string {
	if !isFinite(v) {
		return "n/a"
	}
	return formatTick(v)
}
