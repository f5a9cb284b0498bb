package plot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/gilchrisn/localization-viewer/pkg/metric"
)

// Columns the figure reads for point positions and hover labels
const (
	NameColumn  = "name"
	RealXColumn = "real_x"
	RealYColumn = "real_y"
	RealZColumn = "real_z"
)

// Source is the table access needed to build a figure
type Source interface {
	HasColumn(name string) bool
	Strings(column string) ([]string, error)
	Float64s(column string) ([]float64, error)
	Len() int
}

// Point is one evaluated target location
type Point struct {
	Label    string    `json:"label"`
	Position r3.Vector `json:"position"`
	Value    float64   `json:"value"`
	Color    string    `json:"color"`
}

// MarshalJSON writes missing values and coordinates as null
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label    string      `json:"label"`
		Position [3]*float64 `json:"position"`
		Value    *float64    `json:"value"`
		Color    string      `json:"color"`
	}{
		Label:    p.Label,
		Position: [3]*float64{nullable(p.Position.X), nullable(p.Position.Y), nullable(p.Position.Z)},
		Value:    nullable(p.Value),
		Color:    p.Color,
	})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Figure is a renderer independent scatter description
type Figure struct {
	Title      string       `json:"title"`
	Column     string       `json:"column"`
	ColorScale string       `json:"colorScale"`
	Range      metric.Range `json:"range"`
	// AutoRange is true when Range was derived from the data
	AutoRange bool    `json:"autoRange"`
	Points    []Point `json:"points"`

	scale ColorScale
}

// NewFigure builds the scatter of column over the real target positions.
// A nil rng scales the colours to the finite extent of the column.
func NewFigure(src Source, column, title, scaleName string, rng *metric.Range) (*Figure, error) {
	scale, err := LookupColorScale(scaleName)
	if err != nil {
		return nil, err
	}

	values, err := src.Float64s(column)
	if err != nil {
		return nil, fmt.Errorf("failed to read value column: %w", err)
	}

	xs, err := src.Float64s(RealXColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	ys, err := src.Float64s(RealYColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	zs := make([]float64, src.Len())
	if src.HasColumn(RealZColumn) {
		if zs, err = src.Float64s(RealZColumn); err != nil {
			return nil, fmt.Errorf("failed to read positions: %w", err)
		}
	}

	labels := make([]string, src.Len())
	if src.HasColumn(NameColumn) {
		if labels, err = src.Strings(NameColumn); err != nil {
			return nil, err
		}
	} else {
		for i := range labels {
			labels[i] = "row " + strconv.Itoa(i+1)
		}
	}

	fig := &Figure{
		Title:      title,
		Column:     column,
		ColorScale: scale.Name,
		scale:      scale,
	}

	if rng != nil {
		fig.Range = *rng
	} else {
		fig.AutoRange = true
		fig.Range = dataRange(values)
	}

	fig.Points = make([]Point, len(values))
	for i, v := range values {
		fig.Points[i] = Point{
			Label:    labels[i],
			Position: r3.Vector{X: xs[i], Y: ys[i], Z: zs[i]},
			Value:    v,
			Color:    hexColor(scale.Map(v, fig.Range.Min, fig.Range.Max)),
		}
	}

	return fig, nil
}

func dataRange(values []float64) metric.Range {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return metric.Range{Min: 0, Max: 1}
	}
	return metric.Range{Min: floats.Min(finite), Max: floats.Max(finite)}
}
