package plot

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/gilchrisn/localization-viewer/pkg/metric"
	"github.com/gilchrisn/localization-viewer/pkg/table"
)

const roomCSV = `name,real_x,real_y,real_z,mae_coord
P1,0.0,0.5,1.0,0.1
P2,1.0,0.5,1.0,0.4
P3,0.0,1.5,2.0,0.2
P4,1.0,1.5,2.0,
`

func loadRoom(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(roomCSV))
	if err != nil {
		t.Fatalf("Failed to read table: %v", err)
	}
	return tbl
}

func TestLookupColorScale(t *testing.T) {
	for _, name := range ColorScaleNames {
		if _, err := LookupColorScale(name); err != nil {
			t.Errorf("Scale %s should exist: %v", name, err)
		}
	}

	s, err := LookupColorScale("viridis")
	if err != nil || s.Name != "Viridis" {
		t.Errorf("Expected case-insensitive match, got %v %v", s.Name, err)
	}

	s, err = LookupColorScale("")
	if err != nil || s.Name != DefaultColorScale {
		t.Errorf("Expected default scale, got %v %v", s.Name, err)
	}

	if _, err := LookupColorScale("jet"); err == nil {
		t.Error("Expected error for unknown scale")
	}
}

func TestColorScaleAt(t *testing.T) {
	s, _ := LookupColorScale("Blues")

	if got := s.At(0); got != drawing.ColorFromHex("F7FBFF") {
		t.Errorf("Expected first stop at 0, got %v", got)
	}
	if got := s.At(1); got != drawing.ColorFromHex("08306B") {
		t.Errorf("Expected last stop at 1, got %v", got)
	}
	if s.At(-3) != s.At(0) || s.At(7) != s.At(1) {
		t.Error("Expected values outside [0, 1] to clamp")
	}
	if s.At(math.NaN()) != missingColor {
		t.Error("Expected NaN to map to the missing colour")
	}

	// darker towards the top of the scale
	if s.At(0.25).B <= s.At(0.75).B {
		t.Errorf("Expected blue channel to fall: %v vs %v", s.At(0.25), s.At(0.75))
	}
}

func TestNewFigure(t *testing.T) {
	tbl := loadRoom(t)

	fig, err := NewFigure(tbl, "mae_coord", "mae_coord", "amp", &metric.Range{Min: 0, Max: 0.4})
	if err != nil {
		t.Fatalf("NewFigure failed: %v", err)
	}

	if len(fig.Points) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(fig.Points))
	}
	if fig.AutoRange {
		t.Error("Explicit range should not be marked auto")
	}

	p := fig.Points[2]
	if p.Label != "P3" || p.Position != (r3.Vector{X: 0, Y: 1.5, Z: 2}) {
		t.Errorf("Unexpected point %+v", p)
	}

	scale, _ := LookupColorScale("amp")
	if fig.Points[1].Color != hexColor(scale.At(1)) {
		t.Errorf("Maximum value should take the top colour, got %s", fig.Points[1].Color)
	}
	if fig.Points[3].Color != hexColor(missingColor) {
		t.Errorf("Missing value should be grey, got %s", fig.Points[3].Color)
	}
}

func TestNewFigureAutoRange(t *testing.T) {
	fig, err := NewFigure(loadRoom(t), "mae_coord", "MAE", "Viridis", nil)
	if err != nil {
		t.Fatalf("NewFigure failed: %v", err)
	}
	if !fig.AutoRange {
		t.Error("Expected auto range")
	}
	if fig.Range != (metric.Range{Min: 0.1, Max: 0.4}) {
		t.Errorf("Expected data extent, got %+v", fig.Range)
	}
}

func TestNewFigureErrors(t *testing.T) {
	tbl := loadRoom(t)
	if _, err := NewFigure(tbl, "missing", "", "amp", nil); err == nil {
		t.Error("Expected error for missing value column")
	}
	if _, err := NewFigure(tbl, "mae_coord", "", "rainbow", nil); err == nil {
		t.Error("Expected error for unknown colour scale")
	}

	noPos, _ := table.Read(strings.NewReader("name,v\nA,1\n"))
	if _, err := NewFigure(noPos, "v", "", "amp", nil); err == nil {
		t.Error("Expected error when positions are missing")
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{"": Mode3D, "3d": Mode3D, "2D": Mode2D}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("4d"); err == nil {
		t.Error("Expected error for 4d")
	}
}

func TestRender(t *testing.T) {
	fig, err := NewFigure(loadRoom(t), "mae_coord", "mae_coord", "deep", nil)
	if err != nil {
		t.Fatalf("NewFigure failed: %v", err)
	}

	r := NewRenderer(640, 480)
	for _, mode := range []Mode{Mode2D, Mode3D} {
		t.Run(string(mode), func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.Render(&buf, fig, mode); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("Output is not a PNG: %v", err)
			}
			if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
				t.Errorf("Expected 640x480, got %v", img.Bounds())
			}
		})
	}
}

func TestRenderNoPoints(t *testing.T) {
	fig := &Figure{Column: "v", ColorScale: "amp", Points: []Point{
		{Position: r3.Vector{X: math.NaN()}},
	}}
	var buf bytes.Buffer
	if err := NewRenderer(640, 480).Render(&buf, fig, Mode2D); !errors.Is(err, ErrNoPoints) {
		t.Errorf("Expected ErrNoPoints, got %v", err)
	}
}

func TestRenderColumns(t *testing.T) {
	tbl := loadRoom(t).WithIndex()
	r := NewRenderer(640, 480)

	for _, x := range []string{"name", table.IndexColumn, "real_x"} {
		var buf bytes.Buffer
		if err := r.RenderColumns(&buf, tbl, x, "mae_coord"); err != nil {
			t.Fatalf("RenderColumns(%s) failed: %v", x, err)
		}
		if _, err := png.Decode(&buf); err != nil {
			t.Errorf("RenderColumns(%s) output is not a PNG: %v", x, err)
		}
	}

	var buf bytes.Buffer
	if err := r.RenderColumns(&buf, tbl, "real_x", "name"); err == nil {
		t.Error("Expected error for non-numeric y column")
	}
}

func TestProjection(t *testing.T) {
	points := []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 4, Z: 6}}
	center := centroid(points)
	if center != (r3.Vector{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("Unexpected centroid %v", center)
	}

	// a camera without rotation shows width horizontally and height vertically
	flat := Camera{}.project(points, center)
	if flat[1].X != 1 || flat[1].Y != 2 || flat[1].Depth != 3 {
		t.Errorf("Unexpected projection %+v", flat[1])
	}

	// rotation keeps distances to the centroid
	rotated := DefaultCamera.project(points, center)
	d := math.Sqrt(rotated[1].X*rotated[1].X + rotated[1].Y*rotated[1].Y + rotated[1].Depth*rotated[1].Depth)
	if math.Abs(d-math.Sqrt(14)) > 1e-9 {
		t.Errorf("Expected distance %v, got %v", math.Sqrt(14), d)
	}
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange([]float64{2, 2})
	if r.Min != 1.5 || r.Max != 2.5 {
		t.Errorf("Expected [1.5, 2.5], got [%v, %v]", r.Min, r.Max)
	}
	r = paddedRange([]float64{0, 10, math.NaN()})
	if r.Min != -0.5 || r.Max != 10.5 {
		t.Errorf("Expected [-0.5, 10.5], got [%v, %v]", r.Min, r.Max)
	}
}

func TestPointJSONWritesNull(t *testing.T) {
	p := Point{Label: "P1", Position: r3.Vector{X: 1, Y: math.NaN(), Z: 2}, Value: math.NaN(), Color: "#BFBFBF"}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"label":"P1","position":[1,null,2],"value":null,"color":"#BFBFBF"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestRenderHTML(t *testing.T) {
	fig, err := NewFigure(loadRoom(t), "mae_coord", "mae_coord", "Viridis", &metric.Range{Min: 0, Max: 1})
	if err != nil {
		t.Fatalf("NewFigure failed: %v", err)
	}

	var buf bytes.Buffer
	if err := NewRenderer(640, 480).RenderHTML(&buf, fig); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	page := buf.String()
	for _, want := range []string{"<html", "echarts", "scatter3D", "Height (y)", fig.Points[0].Color} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}

	empty := &Figure{Column: "v", ColorScale: "amp", Points: []Point{{Position: r3.Vector{Y: math.Inf(1)}}}}
	if err := NewRenderer(640, 480).RenderHTML(&buf, empty); !errors.Is(err, ErrNoPoints) {
		t.Errorf("Expected ErrNoPoints, got %v", err)
	}
}
