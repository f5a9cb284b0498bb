package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ColorScale maps a normalised value in [0, 1] onto a colour
type ColorScale struct {
	Name  string
	stops []drawing.Color
	fn    func(t float64) drawing.Color
}

// DefaultColorScale is used when a request names none
const DefaultColorScale = "amp"

// ColorScaleNames lists the selectable scales in menu order
var ColorScaleNames = []string{"amp", "Viridis", "Blues", "deep"}

var colorScales = map[string]ColorScale{
	// cmocean amp
	"amp": {Name: "amp", stops: hexStops(
		"F1EDEC", "E6CDC6", "DCAC9F", "D38B79", "C96954",
		"BB4735", "A0281F", "7C1419", "560D15", "3C0912",
	)},
	"Viridis": {Name: "Viridis", fn: func(t float64) drawing.Color {
		return chart.Viridis(t, 0, 1)
	}},
	"Blues": {Name: "Blues", stops: hexStops(
		"F7FBFF", "DEEBF7", "C6DBEF", "9ECAE1", "6BAED6",
		"4292C6", "2171B5", "08519C", "08306B",
	)},
	// cmocean deep
	"deep": {Name: "deep", stops: hexStops(
		"FDFECC", "CBEBB4", "98D6A6", "6ABFA2", "50A3A0",
		"42869C", "3E6896", "404B84", "382F5A", "281A2C",
	)},
}

func hexStops(hex ...string) []drawing.Color {
	out := make([]drawing.Color, len(hex))
	for i, h := range hex {
		out[i] = drawing.ColorFromHex(h)
	}
	return out
}

// LookupColorScale finds a scale by name, case-insensitively. An empty name
// selects DefaultColorScale.
func LookupColorScale(name string) (ColorScale, error) {
	if name == "" {
		name = DefaultColorScale
	}
	if s, ok := colorScales[name]; ok {
		return s, nil
	}
	for key, s := range colorScales {
		if strings.EqualFold(key, name) {
			return s, nil
		}
	}
	return ColorScale{}, fmt.Errorf("unknown color scale %q (available: %s)", name, strings.Join(ColorScaleNames, ", "))
}

// At returns the colour for t, clamped to [0, 1]
func (s ColorScale) At(t float64) drawing.Color {
	if math.IsNaN(t) {
		return missingColor
	}
	t = math.Max(0, math.Min(1, t))

	if s.fn != nil {
		return s.fn(t)
	}
	if len(s.stops) == 1 {
		return s.stops[0]
	}

	pos := t * float64(len(s.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(s.stops)-1 {
		return s.stops[len(s.stops)-1]
	}
	frac := pos - float64(i)
	a, b := s.stops[i], s.stops[i+1]
	return drawing.Color{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

// Map normalises v against [lo, hi] and returns its colour
func (s ColorScale) Map(v, lo, hi float64) drawing.Color {
	if math.IsNaN(v) {
		return missingColor
	}
	if hi <= lo {
		return s.At(0.5)
	}
	return s.At((v - lo) / (hi - lo))
}

var missingColor = drawing.Color{R: 191, G: 191, B: 191, A: 255}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func hexColor(c drawing.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
