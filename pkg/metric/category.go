package metric

import (
	"fmt"
	"strings"
)

// Category is one of the evaluation metrics a result table carries
type Category string

const (
	CategoryAccuracy           Category = "Accuracy"
	CategoryBeamformingMaxima  Category = "BeamformingMaxima"
	CategoryInterquartileRange Category = "InterquartileRange"
	CategoryMeanAbsoluteError  Category = "MeanAbsoluteError"
	CategoryMeanDifference     Category = "MeanDifference"
	CategoryMeanDistance       Category = "MeanDistance"
	CategoryMedianDistance     Category = "MedianDistance"
	CategoryStandardDeviation  Category = "StandardDeviation"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryAccuracy,
	CategoryBeamformingMaxima,
	CategoryInterquartileRange,
	CategoryMeanAbsoluteError,
	CategoryMeanDifference,
	CategoryMeanDistance,
	CategoryMedianDistance,
	CategoryStandardDeviation,
}

var labels = map[Category]string{
	CategoryAccuracy:           "Accuracy",
	CategoryBeamformingMaxima:  "Beamforming Maxima",
	CategoryInterquartileRange: "Interquartile Range",
	CategoryMeanAbsoluteError:  "Mean Absolute Error",
	CategoryMeanDifference:     "Mean Difference",
	CategoryMeanDistance:       "Mean Distance",
	CategoryMedianDistance:     "Median Distance",
	CategoryStandardDeviation:  "Standard Deviation",
}

// Label returns the human readable name, e.g. "Beamforming Maxima"
func (c Category) Label() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := rules[c]
	return ok
}

// ParseCategory accepts either the identifier or the label of a category
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if s == string(c) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Axis selects the coordinate for MeanDifference
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Axes lists the selectable axes
var Axes = []Axis{AxisX, AxisY, AxisZ}

// Valid reports whether a is one of x, y, z
func (a Axis) Valid() bool {
	return a == AxisX || a == AxisY || a == AxisZ
}

// Distances are the accuracy thresholds in centimetres the pipeline evaluates
var Distances = []int{5, 10, 15, 20, 30, 40, 50, 60}

// Options carries the category specific sub-selections
type Options struct {
	// Distance in cm, Accuracy only
	Distance int `json:"distance,omitempty" mapstructure:"distance"`
	// Axis, MeanDifference only
	Axis Axis `json:"axis,omitempty" mapstructure:"axis"`
	// XYOnly selects the horizontal-plane variant where one exists
	XYOnly bool `json:"xyOnly" mapstructure:"xyOnly"`
}

// Range is the numeric domain mapped onto the colour scale
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Selection is the resolved column/range contract handed to the renderer.
// A nil Range lets the renderer auto-scale.
type Selection struct {
	Category    Category `json:"category"`
	Label       string   `json:"label"`
	Column      string   `json:"column"`
	Range       *Range   `json:"range,omitempty"`
	Description string   `json:"description"`
}
