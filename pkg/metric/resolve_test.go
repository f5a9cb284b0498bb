package metric

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/gilchrisn/localization-viewer/pkg/table"
)

// fullCSV carries every column the resolver can ask for
const fullCSV = `name,real_x,real_y,real_z,accuracy_10cm,accuracy_10cm_xy,beamforming_dist,beamforming_dist_xy,iqr_dist,mae_coord,mae_xy,mean_diff_x,mean_diff_y,mean_diff_z,mean_dist,mean_dist_xy,median_dist,median_dist_xy,coord_std,coord_std_xy
P1,0,0,0,0.2,0.4,1.0,5.0,0.3,0.5,0.9,0.1,0.1,0.7,2.0,3.0,1.5,2.5,0.4,0.05
P2,1,0,0,0.8,0.9,2.0,6.0,0.6,0.7,1.9,0.2,0.3,0.8,4.0,7.0,3.5,8.5,0.6,0.02
P3,2,0,0,0.5,0.6,1.5,4.0,,0.6,1.1,0.3,0.2,0.9,3.0,5.0,2.5,6.5,0.5,0.09
`

func loadTable(t *testing.T, csv string) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Failed to read table: %v", err)
	}
	return tbl
}

func TestResolveTable(t *testing.T) {
	tbl := loadTable(t, fullCSV)

	tests := []struct {
		name     string
		category Category
		opts     Options
		column   string
		rng      Range
	}{
		{"Accuracy", CategoryAccuracy, Options{Distance: 10}, "accuracy_10cm", Range{0, 1}},
		{"AccuracyXY", CategoryAccuracy, Options{Distance: 10, XYOnly: true}, "accuracy_10cm_xy", Range{0, 1}},
		{"Beamforming", CategoryBeamformingMaxima, Options{}, "beamforming_dist", Range{0, 2.0}},
		{"BeamformingXY", CategoryBeamformingMaxima, Options{XYOnly: true}, "beamforming_dist_xy", Range{0, 2.0}},
		{"IQR", CategoryInterquartileRange, Options{}, "iqr_dist", Range{0, 0.6}},
		{"IQRIgnoresXY", CategoryInterquartileRange, Options{XYOnly: true}, "iqr_dist", Range{0, 0.6}},
		{"MAE", CategoryMeanAbsoluteError, Options{}, "mae_coord", Range{0, 0.7}},
		{"MAEXY", CategoryMeanAbsoluteError, Options{XYOnly: true}, "mae_xy", Range{0, 0.7}},
		{"MeanDiffZ", CategoryMeanDifference, Options{Axis: AxisZ}, "mean_diff_z", Range{0, 0.9}},
		{"MeanDiffIgnoresXY", CategoryMeanDifference, Options{Axis: AxisX, XYOnly: true}, "mean_diff_x", Range{0, 0.3}},
		{"MeanDist", CategoryMeanDistance, Options{}, "mean_dist", Range{0, 4.0}},
		{"MeanDistXY", CategoryMeanDistance, Options{XYOnly: true}, "mean_dist_xy", Range{0, 4.0}},
		{"MedianDist", CategoryMedianDistance, Options{}, "median_dist", Range{0, 3.5}},
		{"MedianDistXY", CategoryMedianDistance, Options{XYOnly: true}, "median_dist_xy", Range{0, 3.5}},
		{"Std", CategoryStandardDeviation, Options{}, "coord_std", Range{0.4, 0.6}},
		{"StdXY", CategoryStandardDeviation, Options{XYOnly: true}, "coord_std_xy", Range{0.02, 0.09}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Resolve(tt.category, tbl, tt.opts)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if sel.Column != tt.column {
				t.Errorf("Expected column %s, got %s", tt.column, sel.Column)
			}
			if sel.Range == nil {
				t.Fatalf("Expected range %+v, got nil", tt.rng)
			}
			if *sel.Range != tt.rng {
				t.Errorf("Expected range %+v, got %+v", tt.rng, *sel.Range)
			}
			if sel.Description == "" {
				t.Error("Expected a description")
			}
			if sel.Label != tt.category.Label() {
				t.Errorf("Expected label %s, got %s", tt.category.Label(), sel.Label)
			}
		})
	}
}

func TestResolveMeanDifferenceScenario(t *testing.T) {
	tbl := loadTable(t, "name,mean_diff_y\nA,0.1\nB,0.3\nC,0.2\n")

	sel, err := Resolve(CategoryMeanDifference, tbl, Options{Axis: AxisY})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sel.Column != "mean_diff_y" {
		t.Errorf("Expected mean_diff_y, got %s", sel.Column)
	}
	if sel.Range == nil || *sel.Range != (Range{Min: 0, Max: 0.3}) {
		t.Errorf("Expected [0, 0.3], got %+v", sel.Range)
	}
	if !strings.Contains(sel.Description, "y-axis") {
		t.Errorf("Description should mention the axis: %s", sel.Description)
	}
}

func TestResolveAccuracyRangeIgnoresData(t *testing.T) {
	tbl := loadTable(t, "name,accuracy_5cm,accuracy_5cm_xy\nA,7,9\nB,-3,12\n")

	for _, xy := range []bool{false, true} {
		sel, err := Resolve(CategoryAccuracy, tbl, Options{Distance: 5, XYOnly: xy})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if sel.Range == nil || *sel.Range != (Range{Min: 0, Max: 1}) {
			t.Errorf("xy=%v: expected [0, 1], got %+v", xy, sel.Range)
		}
	}
}

func TestResolveXYAsymmetry(t *testing.T) {
	tbl := loadTable(t, fullCSV)

	// the xy column maxima (6.0, 1.9, 7.0, 8.5) are all above the base maxima
	for _, category := range []Category{CategoryBeamformingMaxima, CategoryMeanAbsoluteError, CategoryMeanDistance, CategoryMedianDistance} {
		base, err := Resolve(category, tbl, Options{})
		if err != nil {
			t.Fatalf("%s: %v", category, err)
		}
		xy, err := Resolve(category, tbl, Options{XYOnly: true})
		if err != nil {
			t.Fatalf("%s xy: %v", category, err)
		}
		if *base.Range != *xy.Range {
			t.Errorf("%s: xy range %+v should equal base range %+v", category, *xy.Range, *base.Range)
		}
		if base.Column == xy.Column {
			t.Errorf("%s: xy flag should change the column", category)
		}
	}

	base, _ := Resolve(CategoryStandardDeviation, tbl, Options{})
	xy, _ := Resolve(CategoryStandardDeviation, tbl, Options{XYOnly: true})
	if *base.Range == *xy.Range {
		t.Errorf("StandardDeviation range should follow the displayed column, both are %+v", *base.Range)
	}
}

func TestResolveDeterministic(t *testing.T) {
	tbl := loadTable(t, fullCSV)
	opts := Options{Distance: 10, XYOnly: true}

	first, err := Resolve(CategoryAccuracy, tbl, opts)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := Resolve(CategoryAccuracy, tbl, opts)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Resolve is not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tbl := loadTable(t, fullCSV)

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := Resolve(Category("Entropy"), tbl, Options{})
		if !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("Expected ErrUnknownCategory, got %v", err)
		}
	})

	t.Run("MissingColumn", func(t *testing.T) {
		_, err := Resolve(CategoryAccuracy, tbl, Options{Distance: 30})
		var missing *MissingColumnError
		if !errors.As(err, &missing) {
			t.Fatalf("Expected MissingColumnError, got %v", err)
		}
		if missing.Column != "accuracy_30cm" {
			t.Errorf("Expected accuracy_30cm, got %s", missing.Column)
		}
	})

	t.Run("MissingBaseColumnForXY", func(t *testing.T) {
		onlyXY := loadTable(t, "name,mae_xy\nA,1\n")
		_, err := Resolve(CategoryMeanAbsoluteError, onlyXY, Options{XYOnly: true})
		var missing *MissingColumnError
		if !errors.As(err, &missing) || missing.Column != "mae_coord" {
			t.Errorf("Expected missing mae_coord, got %v", err)
		}
	})

	t.Run("AccuracyWithoutDistance", func(t *testing.T) {
		_, err := Resolve(CategoryAccuracy, tbl, Options{})
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("Expected ErrInvalidOption, got %v", err)
		}
	})

	t.Run("MeanDifferenceBadAxis", func(t *testing.T) {
		_, err := Resolve(CategoryMeanDifference, tbl, Options{Axis: "w"})
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("Expected ErrInvalidOption, got %v", err)
		}
	})
}

func TestResolveIgnoresNaN(t *testing.T) {
	tbl := loadTable(t, "name,coord_std\nA,\nB,0.4\nC,nan\nD,0.2\n")

	sel, err := Resolve(CategoryStandardDeviation, tbl, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sel.Range == nil || *sel.Range != (Range{Min: 0.2, Max: 0.4}) {
		t.Errorf("Expected [0.2, 0.4], got %+v", sel.Range)
	}

	empty := loadTable(t, "name,coord_std\nA,\n")
	sel, err = Resolve(CategoryStandardDeviation, empty, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sel.Range != nil {
		t.Errorf("Expected nil range for a column without values, got %+v", sel.Range)
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"Accuracy":            CategoryAccuracy,
		"BeamformingMaxima":   CategoryBeamformingMaxima,
		"Beamforming Maxima":  CategoryBeamformingMaxima,
		"interquartile range": CategoryInterquartileRange,
		" StandardDeviation ": CategoryStandardDeviation,
	}
	for input, want := range tests {
		got, err := ParseCategory(input)
		if err != nil {
			t.Errorf("ParseCategory(%q) failed: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCategory(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := ParseCategory("Variance"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	desc := Describe(CategoryAccuracy, Options{Distance: 15})
	if strings.Count(desc, "15") != 3 {
		t.Errorf("Accuracy description should mention the distance three times: %s", desc)
	}
	if Describe(Category("nope"), Options{}) != "No description available for this category." {
		t.Error("Unexpected fallback description")
	}
	for _, c := range Categories {
		if Describe(c, Options{Distance: 5, Axis: AxisX}) == "" {
			t.Errorf("Missing description for %s", c)
		}
	}
}

func TestExtent(t *testing.T) {
	lo, hi, ok := extent([]float64{math.NaN(), 3, math.Inf(1), -1})
	if !ok || lo != -1 || hi != 3 {
		t.Errorf("Expected (-1, 3, true), got (%v, %v, %v)", lo, hi, ok)
	}
	if _, _, ok := extent(nil); ok {
		t.Error("Expected no extent for empty input")
	}
}
