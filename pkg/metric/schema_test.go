package metric

import (
	"errors"
	"reflect"
	"testing"
)

func TestAvailable(t *testing.T) {
	tbl := loadTable(t, fullCSV)

	byCategory := make(map[Category]Availability)
	for _, a := range Available(tbl) {
		byCategory[a.Category] = a
	}

	if len(byCategory) != len(Categories) {
		t.Fatalf("Expected %d categories, got %d", len(Categories), len(byCategory))
	}

	acc := byCategory[CategoryAccuracy]
	if !acc.Available || !acc.XYAvailable {
		t.Errorf("Accuracy should be available with xy: %+v", acc)
	}
	if !reflect.DeepEqual(acc.Distances, []int{10}) {
		t.Errorf("Expected only distance 10, got %v", acc.Distances)
	}

	iqr := byCategory[CategoryInterquartileRange]
	if iqr.SupportsXY || iqr.XYAvailable {
		t.Errorf("IQR has no xy variant: %+v", iqr)
	}

	diff := byCategory[CategoryMeanDifference]
	if !reflect.DeepEqual(diff.Axes, []Axis{AxisX, AxisY, AxisZ}) {
		t.Errorf("Expected all axes, got %v", diff.Axes)
	}
}

func TestAvailableSparseTable(t *testing.T) {
	tbl := loadTable(t, "name,mean_dist,mean_diff_z\nA,1,2\n")

	for _, a := range Available(tbl) {
		switch a.Category {
		case CategoryMeanDistance:
			if !a.Available || a.XYAvailable {
				t.Errorf("MeanDistance should be available without xy: %+v", a)
			}
		case CategoryMeanDifference:
			if !a.Available || !reflect.DeepEqual(a.Axes, []Axis{AxisZ}) {
				t.Errorf("MeanDifference should offer z only: %+v", a)
			}
		default:
			if a.Available {
				t.Errorf("%s should not be available", a.Category)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tbl := loadTable(t, "name,coord_std\nA,1\n")

	if err := Validate(tbl, CategoryStandardDeviation, Options{}); err != nil {
		t.Errorf("Expected valid selection, got %v", err)
	}

	var missing *MissingColumnError
	if err := Validate(tbl, CategoryStandardDeviation, Options{XYOnly: true}); !errors.As(err, &missing) {
		t.Errorf("Expected MissingColumnError, got %v", err)
	}

	if err := Validate(tbl, "bogus", Options{}); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestRequiredColumns(t *testing.T) {
	cols, err := RequiredColumns(CategoryMedianDistance, Options{XYOnly: true})
	if err != nil {
		t.Fatalf("RequiredColumns failed: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"median_dist_xy", "median_dist"}) {
		t.Errorf("Unexpected columns %v", cols)
	}

	cols, _ = RequiredColumns(CategoryStandardDeviation, Options{XYOnly: true})
	if !reflect.DeepEqual(cols, []string{"coord_std_xy"}) {
		t.Errorf("Unexpected columns %v", cols)
	}
}
