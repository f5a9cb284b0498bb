package metric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrUnknownCategory marks a category outside the enumerated set
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidOption marks a sub-option the category cannot use
	ErrInvalidOption = errors.New("invalid option")
)

// MissingColumnError is returned when the table lacks a column a selection needs
type MissingColumnError struct {
	Category Category
	Column   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("category %s needs column %q which the table does not have", e.Category, e.Column)
}

// Table is the column access the resolver needs
type Table interface {
	HasColumn(name string) bool
	Float64s(column string) ([]float64, error)
}

type rangePolicy int

const (
	// [0, 1] regardless of the data
	rangeUnit rangePolicy = iota
	// [0, max(base column)] even when the xy column is displayed
	rangeZeroToBaseMax
	// [min, max] of the column actually displayed
	rangeResolvedExtent
)

type rule struct {
	base   func(Options) string
	xy     func(Options) string // nil: no horizontal-plane variant
	policy rangePolicy
}

func fixed(column string) func(Options) string {
	return func(Options) string { return column }
}

var rules = map[Category]rule{
	CategoryAccuracy: {
		base:   func(o Options) string { return fmt.Sprintf("accuracy_%dcm", o.Distance) },
		xy:     func(o Options) string { return fmt.Sprintf("accuracy_%dcm_xy", o.Distance) },
		policy: rangeUnit,
	},
	CategoryBeamformingMaxima: {
		base:   fixed("beamforming_dist"),
		xy:     fixed("beamforming_dist_xy"),
		policy: rangeZeroToBaseMax,
	},
	CategoryInterquartileRange: {
		base:   fixed("iqr_dist"),
		policy: rangeZeroToBaseMax,
	},
	CategoryMeanAbsoluteError: {
		base:   fixed("mae_coord"),
		xy:     fixed("mae_xy"),
		policy: rangeZeroToBaseMax,
	},
	CategoryMeanDifference: {
		base:   func(o Options) string { return fmt.Sprintf("mean_diff_%s", o.Axis) },
		policy: rangeZeroToBaseMax,
	},
	CategoryMeanDistance: {
		base:   fixed("mean_dist"),
		xy:     fixed("mean_dist_xy"),
		policy: rangeZeroToBaseMax,
	},
	CategoryMedianDistance: {
		base:   fixed("median_dist"),
		xy:     fixed("median_dist_xy"),
		policy: rangeZeroToBaseMax,
	},
	CategoryStandardDeviation: {
		base:   fixed("coord_std"),
		xy:     fixed("coord_std_xy"),
		policy: rangeResolvedExtent,
	},
}

// SupportsXY reports whether the category has a horizontal-plane variant
func (c Category) SupportsXY() bool {
	r, ok := rules[c]
	return ok && r.xy != nil
}

// NeedsDistance reports whether the category takes a distance threshold
func (c Category) NeedsDistance() bool { return c == CategoryAccuracy }

// NeedsAxis reports whether the category takes an axis
func (c Category) NeedsAxis() bool { return c == CategoryMeanDifference }

func lookupRule(category Category, opts Options) (rule, error) {
	r, ok := rules[category]
	if !ok {
		return rule{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if category.NeedsDistance() && opts.Distance <= 0 {
		return rule{}, fmt.Errorf("%w: %s needs a positive distance, got %d", ErrInvalidOption, category, opts.Distance)
	}
	if category.NeedsAxis() && !opts.Axis.Valid() {
		return rule{}, fmt.Errorf("%w: %s needs axis x, y or z, got %q", ErrInvalidOption, category, opts.Axis)
	}
	return r, nil
}

// Column returns the table column a category and its options display
func Column(category Category, opts Options) (string, error) {
	r, err := lookupRule(category, opts)
	if err != nil {
		return "", err
	}
	if opts.XYOnly && r.xy != nil {
		return r.xy(opts), nil
	}
	return r.base(opts), nil
}

// RequiredColumns lists the columns Resolve reads for a selection
func RequiredColumns(category Category, opts Options) ([]string, error) {
	r, err := lookupRule(category, opts)
	if err != nil {
		return nil, err
	}

	column, _ := Column(category, opts)
	required := []string{column}
	if r.policy == rangeZeroToBaseMax && r.base(opts) != column {
		required = append(required, r.base(opts))
	}
	return required, nil
}

// Resolve maps a category and its options onto the column to display, the
// colour range and the description of the metric. It only reads the table.
func Resolve(category Category, table Table, opts Options) (Selection, error) {
	r, err := lookupRule(category, opts)
	if err != nil {
		return Selection{}, err
	}

	if err := Validate(table, category, opts); err != nil {
		return Selection{}, err
	}

	column, _ := Column(category, opts)
	selection := Selection{
		Category:    category,
		Label:       category.Label(),
		Column:      column,
		Description: Describe(category, opts),
	}

	switch r.policy {
	case rangeUnit:
		selection.Range = &Range{Min: 0, Max: 1}
	case rangeZeroToBaseMax:
		values, err := table.Float64s(r.base(opts))
		if err != nil {
			return Selection{}, fmt.Errorf("failed to read %s: %w", r.base(opts), err)
		}
		if _, hi, ok := extent(values); ok {
			selection.Range = &Range{Min: 0, Max: hi}
		}
	case rangeResolvedExtent:
		values, err := table.Float64s(column)
		if err != nil {
			return Selection{}, fmt.Errorf("failed to read %s: %w", column, err)
		}
		if lo, hi, ok := extent(values); ok {
			selection.Range = &Range{Min: lo, Max: hi}
		}
	}

	return selection, nil
}

// extent returns min and max over the finite values; ok is false if there are none
func extent(values []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}
