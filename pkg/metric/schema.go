package metric

// Availability describes which sub-options of a category a table can serve
type Availability struct {
	Category   Category `json:"category"`
	Label      string   `json:"label"`
	Available  bool     `json:"available"`
	SupportsXY bool     `json:"supportsXY"`
	// XYAvailable is false when the xy variant columns are missing
	XYAvailable bool   `json:"xyAvailable"`
	Distances   []int  `json:"distances,omitempty"`
	Axes        []Axis `json:"axes,omitempty"`
}

// Schema is the column lookup used to validate selections up front
type Schema interface {
	HasColumn(name string) bool
}

func satisfied(schema Schema, category Category, opts Options) bool {
	required, err := RequiredColumns(category, opts)
	if err != nil {
		return false
	}
	for _, column := range required {
		if !schema.HasColumn(column) {
			return false
		}
	}
	return true
}

// Available checks every category against a loaded table's columns so that
// only resolvable selections are offered.
func Available(schema Schema) []Availability {
	out := make([]Availability, 0, len(Categories))

	for _, category := range Categories {
		a := Availability{
			Category:   category,
			Label:      category.Label(),
			SupportsXY: category.SupportsXY(),
		}

		var variants []Options
		switch {
		case category.NeedsDistance():
			a.Distances = []int{}
			for _, d := range Distances {
				if satisfied(schema, category, Options{Distance: d}) {
					a.Distances = append(a.Distances, d)
				}
				variants = append(variants, Options{Distance: d})
			}
		case category.NeedsAxis():
			a.Axes = []Axis{}
			for _, axis := range Axes {
				if satisfied(schema, category, Options{Axis: axis}) {
					a.Axes = append(a.Axes, axis)
				}
				variants = append(variants, Options{Axis: axis})
			}
		default:
			variants = []Options{{}}
		}

		for _, opts := range variants {
			if satisfied(schema, category, opts) {
				a.Available = true
			}
			xy := opts
			xy.XYOnly = true
			if a.SupportsXY && satisfied(schema, category, xy) {
				a.XYAvailable = true
			}
		}

		out = append(out, a)
	}

	return out
}

// Validate checks a single selection against a table schema without reading values
func Validate(schema Schema, category Category, opts Options) error {
	required, err := RequiredColumns(category, opts)
	if err != nil {
		return err
	}
	for _, column := range required {
		if !schema.HasColumn(column) {
			return &MissingColumnError{Category: category, Column: column}
		}
	}
	return nil
}
