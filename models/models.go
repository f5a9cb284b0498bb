package models

import (
	"github.com/gilchrisn/localization-viewer/pkg/combination"
	"github.com/gilchrisn/localization-viewer/pkg/metric"
	"github.com/gilchrisn/localization-viewer/pkg/plot"
)

// ResultRef identifies one result file by its experiment parameters
type ResultRef struct {
	Frequency int `json:"frequency" mapstructure:"frequency"`
	Blocksize int `json:"blocksize" mapstructure:"blocksize"`
	Nob       int `json:"nob" mapstructure:"nob"`
}

// EvaluationRequest is everything needed to resolve and plot one metric
type EvaluationRequest struct {
	Result     ResultRef      `json:"result" mapstructure:",squash"`
	Category   string         `json:"category" mapstructure:"category"`
	Options    metric.Options `json:"options" mapstructure:",squash"`
	ColorScale string         `json:"colorScale" mapstructure:"colorScale"`
	Mode       string         `json:"mode,omitempty" mapstructure:"mode"`
}

// NobsResponse lists the nob values of a frequency/blocksize pair
type NobsResponse struct {
	Frequency int    `json:"frequency"`
	Blocksize int    `json:"blocksize"`
	Nobs      []int  `json:"nobs"`
	Warning   string `json:"warning,omitempty"`
}

// CategoryInfo describes one selectable category and its sub-options
type CategoryInfo struct {
	Category      metric.Category `json:"category"`
	Label         string          `json:"label"`
	SupportsXY    bool            `json:"supportsXY"`
	NeedsDistance bool            `json:"needsDistance"`
	NeedsAxis     bool            `json:"needsAxis"`
}

// CatalogResponse lists every category, sub-option and colour scale
type CatalogResponse struct {
	Categories  []CategoryInfo `json:"categories"`
	Distances   []int          `json:"distances"`
	Axes        []metric.Axis  `json:"axes"`
	ColorScales []string       `json:"colorScales"`
	PlotModes   []plot.Mode    `json:"plotModes"`
}

// ColumnsResponse is the schema of one result file plus the categories it can serve
type ColumnsResponse struct {
	Result     ResultRef             `json:"result"`
	File       string                `json:"file"`
	Rows       int                   `json:"rows"`
	Columns    []string              `json:"columns"`
	Categories []metric.Availability `json:"categories"`
}

// TablePage is one page of the raw result table
type TablePage struct {
	Result  ResultRef  `json:"result"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Total   int        `json:"total"`
}

// EvaluationResponse pairs the resolved metric with the figure built from it
type EvaluationResponse struct {
	Result    ResultRef        `json:"result"`
	Selection metric.Selection `json:"selection"`
	Figure    *plot.Figure     `json:"figure"`
}

// View is one of the static room images shown on the home page
type View struct {
	Label string `json:"label"`
	File  string `json:"file"`
	URL   string `json:"url"`
}

// CombinationsResponse wraps the discovered parameter values
type CombinationsResponse struct {
	Dir          string          `json:"dir"`
	Combinations combination.Set `json:"combinations"`
	Count        int             `json:"count"`
}

// API Response types
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
