package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/localization-viewer/models"
	"github.com/gilchrisn/localization-viewer/pkg/combination"
	"github.com/gilchrisn/localization-viewer/pkg/metric"
	"github.com/gilchrisn/localization-viewer/pkg/plot"
	"github.com/gilchrisn/localization-viewer/pkg/table"
)

var (
	// ErrNoValidCombination means no result file exists for the requested parameters
	ErrNoValidCombination = errors.New("no valid combination for the selected frequency and blocksize")
	// ErrUnknownSelection wraps resolution failures caused by the request itself
	ErrUnknownSelection = errors.New("unknown selection")
)

// ExplorerService answers every query against one result directory.
// Nothing is cached: each call rescans the directory and reloads the table.
type ExplorerService struct {
	resultsDir        string
	renderer          *plot.Renderer
	defaultColorScale string
}

// NewExplorerService creates a service reading result files from resultsDir
func NewExplorerService(resultsDir string, renderer *plot.Renderer, defaultColorScale string) *ExplorerService {
	if defaultColorScale == "" {
		defaultColorScale = plot.DefaultColorScale
	}
	return &ExplorerService{
		resultsDir:        resultsDir,
		renderer:          renderer,
		defaultColorScale: defaultColorScale,
	}
}

// ResultsDir returns the scanned directory
func (s *ExplorerService) ResultsDir() string { return s.resultsDir }

// Combinations discovers the selectable values of every dimension
func (s *ExplorerService) Combinations() (*models.CombinationsResponse, error) {
	idx, err := combination.Scan(s.resultsDir)
	if err != nil {
		return nil, err
	}

	set := idx.Set()
	if set.Empty() {
		log.Warn().
			Str("dir", s.resultsDir).
			Msg("Result directory contains no result summaries")
	}

	return &models.CombinationsResponse{
		Dir:          s.resultsDir,
		Combinations: set,
		Count:        len(idx.Combinations()),
	}, nil
}

// ValidNobs lists the nob values on disk for a frequency/blocksize pair.
// An empty list carries a warning instead of an error.
func (s *ExplorerService) ValidNobs(frequency, blocksize int) (*models.NobsResponse, error) {
	nobs, err := combination.ValidNobs(frequency, blocksize, s.resultsDir)
	if err != nil {
		return nil, err
	}

	resp := &models.NobsResponse{
		Frequency: frequency,
		Blocksize: blocksize,
		Nobs:      nobs,
	}
	if len(nobs) == 0 {
		resp.Warning = ErrNoValidCombination.Error()
	}
	return resp, nil
}

// locate resolves a result reference to its file
func (s *ExplorerService) locate(ref models.ResultRef) (combination.Combination, error) {
	idx, err := combination.Scan(s.resultsDir)
	if err != nil {
		return combination.Combination{}, err
	}

	c, ok := idx.Lookup(ref.Frequency, ref.Blocksize, ref.Nob)
	if !ok {
		return combination.Combination{}, fmt.Errorf("%w: f=%d bs=%d nob=%d",
			ErrNoValidCombination, ref.Frequency, ref.Blocksize, ref.Nob)
	}
	return c, nil
}

// LoadTable reads the result table of a combination
func (s *ExplorerService) LoadTable(ref models.ResultRef) (*table.Table, combination.Combination, error) {
	c, err := s.locate(ref)
	if err != nil {
		return nil, c, err
	}

	tbl, err := table.Load(c.Path)
	if err != nil {
		return nil, c, err
	}

	log.Debug().
		Str("file", c.Path).
		Int("rows", tbl.Len()).
		Int("columns", len(tbl.Columns())).
		Msg("Result table loaded")

	return tbl, c, nil
}

// Columns reports a result file's schema and which categories it can serve
func (s *ExplorerService) Columns(ref models.ResultRef) (*models.ColumnsResponse, error) {
	tbl, c, err := s.LoadTable(ref)
	if err != nil {
		return nil, err
	}

	return &models.ColumnsResponse{
		Result:     ref,
		File:       combination.FileName(c.Frequency, c.Blocksize, c.Nob),
		Rows:       tbl.Len(),
		Columns:    tbl.Columns(),
		Categories: metric.Available(tbl),
	}, nil
}

// Table returns one page of the raw result table; pages start at 1
func (s *ExplorerService) Table(ref models.ResultRef, page, limit int) (*models.TablePage, error) {
	tbl, _, err := s.LoadTable(ref)
	if err != nil {
		return nil, err
	}

	return &models.TablePage{
		Result:  ref,
		Columns: tbl.Columns(),
		Rows:    tbl.Page((page-1)*limit, limit),
		Page:    page,
		Limit:   limit,
		Total:   tbl.Len(),
	}, nil
}

// ExportTable writes the result table as an XLSX workbook
func (s *ExplorerService) ExportTable(ref models.ResultRef, w io.Writer) error {
	tbl, c, err := s.LoadTable(ref)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Frequency %d Hz, blocksize %d, %d blocks", c.Frequency, c.Blocksize, c.Nob)
	return tbl.WriteXLSX(w, title)
}

// Evaluate resolves the requested metric and builds its figure
func (s *ExplorerService) Evaluate(req models.EvaluationRequest) (*models.EvaluationResponse, error) {
	tbl, _, err := s.LoadTable(req.Result)
	if err != nil {
		return nil, err
	}

	category, err := metric.ParseCategory(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSelection, err)
	}

	selection, err := metric.Resolve(category, tbl, req.Options)
	if err != nil {
		var missing *metric.MissingColumnError
		if errors.As(err, &missing) || errors.Is(err, metric.ErrInvalidOption) || errors.Is(err, metric.ErrUnknownCategory) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownSelection, err)
		}
		return nil, err
	}

	scale := req.ColorScale
	if scale == "" {
		scale = s.defaultColorScale
	}

	fig, err := plot.NewFigure(tbl, selection.Column, selection.Column, scale, selection.Range)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSelection, err)
	}

	log.Info().
		Int("frequency", req.Result.Frequency).
		Int("blocksize", req.Result.Blocksize).
		Int("nob", req.Result.Nob).
		Str("category", string(category)).
		Str("column", selection.Column).
		Msg("Metric resolved")

	return &models.EvaluationResponse{
		Result:    req.Result,
		Selection: selection,
		Figure:    fig,
	}, nil
}

// RenderEvaluation writes the evaluation scatter as PNG
func (s *ExplorerService) RenderEvaluation(req models.EvaluationRequest, w io.Writer) error {
	mode, err := plot.ParseMode(req.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownSelection, err)
	}

	resp, err := s.Evaluate(req)
	if err != nil {
		return err
	}
	return s.renderer.Render(w, resp.Figure, mode)
}

// RenderEvaluationPage writes the evaluation as an interactive 3D HTML page
func (s *ExplorerService) RenderEvaluationPage(req models.EvaluationRequest, w io.Writer) error {
	resp, err := s.Evaluate(req)
	if err != nil {
		return err
	}
	return s.renderer.RenderHTML(w, resp.Figure)
}

// RenderColumns writes a scatter of one column against another as PNG
func (s *ExplorerService) RenderColumns(ref models.ResultRef, xColumn, yColumn string, w io.Writer) error {
	tbl, _, err := s.LoadTable(ref)
	if err != nil {
		return err
	}

	tbl = tbl.WithIndex()
	for _, column := range []string{xColumn, yColumn} {
		if !tbl.HasColumn(column) {
			return fmt.Errorf("%w: column %q not in table", ErrUnknownSelection, column)
		}
	}
	if !tbl.Numeric(yColumn) {
		return fmt.Errorf("%w: column %q is not numeric", ErrUnknownSelection, yColumn)
	}

	return s.renderer.RenderColumns(w, tbl, xColumn, yColumn)
}
