package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/localization-viewer/models"
	"github.com/gilchrisn/localization-viewer/pkg/combination"
	"github.com/gilchrisn/localization-viewer/pkg/metric"
	"github.com/gilchrisn/localization-viewer/pkg/plot"
	"github.com/gilchrisn/localization-viewer/service"
	"github.com/gilchrisn/localization-viewer/utils"
)

// Handlers contains HTTP request handlers
type Handlers struct {
	explorer  *service.ExplorerService
	views     *service.ViewService
	startedAt time.Time
}

// NewHandlers creates new API handlers
func NewHandlers(explorer *service.ExplorerService, views *service.ViewService) *Handlers {
	return &Handlers{
		explorer:  explorer,
		views:     views,
		startedAt: time.Now(),
	}
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoValidCombination):
		utils.WriteErrorResponse(w, http.StatusNotFound, "No valid combination", err)
	case errors.Is(err, service.ErrUnknownSelection):
		utils.WriteErrorResponse(w, http.StatusUnprocessableEntity, "Unknown selection", err)
	default:
		log.Error().Err(err).Msg("Request failed")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", err)
	}
}

// resultRef reads the result file parameters from the route
func resultRef(r *http.Request) (models.ResultRef, error) {
	var ref models.ResultRef
	if err := utils.DecodeQuery(r, mux.Vars(r), &ref); err != nil {
		return ref, err
	}
	return ref, nil
}

// GetCombinations lists the discovered values of every dimension
func (h *Handlers) GetCombinations(w http.ResponseWriter, r *http.Request) {
	resp, err := h.explorer.Combinations()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, "Combinations discovered", resp)
}

// GetValidNobs lists the nob values for a frequency/blocksize pair
func (h *Handlers) GetValidNobs(w http.ResponseWriter, r *http.Request) {
	validation := make(map[string]string)
	params := make(map[string]int)
	for _, key := range []string{"frequency", "blocksize"} {
		v, err := strconv.Atoi(r.URL.Query().Get(key))
		if err != nil {
			validation[key] = "must be an integer"
			continue
		}
		params[key] = v
	}
	if len(validation) > 0 {
		utils.WriteValidationErrorResponse(w, "Invalid parameters", validation)
		return
	}

	resp, err := h.explorer.ValidNobs(params["frequency"], params["blocksize"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if resp.Warning != "" {
		log.Warn().
			Int("frequency", resp.Frequency).
			Int("blocksize", resp.Blocksize).
			Msg("No valid combinations for the selected frequency and blocksize")
		utils.WriteSuccessResponse(w, resp.Warning, resp)
		return
	}
	utils.WriteSuccessResponse(w, "Valid nob values retrieved", resp)
}

// ListCategories returns the static catalogue of selectable options
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	infos := make([]models.CategoryInfo, 0, len(metric.Categories))
	for _, c := range metric.Categories {
		infos = append(infos, models.CategoryInfo{
			Category:      c,
			Label:         c.Label(),
			SupportsXY:    c.SupportsXY(),
			NeedsDistance: c.NeedsDistance(),
			NeedsAxis:     c.NeedsAxis(),
		})
	}

	utils.WriteSuccessResponse(w, "Categories retrieved", models.CatalogResponse{
		Categories:  infos,
		Distances:   metric.Distances,
		Axes:        metric.Axes,
		ColorScales: plot.ColorScaleNames,
		PlotModes:   []plot.Mode{plot.Mode3D, plot.Mode2D},
	})
}

// GetColumns returns the schema of a result file
func (h *Handlers) GetColumns(w http.ResponseWriter, r *http.Request) {
	ref, err := resultRef(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid result reference", err)
		return
	}

	resp, err := h.explorer.Columns(ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, "Columns retrieved", resp)
}

// GetTable returns one page of the raw result table
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	ref, err := resultRef(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid result reference", err)
		return
	}

	page, limit := utils.ExtractPaginationParams(r)
	resp, err := h.explorer.Table(ref, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, "Table retrieved", resp)
}

// ExportTable downloads the result table as XLSX
func (h *Handlers) ExportTable(w http.ResponseWriter, r *http.Request) {
	ref, err := resultRef(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid result reference", err)
		return
	}

	var buf bytes.Buffer
	if err := h.explorer.ExportTable(ref, &buf); err != nil {
		writeServiceError(w, err)
		return
	}

	name := fmt.Sprintf("result_summary_f%d_bs%d_nob%d.xlsx", ref.Frequency, ref.Blocksize, ref.Nob)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}

// evaluationRequest decodes route variables and query parameters
func evaluationRequest(r *http.Request) (models.EvaluationRequest, error) {
	var req models.EvaluationRequest
	if err := utils.DecodeQuery(r, mux.Vars(r), &req); err != nil {
		return req, err
	}
	return req, nil
}

// GetEvaluation resolves a metric and returns the selection and figure data
func (h *Handlers) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	req, err := evaluationRequest(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid evaluation request", err)
		return
	}

	resp, err := h.explorer.Evaluate(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, "Evaluation resolved", resp)
}

// GetEvaluationPlot renders the evaluation scatter as PNG
func (h *Handlers) GetEvaluationPlot(w http.ResponseWriter, r *http.Request) {
	req, err := evaluationRequest(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid evaluation request", err)
		return
	}

	var buf bytes.Buffer
	if err := h.explorer.RenderEvaluation(req, &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	writePNG(w, buf.Bytes())
}

// GetEvaluationPage renders the evaluation as an interactive 3D page
func (h *Handlers) GetEvaluationPage(w http.ResponseWriter, r *http.Request) {
	req, err := evaluationRequest(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid evaluation request", err)
		return
	}

	var buf bytes.Buffer
	if err := h.explorer.RenderEvaluationPage(req, &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// GetColumnScatter renders one column against another as PNG
func (h *Handlers) GetColumnScatter(w http.ResponseWriter, r *http.Request) {
	ref, err := resultRef(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid result reference", err)
		return
	}

	x := r.URL.Query().Get("x")
	if x == "" {
		x = plot.NameColumn
	}
	y := r.URL.Query().Get("y")
	if y == "" || y == "None" {
		utils.WriteValidationErrorResponse(w, "Please select both X and Y axes to generate a plot", map[string]string{"y": "required"})
		return
	}

	var buf bytes.Buffer
	if err := h.explorer.RenderColumns(ref, x, y, &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	writePNG(w, buf.Bytes())
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// ListViews lists the room view images
func (h *Handlers) ListViews(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, "Views retrieved", h.views.List())
}

// GetView serves one room view image
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]

	path, err := h.views.Path(file)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "View not found", err)
		return
	}
	http.ServeFile(w, r, path)
}

// HealthCheck reports liveness and whether the result directory is readable
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	count := 0
	idx, err := combination.Scan(h.explorer.ResultsDir())
	if err != nil {
		status = "degraded"
	} else {
		count = len(idx.Combinations())
	}

	data := map[string]interface{}{
		"status":      status,
		"resultsDir":  h.explorer.ResultsDir(),
		"resultFiles": count,
		"uptime":      time.Since(h.startedAt).String(),
	}
	if err != nil {
		data["error"] = err.Error()
	}
	utils.WriteSuccessResponse(w, "Service is running", data)
}
