package api

import (
	"net/http"

	"github.com/arcadetally/tally/internal/domain/types"
)

// ReportHandler serves the full analytics report and its individual tables.
type ReportHandler struct {
	deps   Dependencies
	limits Limits
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies, limits Limits) *ReportHandler {
	return &ReportHandler{deps: deps, limits: limits}
}

// compute parses the shared parameters and recomputes the report. A nil
// return means the response was already written.
func (h *ReportHandler) compute(w http.ResponseWriter, r *http.Request, op string) *types.Report {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return nil
	}
	q, err := parseQuery(r, h.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return nil
	}
	report, err := h.deps.Report(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return nil
	}
	return &report
}

// HandleReport handles GET /report requests.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if report := h.compute(w, r, "api.report"); report != nil {
		writeJSON(w, http.StatusOK, report)
	}
}

// HandleLeaderboard handles GET /leaderboard requests.
func (h *ReportHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if report := h.compute(w, r, "api.leaderboard"); report != nil {
		writeJSON(w, http.StatusOK, report.Leaderboard)
	}
}

// HandleDeltas handles GET /deltas requests.
func (h *ReportHandler) HandleDeltas(w http.ResponseWriter, r *http.Request) {
	if report := h.compute(w, r, "api.deltas"); report != nil {
		writeJSON(w, http.StatusOK, report.Deltas)
	}
}

// HandleVolatility handles GET /volatility requests.
func (h *ReportHandler) HandleVolatility(w http.ResponseWriter, r *http.Request) {
	if report := h.compute(w, r, "api.volatility"); report != nil {
		writeJSON(w, http.StatusOK, report.Volatility)
	}
}

// HandleHeatmap handles GET /heatmap requests.
func (h *ReportHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	if report := h.compute(w, r, "api.heatmap"); report != nil {
		writeJSON(w, http.StatusOK, report.Heatmap)
	}
}

// HandleProgression handles GET /progression requests.
func (h *ReportHandler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	if report := h.compute(w, r, "api.progression"); report != nil {
		writeJSON(w, http.StatusOK, report.Progression)
	}
}
