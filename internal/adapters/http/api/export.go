package api

import (
	"net/http"

	"github.com/arcadetally/tally/internal/domain/types"
	"github.com/arcadetally/tally/internal/export"
)

// ExportHandler serves report tables as CSV downloads.
type ExportHandler struct {
	deps   Dependencies
	limits Limits
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, limits Limits) *ExportHandler {
	return &ExportHandler{deps: deps, limits: limits}
}

func (h *ExportHandler) compute(w http.ResponseWriter, r *http.Request, op string) *types.Report {
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

func writeCSVHeader(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// HandleLeaderboardCSV handles GET /export/leaderboard.csv requests.
func (h *ExportHandler) HandleLeaderboardCSV(w http.ResponseWriter, r *http.Request) {
	report := h.compute(w, r, "api.export_leaderboard")
	if report == nil {
		return
	}
	writeCSVHeader(w, "leaderboard.csv")
	_ = export.Leaderboard(w, report.Leaderboard)
}

// HandleDeltasCSV handles GET /export/deltas.csv requests.
func (h *ExportHandler) HandleDeltasCSV(w http.ResponseWriter, r *http.Request) {
	report := h.compute(w, r, "api.export_deltas")
	if report == nil {
		return
	}
	writeCSVHeader(w, "deltas.csv")
	_ = export.Deltas(w, report.Deltas)
}

// HandleProgressionCSV handles GET /export/progression.csv requests.
func (h *ExportHandler) HandleProgressionCSV(w http.ResponseWriter, r *http.Request) {
	report := h.compute(w, r, "api.export_progression")
	if report == nil {
		return
	}
	writeCSVHeader(w, "progression.csv")
	_ = export.Progression(w, report.Progression)
}
