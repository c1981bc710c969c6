// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/types"
	"github.com/arcadetally/tally/pkg/metrics"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Idempotency tracking for submissions.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// Enqueue pushes a submission for async ingestion. False on backpressure.
	Enqueue(ctx context.Context, s model.Submission) bool

	// PutAchievement upserts a catalog row used for points lookups.
	PutAchievement(ctx context.Context, a model.Achievement) error

	// Report recomputes every analytics table for one query.
	Report(ctx context.Context, q analytics.Query) (types.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	eventsHandler       *EventsHandler
	achievementsHandler *AchievementsHandler
	reportHandler       *ReportHandler
	exportHandler       *ExportHandler
}

// NewServer creates an API server with all handlers. Limits bound the
// client-supplied top-N and table sizes.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		eventsHandler:       NewEventsHandler(deps),
		achievementsHandler: NewAchievementsHandler(deps),
		reportHandler:       NewReportHandler(deps, limits),
		exportHandler:       NewExportHandler(deps, limits),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/events/scores", MetricsMiddleware(s.eventsHandler.HandlePostScore, "post_score"))
	mux.HandleFunc("/events/unlocks", MetricsMiddleware(s.eventsHandler.HandlePostUnlock, "post_unlock"))
	mux.HandleFunc("/achievements", MetricsMiddleware(s.achievementsHandler.HandlePutAchievement, "put_achievement"))

	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleReport, "report"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.reportHandler.HandleLeaderboard, "leaderboard"))
	mux.HandleFunc("/deltas", MetricsMiddleware(s.reportHandler.HandleDeltas, "deltas"))
	mux.HandleFunc("/volatility", MetricsMiddleware(s.reportHandler.HandleVolatility, "volatility"))
	mux.HandleFunc("/heatmap", MetricsMiddleware(s.reportHandler.HandleHeatmap, "heatmap"))
	mux.HandleFunc("/progression", MetricsMiddleware(s.reportHandler.HandleProgression, "progression"))

	mux.HandleFunc("/export/leaderboard.csv", MetricsMiddleware(s.exportHandler.HandleLeaderboardCSV, "export_leaderboard"))
	mux.HandleFunc("/export/deltas.csv", MetricsMiddleware(s.exportHandler.HandleDeltasCSV, "export_deltas"))
	mux.HandleFunc("/export/progression.csv", MetricsMiddleware(s.exportHandler.HandleProgressionCSV, "export_progression"))
}

// scoreRequest mirrors the POST /events/scores body.
type scoreRequest struct {
	EventID      string  `json:"event_id"`
	PlayerName   string  `json:"player_name"`
	GameID       string  `json:"game_id"`
	TournamentID string  `json:"tournament_id"`
	Score        float64 `json:"score"`
	OccurredAt   string  `json:"occurred_at"`
}

func (r scoreRequest) toEvent() (model.ScoreEvent, error) {
	ts, err := parseTimestamp(r.OccurredAt)
	if err != nil {
		return model.ScoreEvent{}, err
	}
	e := model.ScoreEvent{
		EventID:      r.EventID,
		PlayerName:   r.PlayerName,
		GameID:       r.GameID,
		TournamentID: r.TournamentID,
		Score:        r.Score,
		OccurredAt:   ts,
	}
	return e, e.Validate()
}

// unlockRequest mirrors the POST /events/unlocks body.
type unlockRequest struct {
	EventID       string `json:"event_id"`
	PlayerName    string `json:"player_name"`
	AchievementID string `json:"achievement_id"`
	TournamentID  string `json:"tournament_id"`
	UnlockedAt    string `json:"unlocked_at"`
}

func (r unlockRequest) toEvent() (model.UnlockEvent, error) {
	ts, err := parseTimestamp(r.UnlockedAt)
	if err != nil {
		return model.UnlockEvent{}, err
	}
	e := model.UnlockEvent{
		EventID:       r.EventID,
		PlayerName:    r.PlayerName,
		AchievementID: r.AchievementID,
		TournamentID:  r.TournamentID,
		UnlockedAt:    ts,
	}
	return e, e.Validate()
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrBadRequest
	}
	return time.Parse(time.RFC3339, s)
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
