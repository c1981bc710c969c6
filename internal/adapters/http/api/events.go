package api

import (
	"encoding/json"
	"net/http"

	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/pkg/metrics"
)

// EventsHandler accepts score and unlock submissions.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostScore handles POST /events/scores requests.
func (h *EventsHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	event, err := req.toEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.submit(w, r, op, model.NewScoreSubmission(event))
}

// HandlePostUnlock handles POST /events/unlocks requests.
func (h *EventsHandler) HandlePostUnlock(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_unlock"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	event, err := req.toEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.submit(w, r, op, model.NewUnlockSubmission(event))
}

// submit runs the shared idempotency-then-enqueue path.
func (h *EventsHandler) submit(w http.ResponseWriter, r *http.Request, op string, sub model.Submission) {
	// Mark as seen first so a concurrent duplicate cannot slip through.
	if h.deps.SeenAndRecord(r.Context(), sub.EventID()) {
		metrics.RecordSubmissionDuplicate(string(sub.Kind))
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), sub); !ok {
		// Roll back the seen mark so the client can retry.
		h.deps.Unrecord(r.Context(), sub.EventID())
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// achievementRequest mirrors the PUT /achievements body.
type achievementRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Points       int    `json:"points"`
	TournamentID string `json:"tournament_id"`
}

// AchievementsHandler upserts achievement catalog rows.
type AchievementsHandler struct {
	deps Dependencies
}

// NewAchievementsHandler creates a new achievements handler.
func NewAchievementsHandler(deps Dependencies) *AchievementsHandler {
	return &AchievementsHandler{deps: deps}
}

// HandlePutAchievement handles PUT /achievements requests.
func (h *AchievementsHandler) HandlePutAchievement(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_achievement"
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req achievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.ID == "" || req.Points < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	a := model.Achievement{
		ID:           req.ID,
		Name:         req.Name,
		Points:       req.Points,
		TournamentID: req.TournamentID,
	}
	if err := h.deps.PutAchievement(r.Context(), a); err != nil {
		writeError(w, http.StatusConflict, "read_only_catalog", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "stored"})
}
