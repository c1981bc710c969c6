// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"time"
)

// Validation errors reported for malformed submissions. A malformed event is
// skipped by consumers, never fatal to a whole computation.
var (
	ErrMissingEventID     = errors.New("missing event id")
	ErrMissingPlayerName  = errors.New("missing player name")
	ErrMissingGameID      = errors.New("missing game id")
	ErrMissingAchievement = errors.New("missing achievement id")
	ErrMissingTimestamp   = errors.New("missing timestamp")
)

// ScoreEvent records one score submission. Immutable once recorded; the
// analytics engine only ever reads snapshots of these.
type ScoreEvent struct {
	EventID      string    // unique id for idempotency
	PlayerName   string    // identity key, case-sensitive as stored
	GameID       string    // arcade game the score was posted on
	TournamentID string    // empty when the score is outside any tournament
	Score        float64   // submitted score value
	OccurredAt   time.Time // submission timestamp
}

// Validate reports the first missing required field, if any.
func (e ScoreEvent) Validate() error {
	switch {
	case e.EventID == "":
		return ErrMissingEventID
	case e.PlayerName == "":
		return ErrMissingPlayerName
	case e.GameID == "":
		return ErrMissingGameID
	case e.OccurredAt.IsZero():
		return ErrMissingTimestamp
	}
	return nil
}

// UnlockEvent records one achievement unlock. Immutable once recorded.
type UnlockEvent struct {
	EventID       string
	PlayerName    string
	AchievementID string
	TournamentID  string
	UnlockedAt    time.Time
}

// Validate reports the first missing required field, if any.
func (e UnlockEvent) Validate() error {
	switch {
	case e.EventID == "":
		return ErrMissingEventID
	case e.PlayerName == "":
		return ErrMissingPlayerName
	case e.AchievementID == "":
		return ErrMissingAchievement
	case e.UnlockedAt.IsZero():
		return ErrMissingTimestamp
	}
	return nil
}

// Achievement provides the points weight used by point-based leaderboards.
// Looked up by id, never mutated by the engine.
type Achievement struct {
	ID           string
	Name         string
	Points       int // >= 0
	TournamentID string
}

// Tournament is catalog data used for display labels only.
type Tournament struct {
	ID   string
	Name string
}

// Snapshot is the immutable event set an engine invocation computes over.
// Derived tables are rebuilt from it on every call and never persisted.
type Snapshot struct {
	Scores  []ScoreEvent
	Unlocks []UnlockEvent
}
