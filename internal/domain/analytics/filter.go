// Package analytics is the competition analytics engine: a pure, synchronous
// computation that turns an immutable event snapshot into leaderboards,
// window-over-window deltas, rank-volatility series, activity heatmaps and
// achievement-progression tables.
//
// Nothing in this package reads the clock, holds locks or performs I/O.
// Concurrent invocations, even for identical parameters, are safe with no
// coordination.
package analytics

import (
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/window"
)

// ScopeAll selects events from every tournament, including events recorded
// outside any tournament.
const ScopeAll = "all"

// Scope narrows events to a single tournament id, or to everything when it
// equals ScopeAll. The id match is literal; an unknown id simply filters to
// an empty set, which is a valid, displayable state everywhere downstream.
type Scope string

func (s Scope) matches(tournamentID string) bool {
	return s == ScopeAll || string(s) == tournamentID
}

// FilterScores returns the score events inside the scope and window.
// Window bounds are inclusive on both ends.
func FilterScores(events []model.ScoreEvent, scope Scope, w window.Window) []model.ScoreEvent {
	out := make([]model.ScoreEvent, 0, len(events))
	for _, e := range events {
		if scope.matches(e.TournamentID) && w.Contains(e.OccurredAt) {
			out = append(out, e)
		}
	}
	return out
}

// FilterUnlocks returns the achievement-unlock events inside the scope and
// window. Window bounds are inclusive on both ends.
func FilterUnlocks(events []model.UnlockEvent, scope Scope, w window.Window) []model.UnlockEvent {
	out := make([]model.UnlockEvent, 0, len(events))
	for _, e := range events {
		if scope.matches(e.TournamentID) && w.Contains(e.UnlockedAt) {
			out = append(out, e)
		}
	}
	return out
}
