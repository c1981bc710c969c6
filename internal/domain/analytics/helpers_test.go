package analytics_test

import (
	"fmt"
	"time"

	"github.com/arcadetally/tally/internal/domain/model"
)

var seq int

// score builds a well-formed score event with a generated event id.
func score(player string, value float64, at time.Time) model.ScoreEvent {
	seq++
	return model.ScoreEvent{
		EventID:    fmt.Sprintf("evt-%04d", seq),
		PlayerName: player,
		GameID:     "pinball",
		Score:      value,
		OccurredAt: at,
	}
}

// scoreIn is score with a tournament id attached.
func scoreIn(player, tournamentID string, value float64, at time.Time) model.ScoreEvent {
	e := score(player, value, at)
	e.TournamentID = tournamentID
	return e
}

// unlock builds a well-formed unlock event with a generated event id.
func unlock(player, achievementID string, at time.Time) model.UnlockEvent {
	seq++
	return model.UnlockEvent{
		EventID:       fmt.Sprintf("evt-%04d", seq),
		PlayerName:    player,
		AchievementID: achievementID,
		UnlockedAt:    at,
	}
}

// day returns noon UTC on the given date, a safe distance from bucket edges.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}
