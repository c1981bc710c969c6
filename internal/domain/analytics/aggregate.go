package analytics

import (
	"github.com/arcadetally/tally/internal/domain/model"
)

// PlayerAggregate is a per-player summary over a filtered event set. It is
// recomputed fully on every query and never persisted or partially updated.
type PlayerAggregate struct {
	PlayerName        string
	TotalScore        float64
	GamesPlayed       int
	BestScore         float64
	AchievementCount  int
	AchievementPoints int
}

// Catalog resolves achievement ids to their points weight.
type Catalog interface {
	Points(achievementID string) (int, bool)
}

// MapCatalog adapts a plain achievement map to the Catalog interface.
type MapCatalog map[string]model.Achievement

// Points returns the points for an achievement id.
func (m MapCatalog) Points(achievementID string) (int, bool) {
	a, ok := m[achievementID]
	if !ok {
		return 0, false
	}
	return a.Points, true
}

// Aggregate folds filtered score and unlock events into per-player rows.
// The grouping key is the player name exactly as stored; normalization is the
// event producer's responsibility. Malformed events are skipped. An unlock
// referencing a missing achievement id contributes zero points but still
// increments the count, so one dangling reference cannot blank a leaderboard.
func Aggregate(scores []model.ScoreEvent, unlocks []model.UnlockEvent, catalog Catalog) map[string]*PlayerAggregate {
	aggs := make(map[string]*PlayerAggregate)

	get := func(name string) *PlayerAggregate {
		a, ok := aggs[name]
		if !ok {
			a = &PlayerAggregate{PlayerName: name}
			aggs[name] = a
		}
		return a
	}

	for _, e := range scores {
		if e.Validate() != nil {
			continue
		}
		a := get(e.PlayerName)
		a.TotalScore += e.Score
		a.GamesPlayed++
		if e.Score > a.BestScore {
			a.BestScore = e.Score
		}
	}

	for _, e := range unlocks {
		if e.Validate() != nil {
			continue
		}
		a := get(e.PlayerName)
		a.AchievementCount++
		if catalog != nil {
			if pts, ok := catalog.Points(e.AchievementID); ok {
				a.AchievementPoints += pts
			}
		}
	}

	return aggs
}

// AggregateScores folds score events only; used for comparison windows where
// the delta table needs score totals and nothing else.
func AggregateScores(scores []model.ScoreEvent) map[string]*PlayerAggregate {
	return Aggregate(scores, nil, nil)
}
