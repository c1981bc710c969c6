package analytics

import (
	"fmt"
	"time"

	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/types"
	"github.com/arcadetally/tally/internal/domain/window"
)

// Query selects one analytics computation: a tournament scope, a window
// selector, a leaderboard sort key and the table sizes. Now is explicit so
// repeated calls on an unchanged snapshot are byte-identical.
type Query struct {
	Scope  Scope
	Window window.Kind
	Key    SortKey
	TopN   int // players tracked by volatility and progression
	Limit  int // rows kept in leaderboard and delta tables
	Now    time.Time
}

// Engine computes full reports from event snapshots. It holds the fixed
// bucketing location and nothing else; every invocation is independent and
// side-effect-free.
type Engine struct {
	loc *time.Location
}

// NewEngine returns an engine that buckets days and heatmap cells in loc.
// A nil loc falls back to UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// Location returns the fixed bucketing location.
func (e *Engine) Location() *time.Location { return e.loc }

// Report recomputes every analytics table from snap for one query. Empty
// snapshots produce the defined empty shapes, not errors.
func (e *Engine) Report(snap model.Snapshot, catalog Catalog, q Query) types.Report {
	// Month boundaries follow the engine's fixed location, never the zone
	// q.Now happens to carry.
	current, comparison := window.Resolve(q.Window, q.Now.In(e.loc))
	mustBeOrdered(current)
	mustBeOrdered(comparison)

	scores := FilterScores(snap.Scores, q.Scope, current)
	unlocks := FilterUnlocks(snap.Unlocks, q.Scope, current)
	prevScores := FilterScores(snap.Scores, q.Scope, comparison)

	aggs := Aggregate(scores, unlocks, catalog)
	prevAggs := AggregateScores(prevScores)

	return types.Report{
		Window:      windowInfo(current),
		Comparison:  windowInfo(comparison),
		Leaderboard: TopK(BuildLeaderboard(aggs, q.Key), q.Limit),
		Deltas:      TopKDeltas(Deltas(aggs, prevAggs), q.Limit),
		Volatility:  RankVolatility(ScoresByDay(scores, e.loc), q.TopN),
		Heatmap:     BuildHeatmap(scores, e.loc),
		Progression: Progression(UnlocksByDay(unlocks, e.loc), q.TopN),
	}
}

// mustBeOrdered panics when a resolved window is inverted. The resolver is
// total, so this is a programming defect and should fail loudly rather than
// be silently tolerated.
func mustBeOrdered(w window.Window) {
	if w.Start.After(w.End) {
		panic(fmt.Sprintf("analytics: window %s start %s after end %s", w.Kind, w.Start, w.End))
	}
}

func windowInfo(w window.Window) types.WindowInfo {
	return types.WindowInfo{
		Kind:  string(w.Kind),
		Start: w.Start.Format(time.RFC3339),
		End:   w.End.Format(time.RFC3339),
	}
}
