// Package types contains the read shapes shared between the engine and the
// presentation-facing adapters.
package types

// Entry is one ranked leaderboard row. Value carries whichever sort key the
// caller asked for (total score, achievement points or achievement count).
type Entry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Value      float64 `json:"value"`
}

// DeltaEntry is one row of the window-over-window movement table. Delta is
// signed; regressions are as meaningful as gains.
type DeltaEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Delta      float64 `json:"delta"`
}

// RankPoint is a single day of a player's rank series. Lower rank is better.
type RankPoint struct {
	Day  string `json:"day"`
	Rank int    `json:"rank"`
}

// VolatilitySeries carries one rank time-series per tracked player over the
// sorted set of days that saw any activity in the window.
type VolatilitySeries struct {
	Days   []string               `json:"days"`
	Series map[string][]RankPoint `json:"series"`
}

// HeatmapDays and HeatmapHours fix the grid dimensions.
const (
	HeatmapDays  = 7
	HeatmapHours = 24
)

// Heatmap is a day-of-week x hour-of-day occupancy grid of score events.
// Grid rows follow time.Weekday numbering (Sunday = 0). Max is the largest
// cell value, floored at 1 so downstream normalization never divides by zero.
type Heatmap struct {
	Grid [HeatmapDays][HeatmapHours]int `json:"grid"`
	Max  int                            `json:"max"`
}

// ProgressionTable is the cumulative achievement-unlock table: one row per
// day, one column per tracked player, strictly non-decreasing down a column.
type ProgressionTable struct {
	Days    []string `json:"days"`
	Players []string `json:"players"`
	Rows    [][]int  `json:"rows"`
}

// WindowInfo describes a resolved time window for display.
type WindowInfo struct {
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Report bundles every analytics table computed for one query.
type Report struct {
	Window      WindowInfo       `json:"window"`
	Comparison  WindowInfo       `json:"comparison"`
	Leaderboard []Entry          `json:"leaderboard"`
	Deltas      []DeltaEntry     `json:"deltas"`
	Volatility  VolatilitySeries `json:"volatility"`
	Heatmap     Heatmap          `json:"heatmap"`
	Progression ProgressionTable `json:"progression"`
}
