package analytics

import (
	"fmt"
	"sort"

	"github.com/arcadetally/tally/internal/domain/types"
)

// SortKey selects which aggregate field a leaderboard ranks on.
type SortKey string

// Supported leaderboard sort keys.
const (
	ByTotalScore        SortKey = "total_score"
	ByAchievementPoints SortKey = "achievement_points"
	ByAchievementCount  SortKey = "achievement_count"
)

// ParseSortKey validates a sort key coming from the API layer.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case ByTotalScore, ByAchievementPoints, ByAchievementCount:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func (k SortKey) value(a *PlayerAggregate) float64 {
	switch k {
	case ByAchievementPoints:
		return float64(a.AchievementPoints)
	case ByAchievementCount:
		return float64(a.AchievementCount)
	default:
		return a.TotalScore
	}
}

// BuildLeaderboard orders aggregates descending by the chosen key and assigns
// ranks 1..n. Rows enter the sort in ascending player-name order and the sort
// is stable, so equal-key entries keep a reproducible order across calls on
// identical input.
func BuildLeaderboard(aggs map[string]*PlayerAggregate, key SortKey) []types.Entry {
	names := sortedNames(aggs)

	entries := make([]types.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, types.Entry{
			PlayerName: name,
			Value:      key.value(aggs[name]),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopK truncates a sorted leaderboard to its first k rows. Truncation happens
// after sorting, never before; k <= 0 or k past the end returns the input.
func TopK(entries []types.Entry, k int) []types.Entry {
	if k <= 0 || k >= len(entries) {
		return entries
	}
	return entries[:k]
}

// sortedNames returns the aggregate keys in ascending order, the stable entry
// order used by every ranked output.
func sortedNames(aggs map[string]*PlayerAggregate) []string {
	names := make([]string, 0, len(aggs))
	for name := range aggs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
