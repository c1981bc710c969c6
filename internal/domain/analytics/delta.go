package analytics

import (
	"sort"

	"github.com/arcadetally/tally/internal/domain/types"
)

// Deltas computes, for the union of players appearing in either window, the
// signed change in total score from the comparison window to the current one.
// An absent side counts as zero, so a player inactive in the current window
// still appears with a negative delta. Output is descending by delta with a
// stable name tie-break; a player absent from both windows never appears.
func Deltas(current, comparison map[string]*PlayerAggregate) []types.DeltaEntry {
	union := make(map[string]struct{}, len(current)+len(comparison))
	for name := range current {
		union[name] = struct{}{}
	}
	for name := range comparison {
		union[name] = struct{}{}
	}

	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]types.DeltaEntry, 0, len(names))
	for _, name := range names {
		var cur, prev float64
		if a, ok := current[name]; ok {
			cur = a.TotalScore
		}
		if a, ok := comparison[name]; ok {
			prev = a.TotalScore
		}
		rows = append(rows, types.DeltaEntry{PlayerName: name, Delta: cur - prev})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Delta > rows[j].Delta
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// TopKDeltas truncates a sorted delta table to its first k rows.
func TopKDeltas(rows []types.DeltaEntry, k int) []types.DeltaEntry {
	if k <= 0 || k >= len(rows) {
		return rows
	}
	return rows[:k]
}
