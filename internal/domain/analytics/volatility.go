package analytics

import (
	"sort"

	"github.com/arcadetally/tally/internal/domain/types"
)

// RankVolatility computes, for the topN players by window-total score, that
// player's daily leaderboard rank across every day present in the series.
//
// Each day ranks only the players active that day, 1..k descending by the
// day's summed score with a stable name tie-break. A tracked player with no
// activity on a day gets rank k+1: last place, one worse than the worst
// active player, so the series never has undefined gaps.
func RankVolatility(series DaySeries, topN int) types.VolatilitySeries {
	tracked := series.topPlayers(topN)

	out := types.VolatilitySeries{
		Days:   append([]string(nil), series.Days...),
		Series: make(map[string][]types.RankPoint, len(tracked)),
	}
	for _, name := range tracked {
		out.Series[name] = make([]types.RankPoint, 0, len(series.Days))
	}

	for _, day := range series.Days {
		ranks := rankDay(series.Values[day])
		worst := len(ranks) + 1
		for _, name := range tracked {
			rank, active := ranks[name]
			if !active {
				rank = worst
			}
			out.Series[name] = append(out.Series[name], types.RankPoint{Day: day, Rank: rank})
		}
	}
	return out
}

// rankDay assigns ranks 1..k to the players active on one day, descending by
// that day's value, ties broken by ascending name.
func rankDay(values map[string]float64) map[string]int {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return values[names[i]] > values[names[j]]
	})

	ranks := make(map[string]int, len(names))
	for i, name := range names {
		ranks[name] = i + 1
	}
	return ranks
}
