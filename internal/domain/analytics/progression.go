package analytics

import (
	"github.com/arcadetally/tally/internal/domain/types"
)

// Progression computes cumulative unlock counts per day for the topN players
// by total in-window unlocks. A day with no unlocks for a player carries the
// previous day's cumulative value forward, so every column is non-decreasing.
func Progression(series DaySeries, topN int) types.ProgressionTable {
	players := series.topPlayers(topN)

	table := types.ProgressionTable{
		Days:    append([]string(nil), series.Days...),
		Players: players,
		Rows:    make([][]int, 0, len(series.Days)),
	}

	running := make(map[string]int, len(players))
	for _, day := range series.Days {
		row := make([]int, len(players))
		for i, name := range players {
			running[name] += int(series.Values[day][name])
			row[i] = running[name]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
