package analytics

import (
	"time"

	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/types"
)

// BuildHeatmap bins score events into a 7x24 day-of-week by hour-of-day grid
// in the supplied location. Raw frequency counts, no smoothing or decay; the
// grid sum equals the number of well-formed events binned. Max is floored at
// 1 so downstream normalization never divides by zero.
func BuildHeatmap(events []model.ScoreEvent, loc *time.Location) types.Heatmap {
	var hm types.Heatmap
	for _, e := range events {
		if e.Validate() != nil {
			continue
		}
		t := e.OccurredAt.In(loc)
		hm.Grid[int(t.Weekday())][t.Hour()]++
	}

	hm.Max = 1
	for _, row := range hm.Grid {
		for _, n := range row {
			if n > hm.Max {
				hm.Max = n
			}
		}
	}
	return hm
}
