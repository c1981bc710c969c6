package analytics_test

import (
	"testing"
	"time"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildHeatmap(t *testing.T) {
	Convey("Given three scores on a Monday at 14:xx", t, func() {
		// 2024-03-04 is a Monday.
		monday := time.Date(2024, time.March, 4, 14, 0, 0, 0, time.UTC)
		events := []model.ScoreEvent{
			score("alice", 100, monday),
			score("bob", 200, monday.Add(15*time.Minute)),
			score("carol", 300, monday.Add(45*time.Minute)),
		}

		hm := analytics.BuildHeatmap(events, time.UTC)

		Convey("Then the Monday 14h cell holds all three", func() {
			So(hm.Grid[int(time.Monday)][14], ShouldEqual, 3)
			So(hm.Max, ShouldEqual, 3)
		})

		Convey("And the grid sum equals the event count", func() {
			sum := 0
			for _, row := range hm.Grid {
				for _, n := range row {
					sum += n
				}
			}
			So(sum, ShouldEqual, 3)
		})
	})

	Convey("Given an event near midnight and a non-UTC location", t, func() {
		// Saturday 23:30 UTC is Sunday 01:30 in UTC+2.
		late := score("alice", 100, time.Date(2024, time.March, 2, 23, 30, 0, 0, time.UTC))
		plus2 := time.FixedZone("UTC+2", 2*3600)

		Convey("Then the cell follows the supplied location", func() {
			utc := analytics.BuildHeatmap([]model.ScoreEvent{late}, time.UTC)
			So(utc.Grid[int(time.Saturday)][23], ShouldEqual, 1)

			shifted := analytics.BuildHeatmap([]model.ScoreEvent{late}, plus2)
			So(shifted.Grid[int(time.Sunday)][1], ShouldEqual, 1)
		})
	})

	Convey("Given no events", t, func() {
		hm := analytics.BuildHeatmap(nil, time.UTC)

		Convey("Then the grid is zero but max is floored at one", func() {
			for _, row := range hm.Grid {
				for _, n := range row {
					So(n, ShouldEqual, 0)
				}
			}
			So(hm.Max, ShouldEqual, 1)
		})
	})

	Convey("Given a malformed event", t, func() {
		bad := model.ScoreEvent{PlayerName: "alice", Score: 100}

		hm := analytics.BuildHeatmap([]model.ScoreEvent{bad}, time.UTC)

		Convey("Then it is not binned", func() {
			sum := 0
			for _, row := range hm.Grid {
				for _, n := range row {
					sum += n
				}
			}
			So(sum, ShouldEqual, 0)
		})
	})
}
