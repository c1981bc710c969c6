package analytics_test

import (
	"testing"
	"time"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterScores(t *testing.T) {
	w := window.Window{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	}

	Convey("Given events in and around a window", t, func() {
		inside := score("alice", 100, day(2024, time.March, 10))
		atStart := score("alice", 100, w.Start)
		atEnd := score("alice", 100, w.End)
		before := score("alice", 100, w.Start.Add(-time.Second))
		after := score("alice", 100, w.End.Add(time.Second))
		events := []model.ScoreEvent{inside, atStart, atEnd, before, after}

		Convey("When filtering with the all scope", func() {
			got := analytics.FilterScores(events, analytics.ScopeAll, w)

			Convey("Then both window bounds are inclusive", func() {
				So(got, ShouldHaveLength, 3)
				So(got[0].EventID, ShouldEqual, inside.EventID)
				So(got[1].EventID, ShouldEqual, atStart.EventID)
				So(got[2].EventID, ShouldEqual, atEnd.EventID)
			})
		})
	})

	Convey("Given events across tournaments", t, func() {
		spring := scoreIn("alice", "spring-open", 100, day(2024, time.March, 10))
		autumn := scoreIn("bob", "autumn-cup", 200, day(2024, time.March, 11))
		open := score("carol", 300, day(2024, time.March, 12))
		events := []model.ScoreEvent{spring, autumn, open}

		Convey("When filtering by one tournament", func() {
			got := analytics.FilterScores(events, analytics.Scope("spring-open"), w)

			Convey("Then only that tournament's events remain", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].PlayerName, ShouldEqual, "alice")
			})
		})

		Convey("When filtering with the all scope", func() {
			got := analytics.FilterScores(events, analytics.ScopeAll, w)

			Convey("Then events without a tournament are included too", func() {
				So(got, ShouldHaveLength, 3)
			})
		})

		Convey("When filtering by an unknown tournament", func() {
			got := analytics.FilterScores(events, analytics.Scope("winter-league"), w)

			Convey("Then the result is empty, not an error", func() {
				So(got, ShouldBeEmpty)
			})
		})
	})
}

func TestFilterUnlocks(t *testing.T) {
	w := window.Window{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	}

	Convey("Given unlock events in and out of the window", t, func() {
		in := unlock("alice", "first-blood", day(2024, time.March, 5))
		out := unlock("bob", "first-blood", day(2024, time.April, 5))

		got := analytics.FilterUnlocks([]model.UnlockEvent{in, out}, analytics.ScopeAll, w)

		Convey("Then only the in-window unlock survives", func() {
			So(got, ShouldHaveLength, 1)
			So(got[0].PlayerName, ShouldEqual, "alice")
		})
	})
}
