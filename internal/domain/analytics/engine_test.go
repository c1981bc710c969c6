package analytics_test

import (
	"testing"
	"time"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngineReport(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	catalog := analytics.MapCatalog{
		"gold": {ID: "gold", Points: 50},
	}

	Convey("Given a snapshot spanning both windows", t, func() {
		snap := model.Snapshot{
			Scores: []model.ScoreEvent{
				score("alice", 400, day(2024, time.March, 10)),
				score("bob", 200, day(2024, time.March, 11)),
				score("alice", 100, day(2024, time.February, 20)),
			},
			Unlocks: []model.UnlockEvent{
				unlock("alice", "gold", day(2024, time.March, 10)),
			},
		}
		engine := analytics.NewEngine(time.UTC)
		q := analytics.Query{
			Scope:  analytics.ScopeAll,
			Window: window.Last30,
			Key:    analytics.ByTotalScore,
			TopN:   5,
			Limit:  10,
			Now:    now,
		}

		report := engine.Report(snap, catalog, q)

		Convey("Then the leaderboard covers current-window activity", func() {
			So(report.Leaderboard, ShouldHaveLength, 2)
			So(report.Leaderboard[0].PlayerName, ShouldEqual, "alice")
			// Feb 20 falls inside last30 ending March 15, so alice holds 500.
			So(report.Leaderboard[0].Value, ShouldEqual, 500)
		})

		Convey("And every table is populated from the same filtered set", func() {
			So(report.Deltas, ShouldNotBeEmpty)
			So(report.Volatility.Days, ShouldNotBeEmpty)
			So(report.Progression.Players, ShouldResemble, []string{"alice"})
			So(report.Heatmap.Max, ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("And window metadata reflects the query", func() {
			So(report.Window.Kind, ShouldEqual, "last30")
			So(report.Window.End, ShouldEqual, now.Format(time.RFC3339))
		})

		Convey("And recomputing on the same input is byte-identical", func() {
			again := engine.Report(snap, catalog, q)
			So(again, ShouldResemble, report)
		})
	})

	Convey("Given a tournament-scoped query", t, func() {
		snap := model.Snapshot{
			Scores: []model.ScoreEvent{
				scoreIn("alice", "spring-open", 400, day(2024, time.March, 10)),
				score("bob", 999, day(2024, time.March, 10)),
			},
		}
		engine := analytics.NewEngine(time.UTC)

		report := engine.Report(snap, nil, analytics.Query{
			Scope:  analytics.Scope("spring-open"),
			Window: window.Last30,
			Key:    analytics.ByTotalScore,
			TopN:   5,
			Limit:  10,
			Now:    now,
		})

		Convey("Then out-of-scope events never leak into any table", func() {
			So(report.Leaderboard, ShouldHaveLength, 1)
			So(report.Leaderboard[0].PlayerName, ShouldEqual, "alice")
			So(report.Volatility.Series, ShouldNotContainKey, "bob")
		})
	})

	Convey("Given an empty snapshot", t, func() {
		engine := analytics.NewEngine(time.UTC)

		report := engine.Report(model.Snapshot{}, catalog, analytics.Query{
			Scope:  analytics.ScopeAll,
			Window: window.ThisMonth,
			Key:    analytics.ByTotalScore,
			TopN:   5,
			Limit:  10,
			Now:    now,
		})

		Convey("Then every table has its defined empty shape", func() {
			So(report.Leaderboard, ShouldBeEmpty)
			So(report.Deltas, ShouldBeEmpty)
			So(report.Volatility.Days, ShouldBeEmpty)
			So(report.Progression.Rows, ShouldBeEmpty)
			So(report.Heatmap.Max, ShouldEqual, 1)
		})
	})

	Convey("Given a nil location", t, func() {
		engine := analytics.NewEngine(nil)

		Convey("Then the engine falls back to UTC", func() {
			So(engine.Location(), ShouldEqual, time.UTC)
		})
	})

	Convey("Given the same instant expressed in different zones", t, func() {
		engine := analytics.NewEngine(time.UTC)
		snap := model.Snapshot{
			Scores: []model.ScoreEvent{
				score("alice", 400, time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)),
			},
		}
		// 2024-03-31T23:00Z is already April 1st in UTC+13.
		instant := time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)
		plus13 := time.FixedZone("UTC+13", 13*3600)

		query := func(now time.Time) analytics.Query {
			return analytics.Query{
				Scope:  analytics.ScopeAll,
				Window: window.ThisMonth,
				Key:    analytics.ByTotalScore,
				TopN:   5,
				Limit:  10,
				Now:    now,
			}
		}

		utcReport := engine.Report(snap, nil, query(instant))
		shiftedReport := engine.Report(snap, nil, query(instant.In(plus13)))

		Convey("Then month boundaries follow the engine location, not now's zone", func() {
			So(utcReport.Window.Start, ShouldEqual, "2024-03-01T00:00:00Z")
			So(utcReport.Leaderboard, ShouldHaveLength, 1)
			So(shiftedReport, ShouldResemble, utcReport)
		})
	})
}
