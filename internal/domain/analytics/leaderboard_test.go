package analytics_test

import (
	"testing"
	"time"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildLeaderboard(t *testing.T) {
	Convey("Given AAA with 100+300 and BBB with 200", t, func() {
		scores := []model.ScoreEvent{
			score("AAA", 100, day(2024, time.March, 1)),
			score("AAA", 300, day(2024, time.March, 2)),
			score("BBB", 200, day(2024, time.March, 1)),
		}
		aggs := analytics.Aggregate(scores, nil, nil)

		board := analytics.BuildLeaderboard(aggs, analytics.ByTotalScore)

		Convey("Then AAA ranks first with 400 and BBB second with 200", func() {
			So(board, ShouldResemble, []types.Entry{
				{Rank: 1, PlayerName: "AAA", Value: 400},
				{Rank: 2, PlayerName: "BBB", Value: 200},
			})
		})
	})

	Convey("Given players tied on the sort key", t, func() {
		scores := []model.ScoreEvent{
			score("zed", 100, day(2024, time.March, 1)),
			score("amy", 100, day(2024, time.March, 1)),
			score("mia", 100, day(2024, time.March, 1)),
		}
		aggs := analytics.Aggregate(scores, nil, nil)

		board := analytics.BuildLeaderboard(aggs, analytics.ByTotalScore)

		Convey("Then ties break by ascending name", func() {
			So(board[0].PlayerName, ShouldEqual, "amy")
			So(board[1].PlayerName, ShouldEqual, "mia")
			So(board[2].PlayerName, ShouldEqual, "zed")
		})

		Convey("And repeated builds give identical output", func() {
			again := analytics.BuildLeaderboard(aggs, analytics.ByTotalScore)
			So(again, ShouldResemble, board)
		})
	})

	Convey("Given an achievement-points sort key", t, func() {
		catalog := analytics.MapCatalog{
			"gold":   {ID: "gold", Points: 50},
			"bronze": {ID: "bronze", Points: 5},
		}
		unlocks := []model.UnlockEvent{
			unlock("alice", "bronze", day(2024, time.March, 1)),
			unlock("bob", "gold", day(2024, time.March, 1)),
		}
		aggs := analytics.Aggregate(nil, unlocks, catalog)

		board := analytics.BuildLeaderboard(aggs, analytics.ByAchievementPoints)

		Convey("Then ordering follows points, not score", func() {
			So(board[0].PlayerName, ShouldEqual, "bob")
			So(board[0].Value, ShouldEqual, 50)
			So(board[1].PlayerName, ShouldEqual, "alice")
		})
	})

	Convey("Given no aggregates", t, func() {
		board := analytics.BuildLeaderboard(nil, analytics.ByTotalScore)

		Convey("Then the leaderboard is empty", func() {
			So(board, ShouldBeEmpty)
		})
	})
}

func TestTopK(t *testing.T) {
	Convey("Given a five-row leaderboard", t, func() {
		entries := make([]types.Entry, 5)
		for i := range entries {
			entries[i] = types.Entry{Rank: i + 1, Value: float64(500 - i*100)}
		}

		Convey("Then k inside the range truncates after ranking", func() {
			top := analytics.TopK(entries, 3)
			So(top, ShouldHaveLength, 3)
			So(top[2].Rank, ShouldEqual, 3)
		})

		Convey("And k at or past the end returns everything", func() {
			So(analytics.TopK(entries, 5), ShouldHaveLength, 5)
			So(analytics.TopK(entries, 50), ShouldHaveLength, 5)
		})

		Convey("And non-positive k returns everything", func() {
			So(analytics.TopK(entries, 0), ShouldHaveLength, 5)
			So(analytics.TopK(entries, -1), ShouldHaveLength, 5)
		})
	})
}

func TestParseSortKey(t *testing.T) {
	Convey("Given sort key strings", t, func() {
		Convey("Then the supported keys parse", func() {
			for _, s := range []string{"total_score", "achievement_points", "achievement_count"} {
				key, err := analytics.ParseSortKey(s)
				So(err, ShouldBeNil)
				So(string(key), ShouldEqual, s)
			}
		})

		Convey("And anything else is rejected", func() {
			_, err := analytics.ParseSortKey("best_score")
			So(err, ShouldNotBeNil)
		})
	})
}
