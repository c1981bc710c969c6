package app_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/arcadetally/tally/internal/app"
	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/window"
	"github.com/arcadetally/tally/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// ingest pushes a submission through the full dedupe-then-enqueue path.
func ingest(ctx context.Context, svc *app.Service, sub model.Submission) bool {
	if svc.SeenAndRecord(ctx, sub.EventID()) {
		return false
	}
	return svc.Enqueue(ctx, sub)
}

// waitForCounts polls the service stats until the store holds the expected
// number of events or the deadline passes. Ingestion is asynchronous.
func waitForCounts(svc *app.Service, scores, unlocks int) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		stats := svc.GetStats()
		if stats["scoreEvents"] == scores && stats["unlockEvents"] == unlocks {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func scoreSub(id, player string, value float64, at time.Time) model.Submission {
	return model.NewScoreSubmission(model.ScoreEvent{
		EventID:    id,
		PlayerName: player,
		GameID:     "pinball",
		Score:      value,
		OccurredAt: at,
	})
}

func unlockSub(id, player, achievementID string, at time.Time) model.Submission {
	return model.NewUnlockSubmission(model.UnlockEvent{
		EventID:       id,
		PlayerName:    player,
		AchievementID: achievementID,
		UnlockedAt:    at,
	})
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started in-memory service", t, func() {
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(64),
			app.WithSnapshotTTL(0), // every report reads a fresh snapshot
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("And stats report the configuration", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["timezone"], ShouldEqual, "UTC")
		})
	})
}

func TestServiceIngestAndReport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	Convey("Given a started service", t, func() {
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithSnapshotTTL(0),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(svc.PutAchievement(ctx, model.Achievement{ID: "gold", Name: "Gold", Points: 50}), ShouldBeNil)

		Convey("When ingesting scores and an unlock", func() {
			So(ingest(ctx, svc, scoreSub("s1", "alice", 100, now.AddDate(0, 0, -5))), ShouldBeTrue)
			So(ingest(ctx, svc, scoreSub("s2", "alice", 300, now.AddDate(0, 0, -4))), ShouldBeTrue)
			So(ingest(ctx, svc, scoreSub("s3", "bob", 200, now.AddDate(0, 0, -5))), ShouldBeTrue)
			So(ingest(ctx, svc, unlockSub("u1", "alice", "gold", now.AddDate(0, 0, -4))), ShouldBeTrue)
			So(waitForCounts(svc, 3, 1), ShouldBeTrue)

			Convey("Then a report ranks the players", func() {
				report, err := svc.Report(ctx, analytics.Query{
					Scope:  analytics.ScopeAll,
					Window: window.Last30,
					Key:    analytics.ByTotalScore,
					TopN:   5,
					Limit:  10,
					Now:    now,
				})
				So(err, ShouldBeNil)
				So(report.Leaderboard, ShouldHaveLength, 2)
				So(report.Leaderboard[0].PlayerName, ShouldEqual, "alice")
				So(report.Leaderboard[0].Value, ShouldEqual, 400)
				So(report.Leaderboard[1].PlayerName, ShouldEqual, "bob")
			})

			Convey("And the achievement-points key uses the catalog", func() {
				report, err := svc.Report(ctx, analytics.Query{
					Scope:  analytics.ScopeAll,
					Window: window.Last30,
					Key:    analytics.ByAchievementPoints,
					TopN:   5,
					Limit:  10,
					Now:    now,
				})
				So(err, ShouldBeNil)
				So(report.Leaderboard[0].PlayerName, ShouldEqual, "alice")
				So(report.Leaderboard[0].Value, ShouldEqual, 50)
			})

			Convey("And a duplicate id is refused before the queue", func() {
				So(ingest(ctx, svc, scoreSub("s1", "alice", 999, now)), ShouldBeFalse)
				So(waitForCounts(svc, 3, 1), ShouldBeTrue)
			})
		})
	})
}

func TestServiceBackpressureRecovery(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	Convey("Given a service whose queue is easy to fill", t, func() {
		// No workers draining would be ideal, but the pool requires at
		// least one; a tiny queue plus a burst still overflows reliably.
		svc := app.New(
			app.WithWorkerCount(1),
			app.WithQueueSize(1),
			app.WithSnapshotTTL(0),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a submission is dropped on backpressure", func() {
			var dropped model.Submission
			refused := false
			for i := 0; i < 1000 && !refused; i++ {
				sub := scoreSub(fmt.Sprintf("burst-%d", i), "alice", 1, now)
				if svc.SeenAndRecord(ctx, sub.EventID()) {
					continue
				}
				if !svc.Enqueue(ctx, sub) {
					svc.Unrecord(ctx, sub.EventID())
					dropped = sub
					refused = true
				}
			}

			Convey("Then its id can be retried after unrecording", func() {
				if !refused {
					SkipSo(nil, ShouldBeNil) // queue drained faster than the burst
					return
				}
				So(svc.SeenAndRecord(ctx, dropped.EventID()), ShouldBeFalse)
			})
		})
	})
}

func TestServiceTournamentScope(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	Convey("Given events split across tournaments", t, func() {
		svc := app.New(app.WithWorkerCount(1), app.WithSnapshotTTL(0))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		in := model.ScoreEvent{
			EventID: "t1", PlayerName: "alice", GameID: "pinball",
			TournamentID: "spring-open", Score: 100, OccurredAt: now.AddDate(0, 0, -1),
		}
		out := model.ScoreEvent{
			EventID: "t2", PlayerName: "bob", GameID: "pinball",
			Score: 900, OccurredAt: now.AddDate(0, 0, -1),
		}
		So(ingest(ctx, svc, model.NewScoreSubmission(in)), ShouldBeTrue)
		So(ingest(ctx, svc, model.NewScoreSubmission(out)), ShouldBeTrue)
		So(waitForCounts(svc, 2, 0), ShouldBeTrue)

		Convey("When reporting on one tournament", func() {
			report, err := svc.Report(ctx, analytics.Query{
				Scope:  analytics.Scope("spring-open"),
				Window: window.Last30,
				Key:    analytics.ByTotalScore,
				TopN:   5,
				Limit:  10,
				Now:    now,
			})
			So(err, ShouldBeNil)

			Convey("Then only in-scope players appear", func() {
				So(report.Leaderboard, ShouldHaveLength, 1)
				So(report.Leaderboard[0].PlayerName, ShouldEqual, "alice")
			})
		})
	})
}
