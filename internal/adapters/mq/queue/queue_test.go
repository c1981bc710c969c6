package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arcadetally/tally/internal/adapters/mq/queue"
	"github.com/arcadetally/tally/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func submission(id string) queue.Submission {
	return model.NewScoreSubmission(model.ScoreEvent{
		EventID:    id,
		PlayerName: "alice",
		GameID:     "pinball",
		Score:      100,
		OccurredAt: time.Now(),
	})
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		defer q.Close()

		Convey("When enqueuing submissions", func() {
			So(q.Enqueue(ctx, submission("evt-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, submission("evt-2")), ShouldBeTrue)

			Convey("Then they are counted and dequeued in order", func() {
				So(q.Len(ctx), ShouldEqual, 2)

				out := q.Dequeue(ctx)
				So((<-out).EventID(), ShouldEqual, "evt-1")
				So((<-out).EventID(), ShouldEqual, "evt-2")
			})
		})
	})

	Convey("Given a full queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		defer q.Close()

		So(q.Enqueue(ctx, submission("evt-1")), ShouldBeTrue)
		So(q.Enqueue(ctx, submission("evt-2")), ShouldBeTrue)

		Convey("Then enqueue reports backpressure instead of blocking", func() {
			start := time.Now()
			accepted := q.Enqueue(ctx, submission("evt-3"))
			So(accepted, ShouldBeFalse)
			So(time.Since(start), ShouldBeLessThan, time.Second)
		})
	})

	Convey("Given a closed queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		So(q.Enqueue(ctx, submission("evt-1")), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Then enqueue is refused", func() {
			So(q.Enqueue(ctx, submission("evt-2")), ShouldBeFalse)
			So(q.IsClosed(), ShouldBeTrue)
		})

		Convey("And dequeue drains the backlog then closes", func() {
			out := q.Dequeue(ctx)
			s, ok := <-out
			So(ok, ShouldBeTrue)
			So(s.EventID(), ShouldEqual, "evt-1")

			_, ok = <-out
			So(ok, ShouldBeFalse)
		})

		Convey("And closing again is a no-op", func() {
			So(q.Close(), ShouldBeNil)
		})
	})

	Convey("Given a canceled context", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		defer q.Close()

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		Convey("Then enqueue is refused", func() {
			// Buffer has room, so the send would win the select; a canceled
			// context only guarantees refusal once the buffer is contended.
			for i := 0; i < 2; i++ {
				q.Enqueue(ctx, submission(fmt.Sprintf("fill-%d", i)))
			}
			So(q.Enqueue(canceled, submission("evt-1")), ShouldBeFalse)
		})
	})
}
