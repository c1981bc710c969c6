package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arcadetally/tally/pkg/logger"
)

// Config controls the generated world and posting behavior.
type Config struct {
	BaseURL      string
	Players      int
	Games        int
	Tournaments  int
	Achievements int
	Scores       int
	Unlocks      int
	SpanDays     int
	Concurrency  int
	Seed         uint64
}

// Stats summarizes one seeding run.
type Stats struct {
	Posted     int64
	Duplicates int64
	Failed     int64
}

// Run seeds the target instance: registers the achievement catalog, then
// posts the configured number of score and unlock events concurrently.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	log := logger.Get().Named("seeder")
	gen := newGenerator(cfg)
	client := &http.Client{Timeout: 10 * time.Second}

	for _, a := range gen.achievements {
		if err := post(ctx, client, cfg.BaseURL+"/achievements", a, nil); err != nil {
			return Stats{}, fmt.Errorf("register achievement %s: %w", a.ID, err)
		}
	}
	log.Info(ctx, "achievement catalog registered",
		logger.Int("achievements", len(gen.achievements)))

	jobs := make(chan any)
	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Scores; i++ {
			jobs <- gen.score()
		}
		for i := 0; i < cfg.Unlocks; i++ {
			jobs <- gen.unlock()
		}
	}()

	var stats Stats
	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				path := "/events/scores"
				if _, ok := job.(unlockPayload); ok {
					path = "/events/unlocks"
				}
				var ack struct {
					Duplicate bool `json:"duplicate"`
				}
				if err := post(ctx, client, cfg.BaseURL+path, job, &ack); err != nil {
					atomic.AddInt64(&stats.Failed, 1)
					continue
				}
				if ack.Duplicate {
					atomic.AddInt64(&stats.Duplicates, 1)
				}
				atomic.AddInt64(&stats.Posted, 1)
			}
		}()
	}
	wg.Wait()

	log.Info(ctx, "seeding finished",
		logger.Int("posted", int(stats.Posted)),
		logger.Int("duplicates", int(stats.Duplicates)),
		logger.Int("failed", int(stats.Failed)),
	)
	return stats, nil
}

func post(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post %s: status %d", url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
