// Command seed-events posts fake tournament traffic against a running
// instance for load and smoke testing.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/arcadetally/tally/internal/seeder"
	"github.com/arcadetally/tally/pkg/logger"
)

func main() {
	var cfg seeder.Config
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the target instance")
	flag.IntVar(&cfg.Players, "players", 40, "number of distinct players")
	flag.IntVar(&cfg.Games, "games", 10, "number of distinct games")
	flag.IntVar(&cfg.Tournaments, "tournaments", 3, "number of tournaments")
	flag.IntVar(&cfg.Achievements, "achievements", 20, "achievement catalog size")
	flag.IntVar(&cfg.Scores, "scores", 5000, "score events to post")
	flag.IntVar(&cfg.Unlocks, "unlocks", 1500, "unlock events to post")
	flag.IntVar(&cfg.SpanDays, "span-days", 70, "spread events over this many days ending now")
	flag.IntVar(&cfg.Concurrency, "concurrency", 8, "concurrent posters")
	flag.Uint64Var(&cfg.Seed, "seed", 42, "fake-data seed for reproducible runs")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := seeder.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}
