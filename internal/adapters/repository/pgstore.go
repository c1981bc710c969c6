package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/pkg/logger"
)

// PGStore backs the event store with Postgres via a pgx pool. The engine
// never talks to it directly; it only sees the snapshots this loader copies
// out. Expected schema: score_events, unlock_events and achievements tables
// owned by the surrounding application.
type PGStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPGStore connects a pool and verifies the connection.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PGStore{pool: pool, logger: logger.Get().Named("pgstore")}, nil
}

// Close releases the pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

// AppendScore records a score event.
func (s *PGStore) AppendScore(ctx context.Context, e model.ScoreEvent) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO score_events (event_id, player_name, game_id, tournament_id, score, occurred_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`, e.EventID, e.PlayerName, e.GameID, e.TournamentID, e.Score, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert score event: %w", err)
	}
	return nil
}

// AppendUnlock records an achievement-unlock event.
func (s *PGStore) AppendUnlock(ctx context.Context, e model.UnlockEvent) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO unlock_events (event_id, player_name, achievement_id, tournament_id, unlocked_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (event_id) DO NOTHING
	`, e.EventID, e.PlayerName, e.AchievementID, e.TournamentID, e.UnlockedAt)
	if err != nil {
		return fmt.Errorf("insert unlock event: %w", err)
	}
	return nil
}

// Snapshot loads every event matching scope. Filtering server-side keeps the
// copied set small for single-tournament reports; the engine re-filters by
// window either way.
func (s *PGStore) Snapshot(ctx context.Context, scope analytics.Scope) (model.Snapshot, error) {
	var snap model.Snapshot

	scoreQuery := `
		SELECT event_id, player_name, game_id, COALESCE(tournament_id, ''), score, occurred_at
		FROM score_events
	`
	unlockQuery := `
		SELECT event_id, player_name, achievement_id, COALESCE(tournament_id, ''), unlocked_at
		FROM unlock_events
	`
	var args []any
	if scope != analytics.ScopeAll {
		scoreQuery += ` WHERE tournament_id = $1`
		unlockQuery += ` WHERE tournament_id = $1`
		args = append(args, string(scope))
	}

	rows, err := s.pool.Query(ctx, scoreQuery, args...)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("query score events: %w", err)
	}
	snap.Scores, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ScoreEvent, error) {
		var e model.ScoreEvent
		err := row.Scan(&e.EventID, &e.PlayerName, &e.GameID, &e.TournamentID, &e.Score, &e.OccurredAt)
		return e, err
	})
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("scan score events: %w", err)
	}

	rows, err = s.pool.Query(ctx, unlockQuery, args...)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("query unlock events: %w", err)
	}
	snap.Unlocks, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.UnlockEvent, error) {
		var e model.UnlockEvent
		err := row.Scan(&e.EventID, &e.PlayerName, &e.AchievementID, &e.TournamentID, &e.UnlockedAt)
		return e, err
	})
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("scan unlock events: %w", err)
	}

	return snap, nil
}

// Achievements loads the full achievement catalog.
func (s *PGStore) Achievements(ctx context.Context) (map[string]model.Achievement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, points, COALESCE(tournament_id, '')
		FROM achievements
	`)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Achievement)
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Points, &a.TournamentID); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read achievements: %w", err)
	}
	return out, nil
}

// Counts returns the number of stored score and unlock events. Failures are
// logged and surface as zero counts; stats must not take the store down.
func (s *PGStore) Counts(ctx context.Context) (scores, unlocks int) {
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM score_events`).Scan(&scores); err != nil {
		s.logger.Warn(ctx, "score event count failed", logger.Error(err))
	}
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM unlock_events`).Scan(&unlocks); err != nil {
		s.logger.Warn(ctx, "unlock event count failed", logger.Error(err))
	}
	return scores, unlocks
}
