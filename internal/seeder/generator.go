// Package seeder generates realistic fake tournament traffic and posts it
// against a running instance. Used for load and smoke testing.
package seeder

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// scorePayload mirrors the POST /events/scores body.
type scorePayload struct {
	EventID      string  `json:"event_id"`
	PlayerName   string  `json:"player_name"`
	GameID       string  `json:"game_id"`
	TournamentID string  `json:"tournament_id,omitempty"`
	Score        float64 `json:"score"`
	OccurredAt   string  `json:"occurred_at"`
}

// unlockPayload mirrors the POST /events/unlocks body.
type unlockPayload struct {
	EventID       string `json:"event_id"`
	PlayerName    string `json:"player_name"`
	AchievementID string `json:"achievement_id"`
	TournamentID  string `json:"tournament_id,omitempty"`
	UnlockedAt    string `json:"unlocked_at"`
}

// achievementPayload mirrors the PUT /achievements body.
type achievementPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Points       int    `json:"points"`
	TournamentID string `json:"tournament_id,omitempty"`
}

// generator produces a stable fake world: a roster of players, a set of
// games, tournaments and achievements, and random events drawn from them.
type generator struct {
	faker        *gofakeit.Faker
	players      []string
	games        []string
	tournaments  []string
	achievements []achievementPayload
	spanDays     int
	now          time.Time
}

func newGenerator(cfg Config) *generator {
	g := &generator{
		faker:    gofakeit.New(cfg.Seed),
		spanDays: cfg.SpanDays,
		now:      time.Now().UTC(),
	}

	g.players = make([]string, cfg.Players)
	for i := range g.players {
		g.players[i] = g.faker.Gamertag()
	}
	g.games = make([]string, cfg.Games)
	for i := range g.games {
		g.games[i] = fmt.Sprintf("game-%02d", i+1)
	}
	g.tournaments = make([]string, cfg.Tournaments)
	for i := range g.tournaments {
		g.tournaments[i] = fmt.Sprintf("tournament-%02d", i+1)
	}
	g.achievements = make([]achievementPayload, cfg.Achievements)
	for i := range g.achievements {
		g.achievements[i] = achievementPayload{
			ID:     fmt.Sprintf("achievement-%02d", i+1),
			Name:   g.faker.HackerVerb() + " " + g.faker.NounConcrete(),
			Points: g.faker.Number(5, 100),
		}
	}
	return g
}

// tournamentID picks a tournament, or none for roughly a quarter of events.
func (g *generator) tournamentID() string {
	if len(g.tournaments) == 0 || g.faker.Number(1, 4) == 1 {
		return ""
	}
	return g.tournaments[g.faker.Number(0, len(g.tournaments)-1)]
}

// timestamp spreads events over the configured span ending at now.
func (g *generator) timestamp() string {
	offset := time.Duration(g.faker.Number(0, g.spanDays*24*3600)) * time.Second
	return g.now.Add(-offset).Format(time.RFC3339)
}

func (g *generator) score() scorePayload {
	return scorePayload{
		EventID:      uuid.New().String(),
		PlayerName:   g.players[g.faker.Number(0, len(g.players)-1)],
		GameID:       g.games[g.faker.Number(0, len(g.games)-1)],
		TournamentID: g.tournamentID(),
		Score:        float64(g.faker.Number(100, 999_900)),
		OccurredAt:   g.timestamp(),
	}
}

func (g *generator) unlock() unlockPayload {
	a := g.achievements[g.faker.Number(0, len(g.achievements)-1)]
	return unlockPayload{
		EventID:       uuid.New().String(),
		PlayerName:    g.players[g.faker.Number(0, len(g.players)-1)],
		AchievementID: a.ID,
		TournamentID:  g.tournamentID(),
		UnlockedAt:    g.timestamp(),
	}
}
