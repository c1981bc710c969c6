package analytics

import (
	"sort"
	"time"

	"github.com/arcadetally/tally/internal/domain/model"
)

// dayLayout is the calendar-day bucket key format.
const dayLayout = "2006-01-02"

// DaySeries buckets events by calendar day: one aggregate value per player
// per day, plus the sorted set of distinct days present. Days with no
// activity for a player are represented by absence, not a zero entry;
// consumers decide how to treat gaps.
//
// Day boundaries are taken in a single fixed location supplied by the caller,
// never the process-local zone, so bucket boundaries near midnight are
// reproducible.
type DaySeries struct {
	Days   []string
	Values map[string]map[string]float64 // day -> player -> value
}

// ScoresByDay sums score per player per calendar day.
func ScoresByDay(events []model.ScoreEvent, loc *time.Location) DaySeries {
	s := newDaySeries()
	for _, e := range events {
		if e.Validate() != nil {
			continue
		}
		s.add(e.OccurredAt.In(loc).Format(dayLayout), e.PlayerName, e.Score)
	}
	s.finish()
	return s
}

// UnlocksByDay counts unlocks per player per calendar day.
func UnlocksByDay(events []model.UnlockEvent, loc *time.Location) DaySeries {
	s := newDaySeries()
	for _, e := range events {
		if e.Validate() != nil {
			continue
		}
		s.add(e.UnlockedAt.In(loc).Format(dayLayout), e.PlayerName, 1)
	}
	s.finish()
	return s
}

func newDaySeries() DaySeries {
	return DaySeries{Values: make(map[string]map[string]float64)}
}

func (s *DaySeries) add(day, player string, v float64) {
	players, ok := s.Values[day]
	if !ok {
		players = make(map[string]float64)
		s.Values[day] = players
	}
	players[player] += v
}

func (s *DaySeries) finish() {
	s.Days = make([]string, 0, len(s.Values))
	for day := range s.Values {
		s.Days = append(s.Days, day)
	}
	sort.Strings(s.Days)
}

// totals sums every player's values across the whole series.
func (s DaySeries) totals() map[string]float64 {
	out := make(map[string]float64)
	for _, players := range s.Values {
		for name, v := range players {
			out[name] += v
		}
	}
	return out
}

// topPlayers selects the n players with the highest series totals, ties
// broken by ascending name so the selection is stable.
func (s DaySeries) topPlayers(n int) []string {
	totals := s.totals()
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return totals[names[i]] > totals[names[j]]
	})
	if n > 0 && n < len(names) {
		names = names[:n]
	}
	return names
}
