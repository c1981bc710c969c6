package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/window"
)

// Limits bounds and defaults the client-supplied query parameters.
type Limits struct {
	DefaultTopN  int
	MaxTopN      int
	DefaultLimit int
	MaxLimit     int
}

// parseQuery reads the shared analytics parameters:
//
//	scope   tournament id, default "all"
//	window  last30 | this_month | prev_month, default last30
//	key     total_score | achievement_points | achievement_count
//	top     players tracked by volatility/progression
//	limit   leaderboard/delta rows
//	now     RFC3339 override for reproducible reads; defaults to wall clock
func parseQuery(r *http.Request, limits Limits) (analytics.Query, error) {
	q := analytics.Query{
		Scope:  analytics.ScopeAll,
		Window: window.Last30,
		Key:    analytics.ByTotalScore,
		TopN:   limits.DefaultTopN,
		Limit:  limits.DefaultLimit,
		Now:    time.Now(),
	}
	values := r.URL.Query()

	if s := values.Get("scope"); s != "" {
		q.Scope = analytics.Scope(s)
	}
	if s := values.Get("window"); s != "" {
		kind, err := window.ParseKind(s)
		if err != nil {
			return analytics.Query{}, err
		}
		q.Window = kind
	}
	if s := values.Get("key"); s != "" {
		key, err := analytics.ParseSortKey(s)
		if err != nil {
			return analytics.Query{}, err
		}
		q.Key = key
	}

	var err error
	if q.TopN, err = boundedInt(values.Get("top"), q.TopN, limits.MaxTopN); err != nil {
		return analytics.Query{}, err
	}
	if q.Limit, err = boundedInt(values.Get("limit"), q.Limit, limits.MaxLimit); err != nil {
		return analytics.Query{}, err
	}

	if s := values.Get("now"); s != "" {
		now, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return analytics.Query{}, fmt.Errorf("invalid now; must be RFC3339")
		}
		q.Now = now
	}
	return q, nil
}

func boundedInt(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q", raw)
	}
	if n > max {
		return 0, fmt.Errorf("count %d exceeds limit %d", n, max)
	}
	return n, nil
}
