// Package export renders report tables as CSV. Pure formatting over the
// types shapes; quoting follows RFC 4180 via encoding/csv, so fields holding
// commas, quotes or newlines are wrapped and internal quotes doubled.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/arcadetally/tally/internal/domain/types"
)

// Leaderboard writes a ranked leaderboard with a header row.
func Leaderboard(w io.Writer, entries []types.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "player_name", "value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			strconv.Itoa(e.Rank),
			e.PlayerName,
			formatValue(e.Value),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Deltas writes the window-over-window movement table with a header row.
func Deltas(w io.Writer, rows []types.DeltaEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "player_name", "delta"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Rank),
			r.PlayerName,
			formatValue(r.Delta),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Progression writes the cumulative-unlock table: day column followed by one
// column per tracked player.
func Progression(w io.Writer, table types.ProgressionTable) error {
	cw := csv.NewWriter(w)
	header := append([]string{"day"}, table.Players...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, day := range table.Days {
		record := make([]string, 0, len(table.Players)+1)
		record = append(record, day)
		for _, v := range table.Rows[i] {
			record = append(record, strconv.Itoa(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatValue renders scores without trailing float noise.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
