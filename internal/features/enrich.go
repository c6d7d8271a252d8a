// Package features derives analysis-ready fields from raw game records.
package features

import "github.com/KaramelBytes/chessreport-cli/internal/games"

// EnrichedRecord is a game plus its derived fields.
type EnrichedRecord struct {
	games.GameRecord
	BaseMinutes  BaseMinutes
	TimeCategory TimeCategory
	WhiteWin     bool
	BlackWin     bool
}

// WinIndicators reports per-color wins. A draw, or any other value, yields false for both.
func WinIndicators(winner string) (whiteWin, blackWin bool) {
	return winner == games.WinnerWhite, winner == games.WinnerBlack
}

// EnrichOne derives the fields for a single record.
func EnrichOne(r games.GameRecord) EnrichedRecord {
	base := ParseTimeControl(r.IncrementCode)
	ww, bw := WinIndicators(r.Winner)
	return EnrichedRecord{
		GameRecord:   r,
		BaseMinutes:  base,
		TimeCategory: Categorize(base),
		WhiteWin:     ww,
		BlackWin:     bw,
	}
}

// Enrich returns one EnrichedRecord per input record, in input order.
func Enrich(records []games.GameRecord) []EnrichedRecord {
	out := make([]EnrichedRecord, len(records))
	for i, r := range records {
		out[i] = EnrichOne(r)
	}
	return out
}

// CountMalformed counts records whose time-control code could not be parsed.
func CountMalformed(records []EnrichedRecord) int {
	n := 0
	for _, r := range records {
		if r.BaseMinutes.Malformed() {
			n++
		}
	}
	return n
}
