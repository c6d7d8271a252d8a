package games

import (
	"math"
	"strconv"
	"strings"
)

// columnIndex maps required column names to their position in a header row.
type columnIndex map[string]int

// indexHeader locates required columns, matching case-insensitively after trimming.
func indexHeader(header []string) (columnIndex, error) {
	seen := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := seen[key]; !dup {
			seen[key] = i
		}
	}
	idx := columnIndex{}
	var missing []string
	for _, c := range RequiredColumns {
		i, ok := seen[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}

// decode builds a GameRecord from a raw row. row is 1-based for error reporting.
func (ci columnIndex) decode(rec []string, row int) (GameRecord, error) {
	raw := func(col string) string {
		i := ci[col]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	get := func(col string) string { return strings.TrimSpace(raw(col)) }
	num := func(col string) (float64, error) {
		v := get(col)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, &RowError{Row: row, Column: col, Value: v, Err: err}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &RowError{Row: row, Column: col, Value: v, Err: ErrNotFinite}
		}
		return f, nil
	}
	wr, err := num(ColWhiteRating)
	if err != nil {
		return GameRecord{}, err
	}
	br, err := num(ColBlackRating)
	if err != nil {
		return GameRecord{}, err
	}
	tv := get(ColTurns)
	turns, err := strconv.Atoi(tv)
	if err != nil {
		return GameRecord{}, &RowError{Row: row, Column: ColTurns, Value: tv, Err: err}
	}
	return GameRecord{
		WhiteID:       get(ColWhiteID),
		BlackID:       get(ColBlackID),
		WhiteRating:   wr,
		BlackRating:   br,
		Winner:        get(ColWinner),
		IncrementCode: raw(ColIncrementCode),
		Turns:         turns,
		VictoryStatus: get(ColVictoryStatus),
		OpeningName:   get(ColOpeningName),
	}, nil
}
