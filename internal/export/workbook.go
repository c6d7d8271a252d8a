// Package export writes report tables to spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/chessreport-cli/internal/analysis"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetRatings       = "Rating Histogram"
	SheetBuckets       = "Rating Buckets"
	SheetPlayers       = "Top Players"
	SheetOpenings      = "Top Openings"
	SheetOpeningRates  = "Opening Win Rates"
	SheetOutcomes      = "Victory Status"
	SheetCategoryRates = "Time Category Win Rates"
	SheetTurns         = "Turns by Category"
	SheetOutliers      = "Outliers"
)

// sheet is a header row plus data rows.
type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteWorkbook writes every summary table to its own sheet of an XLSX file.
func WriteWorkbook(path string, s *analysis.Summary) (err error) {
	if s == nil {
		return errors.New("nil summary")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	first := f.GetSheetName(0)
	for i, sh := range sheets(s) {
		if i == 0 {
			if err := f.SetSheetName(first, sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return fmt.Errorf("%s header: %w", sh.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sh.name, err)
	}
	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sh.name, i+1, err)
		}
	}
	return f.SetColWidth(sh.name, "A", "A", 32)
}

func sheets(s *analysis.Summary) []sheet {
	t := s.Tables
	if t == nil {
		t = &analysis.Tables{}
	}
	out := []sheet{summarySheet(s)}

	ratings := sheet{name: SheetRatings, header: []interface{}{"Color", "Low", "High", "Games"}}
	ratings.rows = append(ratings.rows, histogramRows("white", t.Ratings.White)...)
	ratings.rows = append(ratings.rows, histogramRows("black", t.Ratings.Black)...)
	out = append(out, ratings)

	buckets := sheet{name: SheetBuckets, header: []interface{}{"Bucket", "Low", "High", "Games", "White Wins", "White Win Rate"}}
	for _, b := range t.RatingBuckets {
		buckets.rows = append(buckets.rows, []interface{}{b.Label, b.Low, b.High, b.Games, b.Wins, rateCell(b.Rate)})
	}
	out = append(out, buckets,
		countSheet(SheetPlayers, "Player", t.TopPlayers),
		countSheet(SheetOpenings, "Opening", t.TopOpenings),
		rateSheet(SheetOpeningRates, "Opening", t.OpeningWinRates),
		countSheet(SheetOutcomes, "Victory Status", t.VictoryStatus),
		rateSheet(SheetCategoryRates, "Time Category", t.CategoryWinRates),
	)

	turns := sheet{name: SheetTurns, header: []interface{}{"Time Category", "Games", "Min", "Q1", "Median", "Q3", "Max", "Outliers"}}
	for _, b := range t.TurnsByCategory {
		turns.rows = append(turns.rows, []interface{}{b.Label, b.N, b.Min, b.Q1, b.Median, b.Q3, b.Max, len(b.Outliers)})
	}
	out = append(out, turns)

	o := t.Outliers
	out = append(out, sheet{
		name:   SheetOutliers,
		header: []interface{}{"Kind", "Percentile", "Threshold (turns)", "Games"},
		rows: [][]interface{}{
			{"short", o.LowQuantile, numCell(o.Low), o.Short},
			{"long", o.HighQuantile, numCell(o.High), o.Long},
		},
	})
	return out
}

func summarySheet(s *analysis.Summary) sheet {
	sh := sheet{name: SheetSummary, header: []interface{}{"Field", "Value"}}
	sh.rows = [][]interface{}{
		{"File", s.Name},
		{"Rows", s.Rows},
		{"Processed", s.Processed},
		{"Malformed time controls", s.Malformed},
	}
	for _, c := range s.Categories {
		sh.rows = append(sh.rows, []interface{}{c.Label + " games", c.Count})
	}
	for _, w := range s.Warnings {
		sh.rows = append(sh.rows, []interface{}{"Note", w})
	}
	return sh
}

func histogramRows(color string, h analysis.Histogram) [][]interface{} {
	rows := make([][]interface{}, 0, len(h.Counts))
	for i, c := range h.Counts {
		rows = append(rows, []interface{}{color, h.Edges[i], h.Edges[i+1], c})
	}
	return rows
}

func countSheet(name, label string, counts []analysis.Count) sheet {
	sh := sheet{name: name, header: []interface{}{label, "Games"}}
	for _, c := range counts {
		sh.rows = append(sh.rows, []interface{}{c.Label, c.Count})
	}
	return sh
}

func rateSheet(name, label string, rates []analysis.Rate) sheet {
	sh := sheet{name: name, header: []interface{}{label, "Games", "White Wins", "White Win Rate"}}
	for _, r := range rates {
		sh.rows = append(sh.rows, []interface{}{r.Label, r.Games, r.Wins, rateCell(r)})
	}
	return sh
}

// rateCell leaves undefined rates blank instead of writing NaN.
func rateCell(r analysis.Rate) interface{} {
	if !r.Defined() {
		return nil
	}
	return r.Value
}

func numCell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
