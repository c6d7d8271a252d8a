package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/chessreport-cli/internal/features"
	"github.com/KaramelBytes/chessreport-cli/internal/games"
)

// Summary is a markdown-friendly view of a dataset and its tables.
type Summary struct {
	Name       string
	Rows       int
	Processed  int
	Malformed  int
	Categories []Count
	Tables     *Tables
	Warnings   []string
}

// NewSummary collects what the printed summary needs.
func NewSummary(ds *games.Dataset, records []features.EnrichedRecord, t *Tables) *Summary {
	s := &Summary{Tables: t, Processed: len(records), Malformed: features.CountMalformed(records)}
	if ds != nil {
		s.Name = ds.Name
		s.Rows = ds.Rows
		s.Warnings = append(s.Warnings, ds.Warnings...)
	}
	counts := map[features.TimeCategory]int{}
	for _, r := range records {
		counts[r.TimeCategory]++
	}
	for _, cat := range categoryOrder(records) {
		s.Categories = append(s.Categories, Count{Label: string(cat), Count: counts[cat]})
	}
	if s.Malformed > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d games have an unparseable time control and are Unclassified", s.Malformed))
	}
	return s
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	if s.Processed > 0 && s.Processed < s.Rows {
		b.WriteString(fmt.Sprintf("Games: ~%d (processed %d)\n", s.Rows, s.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Games: %d\n", s.Processed))
	}

	if len(s.Categories) > 0 {
		b.WriteString("\n[TIME CONTROLS]\n")
		for _, c := range s.Categories {
			b.WriteString(fmt.Sprintf("- %s: %d", c.Label, c.Count))
			if r, ok := findRate(s.tables().CategoryWinRates, c.Label); ok {
				b.WriteString(fmt.Sprintf(" — white win rate %s", pct(r.Value)))
			}
			b.WriteString("\n")
		}
	}

	t := s.tables()
	if len(t.RatingBuckets) > 0 {
		b.WriteString("\n[RATING BUCKETS]\n")
		for _, rb := range t.RatingBuckets {
			b.WriteString(fmt.Sprintf("- %s: %d games, white win rate %s\n", rb.Label, rb.Games, pct(rb.Value)))
		}
	}
	if len(t.TopPlayers) > 0 {
		b.WriteString("\n[TOP PLAYERS]\n")
		for i, p := range t.TopPlayers {
			b.WriteString(fmt.Sprintf("%d. %s (%d as white)\n", i+1, safeVal(p.Label), p.Count))
		}
	}
	if len(t.TopOpenings) > 0 {
		b.WriteString("\n[TOP OPENINGS]\n")
		for i, o := range t.TopOpenings {
			b.WriteString(fmt.Sprintf("%d. %s (%d)", i+1, safeVal(o.Label), o.Count))
			if r, ok := findRate(t.OpeningWinRates, o.Label); ok {
				b.WriteString(fmt.Sprintf(" — white wins %s", pct(r.Value)))
			}
			b.WriteString("\n")
		}
	}
	if len(t.VictoryStatus) > 0 {
		b.WriteString("\n[OUTCOMES]\n")
		total := 0
		for _, v := range t.VictoryStatus {
			total += v.Count
		}
		for _, v := range t.VictoryStatus {
			b.WriteString(fmt.Sprintf("- %s: %d (%s)\n", safeVal(v.Label), v.Count, pct(float64(v.Count)/float64(total))))
		}
	}
	if !math.IsNaN(t.Outliers.Low) {
		o := t.Outliers
		b.WriteString("\n[GAME LENGTH]\n")
		b.WriteString(fmt.Sprintf("- very short (<p%02.0f = %.4g turns): %d\n", o.LowQuantile*100, o.Low, o.Short))
		b.WriteString(fmt.Sprintf("- very long (>p%02.0f = %.4g turns): %d\n", o.HighQuantile*100, o.High, o.Long))
		for _, bs := range t.TurnsByCategory {
			if bs.N == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: median %.4g (Q1 %.4g, Q3 %.4g, n=%d)\n", bs.Label, bs.Median, bs.Q1, bs.Q3, bs.N))
		}
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *Summary) tables() *Tables {
	if s.Tables == nil {
		return &Tables{Outliers: OutlierCounts{Low: math.NaN(), High: math.NaN()}}
	}
	return s.Tables
}

func findRate(rates []Rate, label string) (Rate, bool) {
	for _, r := range rates {
		if r.Label == label {
			return r, true
		}
	}
	return Rate{}, false
}

// pct formats a ratio as a whole percentage; undefined ratios print as n/a.
func pct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", v*100)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
