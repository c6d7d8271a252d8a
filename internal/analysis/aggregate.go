// Package analysis computes grouped statistics over enriched game records.
package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/chessreport-cli/internal/features"
)

// Options controls aggregation.
type Options struct {
	// HistogramBins is the number of bins per rating histogram.
	HistogramBins int
	// RatingBuckets is the number of equal-width buckets for win rate by rating.
	RatingBuckets int
	// TopN limits the player and opening rankings.
	TopN int
	// OutlierLow and OutlierHigh are the percentiles bounding "normal" game length.
	OutlierLow  float64
	OutlierHigh float64
}

// DefaultOptions returns the settings used by the standard report.
func DefaultOptions() Options {
	return Options{
		HistogramBins: 30,
		RatingBuckets: 5,
		TopN:          10,
		OutlierLow:    0.05,
		OutlierHigh:   0.95,
	}
}

// RatingDistribution holds independent histograms per color.
type RatingDistribution struct {
	White Histogram
	Black Histogram
}

// RatingBucket is a white win rate over one rating interval (Low, High].
type RatingBucket struct {
	Rate
	Low, High float64
}

// OutlierCounts counts games strictly outside the [Low, High] percentile thresholds.
type OutlierCounts struct {
	LowQuantile  float64
	HighQuantile float64
	Low, High    float64 // thresholds in turns
	Short, Long  int
}

// Tables is the full set of summary tables for one dataset.
type Tables struct {
	Ratings          RatingDistribution
	RatingBuckets    []RatingBucket
	TopPlayers       []Count
	TopOpenings      []Count
	OpeningWinRates  []Rate
	Outliers         OutlierCounts
	VictoryStatus    []Count
	CategoryWinRates []Rate
	TurnsByCategory  []BoxStats
}

// Compute builds every table. Tables do not depend on each other and are
// computed concurrently over the shared read-only slice.
func Compute(ctx context.Context, records []features.EnrichedRecord, opt Options) (*Tables, error) {
	t := &Tables{}
	g, ctx := errgroup.WithContext(ctx)
	step := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	step(func() { t.Ratings = RatingDistributionOf(records, opt.HistogramBins) })
	step(func() { t.RatingBuckets = WinRateByRatingBucket(records, opt.RatingBuckets) })
	step(func() { t.TopPlayers = TopWhitePlayers(records, opt.TopN) })
	step(func() { t.TopOpenings = TopOpenings(records, opt.TopN) })
	step(func() { t.OpeningWinRates = WinRateByOpening(records, TopOpenings(records, opt.TopN)) })
	step(func() { t.Outliers = OutlierGameCounts(records, opt.OutlierLow, opt.OutlierHigh) })
	step(func() { t.VictoryStatus = VictoryStatusCounts(records) })
	step(func() { t.CategoryWinRates = WinRateByTimeCategory(records) })
	step(func() { t.TurnsByCategory = TurnsByTimeCategory(records) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// RatingDistributionOf bins white and black ratings separately.
func RatingDistributionOf(records []features.EnrichedRecord, bins int) RatingDistribution {
	white := make([]float64, len(records))
	black := make([]float64, len(records))
	for i, r := range records {
		white[i] = r.WhiteRating
		black[i] = r.BlackRating
	}
	return RatingDistribution{White: NewHistogram(white, bins), Black: NewHistogram(black, bins)}
}

// WinRateByRatingBucket buckets white ratings using edges computed from the
// combined pool of white and black ratings, and averages WhiteWin per bucket.
func WinRateByRatingBucket(records []features.EnrichedRecord, buckets int) []RatingBucket {
	pool := make([]float64, 0, 2*len(records))
	for _, r := range records {
		pool = append(pool, r.WhiteRating, r.BlackRating)
	}
	edges := BucketEdges(pool, buckets)
	if len(edges) < 2 {
		return nil
	}
	acc := newRateAcc()
	labels := make([]string, len(edges)-1)
	for i := range labels {
		labels[i] = intervalLabel(edges[i], edges[i+1])
		acc.declare(labels[i])
	}
	for _, r := range records {
		if i := bucketIndex(edges, r.WhiteRating); i >= 0 {
			acc.add(labels[i], r.WhiteWin)
		}
	}
	out := make([]RatingBucket, len(labels))
	for i, l := range labels {
		out[i] = RatingBucket{Rate: acc.rate(l), Low: edges[i], High: edges[i+1]}
	}
	return out
}

// TopWhitePlayers ranks players by games played as white.
func TopWhitePlayers(records []features.EnrichedRecord, n int) []Count {
	c := newCounter()
	for _, r := range records {
		c.add(r.WhiteID)
	}
	return c.top(n)
}

// TopOpenings ranks openings by games played.
func TopOpenings(records []features.EnrichedRecord, n int) []Count {
	c := newCounter()
	for _, r := range records {
		c.add(r.OpeningName)
	}
	return c.top(n)
}

// WinRateByOpening computes the white win rate for the given openings only,
// preserving their order.
func WinRateByOpening(records []features.EnrichedRecord, openings []Count) []Rate {
	if len(openings) == 0 {
		return nil
	}
	acc := newRateAcc()
	for _, o := range openings {
		acc.declare(o.Label)
	}
	for _, r := range records {
		if _, ok := acc.games[r.OpeningName]; ok {
			acc.add(r.OpeningName, r.WhiteWin)
		}
	}
	return acc.rates()
}

// OutlierGameCounts counts games with turns strictly below the low percentile
// and strictly above the high percentile.
func OutlierGameCounts(records []features.EnrichedRecord, low, high float64) OutlierCounts {
	oc := OutlierCounts{LowQuantile: low, HighQuantile: high, Low: math.NaN(), High: math.NaN()}
	if len(records) == 0 {
		return oc
	}
	turns := make([]float64, len(records))
	for i, r := range records {
		turns[i] = float64(r.Turns)
	}
	oc.Low = Quantile(turns, low)
	oc.High = Quantile(turns, high)
	for _, v := range turns {
		if v < oc.Low {
			oc.Short++
		}
		if v > oc.High {
			oc.Long++
		}
	}
	return oc
}

// VictoryStatusCounts counts games per ending reason.
func VictoryStatusCounts(records []features.EnrichedRecord) []Count {
	c := newCounter()
	for _, r := range records {
		c.add(r.VictoryStatus)
	}
	return c.sorted()
}

// categoryOrder lists the named categories, plus Unclassified when any game has it.
func categoryOrder(records []features.EnrichedRecord) []features.TimeCategory {
	cats := append([]features.TimeCategory(nil), features.Categories...)
	for _, r := range records {
		if r.TimeCategory == features.Unclassified {
			return append(cats, features.Unclassified)
		}
	}
	return cats
}

// WinRateByTimeCategory computes the white win rate per time category.
func WinRateByTimeCategory(records []features.EnrichedRecord) []Rate {
	acc := newRateAcc()
	for _, c := range categoryOrder(records) {
		acc.declare(string(c))
	}
	for _, r := range records {
		acc.add(string(r.TimeCategory), r.WhiteWin)
	}
	return acc.rates()
}

// TurnsByTimeCategory summarises game length per time category.
func TurnsByTimeCategory(records []features.EnrichedRecord) []BoxStats {
	cats := categoryOrder(records)
	vals := make(map[features.TimeCategory][]float64, len(cats))
	for _, r := range records {
		vals[r.TimeCategory] = append(vals[r.TimeCategory], float64(r.Turns))
	}
	out := make([]BoxStats, len(cats))
	for i, c := range cats {
		out[i] = newBoxStats(string(c), vals[c])
	}
	return out
}
