package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chessreport-cli/internal/features"
	"github.com/KaramelBytes/chessreport-cli/internal/games"
)

func game(whiteID string, wr, br float64, winner, code string, turns int, status, opening string) games.GameRecord {
	return games.GameRecord{
		WhiteID: whiteID, BlackID: "opp", WhiteRating: wr, BlackRating: br, Winner: winner,
		IncrementCode: code, Turns: turns, VictoryStatus: status, OpeningName: opening,
	}
}

func sample() []features.EnrichedRecord {
	return features.Enrich([]games.GameRecord{
		game("b", 1000, 2000, "white", "1+0", 10, "mate", "Sicilian"),
		game("a", 1100, 1900, "black", "5+3", 20, "resign", "French"),
		game("b", 1950, 1000, "white", "5+0", 30, "resign", "Sicilian"),
		game("c", 1500, 1500, "draw", "10+0", 40, "draw", "Caro-Kann"),
		game("a", 1600, 1400, "white", "30+0", 100, "outoftime", "French"),
		game("d", 1400, 1600, "black", "bad", 50, "resign", "Italian"),
	})
}

func labels(cs []Count) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label
	}
	return out
}

func TestWinRateByRatingBucket(t *testing.T) {
	recs := features.Enrich([]games.GameRecord{
		game("p1", 1000, 2000, "white", "5+0", 10, "mate", "x"),
		game("p2", 1100, 1900, "black", "5+0", 10, "mate", "x"),
		game("p3", 1950, 1000, "white", "5+0", 10, "mate", "x"),
	})
	got := WinRateByRatingBucket(recs, 5)
	require.Len(t, got, 5)

	assert.Equal(t, "(999, 1200]", got[0].Label)
	assert.Equal(t, "(1800, 2000]", got[4].Label)
	assert.Equal(t, 2, got[0].Games)
	assert.InDelta(t, 0.5, got[0].Value, 1e-9)
	for _, b := range got[1:4] {
		assert.Equal(t, 0, b.Games, b.Label)
		assert.True(t, math.IsNaN(b.Value), b.Label)
		assert.False(t, b.Defined())
	}
	assert.InDelta(t, 1.0, got[4].Value, 1e-9)
	assert.InDelta(t, 999.0, got[0].Low, 1e-9)
	assert.InDelta(t, 2000.0, got[4].High, 1e-9)
}

func TestWinRateByRatingBucketDegenerate(t *testing.T) {
	recs := features.Enrich([]games.GameRecord{
		game("p1", 1500, 1500, "white", "5+0", 10, "mate", "x"),
		game("p2", 1500, 1500, "black", "5+0", 10, "mate", "x"),
	})
	got := WinRateByRatingBucket(recs, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Games)
	assert.InDelta(t, 0.5, got[0].Value, 1e-9)

	assert.Nil(t, WinRateByRatingBucket(nil, 5))
}

func TestWinRateByRatingBucketSkipsNonFinite(t *testing.T) {
	recs := features.Enrich([]games.GameRecord{
		game("p1", 1000, 1200, "white", "5+0", 10, "mate", "x"),
		game("p2", math.NaN(), 1500, "white", "5+0", 10, "mate", "x"),
		game("p3", 2000, math.Inf(1), "black", "5+0", 10, "mate", "x"),
	})
	var got []RatingBucket
	require.NotPanics(t, func() { got = WinRateByRatingBucket(recs, 5) })
	require.Len(t, got, 5)
	total := 0
	for _, b := range got {
		total += b.Games
	}
	assert.Equal(t, 2, total)
	assert.InDelta(t, 2000.0, got[4].High, 1e-9)
}

func TestTopNTiesKeepFirstAppearance(t *testing.T) {
	recs := sample()
	top := TopWhitePlayers(recs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, labels(top))
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, 2, top[1].Count)

	// idempotent
	assert.Equal(t, top, TopWhitePlayers(recs, 3))
	assert.Len(t, TopWhitePlayers(recs, 0), 4)
}

func TestWinRateByOpeningFollowsTopOrder(t *testing.T) {
	recs := sample()
	top := TopOpenings(recs, 10)
	assert.Equal(t, []string{"Sicilian", "French", "Caro-Kann", "Italian"}, labels(top))

	rates := WinRateByOpening(recs, top)
	require.Len(t, rates, len(top))
	for i := range top {
		assert.Equal(t, top[i].Label, rates[i].Label)
		assert.Equal(t, top[i].Count, rates[i].Games)
	}
	assert.InDelta(t, 1.0, rates[0].Value, 1e-9)
	assert.InDelta(t, 0.5, rates[1].Value, 1e-9)
	assert.InDelta(t, 0.0, rates[2].Value, 1e-9)

	// only the selected openings are aggregated
	limited := WinRateByOpening(recs, TopOpenings(recs, 1))
	require.Len(t, limited, 1)
	assert.Equal(t, "Sicilian", limited[0].Label)
	assert.Nil(t, WinRateByOpening(recs, nil))
}

func TestOutlierGameCounts(t *testing.T) {
	var gs []games.GameRecord
	for i := 1; i <= 20; i++ {
		gs = append(gs, game("p", 1500, 1500, "white", "5+0", i, "mate", "x"))
	}
	oc := OutlierGameCounts(features.Enrich(gs), 0.05, 0.95)
	assert.InDelta(t, 1.95, oc.Low, 1e-9)
	assert.InDelta(t, 19.05, oc.High, 1e-9)
	assert.Equal(t, 1, oc.Short)
	assert.Equal(t, 1, oc.Long)
	assert.LessOrEqual(t, oc.Short+oc.Long, len(gs))

	empty := OutlierGameCounts(nil, 0.05, 0.95)
	assert.Zero(t, empty.Short)
	assert.Zero(t, empty.Long)
	assert.True(t, math.IsNaN(empty.Low))
}

func TestVictoryStatusCounts(t *testing.T) {
	got := VictoryStatusCounts(sample())
	assert.Equal(t, []Count{
		{Label: "resign", Count: 3},
		{Label: "mate", Count: 1},
		{Label: "draw", Count: 1},
		{Label: "outoftime", Count: 1},
	}, got)
}

func TestWinRateByTimeCategory(t *testing.T) {
	got := WinRateByTimeCategory(sample())
	require.Len(t, got, 5)
	assert.Equal(t, "Bullet", got[0].Label)
	assert.InDelta(t, 1.0, got[0].Value, 1e-9)
	assert.Equal(t, "Blitz", got[1].Label)
	assert.Equal(t, 2, got[1].Games)
	assert.InDelta(t, 0.5, got[1].Value, 1e-9)
	assert.Equal(t, "Rapid", got[2].Label)
	assert.InDelta(t, 0.0, got[2].Value, 1e-9)
	assert.Equal(t, "Classical", got[3].Label)
	assert.Equal(t, "Unclassified", got[4].Label)
	assert.Equal(t, 1, got[4].Games)

	noUnclassified := features.Enrich([]games.GameRecord{game("p", 1, 1, "white", "5+0", 1, "mate", "x")})
	got = WinRateByTimeCategory(noUnclassified)
	require.Len(t, got, 4)
	assert.True(t, math.IsNaN(got[0].Value))
}

func TestTurnsByTimeCategory(t *testing.T) {
	var gs []games.GameRecord
	for _, turns := range []int{10, 20, 30, 40, 100} {
		gs = append(gs, game("p", 1500, 1500, "white", "5+0", turns, "mate", "x"))
	}
	got := TurnsByTimeCategory(features.Enrich(gs))
	require.Len(t, got, 4)
	assert.Zero(t, got[0].N)

	blitz := got[1]
	assert.Equal(t, "Blitz", blitz.Label)
	assert.Equal(t, 5, blitz.N)
	assert.InDelta(t, 20.0, blitz.Q1, 1e-9)
	assert.InDelta(t, 30.0, blitz.Median, 1e-9)
	assert.InDelta(t, 40.0, blitz.Q3, 1e-9)
	assert.InDelta(t, 10.0, blitz.LowerWhisker, 1e-9)
	assert.InDelta(t, 40.0, blitz.UpperWhisker, 1e-9)
	assert.InDelta(t, 100.0, blitz.Max, 1e-9)
	assert.Equal(t, []float64{100}, blitz.Outliers)
}

func TestComputeMatchesIndividualTables(t *testing.T) {
	recs := sample()
	opt := DefaultOptions()
	tables, err := Compute(context.Background(), recs, opt)
	require.NoError(t, err)

	assert.Equal(t, TopWhitePlayers(recs, opt.TopN), tables.TopPlayers)
	assert.Equal(t, TopOpenings(recs, opt.TopN), tables.TopOpenings)
	assert.Equal(t, labels(tables.TopOpenings), rateLabels(tables.OpeningWinRates))
	assert.Equal(t, VictoryStatusCounts(recs), tables.VictoryStatus)
	assert.Len(t, tables.RatingBuckets, 5)
	assert.Len(t, tables.Ratings.White.Counts, 30)
	assert.Equal(t, len(recs), tables.Ratings.White.Total())
	assert.Equal(t, len(recs), tables.Ratings.Black.Total())
	assert.Len(t, tables.TurnsByCategory, 5)
}

func TestComputeEmptyAndCanceled(t *testing.T) {
	tables, err := Compute(context.Background(), nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, tables.TopPlayers)
	assert.Empty(t, tables.RatingBuckets)
	assert.Empty(t, tables.Ratings.White.Counts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Compute(ctx, sample(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func rateLabels(rs []Rate) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Label
	}
	return out
}
