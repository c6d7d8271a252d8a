package features

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chessreport-cli/internal/games"
)

func TestParseTimeControlIgnoresIncrement(t *testing.T) {
	for _, base := range []int{0, 1, 2, 5, 15, 60, 180} {
		for _, inc := range []string{"0", "5", "180", "", "x"} {
			code := fmt.Sprintf("%d+%s", base, inc)
			got := ParseTimeControl(code)
			assert.True(t, got.Valid, code)
			assert.Equal(t, base, got.Value, code)
		}
	}
}

func TestParseTimeControlMalformed(t *testing.T) {
	for _, code := range []string{"", "bad", "15", "+5", "x+5", "1.5+0", " 5+0", "5 +0", "-"} {
		got := ParseTimeControl(code)
		assert.False(t, got.Valid, "code %q", code)
		assert.True(t, got.Malformed(), "code %q", code)
		assert.Equal(t, "n/a", got.String())
	}
}

func TestCategoryForBoundaries(t *testing.T) {
	cases := []struct {
		in   float64
		want TimeCategory
	}{
		{-5, Unclassified},
		{-1, Unclassified},
		{-0.5, Bullet},
		{0, Bullet},
		{2, Bullet},
		{2.0001, Blitz},
		{8, Blitz},
		{8.5, Rapid},
		{15, Rapid},
		{16, Classical},
		{60, Classical},
		{61, Unclassified},
		{180, Unclassified},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CategoryFor(c.in), "CategoryFor(%v)", c.in)
	}
}

func TestCategorizeInvalidBase(t *testing.T) {
	assert.Equal(t, Unclassified, Categorize(BaseMinutes{}))
	assert.Equal(t, Unclassified, Categorize(ParseTimeControl("garbage")))
	assert.Equal(t, Blitz, Categorize(ParseTimeControl("5+0")))
}

func TestWinIndicators(t *testing.T) {
	for _, w := range []string{"white", "black", "draw", "", "White", "unknown"} {
		ww, bw := WinIndicators(w)
		assert.False(t, ww && bw, w)
		bothFalse := !ww && !bw
		assert.Equal(t, w != "white" && w != "black", bothFalse, w)
	}
	ww, bw := WinIndicators("white")
	assert.True(t, ww)
	assert.False(t, bw)
}

func TestEnrichExample(t *testing.T) {
	records := []games.GameRecord{
		{Winner: "white", IncrementCode: "5+0", Turns: 40},
		{Winner: "black", IncrementCode: "bad", Turns: 200},
	}
	out := Enrich(records)
	require.Len(t, out, 2)

	assert.Equal(t, BaseMinutes{Value: 5, Valid: true}, out[0].BaseMinutes)
	assert.Equal(t, Blitz, out[0].TimeCategory)
	assert.True(t, out[0].WhiteWin)
	assert.False(t, out[0].BlackWin)
	assert.Equal(t, 40, out[0].Turns)

	assert.False(t, out[1].BaseMinutes.Valid)
	assert.Equal(t, Unclassified, out[1].TimeCategory)
	assert.True(t, out[1].BlackWin)
	assert.False(t, out[1].WhiteWin)

	assert.Equal(t, 1, CountMalformed(out))
}

func TestEnrichIsPerRecord(t *testing.T) {
	a := games.GameRecord{Winner: "draw", IncrementCode: "10+5"}
	b := games.GameRecord{Winner: "black", IncrementCode: "45+45"}
	forward := Enrich([]games.GameRecord{a, b})
	reverse := Enrich([]games.GameRecord{b, a})
	assert.Equal(t, forward[0], reverse[1])
	assert.Equal(t, forward[1], reverse[0])
	assert.Equal(t, EnrichOne(a), forward[0])
	assert.Empty(t, Enrich(nil))
}
