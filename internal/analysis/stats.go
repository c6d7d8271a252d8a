package analysis

import (
	"math"
	"sort"
	"strconv"
)

// Histogram holds equal-width bin edges (len(Counts)+1) and counts.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// NewHistogram bins values into n equal-width bins spanning their min and max.
// Bins are half-open [a, b) except the last, which is closed. Identical values
// get a unit-wide range centred on them.
func NewHistogram(values []float64, n int) Histogram {
	values = finite(values)
	if len(values) == 0 || n <= 0 {
		return Histogram{}
	}
	lo, hi := minMax(values)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	edges := linspace(lo, hi, n+1)
	counts := make([]int, n)
	width := (hi - lo) / float64(n)
	for _, v := range values {
		i := int(math.Floor((v - lo) / width))
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return Histogram{Edges: edges, Counts: counts}
}

// Total returns the number of binned values.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// BucketEdges splits the range of values into k equal-width, right-closed
// intervals (a, b]. The lowest edge is lowered by 0.1% of the range so the
// minimum falls in the first bucket. Fewer than two distinct values collapse
// to a single bucket around that value.
func BucketEdges(values []float64, k int) []float64 {
	values = finite(values)
	if len(values) == 0 || k <= 0 {
		return nil
	}
	lo, hi := minMax(values)
	if lo == hi {
		adj := 0.001 * math.Abs(lo)
		if adj == 0 {
			adj = 0.001
		}
		return []float64{lo - adj, hi + adj}
	}
	edges := linspace(lo, hi, k+1)
	edges[0] -= (hi - lo) * 0.001
	return edges
}

// bucketIndex returns the interval (edges[i], edges[i+1]] containing v, or -1.
func bucketIndex(edges []float64, v float64) int {
	if len(edges) < 2 || math.IsNaN(v) || v <= edges[0] || v > edges[len(edges)-1] {
		return -1
	}
	i := sort.SearchFloat64s(edges[1:], v)
	if i >= len(edges)-1 {
		return -1
	}
	return i
}

// intervalLabel formats a right-closed interval the way the charts label buckets.
func intervalLabel(lo, hi float64) string {
	return "(" + formatEdge(lo) + ", " + formatEdge(hi) + "]"
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// Quantile returns the linearly interpolated q-quantile of values.
// values need not be sorted; the input is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	return quantile(cp, q)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// BoxStats summarises a distribution for a box plot. Whiskers reach the most
// extreme values within 1.5 IQR of the quartiles.
type BoxStats struct {
	Label        string
	N            int
	Min, Max     float64
	Q1, Median   float64
	Q3           float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64 // values beyond the fences, ascending
}

func newBoxStats(label string, values []float64) BoxStats {
	b := BoxStats{Label: label, N: len(values)}
	if len(values) == 0 {
		return b
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	b.Min, b.Max = cp[0], cp[len(cp)-1]
	b.Q1 = quantile(cp, 0.25)
	b.Median = quantile(cp, 0.5)
	b.Q3 = quantile(cp, 0.75)
	iqr := b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range cp {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// finite drops NaN and infinite values.
func finite(values []float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
