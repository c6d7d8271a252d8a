package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/chessreport-cli/internal/analysis"
)

var (
	colorWhiteSide = drawing.ColorFromHex("87ceeb") // skyblue
	colorBlackSide = drawing.ColorFromHex("fa8072") // salmon
	colorBucket    = drawing.ColorFromHex("2e8b57") // seagreen
	colorPlayers   = drawing.ColorFromHex("4a78a8")
	colorOpenings  = drawing.ColorFromHex("3b528b")
	colorOpenRate  = drawing.ColorFromHex("a3294f")
	colorCategory  = drawing.ColorFromHex("6b8fd6")
	colorShort     = drawing.ColorFromHex("ffd700") // gold
	colorLong      = drawing.ColorFromHex("800080") // purple
	colorBox       = drawing.ColorFromHex("66c2a5")
)

// panel is the size and title of one chart slot.
type panel struct {
	Title  string
	Width  int
	Height int
	DPI    float64
}

func (p panel) scale() int {
	s := int(math.Round(p.DPI / 75))
	if s < 1 {
		return 1
	}
	return s
}

// padding leaves room for the title above the plot.
func (p panel) padding() chart.Box {
	unit := int(p.DPI / 10)
	return chart.Box{Top: 3 * unit, Left: unit, Right: unit, Bottom: unit}
}

func (p panel) empty() image.Image {
	return placeholder(p.Title, p.Width, p.Height, p.scale())
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// rasterize renders a go-chart chart to PNG and decodes it back for compositing.
func rasterize(title string, c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", title, err)
	}
	return img, nil
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: 11, FontColor: drawing.ColorFromHex("212121")}
}

// bar is one labelled bar; NaN values are drawn as empty bars. A zero Color
// falls back to the chart colour.
type bar struct {
	Label string
	Value float64
	Color drawing.Color
}

// barChart draws vertical bars. Rate charts use a fixed 0..100% axis. It
// falls back to a placeholder when there is nothing to plot.
func barChart(p panel, bars []bar, col drawing.Color, rate bool) (image.Image, error) {
	values := make([]chart.Value, len(bars))
	top, defined := 0.0, false
	for i, b := range bars {
		v := b.Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		} else {
			defined = true
		}
		top = math.Max(top, v)
		c := col
		if b.Color != (drawing.Color{}) {
			c = b.Color
		}
		values[i] = chart.Value{
			Label: b.Label,
			Value: v,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}
	if !defined || (!rate && top == 0) {
		return p.empty(), nil
	}
	yMax := top * 1.15
	if rate {
		yMax = 1
	}
	ticks := func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprint(v)
		}
		if rate {
			return fmt.Sprintf("%.0f%%", f*100)
		}
		return fmt.Sprintf("%.0f", f)
	}
	slot := (p.Width - int(p.DPI)) / len(bars)
	bc := chart.BarChart{
		Title:      p.Title,
		TitleStyle: titleStyle(),
		Width:      p.Width,
		Height:     p.Height,
		DPI:        p.DPI,
		Background: chart.Style{Padding: p.padding()},
		BarWidth:   max(4, slot*6/10),
		BarSpacing: max(2, slot*4/10),
		XAxis:      chart.Style{TextRotationDegrees: rotationFor(bars), FontSize: 7},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: ticks,
		},
		Bars: values,
	}
	return rasterize(p.Title, bc)
}

// rotationFor tilts crowded or long labels so they do not overlap.
func rotationFor(bars []bar) float64 {
	longest := 0
	for _, b := range bars {
		longest = max(longest, len(b.Label))
	}
	if len(bars) > 5 || longest > 12 {
		return 45
	}
	return 0
}

// pieChart draws shares of a whole with percentage labels.
func pieChart(p panel, counts []analysis.Count) (image.Image, error) {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return p.empty(), nil
	}
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.0f%%", c.Label, 100*float64(c.Count)/float64(total)),
			Value: float64(c.Count),
		})
	}
	pc := chart.PieChart{
		Title:      p.Title,
		TitleStyle: titleStyle(),
		Width:      p.Width,
		Height:     p.Height,
		DPI:        p.DPI,
		Background: chart.Style{Padding: p.padding()},
		Values:     values,
	}
	return rasterize(p.Title, pc)
}

// histogramChart overlays step outlines of white and black rating histograms.
func histogramChart(p panel, d analysis.RatingDistribution) (image.Image, error) {
	var series []chart.Series
	lo, hi, top := math.Inf(1), math.Inf(-1), 0.0
	add := func(name string, h analysis.Histogram, col drawing.Color) {
		if len(h.Counts) == 0 {
			return
		}
		xs, ys := stepPoints(h)
		for _, c := range h.Counts {
			top = math.Max(top, float64(c))
		}
		lo = math.Min(lo, h.Edges[0])
		hi = math.Max(hi, h.Edges[len(h.Edges)-1])
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5, FillColor: col.WithAlpha(110)},
		})
	}
	add("White", d.White, colorWhiteSide)
	add("Black", d.Black, colorBlackSide)
	if len(series) == 0 || top == 0 {
		return p.empty(), nil
	}
	ch := chart.Chart{
		Title:      p.Title,
		TitleStyle: titleStyle(),
		Width:      p.Width,
		Height:     p.Height,
		DPI:        p.DPI,
		Background: chart.Style{Padding: p.padding()},
		XAxis:      chart.XAxis{Name: "Rating", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		YAxis:      chart.YAxis{Name: "Games", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return rasterize(p.Title, ch)
}

// stepPoints traces the outline of a histogram as a closed polyline on the x axis.
func stepPoints(h analysis.Histogram) (xs, ys []float64) {
	xs = append(xs, h.Edges[0])
	ys = append(ys, 0)
	for i, c := range h.Counts {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, float64(c), float64(c))
	}
	xs = append(xs, h.Edges[len(h.Edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

// boxChart draws one box-and-whisker glyph per group.
func boxChart(p panel, boxes []analysis.BoxStats) (image.Image, error) {
	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(boxes))
	top := 0.0
	line := chart.Style{StrokeColor: drawing.ColorFromHex("333333"), StrokeWidth: 1.2}
	body := chart.Style{StrokeColor: drawing.ColorFromHex("333333"), StrokeWidth: 1.2, FillColor: colorBox.WithAlpha(200)}
	for i, b := range boxes {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: b.Label})
		if b.N == 0 {
			continue
		}
		top = math.Max(top, b.Max)
		const half, capHalf = 0.3, 0.15
		series = append(series,
			chart.ContinuousSeries{XValues: []float64{x - half, x + half, x + half, x - half, x - half}, YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1}, Style: body},
			chart.ContinuousSeries{XValues: []float64{x - half, x + half}, YValues: []float64{b.Median, b.Median}, Style: line},
			chart.ContinuousSeries{XValues: []float64{x, x}, YValues: []float64{b.Q1, b.LowerWhisker}, Style: line},
			chart.ContinuousSeries{XValues: []float64{x, x}, YValues: []float64{b.Q3, b.UpperWhisker}, Style: line},
			chart.ContinuousSeries{XValues: []float64{x - capHalf, x + capHalf}, YValues: []float64{b.LowerWhisker, b.LowerWhisker}, Style: line},
			chart.ContinuousSeries{XValues: []float64{x - capHalf, x + capHalf}, YValues: []float64{b.UpperWhisker, b.UpperWhisker}, Style: line},
		)
		if dots := outlierSeries(x, b); dots != nil {
			series = append(series, *dots)
		}
	}
	if len(series) == 0 {
		return p.empty(), nil
	}
	if top <= 0 {
		top = 1
	}
	ch := chart.Chart{
		Title:      p.Title,
		TitleStyle: titleStyle(),
		Width:      p.Width,
		Height:     p.Height,
		DPI:        p.DPI,
		Background: chart.Style{Padding: p.padding()},
		XAxis:      chart.XAxis{Name: "Time category", Ticks: ticks, Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(boxes)) + 0.5}},
		YAxis:      chart.YAxis{Name: "Turns", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05}},
		Series:     series,
	}
	return rasterize(p.Title, ch)
}

// outlierSeries plots the values beyond the whiskers of one box as dots, or
// returns nil when there are none.
func outlierSeries(x float64, b analysis.BoxStats) *chart.ContinuousSeries {
	if len(b.Outliers) == 0 {
		return nil
	}
	xs := make([]float64, len(b.Outliers))
	for i := range xs {
		xs[i] = x
	}
	return &chart.ContinuousSeries{
		XValues: xs,
		YValues: append([]float64(nil), b.Outliers...),
		Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 2.5, DotColor: drawing.ColorFromHex("555555")},
	}
}
