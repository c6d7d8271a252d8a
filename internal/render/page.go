package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/chessreport-cli/internal/analysis"
	"github.com/KaramelBytes/chessreport-cli/internal/utils"
)

// Page titles, in output order.
const (
	TitleOverview  = "Chess Games Overview: Player Performance & Ratings"
	TitleOutcomes  = "Game Outcomes & Opening Popularity"
	TitleTimeCtrls = "Impact of Time Controls"
)

const (
	pageWidthIn  = 11.0
	pageHeightIn = 8.5
	maxLabelLen  = 28
)

// Options controls page rendering.
type Options struct {
	DPI int
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options { return Options{DPI: 150} }

// layout is the pixel geometry shared by every page.
type layout struct {
	dpi          int
	width        int
	height       int
	titleBand    int
	topW, topH   int
	bottomHeight int
}

func newLayout(dpi int) layout {
	if dpi <= 0 {
		dpi = DefaultOptions().DPI
	}
	w := int(math.Round(pageWidthIn * float64(dpi)))
	h := int(math.Round(pageHeightIn * float64(dpi)))
	band := dpi / 2
	topH := (h - band) / 2
	return layout{
		dpi:          dpi,
		width:        w,
		height:       h,
		titleBand:    band,
		topW:         w / 2,
		topH:         topH,
		bottomHeight: h - band - topH,
	}
}

func (l layout) slot(title string, full bool) panel {
	p := panel{Title: title, Width: l.topW, Height: l.topH, DPI: float64(l.dpi)}
	if full {
		p.Width, p.Height = l.width, l.bottomHeight
	}
	return p
}

// Pages renders the three report pages from the computed tables.
func Pages(t *analysis.Tables, opt Options) ([]image.Image, error) {
	if t == nil {
		t = &analysis.Tables{}
	}
	l := newLayout(opt.DPI)
	builders := []func(*analysis.Tables, layout) (image.Image, error){overviewPage, outcomesPage, timeControlPage}
	pages := make([]image.Image, 0, len(builders))
	for i, build := range builders {
		img, err := build(t, l)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

func overviewPage(t *analysis.Tables, l layout) (image.Image, error) {
	hist, err := histogramChart(l.slot("Rating Distribution: White vs Black", false), t.Ratings)
	if err != nil {
		return nil, err
	}
	buckets, err := barChart(l.slot("White Win Rate by Rating Bucket", false), bucketBars(t.RatingBuckets), colorBucket, true)
	if err != nil {
		return nil, err
	}
	players, err := barChart(l.slot("Top White Players by Games Played", true), countBars(t.TopPlayers), colorPlayers, false)
	if err != nil {
		return nil, err
	}
	return compose(l, TitleOverview, hist, buckets, players), nil
}

func outcomesPage(t *analysis.Tables, l layout) (image.Image, error) {
	pie, err := pieChart(l.slot("Game Outcomes by Victory Status", false), t.VictoryStatus)
	if err != nil {
		return nil, err
	}
	openings, err := barChart(l.slot("Most Popular Openings", false), countBars(t.TopOpenings), colorOpenings, false)
	if err != nil {
		return nil, err
	}
	rates, err := barChart(l.slot("White Win Rate for Top Openings", true), rateBars(t.OpeningWinRates), colorOpenRate, true)
	if err != nil {
		return nil, err
	}
	return compose(l, TitleOutcomes, pie, openings, rates), nil
}

func timeControlPage(t *analysis.Tables, l layout) (image.Image, error) {
	box, err := boxChart(l.slot("Game Length (Turns) by Time Category", false), t.TurnsByCategory)
	if err != nil {
		return nil, err
	}
	rates, err := barChart(l.slot("White Win Rate by Time Category", false), rateBars(t.CategoryWinRates), colorCategory, true)
	if err != nil {
		return nil, err
	}
	outliers, err := barChart(l.slot("Outlier Games by Length", true), outlierBars(t.Outliers), colorShort, false)
	if err != nil {
		return nil, err
	}
	return compose(l, TitleTimeCtrls, box, rates, outliers), nil
}

// compose lays out two upper panels and one full-width panel under a title band.
func compose(l layout, title string, left, right, bottom image.Image) image.Image {
	page := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	fill(page, page.Bounds(), white)
	scale := max(1, l.dpi/50)
	drawText(page, title, image.Pt(l.width/2, l.titleBand/2), scale, textColor)

	top := l.titleBand
	place(page, left, image.Rect(0, top, l.topW, top+l.topH))
	place(page, right, image.Rect(l.topW, top, l.width, top+l.topH))
	place(page, bottom, image.Rect(0, top+l.topH, l.width, l.height))
	return page
}

func place(dst draw.Image, src image.Image, r image.Rectangle) {
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

func countBars(counts []analysis.Count) []bar {
	out := make([]bar, len(counts))
	for i, c := range counts {
		out[i] = bar{Label: fmt.Sprintf("%s (%d)", truncate(c.Label), c.Count), Value: float64(c.Count)}
	}
	return out
}

func rateBars(rates []analysis.Rate) []bar {
	out := make([]bar, len(rates))
	for i, r := range rates {
		out[i] = bar{Label: fmt.Sprintf("%s (%s)", truncate(r.Label), percent(r)), Value: r.Value}
	}
	return out
}

func bucketBars(buckets []analysis.RatingBucket) []bar {
	rates := make([]analysis.Rate, len(buckets))
	for i, b := range buckets {
		rates[i] = b.Rate
	}
	return rateBars(rates)
}

func outlierBars(o analysis.OutlierCounts) []bar {
	if o.Short == 0 && o.Long == 0 {
		return nil
	}
	return []bar{
		{Label: fmt.Sprintf("Short (< %.0f turns): %d", o.Low, o.Short), Value: float64(o.Short), Color: colorShort},
		{Label: fmt.Sprintf("Long (> %.0f turns): %d", o.High, o.Long), Value: float64(o.Long), Color: colorLong},
	}
}

func percent(r analysis.Rate) string {
	if !r.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", r.Value*100)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLen {
		return s
	}
	return string(r[:maxLabelLen-1]) + "…"
}

// PageFileName returns the file name of the 1-based page n.
func PageFileName(prefix string, n int) string {
	return fmt.Sprintf("%s%d.png", prefix, n)
}

// WritePages encodes pages as PNG files named <prefix>1.png, <prefix>2.png, ...
// in dir and returns their paths in page order.
func WritePages(dir, prefix string, pages []image.Image) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(pages))
	for i, img := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		path := filepath.Join(dir, PageFileName(prefix, i+1))
		if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
