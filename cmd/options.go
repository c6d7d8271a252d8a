package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/chessreport-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/chessreport-cli/internal/config"
	"github.com/KaramelBytes/chessreport-cli/internal/games"
	"github.com/spf13/pflag"
)

// datasetFlags are shared by every command that reads a games file.
type datasetFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
	top        int
	buckets    int
	bins       int
}

func (d *datasetFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&d.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default from extension)")
	fs.StringVar(&d.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	fs.IntVar(&d.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.IntVar(&d.maxRows, "max-rows", 0, "maximum rows to process (0 = unlimited, overrides config)")
	fs.IntVar(&d.top, "top", 0, "number of players and openings to rank (overrides config)")
	fs.IntVar(&d.buckets, "buckets", 0, "number of rating buckets (overrides config)")
	fs.IntVar(&d.bins, "bins", 0, "number of rating histogram bins (overrides config)")
}

// applyOverrides copies flags given on this command line onto c.
func applyOverrides(fs *pflag.FlagSet, c *cfgpkg.Global, d *datasetFlags) {
	fs.Visit(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		switch fl.Name {
		case "log-level":
			c.LogLevel = flagLogLevel
		case "log-format":
			c.LogFormat = flagLogFormat
		case "max-rows":
			c.MaxRows = d.maxRows
		case "top":
			c.TopN = d.top
		case "buckets":
			c.RatingBuckets = d.buckets
		case "bins":
			c.HistogramBins = d.bins
		case "output-dir":
			c.OutputDir = repOutputDir
		case "prefix":
			c.PagePrefix = repPrefix
		case "dpi":
			c.DPI = repDPI
		}
	})
}

func loadOptions(c cfgpkg.Global, d *datasetFlags) (games.Options, error) {
	opt := games.Options{MaxRows: c.MaxRows, SheetName: d.sheetName, SheetIndex: d.sheetIndex}
	switch strings.ToLower(d.delimiter) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", d.delimiter)
	}
	return opt, nil
}

func analysisOptions(c cfgpkg.Global) analysis.Options {
	return analysis.Options{
		HistogramBins: c.HistogramBins,
		RatingBuckets: c.RatingBuckets,
		TopN:          c.TopN,
		OutlierLow:    c.OutlierLow,
		OutlierHigh:   c.OutlierHigh,
	}
}
