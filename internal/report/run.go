// Package report drives a full run: load, enrich, aggregate, render and write.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/chessreport-cli/internal/analysis"
	"github.com/KaramelBytes/chessreport-cli/internal/export"
	"github.com/KaramelBytes/chessreport-cli/internal/features"
	"github.com/KaramelBytes/chessreport-cli/internal/games"
	"github.com/KaramelBytes/chessreport-cli/internal/logging"
	"github.com/KaramelBytes/chessreport-cli/internal/render"
	"github.com/KaramelBytes/chessreport-cli/internal/utils"
)

// ManifestName is written next to the pages.
const ManifestName = "report.json"

// Options configures a run.
type Options struct {
	Input     string
	OutputDir string
	Prefix    string
	DPI       int

	Load     games.Options
	Analysis analysis.Options

	// Optional outputs; empty means skip.
	WorkbookPath string
	SummaryPath  string
}

// Manifest records what a run produced.
type Manifest struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	Processed   int       `json:"processed"`
	Malformed   int       `json:"malformed_time_controls"`
	Pages       []string  `json:"pages"`
	Workbook    string    `json:"workbook,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Result is returned to the caller after a successful run.
type Result struct {
	Manifest     Manifest
	ManifestPath string
	Summary      *analysis.Summary
}

// Analyze loads the input and computes every table without rendering.
func Analyze(ctx context.Context, input string, load games.Options, opt analysis.Options, log *slog.Logger) (*analysis.Summary, error) {
	if log == nil {
		log = logging.Discard()
	}
	ds, err := games.Load(input, load)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	log.Info("loaded dataset", "file", ds.Name, "rows", ds.Rows, "records", len(ds.Records))
	for _, w := range ds.Warnings {
		log.Warn(w, "file", ds.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := features.Enrich(ds.Records)
	log.Debug("derived features", "records", len(records), "malformed", features.CountMalformed(records))

	tables, err := analysis.Compute(ctx, records, opt)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return analysis.NewSummary(ds, records, tables), nil
}

// Run performs a full report run and writes pages, optional extras and the manifest.
func Run(ctx context.Context, opt Options, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = logging.Discard()
	}
	if opt.Prefix == "" {
		opt.Prefix = "report_page"
	}
	if opt.OutputDir == "" {
		opt.OutputDir = "."
	}
	summary, err := Analyze(ctx, opt.Input, opt.Load, opt.Analysis, log)
	if err != nil {
		return nil, err
	}

	pages, err := render.Pages(summary.Tables, render.Options{DPI: opt.DPI})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := render.WritePages(opt.OutputDir, opt.Prefix, pages)
	if err != nil {
		return nil, err
	}
	for i, p := range paths {
		log.Debug("wrote page", "page", i+1, "path", p)
	}

	m := Manifest{
		RunID:       uuid.NewString(),
		Source:      opt.Input,
		Rows:        summary.Rows,
		Processed:   summary.Processed,
		Malformed:   summary.Malformed,
		Pages:       paths,
		Warnings:    summary.Warnings,
		GeneratedAt: time.Now().UTC(),
	}
	if opt.WorkbookPath != "" {
		if err := export.WriteWorkbook(opt.WorkbookPath, summary); err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
		m.Workbook = opt.WorkbookPath
		log.Debug("wrote workbook", "path", opt.WorkbookPath)
	}
	if opt.SummaryPath != "" {
		if err := utils.SafeWriteFile(opt.SummaryPath, []byte(summary.Markdown())); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
		m.Summary = opt.SummaryPath
	}

	b, err := utils.PrettyJSON(m)
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(opt.OutputDir, ManifestName)
	if err := utils.SafeWriteFile(manifestPath, b); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	log.Info("report complete", "run_id", m.RunID, "pages", len(paths))
	return &Result{Manifest: m, ManifestPath: manifestPath, Summary: summary}, nil
}
