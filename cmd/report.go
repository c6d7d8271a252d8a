package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/chessreport-cli/internal/report"
	"github.com/KaramelBytes/chessreport-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repOutputDir string
	repPrefix    string
	repDPI       int
	repXLSX      string
	repSummary   string
	repQuiet     bool
	repData      datasetFlags
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Render the three report pages for a games file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		applyOverrides(cmd.Flags(), &c, &repData)
		c.OutputDir = utils.ExpandHome(c.OutputDir)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		load, err := loadOptions(c, &repData)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, c)
		if err != nil {
			return err
		}
		res, err := report.Run(cmd.Context(), report.Options{
			Input:        args[0],
			OutputDir:    c.OutputDir,
			Prefix:       c.PagePrefix,
			DPI:          c.DPI,
			Load:         load,
			Analysis:     analysisOptions(c),
			WorkbookPath: utils.ExpandHome(repXLSX),
			SummaryPath:  utils.ExpandHome(repSummary),
		}, log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !repQuiet {
			fmt.Fprintln(out, res.Summary.Markdown())
		}
		fmt.Fprintf(out, "✓ Report generated for %s (%d games)\n", args[0], res.Manifest.Processed)
		fmt.Fprintf(out, "Pages saved: [%s]\n", strings.Join(res.Manifest.Pages, ", "))
		if res.Manifest.Workbook != "" {
			fmt.Fprintf(out, "✓ Wrote tables to %s\n", res.Manifest.Workbook)
		}
		if res.Manifest.Summary != "" {
			fmt.Fprintf(out, "✓ Wrote summary to %s\n", res.Manifest.Summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputDir, "output-dir", "o", "", "directory for pages and report.json (overrides config)")
	reportCmd.Flags().StringVar(&repPrefix, "prefix", "", "page file prefix (overrides config)")
	reportCmd.Flags().IntVar(&repDPI, "dpi", 0, "page resolution in dots per inch (overrides config)")
	reportCmd.Flags().StringVar(&repXLSX, "xlsx", "", "optional path to write every table to an XLSX workbook")
	reportCmd.Flags().StringVar(&repSummary, "summary", "", "optional path to write the Markdown summary")
	reportCmd.Flags().BoolVarP(&repQuiet, "quiet", "q", false, "do not print the summary to stdout")
	repData.bind(reportCmd.Flags())
}
