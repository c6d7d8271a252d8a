package cmd

import (
	"fmt"

	"github.com/KaramelBytes/chessreport-cli/internal/report"
	"github.com/KaramelBytes/chessreport-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumOutputPath string
	sumData       datasetFlags
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print the Markdown summary of a games file without rendering pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		applyOverrides(cmd.Flags(), &c, &sumData)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		load, err := loadOptions(c, &sumData)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, c)
		if err != nil {
			return err
		}
		s, err := report.Analyze(cmd.Context(), args[0], load, analysisOptions(c), log)
		if err != nil {
			return err
		}
		md := s.Markdown()
		if sumOutputPath != "" {
			dest := utils.ExpandHome(sumOutputPath)
			if err := utils.SafeWriteFile(dest, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", dest)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	sumData.bind(summaryCmd.Flags())
}
