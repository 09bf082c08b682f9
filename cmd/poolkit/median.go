package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/poolkit/internal/median"
	"github.com/aatumaykin/poolkit/internal/numparse"
	"github.com/aatumaykin/poolkit/internal/report"
)

var (
	medianFormat  string
	medianSummary bool
)

// medianCmd represents the median command
var medianCmd = &cobra.Command{
	Use:   "median [numbers...]",
	Short: "Print the running median of a stream of numbers",
	Long: `Read numbers from the arguments, or from stdin when none are given,
and print the median after every insertion. Any text between numbers is
ignored, so log lines such as "took 120ms" can be piped in directly.`,
	Example: `  poolkit median 5 2 8 1 9
  seq 1 100 | poolkit median --summary --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(medianFormat)
		if err != nil {
			return err
		}

		tracker := median.New[float64]()
		var steps []report.MedianStep
		insert := func(v float64) error {
			tracker.Insert(v)
			m, err := tracker.Median()
			if err != nil {
				return err
			}
			if !medianSummary {
				steps = append(steps, report.MedianStep{Value: v, Median: m})
			}
			return nil
		}

		if len(args) > 0 {
			for _, v := range numparse.Extract(strings.Join(args, " ")) {
				if err := insert(v); err != nil {
					return err
				}
			}
		} else if err := numparse.Scan(cmd.InOrStdin(), insert); err != nil {
			return err
		}

		m, err := tracker.Median()
		if err != nil {
			return fmt.Errorf("no numbers in input: %w", err)
		}

		return report.Render(cmd.OutOrStdout(), format, report.MedianReport{
			Count:  tracker.Len(),
			Median: &m,
			Steps:  steps,
		})
	},
}

func init() {
	medianCmd.Flags().StringVarP(&medianFormat, "format", "f", "text", "Output format: text, json or yaml")
	medianCmd.Flags().BoolVarP(&medianSummary, "summary", "s", false, "Print only the final median")
}
