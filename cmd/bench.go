package cmd

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/agentic-research/xmlgrep/internal/query"
)

var benchCmd = &cobra.Command{
	Use:   "bench [file] [element]",
	Short: "Run one query through every strategy and compare timings",
	Long:  "bench runs the same query through every registered traversal strategy,\nreports per-strategy timing, and verifies the strategies agree on the\nresult set.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := absPath(args[0])
		if err != nil {
			return err
		}
		q, err := buildQuery(args[1])
		if err != nil {
			return err
		}

		var baseline []query.Match
		agreed := true
		for i, strategy := range eng.Strategies() {
			res, err := eng.Search(strategy, path, q)
			if err != nil {
				return fmt.Errorf("%s: %w", strategy, err)
			}
			fmt.Printf("%-10s %4d matches  %10.3fms\n",
				strategy, res.Count(), float64(res.Elapsed.Microseconds())/1000)
			if i == 0 {
				baseline = res.Matches
			} else if !reflect.DeepEqual(baseline, res.Matches) {
				agreed = false
			}
		}
		if !agreed {
			return fmt.Errorf("strategies disagree on the result set")
		}
		fmt.Println("All strategies agree.")
		return nil
	},
}

func init() {
	addFilterFlags(benchCmd)
	rootCmd.AddCommand(benchCmd)
}
