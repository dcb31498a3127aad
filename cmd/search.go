package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/xmlgrep/internal/query"
	"github.com/agentic-research/xmlgrep/internal/report"
)

var (
	searchAttr     string
	searchValue    string
	searchContains string
	searchJSON     bool
	searchXML      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [file] [element]",
	Short: "Search a document for matching elements",
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

		res, err := eng.Search(cfg.Strategy, path, q)
		if err != nil {
			return err
		}
		switch {
		case searchJSON || (!searchXML && cfg.Output == "json"):
			fmt.Println(oj.JSON(res, 2))
		case searchXML || cfg.Output == "xml":
			out, err := report.XML(res)
			if err != nil {
				return err
			}
			fmt.Println(out)
		default:
			fmt.Println(res.Detail())
		}
		return nil
	},
}

// buildQuery assembles a query from the shared filter flags, honoring
// the configured case-folding preference.
func buildQuery(element string) (query.Query, error) {
	q, err := query.New(element)
	if err != nil {
		return query.Query{}, err
	}
	if searchAttr != "" {
		q = q.WithAttribute(searchAttr)
	}
	if searchValue != "" {
		q = q.WithValue(searchValue)
	}
	if searchContains != "" {
		q = q.WithText(searchContains)
	}
	if cfg.CaseInsensitive {
		q = q.WithFold()
	}
	return q, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&searchAttr, "attr", "a", "", "Require this attribute to be present")
	cmd.Flags().StringVarP(&searchValue, "value", "v", "", "Require the attribute to hold exactly this value")
	cmd.Flags().StringVarP(&searchContains, "contains", "c", "", "Require subtree text to contain this substring")
}

func init() {
	addFilterFlags(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Emit the result as JSON")
	searchCmd.Flags().BoolVar(&searchXML, "xml", false, "Emit the result as a searchResults XML report")
	rootCmd.AddCommand(searchCmd)
}
