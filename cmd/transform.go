package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/xmlgrep/internal/transform"
)

var transformOut string

var transformCmd = &cobra.Command{
	Use:   "transform [xml] [xsl]",
	Short: "Apply an XSLT stylesheet to a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		xmlPath, err := absPath(args[0])
		if err != nil {
			return err
		}
		xslPath, err := absPath(args[1])
		if err != nil {
			return err
		}
		if transformOut != "" {
			if err := transform.ApplyToFile(xmlPath, xslPath, transformOut); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", transformOut)
			return nil
		}
		out, err := transform.Apply(xmlPath, xslPath)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	transformCmd.Flags().StringVarP(&transformOut, "out", "o", "", "Write the rendered output to a file")
	rootCmd.AddCommand(transformCmd)
}
