package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var elementsCmd = &cobra.Command{
	Use:   "elements [file]",
	Short: "List every element name in a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := absPath(args[0])
		if err != nil {
			return err
		}
		names, err := eng.ElementNames(cfg.Strategy, path)
		if err != nil {
			return err
		}
		printList(names)
		return nil
	},
}

var attributesCmd = &cobra.Command{
	Use:   "attributes [file] [element]",
	Short: "List attribute names used by one element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := absPath(args[0])
		if err != nil {
			return err
		}
		names, err := eng.AttributeNames(cfg.Strategy, path, args[1])
		if err != nil {
			return err
		}
		printList(names)
		return nil
	},
}

var valuesCmd = &cobra.Command{
	Use:   "values [file] [element] [attribute]",
	Short: "List the values one attribute takes on one element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := absPath(args[0])
		if err != nil {
			return err
		}
		values, err := eng.AttributeValues(cfg.Strategy, path, args[1], args[2])
		if err != nil {
			return err
		}
		printList(values)
		return nil
	},
}

func printList(items []string) {
	for _, item := range items {
		fmt.Println(item)
	}
}

func init() {
	rootCmd.AddCommand(elementsCmd)
	rootCmd.AddCommand(attributesCmd)
	rootCmd.AddCommand(valuesCmd)
}
