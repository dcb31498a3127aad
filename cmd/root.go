package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentic-research/xmlgrep/internal/config"
	"github.com/agentic-research/xmlgrep/internal/engine"
)

var (
	cfgPath      string
	strategyFlag string

	cfg config.Config
	eng *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:           "xmlgrep",
	Short:         "xmlgrep: pluggable XML query engine",
	Long:          "xmlgrep discovers an XML document's vocabulary and evaluates ad-hoc\nelement searches through interchangeable traversal strategies.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if strategyFlag != "" {
			cfg.Strategy = strategyFlag
		}
		eng = engine.New(engine.WithDiscoveryCache(64))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to an HCL config file")
	rootCmd.PersistentFlags().StringVarP(&strategyFlag, "strategy", "s", "", "Traversal strategy (streaming, tree, xpath)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", p, err)
	}
	return abs, nil
}
