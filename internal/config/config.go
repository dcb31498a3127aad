// Package config loads CLI settings from an HCL file. The engine itself
// consumes no configuration; only the command surface does.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config holds display and dispatch preferences for the CLI.
type Config struct {
	// Strategy is the default traversal strategy.
	Strategy string `hcl:"strategy,optional"`
	// CaseInsensitive folds element/attribute/text matching.
	CaseInsensitive bool `hcl:"case_insensitive,optional"`
	// Output selects "text", "json" or "xml" rendering.
	Output string `hcl:"output,optional"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{Strategy: "streaming", Output: "text"}
}

// Load reads the config file at path, or the default location
// (~/.xmlgrep/config.hcl) when path is empty. A missing default file is
// not an error; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultPath()
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = Default().Strategy
	}
	if cfg.Output == "" {
		cfg.Output = Default().Output
	}
	if cfg.Output != "text" && cfg.Output != "json" && cfg.Output != "xml" {
		return Default(), fmt.Errorf("load config %s: unknown output %q", path, cfg.Output)
	}
	return cfg, nil
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".xmlgrep", "config.hcl")
}
