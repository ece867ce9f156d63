package main

import (
	"fmt"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/config"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/scoring"
)

// resolveConfig layers the --config file over the environment and built-in defaults
func resolveConfig() (config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	var fileCfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = *loaded
	}

	merged := fileCfg.MergeWithDefaults(env)
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// loadScorer builds a scorer from an optional rules file
func loadScorer(rulesFile string) (*scoring.Scorer, error) {
	if rulesFile == "" {
		return scoring.NewScorer(nil), nil
	}
	rules, err := scoring.LoadRuleOverrides(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules %s: %w", rulesFile, err)
	}
	return scoring.NewScorer(rules), nil
}
