// Package config loads run configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// RunConfig is the complete declarative configuration for a simulation run.
type RunConfig struct {
	Rules   *RulesConfig   `hcl:"rules,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// RulesConfig overrides house rules. Zero values fall back to defaults.
type RulesConfig struct {
	Decks            int  `hcl:"decks,optional"`
	CutCardDepth     int  `hcl:"cut_card_depth,optional"`
	MaxSpots         int  `hcl:"max_spots,optional"`
	MaxResplit       int  `hcl:"max_resplit,optional"`
	DealerHitsSoft17 bool `hcl:"dealer_hits_soft_17,optional"`
	Bet              int  `hcl:"bet,optional"`
	Stake            int  `hcl:"stake,optional"`
}

// PlayerConfig seats one player at the table.
type PlayerConfig struct {
	Name      string `hcl:"name,label"`
	Strategy  string `hcl:"strategy"`
	Spots     int    `hcl:"spots,optional"`
	Insurance bool   `hcl:"insurance,optional"`
	Stake     int    `hcl:"stake,optional"`
}

// DefaultRunConfig returns the configuration used when no file is given: two
// learning players, one holding a single spot with insurance and one holding
// three without.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Players: []PlayerConfig{
			{Name: "john", Strategy: "learn", Spots: 1, Insurance: true},
			{Name: "katy", Strategy: "learn", Spots: 3},
		},
	}
}

// Load parses an HCL run configuration. A missing file yields the defaults.
func Load(filename string) (*RunConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultRunConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config RunConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	for i := range config.Players {
		if config.Players[i].Spots == 0 {
			config.Players[i].Spots = 1
		}
	}
	return &config, nil
}

// Validate checks the configuration for mistakes that would otherwise
// surface mid-run.
func (c *RunConfig) Validate() error {
	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player must be configured")
	}

	validStrategies := map[string]bool{
		"basic":  true,
		"random": true,
		"learn":  true,
	}
	for _, p := range c.Players {
		if !validStrategies[p.Strategy] {
			return fmt.Errorf("player %s: invalid strategy %q", p.Name, p.Strategy)
		}
		if p.Spots < 1 {
			return fmt.Errorf("player %s: spots must be positive", p.Name)
		}
		if p.Stake < 0 {
			return fmt.Errorf("player %s: stake must not be negative", p.Name)
		}
	}

	if c.Rules != nil {
		if c.Rules.Decks < 0 {
			return fmt.Errorf("rules: decks must not be negative")
		}
		if c.Rules.CutCardDepth < 0 {
			return fmt.Errorf("rules: cut_card_depth must not be negative")
		}
		if c.Rules.Decks > 0 && c.Rules.CutCardDepth >= c.Rules.Decks*52 {
			return fmt.Errorf("rules: cut_card_depth leaves no cards to deal")
		}
	}
	return nil
}
