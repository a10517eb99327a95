// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/luxfi/governance/decision"
	"github.com/luxfi/governance/multisig"
	"github.com/luxfi/governance/phase"
	"github.com/luxfi/governance/weight"
)

// Config is the complete governance configuration.
type Config struct {
	Weight   weight.Config      `json:"weight"`
	Phase    phase.Config       `json:"phase"`
	Tiers    multisig.TierTable `json:"tiers"`
	Decision decision.Config    `json:"decision"`
	// Path of the teams document, see multisig.LoadTeams.
	TeamsFile string `json:"teams-file"`
}

// Default returns the default configuration. Every call returns a fresh
// copy, so callers may modify the result.
func Default() Config {
	w := weight.DefaultConfig
	w.CoolingOffKinds = slices.Clone(w.CoolingOffKinds)

	d := decision.DefaultConfig
	d.ReviewPeriods = maps.Clone(d.ReviewPeriods)

	return Config{
		Weight:    w,
		Phase:     phase.DefaultConfig,
		Tiers:     maps.Clone(multisig.DefaultTiers),
		Decision:  d,
		TeamsFile: "maintainers/teams.yml",
	}
}

// Get returns a Config. [b] is unmarshalled over the default values; tiers
// and review periods given in [b] are merged into the default tables.
func Get(b []byte) (*Config, error) {
	c := Default()

	// if bytes are empty keep default values
	if len(b) == 0 {
		return &c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Verify() error {
	if err := c.Weight.Verify(); err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	if err := c.Phase.Verify(); err != nil {
		return fmt.Errorf("phase: %w", err)
	}
	if err := c.Tiers.Verify(); err != nil {
		return fmt.Errorf("tiers: %w", err)
	}
	if err := c.Decision.Verify(); err != nil {
		return fmt.Errorf("decision: %w", err)
	}
	// Every tier that can be signed must also have a review period.
	for _, tier := range c.Tiers.Tiers() {
		if _, err := c.Decision.ReviewPeriods.Period(tier); err != nil {
			return fmt.Errorf("decision: %w", err)
		}
	}
	return nil
}
