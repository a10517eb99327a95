// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package phase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBreakpoints = errors.New("invalid phase breakpoints")
	ErrInvalidParameters  = errors.New("invalid phase parameters")

	DefaultConfig = Config{
		ChainHeight: Breakpoints{
			Growth: 50_000,
			Mature: 200_000,
		},
		EconomicNodes: Breakpoints{
			Growth: 10,
			Mature: 30,
		},
		Contributors: Breakpoints{
			Growth: 10,
			Mature: 100,
		},
		Parameters: ParameterTable{
			Early: Parameters{
				MiningPoolWeightCap:   .10,
				MiningVetoThreshold:   25,
				EconomicVetoThreshold: 35,
				Tier4BlockThreshold:   2,
			},
			// The pool cap is loosened while the network grows and
			// tightened again once it is mature.
			Growth: Parameters{
				MiningPoolWeightCap:   .20,
				MiningVetoThreshold:   30,
				EconomicVetoThreshold: 40,
				Tier4BlockThreshold:   3,
			},
			Mature: Parameters{
				MiningPoolWeightCap:   .10,
				MiningVetoThreshold:   35,
				EconomicVetoThreshold: 45,
				Tier4BlockThreshold:   5,
			},
		},
	}
)

// Breakpoints map a metric onto a phase: values below Growth are Early,
// values below Mature are Growth, and everything else is Mature.
type Breakpoints struct {
	Growth uint64 `json:"growth"`
	Mature uint64 `json:"mature"`
}

func (b Breakpoints) Phase(value uint64) Phase {
	switch {
	case value < b.Growth:
		return Early
	case value < b.Mature:
		return Growth
	default:
		return Mature
	}
}

func (b Breakpoints) Verify() error {
	if b.Growth > b.Mature {
		return fmt.Errorf("%w: growth %d > mature %d", ErrInvalidBreakpoints, b.Growth, b.Mature)
	}
	return nil
}

type ParameterTable struct {
	Early  Parameters `json:"early"`
	Growth Parameters `json:"growth"`
	Mature Parameters `json:"mature"`
}

func (t *ParameterTable) Get(p Phase) Parameters {
	switch p {
	case Growth:
		return t.Growth
	case Mature:
		return t.Mature
	default:
		return t.Early
	}
}

type Config struct {
	ChainHeight   Breakpoints    `json:"chainHeight"`
	EconomicNodes Breakpoints    `json:"economicNodes"`
	Contributors  Breakpoints    `json:"contributors"`
	Parameters    ParameterTable `json:"parameters"`
}

func (c *Config) Verify() error {
	for name, b := range map[string]Breakpoints{
		"chainHeight":   c.ChainHeight,
		"economicNodes": c.EconomicNodes,
		"contributors":  c.Contributors,
	} {
		if err := b.Verify(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, p := range []Phase{Early, Growth, Mature} {
		if err := verifyParameters(c.Parameters.Get(p)); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func verifyParameters(p Parameters) error {
	switch {
	case !(p.MiningPoolWeightCap > 0 && p.MiningPoolWeightCap <= 1):
		return fmt.Errorf("%w: mining pool weight cap %v not in (0, 1]", ErrInvalidParameters, p.MiningPoolWeightCap)
	case !(p.MiningVetoThreshold >= 0 && p.MiningVetoThreshold <= 100):
		return fmt.Errorf("%w: mining veto threshold %v not in [0, 100]", ErrInvalidParameters, p.MiningVetoThreshold)
	case !(p.EconomicVetoThreshold >= 0 && p.EconomicVetoThreshold <= 100):
		return fmt.Errorf("%w: economic veto threshold %v not in [0, 100]", ErrInvalidParameters, p.EconomicVetoThreshold)
	default:
		return nil
	}
}
