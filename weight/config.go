// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weight

import (
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/luxfi/governance/contribution"
)

var (
	ErrInvalidConfig = errors.New("invalid weight config")

	DefaultConfig = Config{
		CapFraction:      .05,
		DustThreshold:    btcutil.SatoshiPerBitcoin / 10,
		CoolingOffPeriod: 30 * 24 * time.Hour,
		RollingWindow:    30 * 24 * time.Hour,
		CoolingOffKinds:  []contribution.Kind{contribution.Zap},
		ProposalZapFloor: .10,
	}
)

type Config struct {
	// Maximum share of the total capped weight any single contributor may
	// hold.
	CapFraction float64 `json:"capFraction"`

	// Contributions strictly below this amount skip the cooling-off period.
	DustThreshold btcutil.Amount `json:"dustThreshold"`

	// Minimum age of a non-dust contribution before it counts.
	CoolingOffPeriod time.Duration `json:"coolingOffPeriod"`

	// Merge mining and fee forwarding only count if they happened within
	// this window before the evaluation time. Zaps are cumulative.
	RollingWindow time.Duration `json:"rollingWindow"`

	// Kinds whose contributions are subject to the cooling-off period.
	CoolingOffKinds []contribution.Kind `json:"coolingOffKinds"`

	// A proposal zap is worth at least this fraction of the zapper's
	// participation weight.
	ProposalZapFloor float64 `json:"proposalZapFloor"`
}

func (c *Config) Verify() error {
	switch {
	case !(c.CapFraction > 0 && c.CapFraction <= 1):
		return fmt.Errorf("%w: cap fraction %v not in (0, 1]", ErrInvalidConfig, c.CapFraction)
	case c.DustThreshold < 0:
		return fmt.Errorf("%w: negative dust threshold %s", ErrInvalidConfig, c.DustThreshold)
	case c.CoolingOffPeriod < 0:
		return fmt.Errorf("%w: negative cooling-off period %s", ErrInvalidConfig, c.CoolingOffPeriod)
	case c.RollingWindow <= 0:
		return fmt.Errorf("%w: rolling window %s must be positive", ErrInvalidConfig, c.RollingWindow)
	case !(c.ProposalZapFloor >= 0 && c.ProposalZapFloor <= 1):
		return fmt.Errorf("%w: proposal zap floor %v not in [0, 1]", ErrInvalidConfig, c.ProposalZapFloor)
	}
	for _, k := range c.CoolingOffKinds {
		if !k.Valid() {
			return fmt.Errorf("%w: cooling-off kind %d", ErrInvalidConfig, k)
		}
	}
	return nil
}
