// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrUnknownTier        = errors.New("unknown tier")
	ErrInvalidRequirement = errors.New("invalid tier requirement")

	DefaultTiers = TierTable{
		1: {Teams: 4, MaintainersPerTeam: 5},
		2: {Teams: 5, MaintainersPerTeam: 6},
		3: {Teams: 6, MaintainersPerTeam: 6},
		4: {Teams: 5, MaintainersPerTeam: 5},
		5: {Teams: 7, MaintainersPerTeam: 6},
	}
)

// Requirement is the nested threshold of a tier: [Teams] teams must each
// collect signatures from [MaintainersPerTeam] of their members.
type Requirement struct {
	Teams              int `json:"teams"`
	MaintainersPerTeam int `json:"maintainersPerTeam"`
}

// Maintainers is the minimum number of maintainer signatures that can satisfy
// the requirement.
func (r Requirement) Maintainers() int {
	return r.Teams * r.MaintainersPerTeam
}

func (r Requirement) Verify() error {
	if r.Teams <= 0 || r.MaintainersPerTeam <= 0 {
		return fmt.Errorf("%w: %d teams of %d maintainers", ErrInvalidRequirement, r.Teams, r.MaintainersPerTeam)
	}
	return nil
}

// TierTable maps a tier to its signature requirement. Tiers missing from the
// table are rejected rather than defaulted.
type TierTable map[uint32]Requirement

func (t TierTable) Get(tier uint32) (Requirement, error) {
	r, ok := t[tier]
	if !ok {
		return Requirement{}, fmt.Errorf("%w: %d", ErrUnknownTier, tier)
	}
	return r, nil
}

// Tiers returns the configured tiers in ascending order.
func (t TierTable) Tiers() []uint32 {
	return slices.Sorted(maps.Keys(t))
}

func (t TierTable) Verify() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no tiers configured", ErrInvalidRequirement)
	}
	for _, tier := range t.Tiers() {
		if err := t[tier].Verify(); err != nil {
			return fmt.Errorf("tier %d: %w", tier, err)
		}
	}
	return nil
}
