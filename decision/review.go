// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decision

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/governance/multisig"
)

var (
	ErrUnknownTier = multisig.ErrUnknownTier

	errNoReviewPeriods = errors.New("no review periods configured")

	// DefaultReviewPeriods are in days. Tier 4 is for emergencies and has no
	// review period.
	DefaultReviewPeriods = ReviewPeriods{
		1: 7,
		2: 30,
		3: 90,
		4: 0,
		5: 180,
	}
)

// ReviewPeriods maps a tier to the number of days a proposal must stay open
// before it can be merged.
type ReviewPeriods map[uint32]uint32

func (r ReviewPeriods) Period(tier uint32) (time.Duration, error) {
	days, ok := r[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTier, tier)
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// Met reports whether a proposal of [tier] opened at [openedAt] has completed
// its review period at [now].
func (r ReviewPeriods) Met(tier uint32, openedAt, now time.Time) (bool, error) {
	period, err := r.Period(tier)
	if err != nil {
		return false, err
	}
	return !now.Before(openedAt.Add(period)), nil
}

func (r ReviewPeriods) Verify() error {
	if len(r) == 0 {
		return errNoReviewPeriods
	}
	return nil
}
