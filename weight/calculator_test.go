// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weight

import (
	"fmt"
	stdmath "math"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/governance/contribution"
	"github.com/luxfi/governance/phase"
)

const day = 24 * time.Hour

var now = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func newCalculator(t *testing.T) *Calculator {
	c, err := NewCalculator(DefaultConfig, log.NewNoOpLogger())
	require.NoError(t, err)
	return c
}

func btc(f float64) btcutil.Amount {
	a, err := btcutil.NewAmount(f)
	if err != nil {
		panic(err)
	}
	return a
}

func contrib(id string, kind contribution.Kind, amount btcutil.Amount, age time.Duration) contribution.Contribution {
	return contribution.Contribution{
		ContributorID: id,
		Kind:          kind,
		Amount:        amount,
		Timestamp:     now.Add(-age),
		TxHash:        fmt.Sprintf("%s-%d-%d-%d", id, kind, amount, age),
		Verified:      true,
	}
}

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectedErr error
	}{
		{
			name:   "default",
			modify: func(*Config) {},
		},
		{
			name:        "zero cap",
			modify:      func(c *Config) { c.CapFraction = 0 },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "cap above one",
			modify:      func(c *Config) { c.CapFraction = 1.5 },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "NaN cap",
			modify:      func(c *Config) { c.CapFraction = stdmath.NaN() },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "negative dust threshold",
			modify:      func(c *Config) { c.DustThreshold = -1 },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "negative cooling-off",
			modify:      func(c *Config) { c.CoolingOffPeriod = -day },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "empty window",
			modify:      func(c *Config) { c.RollingWindow = 0 },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "zap floor above one",
			modify:      func(c *Config) { c.ProposalZapFloor = 2 },
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "unknown cooling-off kind",
			modify:      func(c *Config) { c.CoolingOffKinds = []contribution.Kind{9} },
			expectedErr: ErrInvalidConfig,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig
			config.CoolingOffKinds = append([]contribution.Kind(nil), DefaultConfig.CoolingOffKinds...)
			test.modify(&config)
			require.ErrorIs(t, config.Verify(), test.expectedErr)
		})
	}
}

func TestParticipationWeight(t *testing.T) {
	require := require.New(t)

	require.Equal(3.0, ParticipationWeight(4, 3, 2))
	require.Zero(ParticipationWeight(0, 0, 0))
	require.Equal(2.0, ParticipationWeight(4, -5, stdmath.NaN()))
	require.Less(ParticipationWeight(1, 0, 0), ParticipationWeight(1, 0, .5))
}

func TestEligible(t *testing.T) {
	tests := []struct {
		amount   btcutil.Amount
		age      time.Duration
		expected bool
	}{
		{amount: btc(.05), age: 0, expected: true},
		{amount: btc(.0999), age: 0, expected: true},
		{amount: btc(.1), age: 0, expected: false},
		{amount: btc(1), age: 0, expected: false},
		{amount: btc(1), age: 29 * day, expected: false},
		{amount: btc(1), age: 30*day - time.Second, expected: false},
		{amount: btc(1), age: 30 * day, expected: true},
		{amount: btc(1), age: 365 * day, expected: true},
	}
	c := newCalculator(t)
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s/%s", test.amount, test.age), func(t *testing.T) {
			require.Equal(t, test.expected, c.Eligible(test.amount, test.age))
		})
	}
}

func TestAggregate(t *testing.T) {
	require := require.New(t)

	unverified := contrib("carol", contribution.FeeForwarding, btc(3), day)
	unverified.Verified = false
	future := contrib("carol", contribution.FeeForwarding, btc(3), -day)
	negative := contrib("dave", contribution.MergeMining, -btc(1), day)

	c := newCalculator(t)
	got := c.Aggregate([]contribution.Contribution{
		// Inside the rolling window.
		contrib("alice", contribution.MergeMining, btc(2), 10*day),
		contrib("alice", contribution.FeeForwarding, btc(1), 30*day),
		// Outside the rolling window.
		contrib("alice", contribution.MergeMining, btc(5), 31*day),
		// Zaps are cumulative but cool off.
		contrib("alice", contribution.Zap, btc(4), 400*day),
		contrib("alice", contribution.Zap, btc(1), 10*day),
		contrib("alice", contribution.Zap, btc(.05), 0),
		contrib("bob", contribution.Zap, btc(1), 30*day),
		unverified,
		future,
		negative,
	}, now)

	require.Equal(map[string]Breakdown{
		"alice": {
			MergeMining:   btc(2),
			FeeForwarding: btc(1),
			Zaps:          btc(4.05),
		},
		"bob": {
			Zaps: btc(1),
		},
		"dave": {},
	}, got)
}

func TestAggregateSaturates(t *testing.T) {
	require := require.New(t)

	huge := btcutil.Amount(stdmath.MaxInt64/2 + 1)
	c := newCalculator(t)
	got := c.Aggregate([]contribution.Contribution{
		contrib("whale", contribution.MergeMining, huge, day),
		contrib("whale", contribution.MergeMining, huge, day),
		contrib("whale", contribution.FeeForwarding, huge, day),
	}, now)

	whale := got["whale"]
	require.Equal(btcutil.Amount(stdmath.MaxInt64), whale.MergeMining)
	require.Equal(btcutil.Amount(stdmath.MaxInt64), whale.Total())
	require.Greater(whale.Weight(), ParticipationWeight(huge.ToBTC(), 0, 0))
}

func TestAggregateConfiguredCoolingOffKinds(t *testing.T) {
	require := require.New(t)

	config := DefaultConfig
	config.CoolingOffKinds = []contribution.Kind{contribution.MergeMining, contribution.Zap}
	c, err := NewCalculator(config, log.NewNoOpLogger())
	require.NoError(err)

	got := c.Aggregate([]contribution.Contribution{
		contrib("alice", contribution.MergeMining, btc(2), 10*day),
		contrib("alice", contribution.MergeMining, btc(.01), 10*day),
		contrib("alice", contribution.FeeForwarding, btc(2), 10*day),
	}, now)
	require.Equal(Breakdown{
		MergeMining:   btc(.01),
		FeeForwarding: btc(2),
	}, got["alice"])
}

func TestWeights(t *testing.T) {
	require := require.New(t)

	contribs := []contribution.Contribution{
		contrib("whale", contribution.MergeMining, btc(10_000), day),
	}
	for i := range 30 {
		contribs = append(contribs, contrib(fmt.Sprintf("small-%02d", i), contribution.FeeForwarding, btc(1), day))
	}

	c := newCalculator(t)
	d := c.Weights(contribs, now)
	require.True(d.CapSatisfied)
	require.Len(d.Entries, 31)
	require.Equal("small-00", d.Entries[0].ContributorID)
	require.Equal("whale", d.Entries[30].ContributorID)

	whale, ok := d.Get("whale")
	require.True(ok)
	require.Equal(100.0, whale.Raw)
	require.Less(whale.Capped, whale.Raw)
	require.InDelta(.05, d.Share("whale"), epsilon)
	require.Greater(d.UncappedTotal, d.Total)

	for _, e := range d.Entries {
		require.LessOrEqual(d.Share(e.ContributorID), .05+epsilon)
	}
	require.Equal(1.0, d.Weight("small-07"))

	_, ok = d.Get("nobody")
	require.False(ok)
	require.Zero(d.Share("nobody"))
}

func TestWeightsMonotone(t *testing.T) {
	require := require.New(t)

	c := newCalculator(t)
	contribs := []contribution.Contribution{
		contrib("alice", contribution.MergeMining, btc(1), day),
		contrib("bob", contribution.MergeMining, btc(1), day),
	}
	before := c.Weights(contribs, now).Weight("alice")

	contribs = append(contribs, contrib("alice", contribution.FeeForwarding, btc(1), day))
	after := c.Weights(contribs, now).Weight("alice")
	require.GreaterOrEqual(after, before)
}

func TestWeightsTooFewContributors(t *testing.T) {
	require := require.New(t)

	c := newCalculator(t)
	d := c.Weights([]contribution.Contribution{
		contrib("alice", contribution.MergeMining, btc(16), day),
		contrib("bob", contribution.MergeMining, btc(4), day),
	}, now)
	require.False(d.CapSatisfied)
	require.Equal(2.0, d.Weight("alice"))
	require.Equal(2.0, d.Weight("bob"))
	require.Equal(.5, d.Share("alice"))

	require.True(d.ExceedsEconomicVeto("alice", phase.DefaultConfig.Parameters.Early))
	require.False(d.ExceedsEconomicVeto("nobody", phase.DefaultConfig.Parameters.Early))
}

func TestWeightsEmpty(t *testing.T) {
	require := require.New(t)

	d := newCalculator(t).Weights(nil, now)
	require.Empty(d.Entries)
	require.Zero(d.Total)
	require.True(d.CapSatisfied)
}

func TestProposalVoteWeight(t *testing.T) {
	tests := []struct {
		name          string
		participation float64
		zap           btcutil.Amount
		zapAge        time.Duration
		total         float64
		expected      float64
	}{
		{
			name:          "no zap",
			participation: 2,
			total:         1000,
			expected:      2,
		},
		{
			name:          "zap dominates",
			participation: 2,
			zap:           btc(9),
			zapAge:        60 * day,
			total:         1000,
			expected:      3,
		},
		{
			name:          "participation floor",
			participation: 100,
			zap:           btc(.01),
			total:         1000,
			expected:      10,
		},
		{
			name:          "cooling off",
			participation: 2,
			zap:           btc(9),
			zapAge:        day,
			total:         1000,
			expected:      2,
		},
		{
			name:          "capped",
			participation: 2,
			zap:           btc(9),
			zapAge:        60 * day,
			total:         20,
			expected:      1,
		},
		{
			name:          "no total",
			participation: 2,
			expected:      0,
		},
	}
	c := newCalculator(t)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.InDelta(t, test.expected, c.ProposalVoteWeight(test.participation, test.zap, test.zapAge, test.total), epsilon)
		})
	}
}
