// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package veto

import (
	"bytes"
	"maps"
	"slices"

	"github.com/luxfi/governance/phase"
	"github.com/luxfi/governance/utils/math"
)

// VetoTier is the tier at which a fixed number of vetoing nodes is enough to
// block a proposal.
const VetoTier = 4

type Threshold struct {
	// Percent of the network's hashpower and economic activity that vetoed.
	MiningPercent   float64 `json:"miningPercent"`
	EconomicPercent float64 `json:"economicPercent"`

	MiningThreshold   float64 `json:"miningThreshold"`
	EconomicThreshold float64 `json:"economicThreshold"`

	VetoingNodes int `json:"vetoingNodes"`
	// Number of vetoing nodes that blocks on its own, or 0 if the tier has
	// no such rule.
	NodeThreshold uint32 `json:"nodeThreshold"`
	// Signals that could not be authenticated against the registry.
	Rejected int `json:"rejected"`

	Met bool `json:"met"`
}

type counted struct {
	signal *Signal
	hash   []byte
	node   Node
}

// newer reports whether [c] supersedes [prev] as the position of its node.
// Signals with equal timestamps are ordered by hash.
func (c *counted) newer(prev *counted) bool {
	if !c.signal.Timestamp.Equal(prev.signal.Timestamp) {
		return c.signal.Timestamp.After(prev.signal.Timestamp)
	}
	return bytes.Compare(c.hash, prev.hash) > 0
}

// Tally measures the veto signals cast on [proposalID] against the registered
// nodes in [registry].
//
// Signals are only counted once [Registry.Authenticate] accepts them, and
// each counts with the registered weight of its node. Only the latest signal
// of each node counts. A single mining pool counts for at most the phase's
// pool weight cap of the network hashpower. The veto threshold is met when
// both the mining and economic veto percent reach the phase thresholds. At
// [VetoTier] it is also met once the number of distinct vetoing nodes reaches
// the phase's node threshold.
func Tally(proposalID uint32, signals []Signal, registry *Registry, params phase.Parameters, tier uint32) Threshold {
	var (
		latest   = make(map[string]*counted, len(signals))
		rejected int
	)
	for i := range signals {
		s := &signals[i]
		node, err := registry.Authenticate(s, proposalID)
		if err != nil {
			rejected++
			continue
		}
		hash := s.Hash()
		c := &counted{
			signal: s,
			hash:   hash[:],
			node:   node,
		}
		if prev, ok := latest[node.ID]; ok && !c.newer(prev) {
			continue
		}
		latest[node.ID] = c
	}

	var (
		network      = registry.Network()
		miningVeto   float64
		economicVeto float64
		vetoing      int
	)
	// Sum in node order so that equal inputs give bit-identical percentages.
	for _, id := range slices.Sorted(maps.Keys(latest)) {
		c := latest[id]
		if c.signal.Kind != Veto {
			continue
		}
		vetoing++
		w := math.NonNegative(c.node.Weight)
		if c.node.Type.Mining() {
			if params.MiningPoolWeightCap > 0 {
				w = min(w, params.MiningPoolWeightCap*network.MiningWeight)
			}
			miningVeto += w
		} else {
			economicVeto += w
		}
	}

	t := Threshold{
		MiningPercent:     100 * math.Fraction(miningVeto, network.MiningWeight),
		EconomicPercent:   100 * math.Fraction(economicVeto, network.EconomicWeight),
		MiningThreshold:   params.MiningVetoThreshold,
		EconomicThreshold: params.EconomicVetoThreshold,
		VetoingNodes:      vetoing,
		Rejected:          rejected,
	}
	t.Met = t.MiningPercent >= t.MiningThreshold && t.EconomicPercent >= t.EconomicThreshold
	if tier == VetoTier && params.Tier4BlockThreshold > 0 {
		t.NodeThreshold = params.Tier4BlockThreshold
		t.Met = t.Met || vetoing >= int(params.Tier4BlockThreshold)
	}
	return t
}
