// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package phase classifies the maturity of the network and selects the
// governance thresholds that apply to it.
package phase

const (
	Early Phase = iota
	Growth
	Mature
)

// Phase is ordered: Early < Growth < Mature.
type Phase uint8

func (p Phase) String() string {
	switch p {
	case Early:
		return "early"
	case Growth:
		return "growth"
	case Mature:
		return "mature"
	default:
		return "unknown"
	}
}

func (p Phase) Valid() bool {
	return p <= Mature
}

// Metrics are the externally observed inputs to phase selection.
type Metrics struct {
	ChainHeight   uint64 `json:"chainHeight"`
	EconomicNodes uint32 `json:"economicNodes"`
	Contributors  uint32 `json:"contributors"`
}

// Parameters are the thresholds that adapt to the governance phase.
type Parameters struct {
	// Maximum share of total weight a single mining pool may hold, as a
	// fraction in (0, 1].
	MiningPoolWeightCap float64 `json:"miningPoolWeightCap"`
	// Percent of network hashpower that must signal a veto.
	MiningVetoThreshold float64 `json:"miningVetoThreshold"`
	// Percent of network economic activity that must signal a veto.
	EconomicVetoThreshold float64 `json:"economicVetoThreshold"`
	// Number of vetoing economic nodes that block a tier 4 change.
	Tier4BlockThreshold uint32 `json:"tier4BlockThreshold"`
}

// Selection is the phase chosen for a set of metrics, along with the phase
// each metric implies on its own.
type Selection struct {
	Phase      Phase
	Parameters Parameters

	ChainHeight   Phase
	EconomicNodes Phase
	Contributors  Phase
}
