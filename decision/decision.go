// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package decision turns the outcome of the individual governance checks into
// a merge block decision.
package decision

import "strings"

// VetoTier is the lowest tier at which an active economic veto blocks.
const VetoTier = 3

const (
	ReasonEmergencySignatures = "Emergency mode: Signature threshold not met"
	ReasonEmergencyMet        = "Emergency mode: All requirements met"
	ReasonReviewPeriod        = "Review period requirement not met"
	ReasonSignatures          = "Signature threshold requirement not met"
	ReasonEconomicVeto        = "Economic node veto active"
	ReasonAllMet              = "All governance requirements met"

	reasonPrefix = "Governance requirements not met: "
)

// Inputs are the results of the individual checks of one proposal.
type Inputs struct {
	ReviewPeriodMet    bool   `json:"reviewPeriodMet"`
	SignaturesMet      bool   `json:"signaturesMet"`
	EconomicVetoActive bool   `json:"economicVetoActive"`
	Tier               uint32 `json:"tier"`
	Emergency          bool   `json:"emergency"`
}

// ShouldBlockMerge reports whether a proposal must not be merged.
//
// In emergency mode only the signature threshold matters. Otherwise both the
// review period and the signature threshold must be met, and from [VetoTier]
// up an active economic veto blocks regardless.
func ShouldBlockMerge(in Inputs) bool {
	if in.Emergency {
		return !in.SignaturesMet
	}
	if in.Tier >= VetoTier && in.EconomicVetoActive {
		return true
	}
	return !(in.ReviewPeriodMet && in.SignaturesMet)
}

// BlockReason describes every unmet requirement. It never disagrees with
// ShouldBlockMerge: the reason is [ReasonAllMet] or [ReasonEmergencyMet]
// exactly when the merge is allowed.
func BlockReason(in Inputs) string {
	if in.Emergency {
		if !in.SignaturesMet {
			return ReasonEmergencySignatures
		}
		return ReasonEmergencyMet
	}

	var reasons []string
	if !in.ReviewPeriodMet {
		reasons = append(reasons, ReasonReviewPeriod)
	}
	if !in.SignaturesMet {
		reasons = append(reasons, ReasonSignatures)
	}
	if in.Tier >= VetoTier && in.EconomicVetoActive {
		reasons = append(reasons, ReasonEconomicVeto)
	}
	if len(reasons) == 0 {
		return ReasonAllMet
	}
	return reasonPrefix + strings.Join(reasons, ", ")
}
