// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weight

import (
	"github.com/luxfi/governance/phase"
	"github.com/luxfi/governance/utils/math"
)

type Entry struct {
	ContributorID string    `json:"contributorID"`
	Breakdown     Breakdown `json:"breakdown"`
	Raw           float64   `json:"raw"`
	Capped        float64   `json:"capped"`
}

// Distribution is the capped participation weight of every contributor with
// eligible contributions. Entries are sorted by contributor ID.
type Distribution struct {
	Entries       []Entry `json:"entries"`
	Total         float64 `json:"total"`
	UncappedTotal float64 `json:"uncappedTotal"`
	CapFraction   float64 `json:"capFraction"`
	CapLevel      float64 `json:"capLevel"`
	// CapSatisfied is false when there were too few contributors for the
	// cap to be met.
	CapSatisfied bool `json:"capSatisfied"`

	index map[string]int
}

func (d *Distribution) Get(contributorID string) (Entry, bool) {
	i, ok := d.index[contributorID]
	if !ok {
		return Entry{}, false
	}
	return d.Entries[i], true
}

// Weight returns the capped weight of [contributorID], or 0 if unknown.
func (d *Distribution) Weight(contributorID string) float64 {
	e, _ := d.Get(contributorID)
	return e.Capped
}

// Share returns the fraction of the capped total held by [contributorID].
func (d *Distribution) Share(contributorID string) float64 {
	return math.Fraction(d.Weight(contributorID), d.Total)
}

// ExceedsEconomicVeto reports whether [contributorID] alone holds at least the
// economic veto threshold of [params].
func (d *Distribution) ExceedsEconomicVeto(contributorID string, params phase.Parameters) bool {
	share := d.Share(contributorID)
	return share > 0 && share*100 >= params.EconomicVetoThreshold
}
