// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weight

import (
	"slices"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/luxfi/governance/contribution"
	"github.com/luxfi/governance/utils/math"
)

// Breakdown is the eligible contribution volume of a single contributor.
type Breakdown struct {
	MergeMining   btcutil.Amount `json:"mergeMining"`
	FeeForwarding btcutil.Amount `json:"feeForwarding"`
	Zaps          btcutil.Amount `json:"zaps"`
}

func (b Breakdown) Total() btcutil.Amount {
	return math.AddSaturating(math.AddSaturating(b.MergeMining, b.FeeForwarding), b.Zaps)
}

// Weight returns the participation weight of [b].
func (b Breakdown) Weight() float64 {
	return ParticipationWeight(
		b.MergeMining.ToBTC(),
		b.FeeForwarding.ToBTC(),
		b.Zaps.ToBTC(),
	)
}

// ParticipationWeight returns sqrt(mergeMining + feeForwarding + zaps), with
// the amounts denominated in BTC. Negative and NaN inputs count as zero.
func ParticipationWeight(mergeMining, feeForwarding, zaps float64) float64 {
	return math.Sqrt(floats.Sum([]float64{
		math.NonNegative(mergeMining),
		math.NonNegative(feeForwarding),
		math.NonNegative(zaps),
	}))
}

type Calculator struct {
	config          Config
	coolingOffKinds set.Set[contribution.Kind]
	log             log.Logger
}

func NewCalculator(config Config, log log.Logger) (*Calculator, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	return &Calculator{
		config:          config,
		coolingOffKinds: set.Of(config.CoolingOffKinds...),
		log:             log,
	}, nil
}

func (c *Calculator) Config() Config {
	return c.config
}

// Eligible reports whether a contribution of [amount] that is [age] old has
// cleared the cooling-off period. Dust contributions are always eligible.
func (c *Calculator) Eligible(amount btcutil.Amount, age time.Duration) bool {
	return amount < c.config.DustThreshold || age >= c.config.CoolingOffPeriod
}

// counts reports whether [contrib] contributes to a weight evaluated at
// [now], and the amount it contributes.
func (c *Calculator) counts(contrib *contribution.Contribution, now time.Time) (btcutil.Amount, bool) {
	if !contrib.Verified || contrib.Timestamp.After(now) {
		return 0, false
	}
	amount := max(contrib.Amount, 0)
	age := contrib.Age(now)
	switch contrib.Kind {
	case contribution.MergeMining, contribution.FeeForwarding:
		if age > c.config.RollingWindow {
			return 0, false
		}
	case contribution.Zap:
	default:
		return 0, false
	}
	if c.coolingOffKinds.Contains(contrib.Kind) && !c.Eligible(amount, age) {
		return 0, false
	}
	return amount, true
}

// Aggregate sums the eligible contributions per contributor as of [now].
// Unverified rows, rows of unknown kind and rows dated after [now] are
// ignored. Negative amounts are treated as zero and sums saturate rather than
// overflow.
func (c *Calculator) Aggregate(contribs []contribution.Contribution, now time.Time) map[string]Breakdown {
	breakdowns := make(map[string]Breakdown)
	for i := range contribs {
		contrib := &contribs[i]
		amount, ok := c.counts(contrib, now)
		if !ok {
			continue
		}
		b := breakdowns[contrib.ContributorID]
		switch contrib.Kind {
		case contribution.MergeMining:
			b.MergeMining = math.AddSaturating(b.MergeMining, amount)
		case contribution.FeeForwarding:
			b.FeeForwarding = math.AddSaturating(b.FeeForwarding, amount)
		case contribution.Zap:
			b.Zaps = math.AddSaturating(b.Zaps, amount)
		}
		breakdowns[contrib.ContributorID] = b
	}
	return breakdowns
}

// Weights aggregates [contribs] as of [now] and applies the whale cap.
func (c *Calculator) Weights(contribs []contribution.Contribution, now time.Time) *Distribution {
	breakdowns := c.Aggregate(contribs, now)

	ids := make([]string, 0, len(breakdowns))
	for id := range breakdowns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	raw := make([]float64, len(ids))
	for i, id := range ids {
		raw[i] = breakdowns[id].Weight()
	}
	capped, level, ok := Cap(raw, c.config.CapFraction)

	d := &Distribution{
		Entries:       make([]Entry, len(ids)),
		Total:         floats.Sum(capped),
		UncappedTotal: floats.Sum(raw),
		CapFraction:   c.config.CapFraction,
		CapLevel:      level,
		CapSatisfied:  ok,
		index:         make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		d.Entries[i] = Entry{
			ContributorID: id,
			Breakdown:     breakdowns[id],
			Raw:           raw[i],
			Capped:        capped[i],
		}
		d.index[id] = i
		if capped[i] < raw[i] {
			c.log.Debug("capped participation weight",
				log.String("contributorID", id),
				zap.Float64("raw", raw[i]),
				zap.Float64("capped", capped[i]),
			)
		}
	}
	if !ok {
		c.log.Warn("too few contributors to satisfy weight cap",
			log.Int("contributors", len(ids)),
			zap.Float64("capFraction", c.config.CapFraction),
		)
	}
	c.log.Debug("computed participation weights",
		log.Int("contributors", len(ids)),
		zap.Float64("total", d.Total),
		zap.Float64("uncappedTotal", d.UncappedTotal),
	)
	return d
}

// ProposalVoteWeight returns the weight of a vote cast on a specific proposal.
//
// A zap that has cleared the cooling-off period is worth
// max(sqrt(zap), floor * participation); otherwise the vote carries the
// voter's participation weight. The result never exceeds the configured cap
// fraction of [totalWeight].
func (c *Calculator) ProposalVoteWeight(
	participation float64,
	zap btcutil.Amount,
	zapAge time.Duration,
	totalWeight float64,
) float64 {
	participation = math.NonNegative(participation)
	weight := participation
	if zap > 0 && c.Eligible(zap, zapAge) {
		weight = max(math.Sqrt(zap.ToBTC()), c.config.ProposalZapFloor*participation)
	}
	return min(weight, c.config.CapFraction*math.NonNegative(totalWeight))
}
