// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package phase

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/governance/contribution"
	"github.com/luxfi/governance/utils/math"
)

var _ Source = (*LedgerSource)(nil)

// Source supplies phase metrics. Implementations usually perform network or
// database I/O.
type Source interface {
	Metrics(ctx context.Context) (Metrics, error)
}

type Selector struct {
	config Config
}

func NewSelector(config Config) (*Selector, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	return &Selector{config: config}, nil
}

// Select returns the most conservative phase implied by [m]. A single
// lagging metric holds the whole network back.
func (s *Selector) Select(m Metrics) Selection {
	sel := Selection{
		ChainHeight:   s.config.ChainHeight.Phase(m.ChainHeight),
		EconomicNodes: s.config.EconomicNodes.Phase(uint64(m.EconomicNodes)),
		Contributors:  s.config.Contributors.Phase(uint64(m.Contributors)),
	}
	sel.Phase = min(sel.ChainHeight, sel.EconomicNodes, sel.Contributors)
	sel.Parameters = s.config.Parameters.Get(sel.Phase)
	return sel
}

func (s *Selector) Parameters(p Phase) Parameters {
	return s.config.Parameters.Get(p)
}

// Current fetches metrics from [src] and selects a phase. If [timeout] is
// positive the fetch is bounded by it.
func (s *Selector) Current(ctx context.Context, src Source, timeout time.Duration) (Selection, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	m, err := src.Metrics(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("fetching phase metrics: %w", err)
	}
	return s.Select(m), nil
}

// LedgerSource takes the contributor count from a contribution ledger and
// the chain metrics from Chain.
type LedgerSource struct {
	Chain  Source
	Ledger *contribution.Ledger
}

func (s *LedgerSource) Metrics(ctx context.Context) (Metrics, error) {
	m, err := s.Chain.Metrics(ctx)
	if err != nil {
		return Metrics{}, err
	}
	m.Contributors = math.Uint32(s.Ledger.DistinctContributors())
	return m, nil
}
