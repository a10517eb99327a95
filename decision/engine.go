// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decision

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"go.opentelemetry.io/otel/trace/noop"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/luxfi/governance/contribution"
	"github.com/luxfi/governance/multisig"
	"github.com/luxfi/governance/phase"
	"github.com/luxfi/governance/utils/timer/mockable"
	"github.com/luxfi/governance/veto"
	"github.com/luxfi/governance/weight"
)

var (
	ErrMissingVerifier = errors.New("missing multisig verifier")
	ErrMissingSelector = errors.New("missing phase selector")
)

type Config struct {
	// Prefix of the exported metrics.
	Namespace     string        `json:"namespace"`
	ReviewPeriods ReviewPeriods `json:"reviewPeriods"`
}

var DefaultConfig = Config{
	Namespace:     "governance",
	ReviewPeriods: DefaultReviewPeriods,
}

func (c *Config) Verify() error {
	return c.ReviewPeriods.Verify()
}

// Proposal is everything submitted for one proposal.
type Proposal struct {
	ID        uint32    `json:"id"`
	Digest    ids.ID    `json:"digest"`
	Tier      uint32    `json:"tier"`
	OpenedAt  time.Time `json:"openedAt"`
	Emergency bool      `json:"emergency"`

	Signatures  []multisig.Signature `json:"signatures"`
	VetoSignals []veto.Signal        `json:"vetoSignals"`
	// Maintainers overrode the veto after its review period. An overridden
	// veto no longer blocks.
	VetoOverridden bool `json:"vetoOverridden"`
}

// Snapshot is the external state a proposal is evaluated against.
type Snapshot struct {
	// Evaluation time. The engine's clock is used if unset.
	Now     time.Time     `json:"now"`
	Metrics phase.Metrics `json:"metrics"`
	// Registered economic nodes. Veto signals only count for the active
	// nodes listed here, with their registered weight.
	Nodes []veto.Node `json:"nodes"`
	// Optional. When set, the decision reports the participation weights
	// for audit.
	Contributions []contribution.Contribution `json:"contributions,omitempty"`
}

type Decision struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`

	Inputs   Inputs               `json:"inputs"`
	Phase    phase.Selection      `json:"phase"`
	Multisig *multisig.Result     `json:"multisig"`
	Veto     veto.Threshold       `json:"veto"`
	Weights  *weight.Distribution `json:"weights,omitempty"`
}

// Engine evaluates proposals. It holds no per-proposal state, so evaluating
// the same proposal against the same snapshot always gives the same decision.
type Engine struct {
	config     Config
	verifier   *multisig.Verifier
	selector   *phase.Selector
	calculator *weight.Calculator
	clock      mockable.Clock
	metrics    *metrics
	tracer     oteltrace.Tracer
	log        log.Logger
}

// NewEngine returns an engine. [calculator] may be nil, in which case
// decisions carry no participation weights. A nil [tracer] disables tracing.
func NewEngine(
	config Config,
	verifier *multisig.Verifier,
	selector *phase.Selector,
	calculator *weight.Calculator,
	registerer metric.Registerer,
	tracer oteltrace.Tracer,
	log log.Logger,
) (*Engine, error) {
	switch {
	case verifier == nil:
		return nil, ErrMissingVerifier
	case selector == nil:
		return nil, ErrMissingSelector
	}
	if err := config.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(config.Namespace, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Engine{
		config:     config,
		verifier:   verifier,
		selector:   selector,
		calculator: calculator,
		metrics:    m,
		tracer:     tracer,
		log:        log,
	}, nil
}

// Clock is the clock used for snapshots without an evaluation time.
func (e *Engine) Clock() *mockable.Clock {
	return &e.clock
}

// Evaluate decides whether [p] may be merged given [s]. An unknown tier is an
// error rather than a permissive default.
func (e *Engine) Evaluate(p *Proposal, s Snapshot) (*Decision, error) {
	if s.Now.IsZero() {
		s.Now = e.clock.Time()
	}
	d, err := e.evaluate(p, s)
	if err != nil {
		e.metrics.errors.Inc()
		e.log.Warn("failed to evaluate proposal",
			log.Uint32("proposalID", p.ID),
			log.Uint32("tier", p.Tier),
			log.Err(err),
		)
		return nil, err
	}
	e.metrics.observe(d)
	e.log.Info("evaluated proposal",
		log.Uint32("proposalID", p.ID),
		log.Stringer("digest", p.Digest),
		log.Uint32("tier", p.Tier),
		log.Stringer("phase", d.Phase.Phase),
		log.Bool("blocked", d.Blocked),
		log.String("reason", d.Reason),
	)
	return d, nil
}

func (e *Engine) evaluate(p *Proposal, s Snapshot) (*Decision, error) {
	reviewMet, err := e.config.ReviewPeriods.Met(p.Tier, p.OpenedAt, s.Now)
	if err != nil {
		return nil, err
	}
	result, err := e.verifier.VerifySigned(p.Digest, p.Signatures, p.Tier)
	if err != nil {
		return nil, err
	}

	registry, err := veto.NewRegistry(s.Nodes)
	if err != nil {
		return nil, fmt.Errorf("invalid node registry: %w", err)
	}

	selection := e.selector.Select(s.Metrics)
	threshold := veto.Tally(p.ID, p.VetoSignals, registry, selection.Parameters, p.Tier)
	if threshold.Rejected > 0 {
		e.log.Debug("ignored unauthenticated veto signals",
			log.Uint32("proposalID", p.ID),
			log.Int("rejected", threshold.Rejected),
			log.Int("signals", len(p.VetoSignals)),
		)
	}

	in := Inputs{
		ReviewPeriodMet:    reviewMet,
		SignaturesMet:      result.Approved,
		EconomicVetoActive: threshold.Met && !p.VetoOverridden,
		Tier:               p.Tier,
		Emergency:          p.Emergency,
	}
	d := &Decision{
		Blocked:  ShouldBlockMerge(in),
		Reason:   BlockReason(in),
		Inputs:   in,
		Phase:    selection,
		Multisig: result,
		Veto:     threshold,
	}
	if e.calculator != nil && s.Contributions != nil {
		d.Weights = e.calculator.Weights(s.Contributions, s.Now)
	}
	return d, nil
}
