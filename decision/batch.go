// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decision

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// EvaluateContext is Evaluate recorded as a span of the trace in [ctx].
func (e *Engine) EvaluateContext(ctx context.Context, p *Proposal, s Snapshot) (*Decision, error) {
	_, span := e.tracer.Start(ctx, "decision.Evaluate", oteltrace.WithAttributes(
		attribute.Int64("proposalID", int64(p.ID)),
		attribute.Stringer("digest", p.Digest),
		attribute.Int64("tier", int64(p.Tier)),
		attribute.Bool("emergency", p.Emergency),
	))
	defer span.End()

	d, err := e.Evaluate(p, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("blocked", d.Blocked),
		attribute.String("reason", d.Reason),
	)
	return d, nil
}

// EvaluateAll evaluates [proposals] concurrently against one snapshot. All
// proposals are evaluated at the same time, even if [s] leaves it unset.
// The first error cancels the remaining evaluations.
func (e *Engine) EvaluateAll(ctx context.Context, proposals []*Proposal, s Snapshot) ([]*Decision, error) {
	if s.Now.IsZero() {
		s.Now = e.clock.Time()
	}

	decisions := make([]*Decision, len(proposals))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range proposals {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := e.EvaluateContext(ctx, p, s)
			if err != nil {
				return err
			}
			decisions[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decisions, nil
}
