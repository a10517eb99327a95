// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decision

import (
	"github.com/luxfi/metric"

	utilmetric "github.com/luxfi/governance/utils/metric"
	"github.com/luxfi/governance/utils/wrappers"
)

const (
	outcomeLabel = "outcome"

	outcomeBlocked = "blocked"
	outcomeAllowed = "allowed"
)

var outcomeLabels = []string{outcomeLabel}

type metrics struct {
	decisions    metric.CounterVec
	errors       metric.Counter
	vetoingNodes utilmetric.Averager
}

func newMetrics(namespace string, registerer metric.Registerer) (*metrics, error) {
	m := &metrics{
		decisions: metric.NewCounterVec(
			metric.CounterOpts{
				Name: utilmetric.AppendNamespace(namespace, "decisions_total"),
				Help: "number of evaluated merge decisions",
			},
			outcomeLabels,
		),
		errors: metric.NewCounter(metric.CounterOpts{
			Name: utilmetric.AppendNamespace(namespace, "evaluation_errors_total"),
			Help: "number of proposals that could not be evaluated",
		}),
	}

	errs := wrappers.Errs{}
	m.vetoingNodes = utilmetric.NewAveragerWithErrs(
		namespace,
		"vetoing_nodes",
		"economic nodes vetoing an evaluated proposal",
		registerer,
		&errs,
	)
	errs.Add(
		registerer.Register(metric.AsCollector(m.decisions)),
		registerer.Register(metric.AsCollector(m.errors)),
	)
	return m, errs.Err
}

func (m *metrics) observe(d *Decision) {
	outcome := outcomeAllowed
	if d.Blocked {
		outcome = outcomeBlocked
	}
	m.decisions.With(metric.Labels{
		outcomeLabel: outcome,
	}).Inc()
	m.vetoingNodes.Observe(float64(d.Veto.VetoingNodes))
}
