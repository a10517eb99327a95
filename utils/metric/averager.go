// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	metric "github.com/luxfi/metric"

	"github.com/luxfi/governance/utils/wrappers"
)

type Averager interface {
	Observe(float64)
}

type averager struct {
	count metric.Counter
	sum   metric.Gauge
}

func NewAverager(namespace, name, desc string, registerer metric.Registerer) (Averager, error) {
	errs := wrappers.Errs{}
	a := NewAveragerWithErrs(namespace, name, desc, registerer, &errs)
	return a, errs.Err
}

// NewAveragerWithErrs registers a [name]_count counter and a [name]_sum gauge
// and records registration failures in [errs].
func NewAveragerWithErrs(namespace, name, desc string, registerer metric.Registerer, errs *wrappers.Errs) Averager {
	prefix := AppendNamespace(namespace, name)
	a := averager{
		count: metric.NewCounter(metric.CounterOpts{
			Name: AppendNamespace(prefix, "count"),
			Help: "Total # of observations of " + desc,
		}),
		sum: metric.NewGauge(metric.GaugeOpts{
			Name: AppendNamespace(prefix, "sum"),
			Help: "Sum of " + desc,
		}),
	}
	errs.Add(
		registerer.Register(metric.AsCollector(a.count)),
		registerer.Register(metric.AsCollector(a.sum)),
	)
	return &a
}

func (a *averager) Observe(v float64) {
	a.count.Inc()
	a.sum.Add(v)
}

// AppendNamespace joins [prefix] and [suffix] with an underscore, omitting it
// if either is empty.
func AppendNamespace(prefix, suffix string) string {
	switch {
	case prefix == "":
		return suffix
	case suffix == "":
		return prefix
	default:
		return prefix + "_" + suffix
	}
}
