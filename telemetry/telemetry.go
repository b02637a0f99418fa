// Package telemetry holds the materializer's Prometheus collectors (the
// logrus logger and the opentracing span live in package materialize),
// mirroring the pattern of a package-level
// metrics struct constructed once and handed to the component that needs
// it (the teacher's sql/expression/function registration style).
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters and histogram CreatePlan updates. A zero
// Metrics is not usable; construct one with NewMetrics.
type Metrics struct {
	plansCreated prometheus.Counter
	planFailures prometheus.Counter
	nodesBuilt   *prometheus.CounterVec
	planCost     prometheus.Histogram
}

// NewMetrics builds and registers a fresh Metrics against the default
// Prometheus registry. Each call registers distinct collectors, so callers
// that construct more than one Materializer per process should share a
// single Metrics value rather than calling NewMetrics per instance.
func NewMetrics() *Metrics {
	m := &Metrics{
		plansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmat",
			Subsystem: "materialize",
			Name:      "plans_created_total",
			Help:      "Number of Path trees successfully materialized into Plan trees.",
		}),
		planFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmat",
			Subsystem: "materialize",
			Name:      "plan_failures_total",
			Help:      "Number of CreatePlan calls that returned an error.",
		}),
		nodesBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmat",
			Subsystem: "materialize",
			Name:      "plan_nodes_built_total",
			Help:      "Number of Plan nodes built, labeled by node type.",
		}, []string{"node_type"}),
		planCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planmat",
			Subsystem: "materialize",
			Name:      "plan_total_cost",
			Help:      "Estimated total_cost of top-level materialized plans.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
	}
	// Registration failure (duplicate collector) is expected when several
	// Materializers share a process; it does not affect correctness, only
	// whether this instance's counters are the ones actually scraped.
	_ = prometheus.Register(m.plansCreated)
	_ = prometheus.Register(m.planFailures)
	_ = prometheus.Register(m.nodesBuilt)
	_ = prometheus.Register(m.planCost)
	return m
}

// RecordSuccess increments the successful-materialization counter and
// observes the produced plan's top-level estimated cost.
func (m *Metrics) RecordSuccess(totalCost float64) {
	if m == nil {
		return
	}
	m.plansCreated.Inc()
	m.planCost.Observe(totalCost)
}

// RecordFailure increments the failed-materialization counter.
func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.planFailures.Inc()
}

// RecordNode increments the per-node-type build counter, called once per
// Plan node the dispatcher constructs.
func (m *Metrics) RecordNode(nodeType string) {
	if m == nil {
		return
	}
	m.nodesBuilt.WithLabelValues(nodeType).Inc()
}
