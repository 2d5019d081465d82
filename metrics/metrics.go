// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of counters, gauges, and averages the cell codec
// and the broadcast Announcer report to, built on the Counter/Gauge/
// Averager/Registry wrappers metric.go defines rather than bare
// prometheus collectors.
type Metrics struct {
	Registry prometheus.Registerer

	// BadFormatErrors counts cell decodes rejected for violating
	// canonical form.
	BadFormatErrors Counter
	// MissingDataMisses counts ref resolutions that found neither a
	// cache nor a store entry.
	MissingDataMisses Counter
	// CellsAnnounced counts distinct cells included in an outbound
	// delta broadcast.
	CellsAnnounced Counter
	// CellsPersisted counts distinct cells written durably to a store.
	CellsPersisted Counter
	// AnnouncedSetSize tracks the current size of an Announcer's
	// announced set: every distinct hash it has sent so far.
	AnnouncedSetSize Gauge
	// DecodeLatency tracks the running average time to canonically
	// decode a single cell.
	DecodeLatency Averager
}

// NewMetrics returns the metric set, with every metric name prefixed
// by namespace (typically "convex"). Only DecodeLatency is registered
// with reg; the counters and the gauge live in a local Registry.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	latency, err := NewAverager(namespace+"_decode_latency_seconds", "time to canonically decode a single cell", reg)
	if err != nil {
		return nil, err
	}

	names := NewRegistry()
	return &Metrics{
		Registry:          reg,
		BadFormatErrors:   names.NewCounter(namespace + "_bad_format_errors"),
		MissingDataMisses: names.NewCounter(namespace + "_missing_data_misses"),
		CellsAnnounced:    names.NewCounter(namespace + "_cells_announced"),
		CellsPersisted:    names.NewCounter(namespace + "_cells_persisted"),
		AnnouncedSetSize:  names.NewGauge(namespace + "_announced_set_size"),
		DecodeLatency:     latency,
	}, nil
}

// Register registers an additional prometheus collector under the
// same registerer this Metrics instance was built with.
func (m *Metrics) Register(collector prometheus.Collector) error {
	return m.Registry.Register(collector)
}
