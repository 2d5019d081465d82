// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg, "convex_test")
	require.NoError(t, err)

	m.BadFormatErrors.Inc()
	m.CellsAnnounced.Add(3)
	m.AnnouncedSetSize.Set(3)
	m.DecodeLatency.Observe(0.001)

	require.Equal(t, int64(1), m.BadFormatErrors.Read())
	require.Equal(t, int64(3), m.CellsAnnounced.Read())

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg, "convex_test")
	require.NoError(t, err)

	_, err = NewMetrics(reg, "convex_test")
	require.Error(t, err)
}
