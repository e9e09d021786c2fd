// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for inspector metrics

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	m := InitMetrics()
	require.NotNil(t, m)
	assert.Same(t, m, DefaultMetrics)

	// Touch every metric once so registration problems surface here.
	m.RequestsTotal.WithLabelValues(StatusDetected).Inc()
	m.RequestsTotal.WithLabelValues(StatusFallback).Inc()
	m.RequestsTotal.WithLabelValues(StatusRejected).Inc()
	m.RequestsTotal.WithLabelValues(StatusFailed).Inc()
	m.InferenceLatencySeconds.Observe(0.2)
	m.FallbacksTotal.WithLabelValues("transport_error").Inc()
	m.DetectionsTotal.WithLabelValues("Dent").Inc()
	m.PredictionsDroppedTotal.Add(2)
	m.ActiveAnalyses.Inc()
	m.ActiveAnalyses.Dec()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(StatusDetected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("transport_error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PredictionsDroppedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveAnalyses))
}
