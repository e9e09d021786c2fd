// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the damage
// inspector.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the detection
// pipeline. Metrics include:
//   - Request counters (by terminal status)
//   - Inference gateway latency histograms
//   - Fallback counters (by unavailability reason)
//   - Normalizer drop counters and per-type detection counters
//   - Active analysis gauge
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "trueautocheck"

// Subsystem for inspector metrics
const inspectorSubsystem = "inspector"

// Request status label values.
const (
	StatusDetected = "detected"
	StatusFallback = "fallback"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// InspectorMetrics holds all Prometheus metrics for the detection pipeline.
// Initialize once at startup via InitMetrics().
type InspectorMetrics struct {
	// RequestsTotal counts detect requests by terminal status.
	// Labels: status (detected, fallback, rejected, failed)
	RequestsTotal *prometheus.CounterVec

	// InferenceLatencySeconds measures the inference gateway round trip,
	// including the capacity wait.
	InferenceLatencySeconds prometheus.Histogram

	// FallbacksTotal counts degraded responses by unavailability reason.
	// Labels: reason (missing_credential, capacity, transport_error,
	// bad_status, malformed_body)
	FallbacksTotal *prometheus.CounterVec

	// DetectionsTotal counts normalized damages by coarse type.
	// Labels: type (Scratch, Dent)
	DetectionsTotal *prometheus.CounterVec

	// PredictionsDroppedTotal counts provider predictions discarded by the
	// normalizer for unmapped class labels.
	PredictionsDroppedTotal prometheus.Counter

	// ActiveAnalyses tracks detect requests currently in flight.
	ActiveAnalyses prometheus.Gauge
}

// DefaultMetrics is the singleton instance of InspectorMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *InspectorMetrics

// InitMetrics creates and registers all Prometheus metrics. Call once at
// application startup; calling twice panics on duplicate registration.
func InitMetrics() *InspectorMetrics {
	DefaultMetrics = &InspectorMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: inspectorSubsystem,
				Name:      "requests_total",
				Help:      "Total detect requests by terminal status",
			},
			[]string{"status"},
		),

		InferenceLatencySeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: inspectorSubsystem,
				Name:      "inference_latency_seconds",
				Help:      "Inference gateway round-trip latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
		),

		FallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: inspectorSubsystem,
				Name:      "fallbacks_total",
				Help:      "Total degraded responses by unavailability reason",
			},
			[]string{"reason"},
		),

		DetectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: inspectorSubsystem,
				Name:      "detections_total",
				Help:      "Total normalized damages by type",
			},
			[]string{"type"},
		),

		PredictionsDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: inspectorSubsystem,
				Name:      "predictions_dropped_total",
				Help:      "Total provider predictions dropped for unmapped class labels",
			},
		),

		ActiveAnalyses: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: inspectorSubsystem,
				Name:      "active_analyses",
				Help:      "Number of detect requests currently in flight",
			},
		),
	}

	return DefaultMetrics
}
