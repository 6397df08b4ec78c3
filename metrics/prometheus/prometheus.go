// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package prometheus provides a Prometheus implementation of metrics.Metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pk910/go-introspect/metrics"
)

// Default histogram buckets for descriptor construction (in seconds).
var defaultBuckets = []float64{
	.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05,
}

type introspectMetrics struct {
	descriptorsBuilt   prometheus.Counter
	descriptorDuration prometheus.Histogram
	accessorsCreated   *prometheus.CounterVec
	generationFailures *prometheus.CounterVec
	paramNamesResolved *prometheus.CounterVec
}

// NewMetrics creates the Prometheus collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) metrics.Metrics {
	m := &introspectMetrics{
		descriptorsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "introspect_descriptors_built_total",
			Help: "Total number of type descriptors constructed",
		}),

		descriptorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "introspect_descriptor_build_duration_seconds",
			Help:    "Type descriptor construction latency in seconds",
			Buckets: defaultBuckets,
		}),

		accessorsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_accessors_created_total",
			Help: "Total number of accessors created",
		}, []string{"kind"}),

		generationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_generation_failures_total",
			Help: "Total number of accessor generations that fell back to reflection",
		}, []string{"reason"}),

		paramNamesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "introspect_param_names_resolved_total",
			Help: "Total number of parameter name recoveries",
		}, []string{"source"}),
	}

	reg.MustRegister(
		m.descriptorsBuilt,
		m.descriptorDuration,
		m.accessorsCreated,
		m.generationFailures,
		m.paramNamesResolved,
	)

	return m
}

func (m *introspectMetrics) DescriptorBuilt(_ string, duration time.Duration) {
	m.descriptorsBuilt.Inc()
	m.descriptorDuration.Observe(duration.Seconds())
}

func (m *introspectMetrics) AccessorCreated(_ string, kind string) {
	m.accessorsCreated.WithLabelValues(kind).Inc()
}

func (m *introspectMetrics) GenerationFailed(_ string, reason string) {
	m.generationFailures.WithLabelValues(reason).Inc()
}

func (m *introspectMetrics) ParamNamesResolved(_ string, source string) {
	m.paramNamesResolved.WithLabelValues(source).Inc()
}
