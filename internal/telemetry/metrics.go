// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "louvain"

// EngineMetrics holds the Prometheus collectors the engine updates as it
// runs: how many moves were accepted/rejected per sub-round, how long
// each level took, and the current modularity of the working
// clustering. Initialize once via NewEngineMetrics and share the result
// across the run.
type EngineMetrics struct {
	MovesAccepted   *prometheus.CounterVec
	MovesRejected   *prometheus.CounterVec
	LevelDuration   prometheus.Histogram
	IterationsTotal prometheus.Counter
	Modularity      prometheus.Gauge
	ClustersFound   prometheus.Gauge
}

// NewEngineMetrics registers the engine's collectors against reg (pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer for the process-wide one).
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		MovesAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "moves_accepted_total",
			Help:      "Vertex moves accepted during local moving, by color class.",
		}, []string{"color"}),
		MovesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "moves_rejected_total",
			Help:      "Vertex moves considered but not accepted, by color class.",
		}, []string{"color"}),
		LevelDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "level_duration_seconds",
			Help:      "Wall-clock time spent on one hierarchy level.",
			Buckets:   prometheus.DefBuckets,
		}),
		IterationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "iterations_total",
			Help:      "Total local-moving iterations run across all levels.",
		}),
		Modularity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "modularity",
			Help:      "Modularity of the current working clustering.",
		}),
		ClustersFound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "clusters",
			Help:      "Distinct cluster count of the current working clustering.",
		}),
	}
}

// Handler returns the HTTP handler for the process-wide default
// Prometheus registry. cmd/louvainctl does not use it: it serves its own
// registry at --metrics-addr through promhttp.HandlerFor.
func Handler() http.Handler { return promhttp.Handler() }
