// Package observability exposes Prometheus metrics for the influence
// service. Metrics are registered once at init via promauto and served on
// the /metrics endpoint.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace   = "territory"
	influenceSubsystem = "influence"
	decaySubsystem     = "decay"
)

var (
	// MutationsTotal counts committed influence mutations by source.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: influenceSubsystem,
		Name:      "mutations_total",
		Help:      "Committed influence mutations by source.",
	}, []string{"source"})

	// MutationFailuresTotal counts rejected or failed mutations by error code.
	MutationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: influenceSubsystem,
		Name:      "mutation_failures_total",
		Help:      "Failed influence mutations by error code.",
	}, []string{"code"})

	// ControlTransitionsTotal counts control transitions by kind
	// (controller identity vs. level only).
	ControlTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: influenceSubsystem,
		Name:      "control_transitions_total",
		Help:      "Territory control transitions by kind.",
	}, []string{"kind"})

	// ApplyDurationSeconds measures end-to-end mutation latency. The
	// mutation path sits on gameplay-critical paths and is expected to
	// stay in single-digit milliseconds.
	ApplyDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: influenceSubsystem,
		Name:      "apply_duration_seconds",
		Help:      "Influence mutation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	// DecayTerritoriesTotal counts per-territory decay outcomes.
	DecayTerritoriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: decaySubsystem,
		Name:      "territories_total",
		Help:      "Per-territory decay outcomes (completed, skipped, failed).",
	}, []string{"outcome"})
)

// Transition kinds for ControlTransitionsTotal.
const (
	TransitionController = "controller"
	TransitionLevel      = "level"
)

// Decay outcomes for DecayTerritoriesTotal.
const (
	DecayCompleted = "completed"
	DecaySkipped   = "skipped"
	DecayFailed    = "failed"
)
