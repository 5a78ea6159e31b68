package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tournament_brackets"

// BracketMetrics records bracket construction and play.
type BracketMetrics interface {
	RecordBracketBuilt(bracketType string, matches, elided int, duration time.Duration)
	RecordBracketBuildError(bracketType string)
	RecordMatchResolved(side string)
	RecordTournamentCompleted(bracketType string)
}

type prometheusMetrics struct {
	bracketsBuilt        *prometheus.CounterVec
	buildErrors          *prometheus.CounterVec
	buildDuration        *prometheus.HistogramVec
	matchesPerBracket    prometheus.Histogram
	matchesElided        prometheus.Counter
	matchesResolved      *prometheus.CounterVec
	tournamentsCompleted *prometheus.CounterVec
}

// NewPrometheusMetrics registers the bracket collectors on registry.
func NewPrometheusMetrics(registry prometheus.Registerer) BracketMetrics {
	m := &prometheusMetrics{
		bracketsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_built_total",
			Help:      "Number of brackets assembled.",
		}, []string{"bracket_type"}),
		buildErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bracket_build_errors_total",
			Help:      "Number of rejected bracket configurations.",
		}, []string{"bracket_type"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bracket_build_duration_seconds",
			Help:      "Time spent assembling a bracket.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"bracket_type"}),
		matchesPerBracket: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bracket_matches",
			Help:      "Matches exposed per assembled bracket.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		matchesElided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bracket_matches_elided_total",
			Help:      "Bye-through matches removed during assembly.",
		}),
		matchesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_resolved_total",
			Help:      "Match outcomes applied, by bracket side.",
		}, []string{"side"}),
		tournamentsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_completed_total",
			Help:      "Tournaments whose grand finals were resolved.",
		}, []string{"bracket_type"}),
	}

	registry.MustRegister(
		m.bracketsBuilt,
		m.buildErrors,
		m.buildDuration,
		m.matchesPerBracket,
		m.matchesElided,
		m.matchesResolved,
		m.tournamentsCompleted,
	)
	return m
}

func (m *prometheusMetrics) RecordBracketBuilt(bracketType string, matches, elided int, duration time.Duration) {
	m.bracketsBuilt.WithLabelValues(bracketType).Inc()
	m.buildDuration.WithLabelValues(bracketType).Observe(duration.Seconds())
	m.matchesPerBracket.Observe(float64(matches))
	m.matchesElided.Add(float64(elided))
}

func (m *prometheusMetrics) RecordBracketBuildError(bracketType string) {
	m.buildErrors.WithLabelValues(bracketType).Inc()
}

func (m *prometheusMetrics) RecordMatchResolved(side string) {
	m.matchesResolved.WithLabelValues(side).Inc()
}

func (m *prometheusMetrics) RecordTournamentCompleted(bracketType string) {
	m.tournamentsCompleted.WithLabelValues(bracketType).Inc()
}

// NewRegistry returns a registry with the Go runtime and process collectors attached.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// Handler serves the metrics of registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// NoOpMetrics discards every observation.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordBracketBuilt(string, int, int, time.Duration) {}
func (NoOpMetrics) RecordBracketBuildError(string)                     {}
func (NoOpMetrics) RecordMatchResolved(string)                         {}
func (NoOpMetrics) RecordTournamentCompleted(string)                   {}
