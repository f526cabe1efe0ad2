// Package metrics exposes Prometheus collectors for pipeline runs, search
// attempts and topic normalization. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry         *prometheus.Registry
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	searchAttempts   *prometheus.CounterVec
	normalizations   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorgen_pipeline_runs_total",
			Help: "Tutorial pipeline runs by status.",
		}, []string{"status"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tutorgen_pipeline_duration_seconds",
			Help:    "Wall time of a full research, write and review run.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		searchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorgen_search_attempts_total",
			Help: "Search calls by outcome (ok, empty, error).",
		}, []string{"outcome"}),
		normalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorgen_topic_normalizations_total",
			Help: "Topic normalizations by path (default, clear, llm, llm_error).",
		}, []string{"path"}),
	}
	m.registry.MustRegister(
		m.pipelineRuns,
		m.pipelineDuration,
		m.searchAttempts,
		m.normalizations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObservePipeline(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(status).Inc()
	m.pipelineDuration.Observe(d.Seconds())
}

func (m *Metrics) SearchAttempt(outcome string) {
	if m == nil {
		return
	}
	m.searchAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Normalization(path string) {
	if m == nil {
		return
	}
	m.normalizations.WithLabelValues(path).Inc()
}
