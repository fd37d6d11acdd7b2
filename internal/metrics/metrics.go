package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "ladder"

type Metrics struct {
	Registry *prometheus.Registry

	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageAffected *prometheus.CounterVec
	pipelineRuns  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: registry,
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "Batch stage executions by outcome.",
		}, []string{"pipeline", "stage", "status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Batch stage wall time.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"pipeline", "stage"}),
		stageAffected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_affected_total",
			Help:      "Rows or members touched by batch stages, by count name.",
		}, []string{"pipeline", "stage", "count"}),
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline invocations by outcome.",
		}, []string{"pipeline", "status"}),
	}
	registry.MustRegister(m.stageRuns, m.stageDuration, m.stageAffected, m.pipelineRuns)
	return m
}

func (m *Metrics) ObserveStage(pipeline, stage, status string, took time.Duration, counts map[string]int) {
	if m == nil {
		return
	}
	m.stageRuns.WithLabelValues(pipeline, stage, status).Inc()
	m.stageDuration.WithLabelValues(pipeline, stage).Observe(took.Seconds())
	for name, n := range counts {
		m.stageAffected.WithLabelValues(pipeline, stage, name).Add(float64(n))
	}
}

func (m *Metrics) ObservePipeline(pipeline, status string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(pipeline, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

var Module = fx.Provide(New)
