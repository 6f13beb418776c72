// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus counters for extraction runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

const namespace = "keyword_dataset"

// ExtractionMetrics records per-paper outcomes and per-batch progress on a
// private registry. A nil *ExtractionMetrics records nothing.
type ExtractionMetrics struct {
	registry *prometheus.Registry

	outcomesTotal  *prometheus.CounterVec
	paperDuration  *prometheus.HistogramVec
	papersInFlight prometheus.Gauge
	batchesTotal   *prometheus.CounterVec
}

// New registers the extraction collectors.
func New() *ExtractionMetrics {
	registry := prometheus.NewRegistry()

	outcomesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "outcomes_total",
			Help:      "Processed papers by status code.",
		},
		[]string{"kind"},
	)
	paperDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "paper_duration_seconds",
			Help:      "Time to fetch and extract one paper, by status code.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)
	papersInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "papers_in_flight",
			Help:      "Papers currently being fetched or extracted.",
		},
	)
	batchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "batches_total",
			Help:      "Persisted batches by run mode.",
		},
		[]string{"mode"},
	)

	registry.MustRegister(outcomesTotal, paperDuration, papersInFlight, batchesTotal)

	return &ExtractionMetrics{
		registry:       registry,
		outcomesTotal:  outcomesTotal,
		paperDuration:  paperDuration,
		papersInFlight: papersInFlight,
		batchesTotal:   batchesTotal,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *ExtractionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ExtractionMetrics) StartPaper() {
	if m == nil {
		return
	}
	m.papersInFlight.Inc()
}

func (m *ExtractionMetrics) FinishPaper(kind types.ErrorKind, duration time.Duration) {
	if m == nil {
		return
	}
	m.papersInFlight.Dec()
	m.outcomesTotal.WithLabelValues(string(kind)).Inc()
	m.paperDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

func (m *ExtractionMetrics) ObserveBatch(mode string) {
	if m == nil {
		return
	}
	m.batchesTotal.WithLabelValues(mode).Inc()
}
