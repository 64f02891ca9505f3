// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

import (
	"net/http"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// durationBuckets is the histogram schema for finsight's latency
// series. Agent runs against a local model take tens of seconds to a
// few minutes (a thinking call plus a final call), so the upper
// buckets run far past Prometheus's default 10s ceiling.
var durationBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// PrometheusCollector implements Collector on a private Prometheus
// registry. Series register lazily on first emit: AgentMetrics,
// LLMMetrics, and the orchestrator's cache counters each write a
// fixed set of finsight_-prefixed names, so the registry fills out
// within the first insights run. Label-name sets are sorted before
// registration so a series' schema never depends on map iteration
// order.
type PrometheusCollector struct {
	mu         sync.Mutex
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	summaries  map[string]*prometheus.SummaryVec
}

// NewPrometheusCollector creates an empty collector with its own
// registry, so two collectors in one process (one per test, say)
// never collide on series registration.
func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		summaries:  make(map[string]*prometheus.SummaryVec),
	}
}

// IncrementCounter increments a counter series by 1.
func (p *PrometheusCollector) IncrementCounter(name string, labels map[string]string) {
	p.AddCounter(name, 1, labels)
}

// AddCounter adds value to a counter series.
func (p *PrometheusCollector) AddCounter(name string, value float64, labels map[string]string) {
	p.counter(name, labels).With(prometheus.Labels(labels)).Add(value)
}

// SetGauge sets a gauge series to value.
func (p *PrometheusCollector) SetGauge(name string, value float64, labels map[string]string) {
	p.gauge(name, labels).With(prometheus.Labels(labels)).Set(value)
}

// ObserveHistogram records value into a histogram series.
func (p *PrometheusCollector) ObserveHistogram(name string, value float64, labels map[string]string) {
	p.histogram(name, labels).With(prometheus.Labels(labels)).Observe(value)
}

// ObserveSummary records value into a summary series.
func (p *PrometheusCollector) ObserveSummary(name string, value float64, labels map[string]string) {
	p.summary(name, labels).With(prometheus.Labels(labels)).Observe(value)
}

// Handler exposes the registry in Prometheus text format, for
// whatever external transport chooses to mount it.
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// counter returns the vec for name, registering it on first use with
// the label schema derived from this first emit.
func (p *PrometheusCollector) counter(name string, labels map[string]string) *prometheus.CounterVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.counters[name]; ok {
		return vec
	}
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: name, Help: "finsight counter " + name},
		labelSchema(labels),
	)
	p.registry.MustRegister(vec)
	p.counters[name] = vec
	return vec
}

func (p *PrometheusCollector) gauge(name string, labels map[string]string) *prometheus.GaugeVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.gauges[name]; ok {
		return vec
	}
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: name, Help: "finsight gauge " + name},
		labelSchema(labels),
	)
	p.registry.MustRegister(vec)
	p.gauges[name] = vec
	return vec
}

func (p *PrometheusCollector) histogram(name string, labels map[string]string) *prometheus.HistogramVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.histograms[name]; ok {
		return vec
	}
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    "finsight histogram " + name,
			Buckets: durationBuckets,
		},
		labelSchema(labels),
	)
	p.registry.MustRegister(vec)
	p.histograms[name] = vec
	return vec
}

func (p *PrometheusCollector) summary(name string, labels map[string]string) *prometheus.SummaryVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.summaries[name]; ok {
		return vec
	}
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       name,
			Help:       "finsight summary " + name,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		labelSchema(labels),
	)
	p.registry.MustRegister(vec)
	p.summaries[name] = vec
	return vec
}

// labelSchema extracts a series' label names in sorted order, so the
// registered schema is the same no matter which call happened to
// create the series.
func labelSchema(labels map[string]string) []string {
	if len(labels) == 0 {
		return []string{}
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
