// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// scrape renders the collector's registry the way Prometheus would
// see it.
func scrape(t *testing.T, p *PrometheusCollector) string {
	t.Helper()

	server := httptest.NewServer(p.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	return string(body)
}

func TestPrometheusCollector_CounterAccumulates(t *testing.T) {
	p := NewPrometheusCollector()

	labels := Labels{"agent_category": "expense", "mode": "insights"}
	p.IncrementCounter("finsight_agent_requests_total", labels)
	p.IncrementCounter("finsight_agent_requests_total", labels)
	p.AddCounter("finsight_agent_requests_total", 3, labels)

	body := scrape(t, p)
	if !strings.Contains(body, `finsight_agent_requests_total{agent_category="expense",mode="insights"} 5`) {
		t.Fatalf("expected the counter at 5, got:\n%s", body)
	}
}

func TestPrometheusCollector_LabelOrderDoesNotSplitSeries(t *testing.T) {
	p := NewPrometheusCollector()

	// The same logical series emitted with labels built in different
	// orders must land on one schema, not panic or fork.
	p.IncrementCounter("finsight_cache_hit_total", Labels{"document_type": "transactions", "backend": "memory"})
	p.IncrementCounter("finsight_cache_hit_total", Labels{"backend": "memory", "document_type": "transactions"})

	body := scrape(t, p)
	if !strings.Contains(body, `finsight_cache_hit_total{backend="memory",document_type="transactions"} 2`) {
		t.Fatalf("expected a single series at 2, got:\n%s", body)
	}
}

func TestPrometheusCollector_GaugeHoldsLatestValue(t *testing.T) {
	p := NewPrometheusCollector()

	p.SetGauge("finsight_agent_active_goroutines", 12, nil)
	p.SetGauge("finsight_agent_active_goroutines", 6, nil)

	body := scrape(t, p)
	if !strings.Contains(body, "finsight_agent_active_goroutines 6") {
		t.Fatalf("expected the gauge at its latest value, got:\n%s", body)
	}
}

func TestPrometheusCollector_HistogramUsesMinuteScaleBuckets(t *testing.T) {
	p := NewPrometheusCollector()

	// A 45-second thinking call: far past Prometheus's default 10s
	// ceiling, inside this package's 60s bucket.
	p.ObserveHistogram("finsight_agent_duration_seconds", 45, Labels{"agent_category": "ratio"})

	body := scrape(t, p)
	if !strings.Contains(body, `le="60"`) {
		t.Fatalf("expected a 60s bucket in the schema, got:\n%s", body)
	}
	if !strings.Contains(body, `finsight_agent_duration_seconds_bucket{agent_category="ratio",le="60"} 1`) {
		t.Fatalf("expected the observation inside the 60s bucket, got:\n%s", body)
	}
	if !strings.Contains(body, `finsight_agent_duration_seconds_bucket{agent_category="ratio",le="30"} 0`) {
		t.Fatalf("expected the 30s bucket to be empty, got:\n%s", body)
	}
}

func TestPrometheusCollector_SummaryReportsQuantiles(t *testing.T) {
	p := NewPrometheusCollector()

	for i := 0; i < 10; i++ {
		p.ObserveSummary("finsight_llm_tokens_per_call", float64(100+i), Labels{"model": "reasoning-model"})
	}

	body := scrape(t, p)
	if !strings.Contains(body, "finsight_llm_tokens_per_call_count") {
		t.Fatalf("expected a summary count series, got:\n%s", body)
	}
	if !strings.Contains(body, `quantile="0.9"`) {
		t.Fatalf("expected the 0.9 quantile, got:\n%s", body)
	}
}

func TestPrometheusCollector_RegistriesAreIsolated(t *testing.T) {
	// Two collectors in one process must not collide on
	// registration - each test harness builds its own.
	a := NewPrometheusCollector()
	b := NewPrometheusCollector()

	a.IncrementCounter("finsight_llm_api_calls_total", Labels{"provider": "local"})
	b.IncrementCounter("finsight_llm_api_calls_total", Labels{"provider": "local"})

	if body := scrape(t, a); !strings.Contains(body, `finsight_llm_api_calls_total{provider="local"} 1`) {
		t.Fatalf("collector a should count only its own increments, got:\n%s", body)
	}
}

func TestPrometheusCollector_ConcurrentEmitsAreSafe(t *testing.T) {
	p := NewPrometheusCollector()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				p.IncrementCounter("finsight_agent_requests_total", Labels{"agent_category": "expense", "mode": "chat"})
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	body := scrape(t, p)
	if !strings.Contains(body, `finsight_agent_requests_total{agent_category="expense",mode="chat"} 800`) {
		t.Fatalf("expected 800 concurrent increments to all land, got:\n%s", body)
	}
}
