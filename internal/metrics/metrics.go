// Package metrics exposes Prometheus collectors for the search agent.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rendersTotal               *prometheus.CounterVec
	renderDurationSeconds      *prometheus.HistogramVec
	listingsScrapedTotal       prometheus.Counter
	enrichmentFailuresTotal    prometheus.Counter
	pipelineRunsTotal          *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		rendersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_renders_total",
				Help: "Total render requests sent to the proxy, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		renderDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agent_render_duration_seconds",
				Help:    "Histogram of render latencies, labeled by outcome.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"outcome"},
		)

		listingsScrapedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "agent_listings_scraped_total",
				Help: "Total listings extracted from search-results pages.",
			},
		)

		enrichmentFailuresTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "agent_enrichment_failures_total",
				Help: "Total listings returned unenriched after a detail fetch or parse failure.",
			},
		)

		pipelineRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_pipeline_runs_total",
				Help: "Total pipeline runs, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRender records one proxy render attempt.
func ObserveRender(outcome string, duration time.Duration) {
	if rendersTotal == nil {
		return
	}
	rendersTotal.WithLabelValues(outcome).Inc()
	renderDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// AddListingsScraped counts listings extracted from a results page.
func AddListingsScraped(n int) {
	if listingsScrapedTotal == nil || n <= 0 {
		return
	}
	listingsScrapedTotal.Add(float64(n))
}

// IncEnrichmentFailure counts one listing left unenriched.
func IncEnrichmentFailure() {
	if enrichmentFailuresTotal == nil {
		return
	}
	enrichmentFailuresTotal.Inc()
}

// ObservePipelineRun increments the run counter for the given outcome.
func ObservePipelineRun(outcome string) {
	if pipelineRunsTotal == nil {
		return
	}
	pipelineRunsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
