package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Reset collectors for testing purposes.
	rendersTotal = nil
	renderDurationSeconds = nil
	listingsScrapedTotal = nil
	enrichmentFailuresTotal = nil
	pipelineRunsTotal = nil
	httpRequestsTotal = nil
	httpRequestDurationSeconds = nil

	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if rendersTotal == nil || renderDurationSeconds == nil ||
		listingsScrapedTotal == nil || enrichmentFailuresTotal == nil ||
		pipelineRunsTotal == nil || httpRequestsTotal == nil ||
		httpRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	ObserveRender("ok", 250*time.Millisecond)
	if val := testutil.ToFloat64(rendersTotal.WithLabelValues("ok")); val != 1 {
		t.Errorf("Expected rendersTotal{ok} to be 1, got %f", val)
	}

	AddListingsScraped(3)
	if val := testutil.ToFloat64(listingsScrapedTotal); val != 3 {
		t.Errorf("Expected listingsScrapedTotal to be 3, got %f", val)
	}

	IncEnrichmentFailure()
	if val := testutil.ToFloat64(enrichmentFailuresTotal); val != 1 {
		t.Errorf("Expected enrichmentFailuresTotal to be 1, got %f", val)
	}

	ObservePipelineRun("success")
	if val := testutil.ToFloat64(pipelineRunsTotal.WithLabelValues("success")); val != 1 {
		t.Errorf("Expected pipelineRunsTotal{success} to be 1, got %f", val)
	}

	ObserveHTTPRequest("GET", "/healthz", 200, 5*time.Millisecond)
	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "200")); val != 1 {
		t.Errorf("Expected httpRequestsTotal{GET,200} to be 1, got %f", val)
	}
	if val := testutil.CollectAndCount(httpRequestDurationSeconds); val <= 0 {
		t.Errorf("Expected httpRequestDurationSeconds to be observed, got %d", val)
	}
}

func TestObserversAreNoOpsBeforeInit(t *testing.T) {
	saved := rendersTotal
	rendersTotal = nil
	defer func() { rendersTotal = saved }()

	// Must not panic.
	ObserveRender("ok", time.Second)
}

func TestAddListingsScrapedIgnoresNonPositive(t *testing.T) {
	Init()

	before := testutil.ToFloat64(listingsScrapedTotal)
	AddListingsScraped(0)
	AddListingsScraped(-2)
	if after := testutil.ToFloat64(listingsScrapedTotal); after != before {
		t.Errorf("Expected listingsScrapedTotal unchanged, got %f -> %f", before, after)
	}
}
