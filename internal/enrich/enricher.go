// Package enrich merges detail-page attributes into listing summaries.
package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/metrics"
	"github.com/tkohara/mercari-search-agent/internal/scrape"
	"github.com/tkohara/mercari-search-agent/internal/search"
)

// Enricher fetches and parses every listing's detail page concurrently.
//
// Batches are bounded upstream, so the fan-out runs one task per listing with
// no extra limiter; the proxy enforces its own queuing. Each task owns one
// result slot keyed by the listing's input index, so output order always
// matches input order and no locking is needed.
type Enricher struct {
	renderer      search.Renderer
	detailTimeout time.Duration
	logger        *zap.Logger
}

// New constructs an Enricher. detailTimeout is the per-listing render ceiling.
func New(renderer search.Renderer, detailTimeout time.Duration, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		renderer:      renderer,
		detailTimeout: detailTimeout,
		logger:        logger,
	}
}

// Enrich returns a sequence of the same length and order as the input. A
// listing whose detail fetch or parse fails is returned unchanged; partial
// enrichment is a steady state, not an error, so Enrich never fails as a
// whole. It blocks until every task has finished.
func (e *Enricher) Enrich(ctx context.Context, listings []search.ListingSummary) []search.ListingSummary {
	results := make([]search.ListingSummary, len(listings))

	var wg sync.WaitGroup
	for i, listing := range listings {
		wg.Add(1)
		go func(slot int, listing search.ListingSummary) {
			defer wg.Done()
			results[slot] = e.enrichOne(ctx, listing)
		}(i, listing)
	}
	wg.Wait()

	return results
}

func (e *Enricher) enrichOne(ctx context.Context, listing search.ListingSummary) search.ListingSummary {
	e.logger.Debug("retrieving listing details", zap.String("url", listing.DetailURL))

	html, err := e.renderer.Render(ctx, listing.DetailURL, e.detailTimeout)
	if err != nil {
		e.logger.Warn("detail fetch failed, keeping bare listing",
			zap.String("product_id", listing.ID),
			zap.Error(err),
		)
		metrics.IncEnrichmentFailure()
		return listing
	}

	return listing.WithDetails(scrape.Details(html))
}
