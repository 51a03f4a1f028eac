package search

import (
	"context"
	"time"
)

// Renderer submits a URL to the anti-bot rendering proxy and returns the
// rendered HTML. maxTimeout is the ceiling passed to the proxy; the renderer
// must not retry internally.
type Renderer interface {
	Render(ctx context.Context, url string, maxTimeout time.Duration) (string, error)
}

// FilterExtractor derives structured search intent from the recent
// conversation turns. A failure carries a user-facing message and terminates
// the pipeline before any URL is built.
type FilterExtractor interface {
	ExtractFilters(ctx context.Context, messages []Message) (Filter, error)
}

// RecommendationStream is a finite, non-restartable sequence of text
// fragments. Empty fragments are valid no-op events the consumer must filter.
type RecommendationStream interface {
	Next() bool
	Token() string
	Err() error
}

// Recommender produces a streamed natural-language recommendation for the
// enriched listings.
type Recommender interface {
	Recommend(ctx context.Context, listings []ListingSummary, query string) (RecommendationStream, error)
}
