// Package pipeline drives one search request end to end: filter extraction,
// search scrape, concurrent enrichment, and the streamed recommendation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/llm"
	"github.com/tkohara/mercari-search-agent/internal/metrics"
	"github.com/tkohara/mercari-search-agent/internal/scrape"
	"github.com/tkohara/mercari-search-agent/internal/search"
)

const searchFailureMessage = "Sorry, we couldn't reach the marketplace to search for products. Please try again."

// Enricher merges detail-page data into the listings.
type Enricher interface {
	Enrich(ctx context.Context, listings []search.ListingSummary) []search.ListingSummary
}

// Config bounds the pipeline stages.
type Config struct {
	// MaxItems caps how many listings are taken from the results page.
	MaxItems int
	// HistoryLimit caps how many trailing conversation turns feed the
	// recommendation query.
	HistoryLimit int
	// SearchTimeout is the render ceiling for the search-results page.
	SearchTimeout time.Duration
}

// Pipeline sequences the stages for one request. It owns the listing
// collection for the duration of the run; nothing is shared across requests.
type Pipeline struct {
	extractor   search.FilterExtractor
	renderer    search.Renderer
	enricher    Enricher
	recommender search.Recommender
	cfg         Config
	logger      *zap.Logger
}

// New constructs a Pipeline.
func New(
	extractor search.FilterExtractor,
	renderer search.Renderer,
	enricher Enricher,
	recommender search.Recommender,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor:   extractor,
		renderer:    renderer,
		enricher:    enricher,
		recommender: recommender,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run executes the pipeline for one conversation, emitting progress blocks
// between stages and recommendation tokens at the end. The returned error is
// for the caller's logs; every failure the user should see has already been
// emitted as a block when Run returns.
func (p *Pipeline) Run(ctx context.Context, messages []search.Message, emit Emitter) error {
	outcome, err := p.run(ctx, messages, emit)
	metrics.ObservePipelineRun(outcome)
	return err
}

func (p *Pipeline) run(ctx context.Context, messages []search.Message, emit Emitter) (string, error) {
	if err := emit(Block{
		BlockType: BlockStatusUpdate,
		Status:    StatusGeneric,
		Message:   "Analysing user query, extracting search keywords and filters.",
	}); err != nil {
		return "aborted", err
	}

	filter, err := p.extractor.ExtractFilters(ctx, messages)
	if err != nil {
		return "extraction_error", p.emitFailure(emit, err)
	}

	if err := emit(Block{
		BlockType: BlockStatusUpdate,
		Status:    StatusFiltersDone,
		Message:   "Has identified & prepared the following filters based on user query.",
		Filters:   &filter,
	}); err != nil {
		return "aborted", err
	}

	searchURL := search.BuildSearchURL(filter)
	if err := emit(Block{
		BlockType: BlockStatusUpdate,
		Status:    StatusScraping,
		Message:   "Searching relevant products",
		URL:       searchURL,
	}); err != nil {
		return "aborted", err
	}

	listings, err := p.searchListings(ctx, searchURL)
	if err != nil {
		return "search_error", p.emitFailure(emit, err)
	}
	metrics.AddListingsScraped(len(listings))

	if err := emit(Block{
		BlockType: BlockStatusUpdate,
		Status:    StatusProductsScraped,
		Message:   fmt.Sprintf("Got %d products from Mercari. Fetching product details & seller ratings.", len(listings)),
		Products:  listings,
	}); err != nil {
		return "aborted", err
	}

	listings = p.enricher.Enrich(ctx, listings)

	if err := emit(Block{
		BlockType: BlockStatusUpdate,
		Status:    StatusGeneric,
		Message:   "Fetched product details & seller ratings. Analysing products for recommendation.",
	}); err != nil {
		return "aborted", err
	}

	if err := p.streamRecommendation(ctx, listings, messages, emit); err != nil {
		return "recommendation_error", err
	}
	return "success", nil
}

// searchListings renders the results page and extracts listings. A render
// failure here is fatal to the request; there is nothing to enrich.
func (p *Pipeline) searchListings(ctx context.Context, searchURL string) ([]search.ListingSummary, error) {
	html, err := p.renderer.Render(ctx, searchURL, p.cfg.SearchTimeout)
	if err != nil {
		return nil, fmt.Errorf("search results fetch: %w", err)
	}
	listings, err := scrape.Listings(html, p.cfg.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("search results parse: %w", err)
	}
	p.logger.Info("listings scraped", zap.Int("count", len(listings)))
	return listings, nil
}

func (p *Pipeline) streamRecommendation(
	ctx context.Context,
	listings []search.ListingSummary,
	messages []search.Message,
	emit Emitter,
) error {
	query := formatRecommendationQuery(messages, p.cfg.HistoryLimit)

	stream, err := p.recommender.Recommend(ctx, listings, query)
	if err != nil {
		return p.emitFailure(emit, fmt.Errorf("open recommendation stream: %w", err))
	}

	for stream.Next() {
		token := stream.Token()
		if token == "" {
			continue
		}
		if err := emit(Block{BlockType: BlockCompletionResponse, Content: token}); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return p.emitFailure(emit, fmt.Errorf("recommendation stream: %w", err))
	}
	return nil
}

// emitFailure sends the user-visible error block and hands the underlying
// error back for logging. Extraction errors carry their own user message;
// everything else gets the generic search failure text.
func (p *Pipeline) emitFailure(emit Emitter, err error) error {
	message := searchFailureMessage
	var extractionErr *llm.ExtractionError
	if errors.As(err, &extractionErr) {
		message = extractionErr.UserMessage
	}
	if emitErr := emit(Block{
		BlockType: BlockStatusUpdate,
		Status:    StatusError,
		Message:   message,
	}); emitErr != nil {
		return emitErr
	}
	return err
}

// formatRecommendationQuery flattens the trailing conversation turns into the
// user-intent string handed to the recommender.
func formatRecommendationQuery(messages []search.Message, limit int) string {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, msg.Role+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
