package pipeline

import "github.com/tkohara/mercari-search-agent/internal/search"

// Block discriminators consumed by the frontend.
const (
	BlockStatusUpdate       = "status_update"
	BlockCompletionResponse = "completion_response"
)

// Status values carried by status_update blocks.
const (
	StatusGeneric         = "generic"
	StatusFiltersDone     = "filters_extraction_done"
	StatusScraping        = "scraping_products"
	StatusProductsScraped = "products_scraped"
	StatusError           = "error"
)

// Block is one newline-delimited JSON object of the progress protocol. The
// downstream client is TypeScript, so keys are camelCase; this naming is a
// compatibility contract and must not change.
type Block struct {
	BlockType string                  `json:"blockType"`
	Status    string                  `json:"status,omitempty"`
	Message   string                  `json:"message,omitempty"`
	Filters   *search.Filter          `json:"filters,omitempty"`
	URL       string                  `json:"url,omitempty"`
	Products  []search.ListingSummary `json:"products,omitempty"`
	Content   string                  `json:"content,omitempty"`
}

// Emitter forwards one block to the caller. A non-nil error aborts the run,
// typically because the client went away.
type Emitter func(Block) error
