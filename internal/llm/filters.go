package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

// ExtractFilters derives a search.Filter from the conversation. The model
// sees the full history, so follow-up turns refine earlier filters. A
// response that does not parse as filter JSON returns an *ExtractionError.
func (c *Client) ExtractFilters(ctx context.Context, messages []search.Message) (search.Filter, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: append(
			[]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(extractFiltersPrompt)},
			toChatMessages(messages)...,
		),
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return search.Filter{}, &ExtractionError{UserMessage: extractionFailureMessage, Err: err}
	}
	if len(resp.Choices) == 0 {
		return search.Filter{}, &ExtractionError{
			UserMessage: extractionFailureMessage,
			Err:         errors.New("completion returned no choices"),
		}
	}

	filter, err := parseFilterResponse(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("filter response did not parse", zap.Error(err))
		return search.Filter{}, &ExtractionError{UserMessage: extractionFailureMessage, Err: err}
	}

	c.logger.Debug("filters extracted",
		zap.String("keyword", filter.SearchKeyword),
		zap.String("origin", string(filter.ItemOrigin)),
	)
	return filter, nil
}

// parseFilterResponse strips the markdown fencing some models wrap around
// JSON and decodes the filter. Origin and condition normalization happens in
// the search types; only malformed JSON fails here.
func parseFilterResponse(content string) (search.Filter, error) {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	var filter search.Filter
	if err := json.Unmarshal([]byte(content), &filter); err != nil {
		return search.Filter{}, err
	}
	return filter, nil
}
