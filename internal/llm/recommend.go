package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/ssestream"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

// Recommend streams a markdown recommendation for the enriched listings. The
// returned stream is finite and not restartable; it may yield empty tokens,
// which the consumer filters.
func (c *Client) Recommend(
	ctx context.Context,
	listings []search.ListingSummary,
	query string,
) (search.RecommendationStream, error) {
	products, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize listings for prompt: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(recommendProductsPrompt, query, products)),
		},
	}

	return &tokenStream{stream: c.api.Chat.Completions.NewStreaming(ctx, params)}, nil
}

// tokenStream adapts the SSE chunk stream to search.RecommendationStream,
// flattening each chunk to its first choice's content delta.
type tokenStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
	token  string
}

func (s *tokenStream) Next() bool {
	if !s.stream.Next() {
		return false
	}
	chunk := s.stream.Current()
	s.token = ""
	if len(chunk.Choices) > 0 {
		s.token = chunk.Choices[0].Delta.Content
	}
	return true
}

func (s *tokenStream) Token() string {
	return s.token
}

func (s *tokenStream) Err() error {
	return s.stream.Err()
}
