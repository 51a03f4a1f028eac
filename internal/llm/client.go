// Package llm implements the text-generation collaborators: conversational
// filter extraction and streamed product recommendation. Both are opaque
// single calls behind the search package interfaces, so a different backend
// can be swapped in without touching the pipeline.
package llm

import (
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

// ExtractionError means the model could not produce a valid filter. The
// UserMessage is safe to surface verbatim; the pipeline stops on it.
type ExtractionError struct {
	UserMessage string
	Err         error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("filter extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

const extractionFailureMessage = "Sorry, we couldn't extract the relevant filters from your query. Please try again."

// Config controls the OpenAI-backed client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client talks to the chat-completions API. It implements both
// search.FilterExtractor and search.Recommender.
type Client struct {
	api    openai.Client
	model  openai.ChatModel
	logger *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:    openai.NewClient(opts...),
		model:  openai.ChatModel(cfg.Model),
		logger: logger,
	}
}

// toChatMessages converts conversation turns to API message params. Turns
// with unknown roles are dropped.
func toChatMessages(messages []search.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case search.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case search.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		}
	}
	return out
}
