package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/pipeline"
	"github.com/tkohara/mercari-search-agent/internal/search"
)

type searchCompletionRequest struct {
	Messages []search.Message `json:"messages"`
}

func (req searchCompletionRequest) validate() error {
	if len(req.Messages) == 0 {
		return errors.New("messages must not be empty")
	}
	for _, msg := range req.Messages {
		if msg.Role != search.RoleUser && msg.Role != search.RoleAssistant {
			return errors.New("message role must be user or assistant")
		}
		if msg.Content == "" {
			return errors.New("message content must not be empty")
		}
	}
	return nil
}

// generateSearchCompletion runs the pipeline and streams its blocks as
// newline-delimited JSON. The response status is committed before the
// pipeline starts, so failures after the first block surface as error blocks
// in the stream rather than an HTTP status.
func (s *Server) generateSearchCompletion(w http.ResponseWriter, r *http.Request) {
	var req searchCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(s.logger, w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	emit := func(block pipeline.Block) error {
		if err := encoder.Encode(block); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := s.runner.Run(r.Context(), req.Messages, emit); err != nil {
		// The user-facing error block is already in the stream.
		s.logger.Error("search completion failed",
			zap.Error(err),
			zap.String("request_id", requestIDFrom(r.Context())),
		)
	}
}
