// Package render wraps the FlareSolverr rendering proxy used to fetch pages
// behind bot mitigation.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/metrics"
)

// Error reports a failed render: the proxy was unreachable, answered with a
// non-success status, or timed out.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("render %s: proxy returned status %d", e.URL, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config controls the proxy client.
type Config struct {
	// Endpoint is the FlareSolverr URL, e.g. http://localhost:8191/v1.
	Endpoint string
}

// Client submits render requests to the proxy. Retry policy belongs to the
// caller; Render never retries internally.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// renderRequest is the proxy's command envelope. MaxTimeout is milliseconds.
type renderRequest struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url"`
	MaxTimeout int64  `json:"maxTimeout"`
}

type renderResponse struct {
	Solution struct {
		Response string `json:"response"`
	} `json:"solution"`
}

// headroom covers proxy-side queuing on top of the render timeout itself.
const headroom = 10 * time.Second

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Transport: newHTTPTransport(),
		},
		logger: logger,
	}
}

// Render asks the proxy to execute a browser-level render of the URL and
// returns the resulting HTML. maxTimeout is the ceiling the proxy may spend
// solving the page.
func (c *Client) Render(ctx context.Context, targetURL string, maxTimeout time.Duration) (string, error) {
	start := time.Now()
	html, err := c.render(ctx, targetURL, maxTimeout)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveRender(outcome, time.Since(start))
	return html, err
}

func (c *Client) render(ctx context.Context, targetURL string, maxTimeout time.Duration) (string, error) {
	body, err := json.Marshal(renderRequest{
		Cmd:        "request.get",
		URL:        targetURL,
		MaxTimeout: maxTimeout.Milliseconds(),
	})
	if err != nil {
		return "", &Error{URL: targetURL, Err: fmt.Errorf("encode request: %w", err)}
	}

	reqCtx, cancel := context.WithTimeout(ctx, maxTimeout+headroom)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &Error{URL: targetURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: targetURL, Err: fmt.Errorf("proxy request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("close proxy response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: targetURL, StatusCode: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: targetURL, Err: fmt.Errorf("read proxy response: %w", err)}
	}

	var envelope renderResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", &Error{URL: targetURL, Err: fmt.Errorf("decode proxy envelope: %w", err)}
	}

	c.logger.Debug("page rendered",
		zap.String("url", targetURL),
		zap.Int("bytes", len(envelope.Solution.Response)),
	)
	return envelope.Solution.Response, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
