// Package analyze turns free text into a scene graph by calling an
// OpenAI-compatible chat-completions API. The rendering engine treats this
// package as a black box: it hands over a prompt and receives a validated
// *scene.Scene or a coded error.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/httputil"
	"github.com/mhaertel/inkboard/pkg/observability"
	"github.com/mhaertel/inkboard/pkg/scene"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint. Any compatible server
	// (Azure, Ollama, vLLM) works via WithBaseURL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel balances speed and structure-following for scene JSON.
	DefaultModel = "gpt-4o-mini"

	defaultTimeout    = 90 * time.Second
	defaultRetryDelay = time.Second
	temperature       = 0.2
)

// Client calls a chat-completions endpoint to produce scenes.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	http       *http.Client
	logger     *log.Logger
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different OpenAI-compatible server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithModel selects the model name sent with each request.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryDelay overrides the initial backoff delay between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

// New creates a client. An empty API key is allowed here; Analyze reports
// a coded error when called without one.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      DefaultModel,
		http:       &http.Client{Timeout: defaultTimeout},
		logger:     log.New(io.Discard),
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name. Cache keys include it.
func (c *Client) Model() string { return c.model }

// Analyze produces a validated scene from free text. A non-empty hint
// forces the scene type; otherwise the model picks one. Malformed model
// output gets one repair round-trip before failing.
func (c *Client) Analyze(ctx context.Context, prompt string, hint scene.Type) (*scene.Scene, error) {
	if c.apiKey == "" {
		return nil, errors.New(errors.ErrCodeAnalyzeNoAPIKey,
			"no API key configured (set INKBOARD_API_KEY or api_key in the config file)")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "prompt is empty")
	}

	start := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, c.model, len(prompt))

	s, err := c.analyze(ctx, prompt, hint)

	nodes := 0
	if s != nil {
		nodes = len(s.Nodes)
	}
	observability.Pipeline().OnAnalyzeComplete(ctx, c.model, nodes, time.Since(start), err)
	return s, err
}

func (c *Client) analyze(ctx context.Context, prompt string, hint scene.Type) (*scene.Scene, error) {
	raw, err := c.complete(ctx, systemPrompt(hint), prompt)
	if err != nil {
		return nil, err
	}

	s, parseErr := parseScene(raw)
	if parseErr == nil {
		c.logger.Debug("scene analyzed", "type", s.Type, "nodes", len(s.Nodes))
		return s, nil
	}

	// One repair attempt: feed the broken output and the parse error back.
	c.logger.Debug("scene parse failed, attempting repair", "error", parseErr)
	repaired, err := c.complete(ctx, repairSystemPrompt, repairUserPrompt(raw, parseErr))
	if err != nil {
		return nil, err
	}
	s, parseErr = parseScene(repaired)
	if parseErr != nil {
		return nil, errors.Wrap(errors.ErrCodeAnalyzeBadJSON, parseErr,
			"model returned unusable scene JSON after repair attempt")
	}
	c.logger.Debug("scene repaired", "type", s.Type, "nodes", len(s.Nodes))
	return s, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete performs one chat round-trip and returns the assistant content.
// Transient failures (network, 5xx, 429) are retried with backoff.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding chat request")
	}

	endpoint := c.baseURL + "/chat/completions"
	host, path := splitEndpoint(endpoint)

	var content string
	err = httputil.Retry(ctx, 3, c.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "building chat request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		observability.HTTP().OnRequest(ctx, http.MethodPost, host, path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodPost, host, path, err)
			return &httputil.RetryableError{
				Err: errors.Wrap(errors.ErrCodeNetwork, err, "calling %s", endpoint),
			}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{
				Err: errors.Wrap(errors.ErrCodeNetwork, err, "reading response"),
			}
		}

		if err := checkStatus(resp.StatusCode, data); err != nil {
			return err
		}

		var parsed chatResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return errors.Wrap(errors.ErrCodeAnalyzeFailed, err, "decoding chat response")
		}
		if len(parsed.Choices) == 0 {
			return errors.New(errors.ErrCodeAnalyzeFailed, "chat response has no choices")
		}
		content = parsed.Choices[0].Message.Content
		return nil
	})
	return content, err
}

func checkStatus(code int, body []byte) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "API rejected credentials (status %d)", code)
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeRateLimited, "rate limited by API"),
		}
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "API server error (status %d)", code),
		}
	default:
		return errors.New(errors.ErrCodeAnalyzeFailed, "unexpected API status %d: %s", code, truncate(string(body), 200))
	}
}

// parseScene extracts JSON from the model output and validates it.
func parseScene(raw string) (*scene.Scene, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object found in model output")
	}
	s, err := scene.Unmarshal([]byte(payload))
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// extractJSON pulls the JSON object out of model output that may wrap it in
// markdown fences or prose. Returns "" when no object is present.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = rest[:j]
		} else {
			s = rest
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func splitEndpoint(endpoint string) (host, path string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint, ""
	}
	return u.Host, u.Path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
