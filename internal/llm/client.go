package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

const (
	defaultMaxAttempts = 3
	defaultRetryBase   = time.Second
	completionsPath    = "/chat/completions"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string // API root or full completions URL
	APIKey  string
	Model   string

	// MaxAttempts bounds calls per request, retrying rate-limit and
	// transient failures with exponential backoff from RetryBase.
	MaxAttempts int
	RetryBase   time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Generate implements persona.Backend.
func (c *Client) Generate(ctx context.Context, req persona.GenerateRequest) (string, error) {
	temp := req.Temperature
	return c.complete(ctx, chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "system", Content: req.System}, {Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: &temp,
	})
}

func (c *Client) complete(ctx context.Context, body chatRequest) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("%w: llm base URL and model required", internalerr.ErrInvalidConfig)
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	base := c.RetryBase
	if base <= 0 {
		base = defaultRetryBase
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		payload, wait, err := c.send(ctx, body)
		if err == nil {
			if len(payload.Choices) == 0 {
				return "", fmt.Errorf("%w: llm returned no choices", internalerr.ErrNoContent)
			}
			return payload.Choices[0].Message.Content, nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts-1 {
			break
		}
		if wait <= 0 {
			wait = base << attempt
		}
		c.logger().Warn("llm request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

// send performs one HTTP exchange. The returned duration is the server's
// Retry-After hint, if any.
func (c *Client) send(ctx context.Context, body chatRequest) (*chatResponse, time.Duration, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, fmt.Errorf("%w: %v", internalerr.ErrTransient, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", internalerr.ErrTransient, err)
	}

	var payload chatResponse
	decodeErr := json.Unmarshal(data, &payload)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if decodeErr == nil && payload.Error != nil {
			msg = payload.Error.Message
		}
		return nil, retryAfter(resp.Header), statusError(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, 0, fmt.Errorf("%w: decode response: %v", internalerr.ErrBadRequest, decodeErr)
	}
	if payload.Error != nil {
		return nil, 0, payload.Error.classify()
	}
	return &payload, 0, nil
}

func (c *Client) endpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if strings.HasSuffix(base, completionsPath) {
		return base
	}
	return base + completionsPath
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// statusError maps an HTTP status onto the internalerr sentinels.
func statusError(code int, msg string) error {
	var kind error
	switch {
	case code == http.StatusTooManyRequests:
		kind = internalerr.ErrRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = internalerr.ErrUnauthorized
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		kind = internalerr.ErrBadRequest
	case code >= 500:
		kind = internalerr.ErrTransient
	default:
		kind = internalerr.ErrBadRequest
	}
	return fmt.Errorf("%w: llm status %d: %s", kind, code, msg)
}

// classify maps an error body returned with a 200 status.
func (e *apiError) classify() error {
	code := fmt.Sprint(e.Code)
	switch {
	case e.Type == "insufficient_quota" || code == "insufficient_quota" || strings.Contains(e.Type, "rate_limit"):
		return fmt.Errorf("%w: %s", internalerr.ErrRateLimited, e.Message)
	case code == "invalid_api_key" || e.Type == "authentication_error":
		return fmt.Errorf("%w: %s", internalerr.ErrUnauthorized, e.Message)
	default:
		return fmt.Errorf("%w: llm error: %s", internalerr.ErrBadRequest, e.Message)
	}
}

func retryable(err error) bool {
	return errors.Is(err, internalerr.ErrRateLimited) || errors.Is(err, internalerr.ErrTransient)
}

func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
